// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/stokyware/golem/internal/util"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrAuthFailed indicates the backend credential is invalid or expired.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates the backend refused the request for quota.
	ErrRateLimited = errors.New("rate limited")

	// ErrEmptyResponse indicates the backend answered without any text.
	ErrEmptyResponse = errors.New("empty response")
)

// BackendError represents a non-2xx response from the model backend.
type BackendError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *BackendError) Error() string {
	return fmt.Sprintf("backend error (HTTP %d): %s", e.Status, e.Message)
}

// IsServerFault reports whether the error is a 5xx backend fault, which is
// the one category that triggers the fallback attempt.
func IsServerFault(err error) bool {
	var be *BackendError
	return errors.As(err, &be) && be.Status >= 500
}

// =============================================================================
// GENERATOR INTERFACE
// =============================================================================

// Generator is the single backend abstraction: given formatted turns, a
// system instruction, and generation parameters, produce response text.
// Concrete implementations are the direct API client and the same-origin
// proxy client; the formatter and store never see which one is in use.
type Generator interface {
	Generate(ctx context.Context, turns []Turn, systemInstruction string, params Params) (string, error)
}

// =============================================================================
// USER-FACING DEGRADATION MESSAGES
// =============================================================================

const (
	emptyReplyText    = "Aduh, Golem bingung mau jawab apa. Bisa diulangi, Stoky?"
	fallbackEmptyText = "Golem agak pusing, tapi Golem tetap di sini untukmu!"
	apologyText       = "Maaf ya Stoky, sepertinya Golem lagi butuh istirahat sebentar (Error Koneksi/API). Coba lagi ya!"
	invalidKeyText    = "Golem tidak bisa membuka pintu ke server: the API key looks invalid. Please check the backend configuration, ya!"
	rateLimitText     = "Golem kebanjiran permintaan! The service is rate limited right now - please try again in a little while, ya!"

	// diagnosticMaxRunes caps the excerpt appended to the generic message.
	diagnosticMaxRunes = 120
)

// =============================================================================
// CLIENT
// =============================================================================

// Client executes formatted requests against the backend with the Golem
// persona and the degraded-service fallback policy.
type Client struct {
	primary  Generator
	fallback Generator

	instruction string
	params      Params
}

// NewClient creates a client with the given primary and fallback backends.
// The fallback may be nil, in which case a server fault degrades straight
// to the apology message.
func NewClient(primary, fallback Generator) *Client {
	return &Client{
		primary:     primary,
		fallback:    fallback,
		instruction: SystemInstruction,
		params:      DefaultParams(),
	}
}

// WithInstruction overrides the persona instruction. Used by tests.
func (c *Client) WithInstruction(instruction string) *Client {
	c.instruction = instruction
	return c
}

// Send executes the request and always returns displayable text: the
// response on success, or a user-facing degradation message on failure.
// It never returns an error — the caller is a UI action handler.
func (c *Client) Send(ctx context.Context, turns []Turn) string {
	text, err := c.primary.Generate(ctx, turns, c.instruction, c.params)
	if err == nil {
		if strings.TrimSpace(text) == "" {
			return emptyReplyText
		}
		return text
	}

	log.Printf("genai: primary backend failed: %v", err)

	switch {
	case errors.Is(err, ErrAuthFailed):
		return invalidKeyText
	case errors.Is(err, ErrRateLimited):
		return rateLimitText
	case IsServerFault(err):
		return c.sendFallback(ctx, turns)
	default:
		return genericFailureText(err)
	}
}

// sendFallback performs the single degraded-service retry against the
// secondary backend configuration.
func (c *Client) sendFallback(ctx context.Context, turns []Turn) string {
	if c.fallback == nil {
		return apologyText
	}

	text, err := c.fallback.Generate(ctx, turns, c.instruction, c.params)
	if err != nil {
		log.Printf("genai: fallback backend failed: %v", err)
		return apologyText
	}
	if strings.TrimSpace(text) == "" {
		return fallbackEmptyText
	}
	return text
}

// genericFailureText builds the message for unclassified failures,
// carrying a truncated diagnostic excerpt.
func genericFailureText(err error) string {
	excerpt := util.TruncateRunes(err.Error(), diagnosticMaxRunes)
	return "Golem hit an unexpected problem talking to the server: " + excerpt
}
