// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// DefaultBaseURL is the base URL of the hosted generative-language API.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// =============================================================================
// DIRECT GENERATOR
// =============================================================================

// DirectGenerator calls the hosted model API directly with a local
// credential. It is selected by configuration when the user runs without
// the proxy.
type DirectGenerator struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewDirectGenerator creates a direct backend client for the given model.
func NewDirectGenerator(apiKey, model string) *DirectGenerator {
	return &DirectGenerator{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    DefaultBaseURL,
		model:      model,
		httpClient: sharedHTTPClient,
	}
}

// WithBaseURL sets a custom base URL for the API. Used by tests.
func (g *DirectGenerator) WithBaseURL(url string) *DirectGenerator {
	g.baseURL = strings.TrimSuffix(url, "/")
	return g
}

// Model returns the model identifier this generator is bound to.
func (g *DirectGenerator) Model() string {
	return g.model
}

// generateContentRequest is the upstream request payload.
type generateContentRequest struct {
	Contents          []Turn             `json:"contents"`
	SystemInstruction *systemInstruction `json:"systemInstruction,omitempty"`
	GenerationConfig  *Params            `json:"generationConfig,omitempty"`
}

type systemInstruction struct {
	Parts []Part `json:"parts"`
}

// generateContentResponse is the upstream response payload.
type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []Part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// apiErrorResponse is the upstream error payload.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate implements Generator against the hosted API.
func (g *DirectGenerator) Generate(ctx context.Context, turns []Turn, instruction string, params Params) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("%w: no API key configured", ErrAuthFailed)
	}

	reqBody := generateContentRequest{
		Contents:         turns,
		GenerationConfig: &params,
	}
	if instruction != "" {
		reqBody.SystemInstruction = &systemInstruction{Parts: []Part{TextPart(instruction)}}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := g.baseURL + "/models/" + g.model + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// The credential travels in a header, never in the URL, so it cannot
	// end up in request logs.
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusOK {
		return "", g.handleErrorResponse(resp.StatusCode, body)
	}

	var genResp generateContentResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return joinCandidateText(genResp), nil
}

// handleErrorResponse converts upstream error payloads to the error
// taxonomy. API-key faults arrive as 400 INVALID_ARGUMENT as well as 401,
// so the status string is checked too.
func (g *DirectGenerator) handleErrorResponse(statusCode int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		if statusCode == http.StatusBadRequest && strings.Contains(apiErr.Error.Message, "API key") {
			return fmt.Errorf("%w: %s", ErrAuthFailed, apiErr.Error.Message)
		}
		if apiErr.Error.Status == "RESOURCE_EXHAUSTED" {
			return fmt.Errorf("%w: %s", ErrRateLimited, apiErr.Error.Message)
		}
		return statusError(statusCode, apiErr.Error.Message)
	}
	return statusError(statusCode, string(body))
}

// joinCandidateText concatenates the text parts of the first candidate.
func joinCandidateText(resp generateContentResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}
