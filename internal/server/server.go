// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/stokyware/golem/internal/genai"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address for the proxy.
	DefaultAddr = "127.0.0.1:8787"

	// MaxRequestBodySize caps the request body. Attachments are base64
	// inside the JSON, so the cap has to accommodate an encoded file.
	MaxRequestBodySize = 16 * 1024 * 1024 // 16MB

	// MaxTurnCount is the maximum number of turns in a request.
	MaxTurnCount = 200

	// requestTimeout bounds a single backend generation.
	requestTimeout = 90 * time.Second
)

// validRoles is the set of acceptable turn roles. Anything else is
// rejected before the request reaches the backend.
var validRoles = map[string]bool{
	"user":  true,
	"model": true,
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the chat proxy HTTP server. The persona instruction and
// generation parameters are fixed at construction and never taken from
// the client request.
type Server struct {
	addr   string
	router *http.ServeMux
	server *http.Server

	backend     genai.Generator
	instruction string
	params      genai.Params

	rateLimit rate.Limit
	rateBurst int

	mu sync.RWMutex
}

// New creates a proxy server forwarding to the given backend. An empty
// addr selects DefaultAddr.
func New(addr string, backend genai.Generator) *Server {
	if addr == "" {
		addr = DefaultAddr
	}

	return &Server{
		addr:        addr,
		backend:     backend,
		instruction: genai.SystemInstruction,
		params:      genai.DefaultParams(),
		rateLimit:   DefaultRateLimit,
		rateBurst:   DefaultRateBurst,
	}
}

// WithRateLimit overrides the per-IP request limits. Call before Start.
func (s *Server) WithRateLimit(limit rate.Limit, burst int) *Server {
	s.rateLimit = limit
	s.rateBurst = burst
	return s
}

// UpdateBackend swaps the backend, used when configuration is reloaded.
func (s *Server) UpdateBackend(backend genai.Generator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = backend
}

func (s *Server) currentBackend() genai.Generator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.backend
}

// setupRoutes registers the endpoints behind the middleware chain. Routes
// are built once, after the limits settle, so only one RateLimiter (and
// its cleanup goroutine) ever exists per server.
func (s *Server) setupRoutes() {
	if s.router != nil {
		return
	}

	limiter := NewRateLimiter(s.rateLimit, s.rateBurst)
	chain := func(h http.Handler) http.Handler {
		return RecoveryMiddleware()(
			LoggingMiddleware(log.Default())(
				RateLimitMiddleware(limiter)(h)))
	}

	s.router = http.NewServeMux()
	s.router.Handle("/api/chat", chain(http.HandlerFunc(s.handleChat)))
	s.router.Handle("/health", chain(http.HandlerFunc(s.handleHealth)))
}

// Start begins serving. It blocks until the server stops.
func (s *Server) Start() error {
	s.setupRoutes()
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("server: chat proxy listening on %s", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler exposes the routed handler. Used by tests.
func (s *Server) Handler() http.Handler {
	s.setupRoutes()
	return s.router
}

// ============================================================================
// WIRE TYPES
// ============================================================================

// chatRequest is the body of POST /api/chat.
type chatRequest struct {
	Contents []genai.Turn `json:"contents"`
}

// chatResponse is the reply envelope. Exactly one field is set.
type chatResponse struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// ============================================================================
// HANDLERS
// ============================================================================

// handleChat validates the request and forwards it to the backend.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := validateTurns(req.Contents); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	text, err := s.currentBackend().Generate(ctx, req.Contents, s.instruction, s.params)
	if err != nil {
		log.Printf("server: backend request failed: %v", err)
		status, message := classifyBackendError(err)
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Text: text})
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// validateTurns enforces structural limits and the role whitelist.
func validateTurns(turns []genai.Turn) error {
	if len(turns) == 0 {
		return errors.New("contents must not be empty")
	}
	if len(turns) > MaxTurnCount {
		return fmt.Errorf("too many turns: %d (limit %d)", len(turns), MaxTurnCount)
	}
	for i, turn := range turns {
		if !validRoles[turn.Role] {
			return fmt.Errorf("invalid role %q at turn %d: must be user or model", turn.Role, i)
		}
		if len(turn.Parts) == 0 {
			return fmt.Errorf("turn %d has no parts", i)
		}
	}
	return nil
}

// classifyBackendError maps a backend failure to an HTTP status and a
// client-safe message. Upstream diagnostics stay in the server log; they
// can contain backend internals the client has no business seeing.
func classifyBackendError(err error) (int, string) {
	switch {
	case errors.Is(err, genai.ErrAuthFailed):
		return http.StatusUnauthorized, "Backend authentication failed"
	case errors.Is(err, genai.ErrRateLimited):
		return http.StatusTooManyRequests, "Rate limited, try again later"
	case genai.IsServerFault(err):
		return http.StatusBadGateway, "Model service unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// writeJSON writes a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("server: failed to encode response: %v", err)
	}
}

// writeError writes the error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, chatResponse{Error: message})
}
