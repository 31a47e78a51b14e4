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

// =============================================================================
// PROXY GENERATOR
// =============================================================================

// ProxyGenerator sends requests through the same-origin chat proxy.
// The proxy pins the persona instruction, model, and parameters on its own
// side so the credential never reaches this process; the instruction and
// params arguments are therefore not transmitted.
type ProxyGenerator struct {
	baseURL    string
	httpClient *http.Client
}

// NewProxyGenerator creates a proxy-backed generator.
// baseURL is the proxy origin, e.g. "http://127.0.0.1:8787".
func NewProxyGenerator(baseURL string) *ProxyGenerator {
	return &ProxyGenerator{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: sharedHTTPClient,
	}
}

// proxyRequest is the body of POST /api/chat.
type proxyRequest struct {
	Contents []Turn `json:"contents"`
}

// proxyResponse is the proxy's reply envelope.
type proxyResponse struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// Generate implements Generator against the chat proxy.
func (g *ProxyGenerator) Generate(ctx context.Context, turns []Turn, _ string, _ Params) (string, error) {
	bodyBytes, err := json.Marshal(proxyRequest{Contents: turns})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/api/chat", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return "", err
	}

	var envelope proxyResponse
	if err := json.Unmarshal(body, &envelope); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		message := envelope.Error
		if message == "" {
			message = string(body)
		}
		return "", statusError(resp.StatusCode, message)
	}

	return envelope.Text, nil
}
