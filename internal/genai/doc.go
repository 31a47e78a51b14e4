// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package genai builds model-backend requests and executes them.
//
// # Key Types
//
//   - Turn, Part: the role-tagged request units sent to the backend
//   - Generator: the single backend interface (direct API or local proxy)
//   - Client: the send pipeline with fallback policy and user-facing
//     degradation messages
//
// # Request shape
//
// A conversation is formatted as an ordered sequence of turns. Each
// historical message becomes one turn whose attachment parts precede its
// text part; the new input becomes the final turn. No turn is ever emitted
// with zero parts — the backend rejects empty-part turns.
//
// # Failure policy
//
// Client.Send never returns an error: an invalid credential or a rate
// limit maps to a static message, a server fault triggers one fallback
// attempt against the secondary model, and anything else degrades to a
// generic message carrying a truncated diagnostic.
package genai
