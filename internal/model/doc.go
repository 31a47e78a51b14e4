// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat sessions, messages,
// and file attachments.
//
// # Key Types
//
//   - ChatSession: a titled, persisted conversation thread
//   - Message: one user or model turn, append-only once created
//   - Attachment: an inline base64 file payload owned by a message
//
// All identity fields are cryptographically random UUIDs. Timestamps are
// epoch milliseconds to match the persisted wire format.
package model
