// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the chat proxy.
//
// The proxy exposes POST /api/chat and forwards formatted conversation
// turns to the model backend with the persona instruction and generation
// parameters pinned server-side. The backend credential lives only in
// this process; clients see a {"text": ...} or {"error": ...} envelope
// and never the credential or raw upstream diagnostics.
package server
