// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the session collection: the ordered set of chat
// sessions, the active-session pointer, and every mutation on them.
//
// # Key Types
//
//   - Store: session collection with create/select/delete/update operations
//   - Port: the durable-storage interface (one keyed JSON blob)
//   - FilePort: Port backed by an atomically-written file
//   - MemoryPort: in-memory Port for tests
//
// # Persistence
//
// The collection is hydrated once at startup; a missing or malformed blob
// is logged and leaves the collection empty, never failing the caller.
// Every mutation persists the full collection, except that an empty
// collection is never written over previously persisted history.
//
// # Invariants
//
//   - Sessions are ordered newest-first by creation; new sessions prepend.
//   - The active pointer is either empty or the id of a present session.
//   - Deleting the active session repoints to the first remaining session.
package store
