// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"encoding/json"
	"errors"
	"log"
	"os"

	"github.com/stokyware/golem/internal/model"
)

// PreviewReleaser releases an attachment preview handle (a revocable local
// resource) when the owning session is deleted.
type PreviewReleaser func(path string)

// =============================================================================
// STORE
// =============================================================================

// Store holds the session collection and the active-session pointer.
//
// All mutations go through whole-session replacement; callers receive
// clones and hand back full sessions, so no partial write is ever
// observable. The store persists after every mutation through its Port.
type Store struct {
	sessions []*model.ChatSession // newest-first by creation
	activeID string               // empty when no session is active

	port    Port
	release PreviewReleaser
}

// New creates a store backed by the given port. The collection starts
// empty; call Hydrate to load persisted history.
func New(port Port) *Store {
	return &Store{port: port}
}

// WithPreviewReleaser sets the callback used to release attachment preview
// handles when a session is deleted.
func (s *Store) WithPreviewReleaser(release PreviewReleaser) *Store {
	s.release = release
	return s
}

// =============================================================================
// HYDRATION & PERSISTENCE
// =============================================================================

// Hydrate loads the persisted session collection. Best-effort: a missing
// blob leaves the collection empty, and a malformed blob is logged and
// treated the same way. Hydrate never returns an error to the caller.
func (s *Store) Hydrate() {
	data, err := s.port.Load()
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("store: failed to read persisted sessions: %v", err)
		}
		return
	}

	var sessions []*model.ChatSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		log.Printf("store: failed to parse persisted sessions: %v", err)
		return
	}

	// A blob can parse and still be malformed: a null or id-less entry
	// would poison every later accessor. Treat it like a parse failure.
	for _, sess := range sessions {
		if sess == nil || sess.ID == "" {
			log.Print("store: persisted sessions malformed, starting empty")
			return
		}
	}

	// No session becomes active on hydration; the view controller selects
	// one when the user enters the chat.
	s.sessions = sessions
}

// persist writes the full collection to durable storage.
//
// An empty collection is never written: during an initial-load race an
// empty in-memory state must not destroy previously persisted history.
func (s *Store) persist() {
	if len(s.sessions) == 0 {
		return
	}

	data, err := json.MarshalIndent(s.sessions, "", "  ")
	if err != nil {
		log.Printf("store: failed to serialize sessions: %v", err)
		return
	}
	if err := s.port.Save(data); err != nil {
		log.Printf("store: failed to persist sessions: %v", err)
	}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// CreateSession builds a new empty session, prepends it to the collection,
// and makes it active. Always succeeds.
func (s *Store) CreateSession() *model.ChatSession {
	sess := model.NewChatSession()
	s.sessions = append([]*model.ChatSession{sess}, s.sessions...)
	s.activeID = sess.ID
	s.persist()
	return sess.Clone()
}

// SelectSession sets the active pointer to the given id. Selecting an
// unknown id is a no-op, not an error.
func (s *Store) SelectSession(id string) {
	if s.find(id) == -1 {
		return
	}
	s.activeID = id
	s.persist()
}

// DeleteSession removes the session with the given id and releases any
// preview handles its attachments own. If the removed session was active,
// the pointer moves to the first remaining session, or clears when none
// remain. Deleting an unknown id is a no-op.
func (s *Store) DeleteSession(id string) {
	idx := s.find(id)
	if idx == -1 {
		return
	}

	removed := s.sessions[idx]
	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)

	if s.activeID == id {
		if len(s.sessions) > 0 {
			s.activeID = s.sessions[0].ID
		} else {
			s.activeID = ""
		}
	}

	s.releasePreviews(removed)
	s.persist()
}

// UpdateSession replaces the stored session with the same id by full
// replacement (last-writer-wins, no merge). Unknown ids are ignored.
func (s *Store) UpdateSession(sess *model.ChatSession) {
	idx := s.find(sess.ID)
	if idx == -1 {
		return
	}
	s.sessions[idx] = sess.Clone()
	s.persist()
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Sessions returns the collection, newest-first. The returned slice is a
// snapshot; sessions are clones safe for the caller to mutate.
func (s *Store) Sessions() []*model.ChatSession {
	out := make([]*model.ChatSession, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Active returns a clone of the active session, or nil when none is active.
func (s *Store) Active() *model.ChatSession {
	idx := s.find(s.activeID)
	if idx == -1 {
		return nil
	}
	return s.sessions[idx].Clone()
}

// ActiveID returns the active session id, or "" when none is active.
func (s *Store) ActiveID() string {
	return s.activeID
}

// Get returns a clone of the session with the given id, or nil.
func (s *Store) Get(id string) *model.ChatSession {
	idx := s.find(id)
	if idx == -1 {
		return nil
	}
	return s.sessions[idx].Clone()
}

// Len returns the number of sessions in the collection.
func (s *Store) Len() int {
	return len(s.sessions)
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Store) find(id string) int {
	if id == "" {
		return -1
	}
	for i, sess := range s.sessions {
		if sess.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) releasePreviews(sess *model.ChatSession) {
	if s.release == nil {
		return
	}
	for _, msg := range sess.Messages {
		for _, att := range msg.Attachments {
			if att.PreviewPath != "" {
				s.release(att.PreviewPath)
			}
		}
	}
}
