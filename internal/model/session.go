// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTitle is the placeholder title for a session with no user message.
const DefaultTitle = "New Conversation"

// titleMaxRunes is the number of leading runes of the first user message
// used to derive the session title.
const titleMaxRunes = 30

// =============================================================================
// CHAT SESSION TYPE
// =============================================================================

// ChatSession holds a complete conversation with history and metadata.
//
// Invariants: Messages is insertion-ordered and append-only (individual
// messages are never removed), Title is derived once from the first user
// message and fixed thereafter, and LastModified advances on every append.
type ChatSession struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Messages     []Message `json:"messages"`
	CreatedAt    int64     `json:"createdAt"`    // epoch milliseconds
	LastModified int64     `json:"lastModified"` // epoch milliseconds
}

// NewChatSession creates an empty session with a generated ID, the default
// title, and the current timestamp for both CreatedAt and LastModified.
func NewChatSession() *ChatSession {
	now := time.Now().UnixMilli()
	return &ChatSession{
		ID:           uuid.NewString(),
		Title:        DefaultTitle,
		Messages:     []Message{},
		CreatedAt:    now,
		LastModified: now,
	}
}

// AppendMessage adds a message to the session and updates LastModified.
// The title is derived from the first user message the session ever
// receives; subsequent messages never change it.
func (s *ChatSession) AppendMessage(msg Message) {
	if msg.Role == RoleUser && !s.hasUserMessage() {
		s.Title = DeriveTitle(msg.Content)
	}
	s.Messages = append(s.Messages, msg)
	s.LastModified = time.Now().UnixMilli()
}

// LastMessage returns the most recent message, or a zero Message and false
// if the session is empty.
func (s *ChatSession) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}

// IsEmpty reports whether the session has no messages.
func (s *ChatSession) IsEmpty() bool {
	return len(s.Messages) == 0
}

// Clone returns a deep copy of the session. Store mutations operate on
// copies so callers never observe partial writes.
func (s *ChatSession) Clone() *ChatSession {
	clone := *s
	clone.Messages = make([]Message, len(s.Messages))
	copy(clone.Messages, s.Messages)
	for i := range clone.Messages {
		if len(clone.Messages[i].Attachments) > 0 {
			atts := make([]Attachment, len(clone.Messages[i].Attachments))
			copy(atts, clone.Messages[i].Attachments)
			clone.Messages[i].Attachments = atts
		}
	}
	return &clone
}

func (s *ChatSession) hasUserMessage() bool {
	for _, msg := range s.Messages {
		if msg.Role == RoleUser {
			return true
		}
	}
	return false
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// DeriveTitle builds a session title from the first user message: the first
// 30 runes of the content, newlines collapsed, or the default placeholder
// when the content is blank.
func DeriveTitle(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return DefaultTitle
	}
	content = strings.ReplaceAll(content, "\n", " ")
	content = strings.ReplaceAll(content, "\r", "")
	runes := []rune(content)
	if len(runes) > titleMaxRunes {
		return string(runes[:titleMaxRunes])
	}
	return content
}
