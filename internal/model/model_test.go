// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage(t *testing.T) {
	msg := NewMessage(RoleUser, "Hello")

	if msg.ID == "" {
		t.Error("Expected non-empty ID")
	}
	if msg.Role != RoleUser {
		t.Errorf("Role = %q, want %q", msg.Role, RoleUser)
	}
	if msg.Content != "Hello" {
		t.Errorf("Content = %q, want %q", msg.Content, "Hello")
	}
	if msg.Timestamp == 0 {
		t.Error("Expected non-zero timestamp")
	}
}

func TestNewMessage_UniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewMessage(RoleUser, "x")
		if seen[msg.ID] {
			t.Fatalf("Duplicate message ID %q", msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestNewUserMessage_CopiesAttachments(t *testing.T) {
	atts := []Attachment{{Name: "a.png", MimeType: "image/png", Data: "aaaa"}}
	msg := NewUserMessage("look", atts)

	atts[0].Name = "mutated.png"
	if msg.Attachments[0].Name != "a.png" {
		t.Error("Message should own a copy of the attachment list")
	}
}

func TestMessage_IsEmpty(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{"no content no attachments", Message{}, true},
		{"content only", Message{Content: "hi"}, false},
		{"attachment only", Message{Attachments: []Attachment{{Name: "f"}}}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.msg.IsEmpty(); got != tc.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := Message{Content: strings.Repeat("a", 100)}
	preview := msg.Preview(10)
	if len([]rune(preview)) != 10 {
		t.Errorf("Preview length = %d, want 10", len([]rune(preview)))
	}
	if !strings.HasSuffix(preview, "...") {
		t.Errorf("Preview %q should end with ellipsis", preview)
	}
}

func TestAttachment_IsImage(t *testing.T) {
	if !(Attachment{MimeType: "image/png"}).IsImage() {
		t.Error("image/png should be an image")
	}
	if (Attachment{MimeType: "text/plain"}).IsImage() {
		t.Error("text/plain should not be an image")
	}
}

// =============================================================================
// SESSION TESTS
// =============================================================================

func TestNewChatSession(t *testing.T) {
	sess := NewChatSession()

	if sess.ID == "" {
		t.Error("Expected non-empty ID")
	}
	if sess.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", sess.Title, DefaultTitle)
	}
	if len(sess.Messages) != 0 {
		t.Errorf("Messages count = %d, want 0", len(sess.Messages))
	}
	if sess.CreatedAt == 0 || sess.LastModified == 0 {
		t.Error("Expected timestamps to be set")
	}
}

func TestChatSession_TitleFromFirstUserMessage(t *testing.T) {
	sess := NewChatSession()
	sess.AppendMessage(NewUserMessage("What is the capital of France, and why?", nil))

	want := string([]rune("What is the capital of France, and why?")[:30])
	if sess.Title != want {
		t.Errorf("Title = %q, want %q", sess.Title, want)
	}

	// Later messages never change the title.
	sess.AppendMessage(NewModelMessage("Paris."))
	sess.AppendMessage(NewUserMessage("A completely different topic now", nil))
	if sess.Title != want {
		t.Errorf("Title changed to %q after later messages", sess.Title)
	}
}

func TestChatSession_TitleFromModelFirst(t *testing.T) {
	// A leading model message must not claim the title; the first *user*
	// message does.
	sess := NewChatSession()
	sess.AppendMessage(NewModelMessage("Greetings!"))
	if sess.Title != DefaultTitle {
		t.Errorf("Title = %q, want default", sess.Title)
	}

	sess.AppendMessage(NewUserMessage("Short one", nil))
	if sess.Title != "Short one" {
		t.Errorf("Title = %q, want %q", sess.Title, "Short one")
	}
}

func TestChatSession_LastMessage(t *testing.T) {
	sess := NewChatSession()
	if _, ok := sess.LastMessage(); ok {
		t.Error("empty session should have no last message")
	}
	if !sess.IsEmpty() {
		t.Error("new session should be empty")
	}

	sess.AppendMessage(NewUserMessage("first", nil))
	sess.AppendMessage(NewModelMessage("second"))
	last, ok := sess.LastMessage()
	if !ok || last.Content != "second" {
		t.Errorf("LastMessage = %q, want %q", last.Content, "second")
	}
}

func TestChatSession_AppendUpdatesLastModified(t *testing.T) {
	sess := NewChatSession()
	sess.LastModified = 0
	sess.AppendMessage(NewUserMessage("Hi", nil))
	if sess.LastModified == 0 {
		t.Error("AppendMessage should update LastModified")
	}
}

func TestChatSession_Clone(t *testing.T) {
	sess := NewChatSession()
	sess.AppendMessage(NewUserMessage("Hi", []Attachment{{Name: "f.png", MimeType: "image/png"}}))

	clone := sess.Clone()
	clone.Messages[0].Content = "mutated"
	clone.Messages[0].Attachments[0].Name = "mutated.png"

	if sess.Messages[0].Content != "Hi" {
		t.Error("Clone should not share message storage")
	}
	if sess.Messages[0].Attachments[0].Name != "f.png" {
		t.Error("Clone should not share attachment storage")
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"blank", "   ", DefaultTitle},
		{"short", "Hello there", "Hello there"},
		{"newlines collapsed", "line one\nline two", "line one line two"},
		{"truncated to 30 runes", strings.Repeat("x", 40), strings.Repeat("x", 30)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := DeriveTitle(tc.content); got != tc.want {
				t.Errorf("DeriveTitle(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}
