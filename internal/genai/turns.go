// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package genai

import (
	"strings"

	"github.com/stokyware/golem/internal/model"
)

// emptyTurnPlaceholder substitutes for a historical message that has
// neither attachments nor text, so no turn is emitted with zero parts.
const emptyTurnPlaceholder = "..."

// defaultGreeting substitutes for a new input turn where both the prompt
// and the attachment list are empty.
const defaultGreeting = "Halo Golem!"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// InlineData is an inline file payload within a part.
type InlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

// Part is one unit of turn content: either text or inline file data.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
}

// TextPart builds a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// DataPart builds an inline-data part from an attachment.
func DataPart(att model.Attachment) Part {
	return Part{InlineData: &InlineData{MimeType: att.MimeType, Data: att.Data}}
}

// Turn is one role-tagged unit of conversational content.
type Turn struct {
	Role  string `json:"role"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// =============================================================================
// HISTORY FORMATTER
// =============================================================================

// BuildTurns converts a session's message history plus the new input into
// the ordered turn sequence the backend expects.
//
// Each historical message becomes one turn, attachments first, then text.
// The new input becomes a final user turn: new attachments first, then the
// prompt if non-empty, or the default greeting when both are empty.
func BuildTurns(history []model.Message, prompt string, attachments []model.Attachment) []Turn {
	turns := make([]Turn, 0, len(history)+1)

	for _, msg := range history {
		turns = append(turns, messageTurn(msg))
	}

	current := Turn{Role: model.RoleUser.String()}
	for _, att := range attachments {
		current.Parts = append(current.Parts, DataPart(att))
	}
	if strings.TrimSpace(prompt) != "" {
		current.Parts = append(current.Parts, TextPart(prompt))
	} else if len(current.Parts) == 0 {
		current.Parts = append(current.Parts, TextPart(defaultGreeting))
	}
	turns = append(turns, current)

	return turns
}

// messageTurn converts one stored message into a turn, substituting the
// placeholder part when the message is entirely empty.
func messageTurn(msg model.Message) Turn {
	turn := Turn{Role: msg.Role.String()}
	if msg.IsEmpty() {
		turn.Parts = []Part{TextPart(emptyTurnPlaceholder)}
		return turn
	}

	for _, att := range msg.Attachments {
		turn.Parts = append(turn.Parts, DataPart(att))
	}
	if msg.Content != "" {
		turn.Parts = append(turn.Parts, TextPart(msg.Content))
	}
	return turn
}
