// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// markdown renders response markdown for terminal display, rebuilding
// the renderer when the wrap width changes.
type markdown struct {
	renderer *glamour.TermRenderer
	width    int
}

// setWidth reconfigures the renderer for a new wrap width.
func (m *markdown) setWidth(width int) {
	if width == m.width && m.renderer != nil {
		return
	}
	m.width = width

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Fall back to plain text rendering.
		m.renderer = nil
		return
	}
	m.renderer = renderer
}

// render returns the formatted content, or the original text when the
// renderer is unavailable or fails.
func (m *markdown) render(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}
