// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/stokyware/golem/internal/model"
	"github.com/stokyware/golem/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.view == viewLanding {
		return m.viewLanding()
	}
	return m.viewChat()
}

// =============================================================================
// LANDING SCREEN
// =============================================================================

const banner = `
  ___  ___  _    ___ __  __
 / __|/ _ \| |  | __|  \/  |
| (_ | (_) | |__| _|| |\/| |
 \___|\___/|____|___|_|  |_|
`

func (m Model) viewLanding() string {
	var b strings.Builder

	b.WriteString(m.theme.Banner.Render(banner))
	b.WriteString("\n")
	b.WriteString(m.theme.Tagline.Render("Teman ngobrol yang selalu ceria!"))
	b.WriteString("\n\n")

	sessions := m.store.Sessions()
	if len(sessions) > 0 {
		b.WriteString(m.theme.SidebarHeading.Render("Recent conversations"))
		b.WriteString("\n")
		shown := sessions
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, s := range shown {
			title := util.TruncateWidth(s.Title, 40)
			b.WriteString(m.theme.SessionItem.Render("  • " + title))
			if last, ok := s.LastMessage(); ok && !last.IsEmpty() {
				snippet := strings.ReplaceAll(last.Preview(40), "\n", " ")
				b.WriteString(m.theme.Timestamp.Render("  " + snippet))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	hints := [][2]string{
		{"enter", "continue chatting"},
		{"n", "new conversation"},
		{"q", "quit"},
	}
	for _, h := range hints {
		b.WriteString("  ")
		b.WriteString(m.theme.HintKey.Render(h[0]))
		b.WriteString(" ")
		b.WriteString(m.theme.HintDesc.Render(h[1]))
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// CHAT SCREEN
// =============================================================================

func (m Model) viewChat() string {
	if !m.ready {
		return "loading..."
	}

	sidebar := m.viewSidebar()
	transcript := m.vp.View()
	main := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, transcript)

	return lipgloss.JoinVertical(lipgloss.Left,
		main,
		m.viewInputBar(),
		m.viewStatusLine(),
	)
}

// viewSidebar renders the session list column.
func (m Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(m.theme.SidebarHeading.Render("Chats"))
	b.WriteString("\n\n")

	activeID := m.store.ActiveID()
	for _, s := range m.store.Sessions() {
		title := util.PadRight(util.TruncateWidth(s.Title, sidebarWidth-3), sidebarWidth-3)
		if s.ID == activeID {
			b.WriteString(m.theme.SessionActive.Render("▸ " + title))
		} else {
			b.WriteString(m.theme.SessionItem.Render("  " + title))
		}
		b.WriteString("\n")
	}

	height := m.vp.Height
	return m.theme.Sidebar.Width(sidebarWidth).Height(height).Render(b.String())
}

// viewInputBar renders the prompt line with any pending attachments.
func (m Model) viewInputBar() string {
	var b strings.Builder
	if len(m.pending) > 0 {
		names := make([]string, len(m.pending))
		for i, a := range m.pending {
			names[i] = a.Name
		}
		b.WriteString(m.theme.Attachment.Render("📎 " + strings.Join(names, ", ")))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.InputPrompt.Render("> "))
	b.WriteString(m.input.View())
	return m.theme.InputBar.Width(m.width).Render(b.String())
}

// viewStatusLine renders the spinner or the latest status text.
func (m Model) viewStatusLine() string {
	switch {
	case m.inflight:
		return m.theme.StatusLine.Render(m.spin.View() + " Golem sedang berpikir...")
	case m.statusIsErr:
		return m.theme.ErrorStatus.Render(m.status)
	case m.status != "":
		return m.theme.StatusLine.Render(m.status)
	default:
		return m.theme.StatusLine.Render("ctrl+n new · ctrl+j/k switch · ctrl+d delete · esc back")
	}
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript rebuilds the viewport content from the active
// session.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	session := m.store.Active()
	if session == nil {
		m.vp.SetContent(m.theme.Tagline.Render("Halo! Mulai ngobrol dengan Golem di bawah."))
		return
	}

	if session.IsEmpty() {
		m.vp.SetContent(m.theme.Tagline.Render("Halo! Mulai ngobrol dengan Golem di bawah."))
		return
	}

	var b strings.Builder
	for i, msg := range session.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.vp.SetContent(b.String())
}

// renderMessage formats one transcript entry.
func (m *Model) renderMessage(msg model.Message) string {
	var b strings.Builder

	label := msg.Role.DisplayName()
	ts := msg.Time().Format("15:04")
	switch msg.Role {
	case model.RoleUser:
		b.WriteString(m.theme.UserLabel.Render(label))
	default:
		b.WriteString(m.theme.GolemLabel.Render(label))
	}
	b.WriteString(" ")
	b.WriteString(m.theme.Timestamp.Render(ts))
	b.WriteString("\n")

	for _, att := range msg.Attachments {
		b.WriteString(m.theme.Attachment.Render(fmt.Sprintf("📎 %s (%s)", att.Name, att.MimeType)))
		b.WriteString("\n")
	}

	switch {
	case msg.ID == m.animatingID:
		// The reveal shows plain text; markdown styling appears once
		// the animation completes.
		b.WriteString(m.presenter.Visible())
	case msg.Role == model.RoleModel:
		b.WriteString(m.md.render(msg.Content))
	default:
		b.WriteString(m.theme.UserText.Render(msg.Content))
	}

	return b.String()
}
