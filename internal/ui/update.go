// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stokyware/golem/internal/attach"
	"github.com/stokyware/golem/internal/genai"
	"github.com/stokyware/golem/internal/model"
	"github.com/stokyware/golem/internal/typewriter"
)

// attachCommand is the input prefix that attaches a file.
const attachCommand = "/attach "

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if !m.inflight {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case typewriter.TickMsg:
		cmd, done := m.presenter.Advance(msg)
		if done {
			m.animatingID = ""
		}
		m.refreshTranscript()
		m.vp.GotoBottom()
		return m, cmd

	case responseMsg:
		return m.handleResponse(msg)

	case attach.ResultMsg:
		return m.handleAttachResult(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.view == viewLanding {
			return m.updateLanding(msg)
		}
		return m.updateChat(msg)
	}

	if m.view == viewChat {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// resize recomputes component dimensions for a new terminal size.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	transcriptWidth := width - sidebarWidth - 2
	if transcriptWidth < 20 {
		transcriptWidth = 20
	}
	transcriptHeight := height - 4 // input bar and status line
	if transcriptHeight < 3 {
		transcriptHeight = 3
	}

	if !m.ready {
		m.vp = viewport.New(transcriptWidth, transcriptHeight)
		m.ready = true
	} else {
		m.vp.Width = transcriptWidth
		m.vp.Height = transcriptHeight
	}
	m.input.Width = transcriptWidth - 4
	m.md.setWidth(transcriptWidth)
}

// =============================================================================
// LANDING VIEW
// =============================================================================

func (m Model) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.ensureActive()
		m.view = viewChat
		m.refreshTranscript()
		m.vp.GotoBottom()
		return m, textinput.Blink
	case "n":
		m.store.CreateSession()
		m.view = viewChat
		m.refreshTranscript()
		return m, textinput.Blink
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

// =============================================================================
// CHAT VIEW
// =============================================================================

func (m Model) updateChat(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		if len(m.pending) > 0 {
			m.clearPending()
			m.setStatus("Lampiran dibatalkan.", false)
			return m, nil
		}
		m.finishAnimation()
		m.view = viewLanding
		return m, nil

	case key.Matches(msg, m.keys.NewSession):
		m.finishAnimation()
		m.store.CreateSession()
		m.clearPending()
		m.input.Reset()
		m.setStatus("", false)
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.NextSession):
		m.switchSession(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevSession):
		m.switchSession(-1)
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		m.finishAnimation()
		m.store.DeleteSession(m.store.ActiveID())
		if m.store.Len() == 0 {
			m.view = viewLanding
			return m, nil
		}
		m.refreshTranscript()
		return m, nil

	case key.Matches(msg, m.keys.Send):
		return m.handleSend()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// clearPending discards not-yet-sent attachments and releases their
// preview handles. Attachments already sent keep their previews until
// the owning session is deleted.
func (m *Model) clearPending() {
	for _, att := range m.pending {
		attach.ReleasePreview(att.PreviewPath)
	}
	m.pending = nil
}

// switchSession moves the selection and abandons any running animation.
func (m *Model) switchSession(offset int) {
	m.finishAnimation()
	m.selectOffset(offset)
	m.setStatus("", false)
	m.refreshTranscript()
	m.vp.GotoBottom()
}

// handleSend dispatches the current input. While a request is in flight
// further sends are refused so replies cannot interleave.
func (m Model) handleSend() (tea.Model, tea.Cmd) {
	raw := m.input.Value()

	if path, ok := strings.CutPrefix(raw, attachCommand); ok {
		m.input.Reset()
		return m, m.encoder.EncodeCmd(strings.TrimSpace(path))
	}

	if m.inflight {
		m.setStatus("Golem masih mengetik, tunggu sebentar ya!", false)
		return m, nil
	}

	// Nothing to send: no prompt text and no pending attachments.
	if strings.TrimSpace(raw) == "" && len(m.pending) == 0 {
		return m, nil
	}

	session := m.ensureActive()
	history := session.Messages

	prompt := raw
	attachments := m.pending
	m.pending = nil
	m.input.Reset()
	m.finishAnimation()

	userMsg := model.NewUserMessage(prompt, attachments)
	session.AppendMessage(userMsg)
	m.store.UpdateSession(session)

	turns := genai.BuildTurns(history, prompt, attachments)

	m.inflight = true
	m.setStatus("", false)
	m.refreshTranscript()
	m.vp.GotoBottom()

	return m, tea.Batch(m.spin.Tick, m.sendCmd(session.ID, turns))
}

// sendCmd runs the backend request off the update loop.
func (m Model) sendCmd(sessionID string, turns []genai.Turn) tea.Cmd {
	responder := m.responder
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		return responseMsg{sessionID: sessionID, text: responder.Send(ctx, turns)}
	}
}

// handleResponse appends the reply to its originating session. The
// typewriter only runs when that session is still on screen.
func (m Model) handleResponse(msg responseMsg) (tea.Model, tea.Cmd) {
	m.inflight = false

	session := m.store.Get(msg.sessionID)
	if session == nil {
		// Session was deleted while the request was in flight.
		return m, nil
	}

	reply := model.NewModelMessage(msg.text)
	session.AppendMessage(reply)
	m.store.UpdateSession(session)

	var cmd tea.Cmd
	if msg.sessionID == m.store.ActiveID() && m.view == viewChat {
		m.animatingID = reply.ID
		cmd = m.presenter.Start(msg.text)
	}
	m.refreshTranscript()
	m.vp.GotoBottom()
	return m, cmd
}

// handleAttachResult reports the outcome of an /attach command.
func (m Model) handleAttachResult(msg attach.ResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.setStatus(fmt.Sprintf("Gagal melampirkan file: %v", msg.Err), true)
		return m, nil
	}
	m.pending = append(m.pending, msg.Attachment)
	m.setStatus(fmt.Sprintf("Terlampir: %s (%s)", msg.Attachment.Name, msg.Attachment.MimeType), false)
	return m, nil
}
