// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stokyware/golem/internal/attach"
	"github.com/stokyware/golem/internal/genai"
	"github.com/stokyware/golem/internal/model"
	"github.com/stokyware/golem/internal/store"
	"github.com/stokyware/golem/internal/typewriter"
)

// =============================================================================
// VIEW STATE
// =============================================================================

type viewState int

const (
	viewLanding viewState = iota // startup screen
	viewChat                     // conversation screen
)

// sendTimeout bounds one request round trip, including the fallback.
const sendTimeout = 3 * time.Minute

// sidebarWidth is the fixed width of the session list column.
const sidebarWidth = 24

// =============================================================================
// MESSAGES
// =============================================================================

// responseMsg carries a completed backend reply. SessionID pins the
// reply to the session that sent the prompt, which may no longer be the
// active one by the time it arrives.
type responseMsg struct {
	sessionID string
	text      string
}

// =============================================================================
// RESPONDER
// =============================================================================

// Responder produces displayable reply text for formatted turns. It is
// satisfied by *genai.Client; tests substitute a stub.
type Responder interface {
	Send(ctx context.Context, turns []genai.Turn) string
}

// =============================================================================
// ROOT MODEL
// =============================================================================

// Model is the Bubble Tea model for the whole interface.
type Model struct {
	view  viewState
	theme *Theme
	keys  KeyMap

	store     *store.Store
	responder Responder
	encoder   *attach.Encoder
	presenter *typewriter.Presenter
	md        *markdown

	input   textinput.Model
	vp      viewport.Model
	spin    spinner.Model
	width   int
	height  int
	ready   bool

	inflight    bool
	pending     []model.Attachment
	animatingID string

	status      string
	statusIsErr bool
}

// New creates the interface bound to a session store and responder.
func New(st *store.Store, responder Responder) Model {
	input := textinput.New()
	input.Placeholder = "Tulis pesan untuk Golem..."
	input.CharLimit = 0
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		view:      viewLanding,
		theme:     NewTheme(),
		keys:      DefaultKeyMap(),
		store:     st,
		responder: responder,
		encoder:   attach.NewEncoder(),
		presenter: typewriter.New(),
		md:        &markdown{},
		input:     input,
		spin:      spin,
	}
}

// WithRevealInterval overrides the typewriter pacing.
func (m Model) WithRevealInterval(interval time.Duration) Model {
	m.presenter.WithInterval(interval)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// SESSION HELPERS
// =============================================================================

// ensureActive returns the active session, creating one when the store
// is empty or nothing is selected.
func (m *Model) ensureActive() *model.ChatSession {
	if active := m.store.Active(); active != nil {
		return active
	}
	if sessions := m.store.Sessions(); len(sessions) > 0 {
		m.store.SelectSession(sessions[0].ID)
		return m.store.Active()
	}
	return m.store.CreateSession()
}

// selectOffset moves the active session up or down the sidebar list.
func (m *Model) selectOffset(offset int) {
	sessions := m.store.Sessions()
	if len(sessions) == 0 {
		return
	}
	activeID := m.store.ActiveID()
	current := 0
	for i, s := range sessions {
		if s.ID == activeID {
			current = i
			break
		}
	}
	next := current + offset
	if next < 0 {
		next = len(sessions) - 1
	}
	if next >= len(sessions) {
		next = 0
	}
	m.store.SelectSession(sessions[next].ID)
}

// finishAnimation stops any reveal in progress and shows the full text.
func (m *Model) finishAnimation() {
	m.presenter.Stop()
	m.animatingID = ""
}

// setStatus replaces the status line.
func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusIsErr = isErr
}
