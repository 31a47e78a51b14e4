// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stokyware/golem/internal/attach"
	"github.com/stokyware/golem/internal/genai"
	"github.com/stokyware/golem/internal/model"
	"github.com/stokyware/golem/internal/store"
	"github.com/stokyware/golem/internal/typewriter"
)

// stubResponder records the turns it was asked to answer.
type stubResponder struct {
	reply    string
	calls    int
	gotTurns []genai.Turn
}

func (s *stubResponder) Send(_ context.Context, turns []genai.Turn) string {
	s.calls++
	s.gotTurns = turns
	return s.reply
}

// newTestModel builds a sized model sitting in the chat view.
func newTestModel(t *testing.T, reply string) (Model, *store.Store, *stubResponder) {
	t.Helper()
	st := store.New(store.NewMemoryPort())
	responder := &stubResponder{reply: reply}

	m := New(st, responder)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter}) // leave landing
	m = next.(Model)

	if m.view != viewChat {
		t.Fatal("model did not enter the chat view")
	}
	return m, st, responder
}

// runCmd executes a command tree and returns the flattened messages.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, sub := range batch {
			msgs = append(msgs, runCmd(sub)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// findResponse pulls the backend reply out of a command's messages.
func findResponse(msgs []tea.Msg) (responseMsg, bool) {
	for _, msg := range msgs {
		if resp, ok := msg.(responseMsg); ok {
			return resp, true
		}
	}
	return responseMsg{}, false
}

func pressEnter(m Model) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func TestSend_AppendsUserMessageBeforeReplyArrives(t *testing.T) {
	m, st, _ := newTestModel(t, "Halo juga!")

	m.input.SetValue("Halo Golem")
	m, _ = pressEnter(m)

	session := st.Active()
	if len(session.Messages) != 1 {
		t.Fatalf("messages = %d, want the user message already stored", len(session.Messages))
	}
	if session.Messages[0].Role != model.RoleUser {
		t.Errorf("role = %q, want user", session.Messages[0].Role)
	}
	if !m.inflight {
		t.Error("model not marked inflight after send")
	}
}

func TestSend_HistorySnapshotExcludesNewPrompt(t *testing.T) {
	m, st, responder := newTestModel(t, "reply")

	m.input.SetValue("first")
	m, cmd := pressEnter(m)
	resp, ok := findResponse(runCmd(cmd))
	if !ok {
		t.Fatal("send produced no backend request")
	}
	// One turn only: the new prompt. The stored user message must not
	// appear twice.
	if len(responder.gotTurns) != 1 {
		t.Fatalf("turns = %d, want 1", len(responder.gotTurns))
	}

	next, _ := m.Update(resp)
	m = next.(Model)

	m.input.SetValue("second")
	m, cmd = pressEnter(m)
	runCmd(cmd)
	if len(responder.gotTurns) != 3 {
		t.Fatalf("turns = %d, want prior user+model plus new prompt", len(responder.gotTurns))
	}
	if st.Active().Messages[2].Content != "second" {
		t.Errorf("third stored message = %q", st.Active().Messages[2].Content)
	}
}

func TestSend_RefusedWhileInflight(t *testing.T) {
	m, st, _ := newTestModel(t, "reply")

	m.input.SetValue("first")
	m, _ = pressEnter(m)

	m.input.SetValue("second")
	m, _ = pressEnter(m)

	if got := len(st.Active().Messages); got != 1 {
		t.Errorf("messages = %d, second send must be refused while inflight", got)
	}
	if m.status == "" {
		t.Error("refused send should explain itself in the status line")
	}
}

func TestSend_EmptyInputIgnored(t *testing.T) {
	m, st, responder := newTestModel(t, "reply")

	m.input.SetValue("   ")
	m, cmd := pressEnter(m)
	runCmd(cmd)

	if got := len(st.Active().Messages); got != 0 {
		t.Errorf("messages = %d, blank send must store nothing", got)
	}
	if m.inflight {
		t.Error("blank send must not mark the model inflight")
	}
	if responder.calls != 0 {
		t.Error("blank send must not reach the backend")
	}
}

func TestSend_AttachmentOnlyStillDispatches(t *testing.T) {
	m, st, responder := newTestModel(t, "nice file")

	att := model.Attachment{Name: "pic.png", MimeType: "image/png", Data: "QUJD"}
	next, _ := m.Update(attach.ResultMsg{Attachment: att})
	m = next.(Model)

	m, cmd := pressEnter(m)
	runCmd(cmd)

	if responder.calls != 1 {
		t.Fatalf("calls = %d, attachment-only send must dispatch", responder.calls)
	}
	if len(st.Active().Messages) != 1 {
		t.Error("attachment-only user message not stored")
	}
}

func TestReply_LandsInOriginatingSession(t *testing.T) {
	m, st, _ := newTestModel(t, "late reply")

	m.input.SetValue("question")
	m, _ = pressEnter(m)
	origin := st.ActiveID()

	// User opens a new chat before the reply arrives.
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = next.(Model)
	if st.ActiveID() == origin {
		t.Fatal("new session not activated")
	}

	next, _ = m.Update(responseMsg{sessionID: origin, text: "late reply"})
	m = next.(Model)

	originSession := st.Get(origin)
	if len(originSession.Messages) != 2 {
		t.Fatalf("origin messages = %d, want user+model", len(originSession.Messages))
	}
	if originSession.Messages[1].Content != "late reply" {
		t.Errorf("reply = %q", originSession.Messages[1].Content)
	}
	if len(st.Active().Messages) != 0 {
		t.Error("reply leaked into the newly active session")
	}
	if m.animatingID != "" {
		t.Error("reply to a background session must not animate")
	}
}

func TestReply_AnimatesOnActiveSession(t *testing.T) {
	m, st, _ := newTestModel(t, "Halo! Senang bertemu!")

	m.input.SetValue("hi")
	m, _ = pressEnter(m)

	next, cmd := m.Update(responseMsg{sessionID: st.ActiveID(), text: "Halo! Senang bertemu!"})
	m = next.(Model)

	if m.animatingID == "" {
		t.Fatal("reply on the active session should animate")
	}
	if cmd == nil {
		t.Fatal("no tick scheduled")
	}

	// Drive the animation to completion.
	for i := 0; i < 1000 && m.presenter.Animating(); i++ {
		next, _ = m.Update(typewriter.TickMsg{Gen: m.presenter.Gen()})
		m = next.(Model)
	}
	if m.animatingID != "" {
		t.Error("animatingID not cleared on completion")
	}
}

func TestSwitchSession_StopsAnimation(t *testing.T) {
	m, st, _ := newTestModel(t, "a rather long reply that animates")

	m.input.SetValue("hi")
	m, _ = pressEnter(m)
	next, _ := m.Update(responseMsg{sessionID: st.ActiveID(), text: "a rather long reply that animates"})
	m = next.(Model)

	if !m.presenter.Animating() {
		t.Fatal("expected a running animation")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	m = next.(Model)

	if m.presenter.Animating() {
		t.Error("animation survived the session switch")
	}
	if m.animatingID != "" {
		t.Error("animatingID not cleared on switch")
	}
}

func TestAttach_ResultAddsPendingAndSendCarriesIt(t *testing.T) {
	m, st, responder := newTestModel(t, "nice file")

	att := model.Attachment{Name: "pic.png", MimeType: "image/png", Data: "QUJD"}
	next, _ := m.Update(attach.ResultMsg{Attachment: att})
	m = next.(Model)

	if len(m.pending) != 1 {
		t.Fatalf("pending = %d, want 1", len(m.pending))
	}

	m.input.SetValue("look at this")
	m, cmd := pressEnter(m)
	runCmd(cmd)

	if len(m.pending) != 0 {
		t.Error("pending attachments not cleared after send")
	}
	parts := responder.gotTurns[len(responder.gotTurns)-1].Parts
	if len(parts) != 2 || parts[0].InlineData == nil {
		t.Error("attachment part missing or misplaced in final turn")
	}
	if len(st.Active().Messages[0].Attachments) != 1 {
		t.Error("stored user message lost its attachment")
	}
}

func TestAttach_ErrorSetsStatus(t *testing.T) {
	m, _, _ := newTestModel(t, "")

	m.input.SetValue("/attach /no/such/file.png")
	m, cmd := pressEnter(m)

	msgs := runCmd(cmd)
	if len(msgs) != 1 {
		t.Fatalf("msgs = %d, want the encode result", len(msgs))
	}
	next, _ := m.Update(msgs[0])
	m = next.(Model)

	if !m.statusIsErr {
		t.Error("encode failure should surface as an error status")
	}
	if len(m.pending) != 0 {
		t.Error("failed encode must not add a pending attachment")
	}
}

func TestEsc_ClearsPendingAndReleasesPreview(t *testing.T) {
	m, _, _ := newTestModel(t, "")

	preview := filepath.Join(t.TempDir(), "golem-preview-test.png")
	if err := os.WriteFile(preview, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	att := model.Attachment{Name: "p.png", MimeType: "image/png", Data: "eA==", PreviewPath: preview}
	next, _ := m.Update(attach.ResultMsg{Attachment: att})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)

	if len(m.pending) != 0 {
		t.Error("pending attachments not cleared")
	}
	if _, err := os.Stat(preview); !os.IsNotExist(err) {
		t.Error("preview file not released")
	}
	if m.view != viewChat {
		t.Error("clearing attachments must not leave the chat view")
	}

	// A second esc with nothing pending goes back to the landing view.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.view != viewLanding {
		t.Error("esc did not return to the landing view")
	}
}

func TestDelete_LastSessionReturnsToLanding(t *testing.T) {
	m, st, _ := newTestModel(t, "")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m = next.(Model)

	if st.Len() != 0 {
		t.Errorf("sessions = %d, want 0", st.Len())
	}
	if m.view != viewLanding {
		t.Error("deleting the last session should return to the landing view")
	}
}

func TestLanding_ShowsLastMessageSnippet(t *testing.T) {
	m, _, _ := newTestModel(t, "Kabar baik, Stoky!")

	m.input.SetValue("Apa kabar Golem hari ini?")
	m, cmd := pressEnter(m)
	resp, ok := findResponse(runCmd(cmd))
	if !ok {
		t.Fatal("send produced no backend request")
	}
	next, _ := m.Update(resp)
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	if m.view != viewLanding {
		t.Fatal("esc did not return to the landing view")
	}
	if !strings.Contains(m.View(), "Kabar baik, Stoky!") {
		t.Error("landing view missing the last-message snippet")
	}
}

func TestSend_TitleDerivedFromFirstPrompt(t *testing.T) {
	m, st, _ := newTestModel(t, "reply")

	m.input.SetValue("Ceritakan tentang gunung berapi di Indonesia dong")
	m, _ = pressEnter(m)

	title := st.Active().Title
	if title == model.DefaultTitle {
		t.Fatal("title not derived from the first prompt")
	}
	if len([]rune(title)) > 30 {
		t.Errorf("title %q exceeds 30 runes", title)
	}
}
