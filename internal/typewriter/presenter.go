// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package typewriter

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// REVEAL PACING
// =============================================================================

const (
	// DefaultInterval is the delay between reveal steps.
	DefaultInterval = 12 * time.Millisecond

	// longTextThreshold is the rune count above which the reveal switches
	// to the larger chunk so long responses finish in reasonable time.
	longTextThreshold = 500

	chunkShort = 2
	chunkLong  = 5
)

// TickMsg drives one reveal step. Gen identifies the animation the tick
// belongs to; ticks from superseded animations are discarded.
type TickMsg struct {
	Gen int
}

// =============================================================================
// PRESENTER
// =============================================================================

// Presenter reveals text a few runes at a time. It is owned by the UI
// model and advanced from the Bubble Tea update loop.
type Presenter struct {
	text     []rune
	revealed int
	gen      int
	interval time.Duration
	running  bool
}

// New creates a presenter with the default reveal interval.
func New() *Presenter {
	return &Presenter{interval: DefaultInterval}
}

// WithInterval overrides the reveal interval. Used by configuration and
// tests.
func (p *Presenter) WithInterval(interval time.Duration) *Presenter {
	if interval > 0 {
		p.interval = interval
	}
	return p
}

// Start begins revealing text from the first rune, superseding any
// animation in flight. The returned command schedules the first tick;
// it is nil when the text is empty.
func (p *Presenter) Start(text string) tea.Cmd {
	p.gen++
	p.text = []rune(text)
	p.revealed = 0

	if len(p.text) == 0 {
		p.running = false
		return nil
	}
	p.running = true
	return p.tick()
}

// Advance applies one tick. It returns the command scheduling the next
// tick (nil when the reveal is finished or the tick is stale) and a flag
// that is true exactly once per animation, on the step that reveals the
// final rune.
func (p *Presenter) Advance(msg TickMsg) (tea.Cmd, bool) {
	if msg.Gen != p.gen || !p.running {
		return nil, false
	}

	p.revealed += p.chunk()
	if p.revealed >= len(p.text) {
		p.revealed = len(p.text)
		p.running = false
		return nil, true
	}
	return p.tick(), false
}

// Stop abandons the animation and reveals the full text immediately.
// Ticks already scheduled become stale. It reports whether an animation
// was actually interrupted, so the caller can finalize the message.
func (p *Presenter) Stop() bool {
	interrupted := p.running
	p.gen++
	p.revealed = len(p.text)
	p.running = false
	return interrupted
}

// Visible returns the currently revealed prefix.
func (p *Presenter) Visible() string {
	return string(p.text[:p.revealed])
}

// Animating reports whether a reveal is in progress.
func (p *Presenter) Animating() bool {
	return p.running
}

// Gen returns the current animation generation. Ticks carrying an older
// generation are discarded by Advance.
func (p *Presenter) Gen() int {
	return p.gen
}

// chunk returns the reveal step size for the current text length.
func (p *Presenter) chunk() int {
	if len(p.text) > longTextThreshold {
		return chunkLong
	}
	return chunkShort
}

func (p *Presenter) tick() tea.Cmd {
	gen := p.gen
	return tea.Tick(p.interval, func(time.Time) tea.Msg {
		return TickMsg{Gen: gen}
	})
}
