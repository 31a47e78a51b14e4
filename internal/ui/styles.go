// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// =============================================================================
// THEME
// =============================================================================

// Theme holds the styled components for the interface, adjusted to the
// terminal's color capability.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	// Landing screen
	Banner   lipgloss.Style
	Tagline  lipgloss.Style
	HintKey  lipgloss.Style
	HintDesc lipgloss.Style

	// Sidebar
	Sidebar        lipgloss.Style
	SessionItem    lipgloss.Style
	SessionActive  lipgloss.Style
	SidebarHeading lipgloss.Style

	// Transcript
	UserLabel   lipgloss.Style
	GolemLabel  lipgloss.Style
	UserText    lipgloss.Style
	Attachment  lipgloss.Style
	Timestamp   lipgloss.Style
	StatusLine  lipgloss.Style
	ErrorStatus lipgloss.Style

	// Input bar
	InputBar    lipgloss.Style
	InputPrompt lipgloss.Style
}

// NewTheme builds the theme for the current terminal.
func NewTheme() *Theme {
	profile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()

	accent := lipgloss.Color("212")
	secondary := lipgloss.Color("99")
	dim := lipgloss.Color("241")
	if !isDark {
		dim = lipgloss.Color("245")
	}

	return &Theme{
		IsDark:       isDark,
		ColorProfile: profile,

		Banner: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		Tagline: lipgloss.NewStyle().
			Foreground(dim).
			Italic(true),
		HintKey: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		HintDesc: lipgloss.NewStyle().
			Foreground(dim),

		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(dim).
			PaddingRight(1),
		SessionItem: lipgloss.NewStyle().
			Foreground(dim),
		SessionActive: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		SidebarHeading: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),

		UserLabel: lipgloss.NewStyle().
			Foreground(secondary).
			Bold(true),
		GolemLabel: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
		UserText: lipgloss.NewStyle(),
		Attachment: lipgloss.NewStyle().
			Foreground(dim).
			Italic(true),
		Timestamp: lipgloss.NewStyle().
			Foreground(dim),
		StatusLine: lipgloss.NewStyle().
			Foreground(dim).
			Italic(true),
		ErrorStatus: lipgloss.NewStyle().
			Foreground(lipgloss.Color("203")),

		InputBar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(dim),
		InputPrompt: lipgloss.NewStyle().
			Foreground(accent).
			Bold(true),
	}
}
