// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared helpers for the golem application:
// atomic file writes for durable persistence and rune/width-aware string
// formatting for the TUI.
package util
