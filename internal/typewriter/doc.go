// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package typewriter animates the progressive reveal of response text.
//
// A Presenter owns at most one running animation. Starting a new reveal
// invalidates the previous one via a generation counter, so stale ticks
// from an abandoned animation can never advance or complete the current
// one. Completion is reported exactly once per animation.
package typewriter
