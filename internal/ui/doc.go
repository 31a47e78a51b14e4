// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui implements the golem terminal interface.
//
// The interface has two views: a landing screen shown on startup and the
// chat screen with a session sidebar, message transcript, and input bar.
// Responses are revealed with a typewriter animation; switching sessions
// or sending a new prompt stops the animation and shows the full text.
package ui
