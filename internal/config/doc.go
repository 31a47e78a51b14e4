// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for golem.
//
// Configuration sources, in order of precedence:
//   - Environment variables (GEMINI_API_KEY, GOLEM_*)
//   - ~/.golem/config.toml
//   - Built-in defaults
//
// The config file can be watched for changes so a running proxy picks up
// key or model swaps without a restart.
package config
