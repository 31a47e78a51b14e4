// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attach converts local files into request attachments.
//
// An encoded attachment carries the file's bytes as base64 together with
// a detected MIME type, ready to be embedded in a model request. Image
// attachments additionally get a preview file on disk; previews are
// owned by the session store and released when the owning session is
// deleted.
package attach
