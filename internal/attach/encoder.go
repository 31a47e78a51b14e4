// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stokyware/golem/internal/model"
)

// =============================================================================
// LIMITS AND ERRORS
// =============================================================================

// MaxFileSize is the largest file accepted as an attachment. Attachments
// travel base64-encoded inside a JSON request body, so the cap keeps the
// request well under backend payload limits.
const MaxFileSize = 10 * 1024 * 1024 // 10MiB

// ErrFileTooLarge indicates the file exceeds MaxFileSize.
var ErrFileTooLarge = errors.New("file too large")

// previewPattern names preview temp files so strays are recognizable.
const previewPattern = "golem-preview-*"

// =============================================================================
// ENCODER
// =============================================================================

// Encoder turns files into model.Attachment values.
type Encoder struct {
	maxSize int64
}

// NewEncoder creates an encoder with the default size cap.
func NewEncoder() *Encoder {
	return &Encoder{maxSize: MaxFileSize}
}

// Encode reads the file at path and returns it as an attachment. The
// returned attachment's Data holds the standard base64 encoding of the
// file bytes. For images a preview file is written; the caller owns it
// until the attachment is handed to the session store.
func (e *Encoder) Encode(path string) (model.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return model.Attachment{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > e.maxSize {
		return model.Attachment{}, fmt.Errorf("%w: %s is %d bytes (limit %d)",
			ErrFileTooLarge, filepath.Base(path), info.Size(), e.maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Attachment{}, fmt.Errorf("failed to read file: %w", err)
	}

	att := model.Attachment{
		Name:     filepath.Base(path),
		MimeType: detectMimeType(path, data),
		Data:     base64.StdEncoding.EncodeToString(data),
	}

	if att.IsImage() {
		preview, err := writePreview(data, filepath.Ext(path))
		if err == nil {
			att.PreviewPath = preview
		}
		// A failed preview is cosmetic; the attachment still works.
	}

	return att, nil
}

// EncodeCmd wraps Encode as a Bubble Tea command.
func (e *Encoder) EncodeCmd(path string) tea.Cmd {
	return func() tea.Msg {
		att, err := e.Encode(path)
		return ResultMsg{Attachment: att, Err: err}
	}
}

// ResultMsg reports the outcome of an asynchronous encode.
type ResultMsg struct {
	Attachment model.Attachment
	Err        error
}

// ReleasePreview removes a preview file created by Encode. Unknown or
// already-removed paths are a no-op.
func ReleasePreview(path string) {
	if path == "" || !strings.Contains(filepath.Base(path), "golem-preview-") {
		return
	}
	_ = os.Remove(path)
}

// detectMimeType resolves the MIME type from the file extension, falling
// back to content sniffing when the extension is unknown.
func detectMimeType(path string, data []byte) string {
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		// Strip optional parameters such as "; charset=utf-8".
		if idx := strings.IndexByte(mt, ';'); idx >= 0 {
			mt = strings.TrimSpace(mt[:idx])
		}
		return mt
	}
	return http.DetectContentType(data)
}

// writePreview stores the image bytes in a temp file for rendering.
func writePreview(data []byte, ext string) (string, error) {
	f, err := os.CreateTemp("", previewPattern+ext)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
