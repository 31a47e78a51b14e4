// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package attach

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// tinyPNG is an 8-byte PNG signature, enough for content sniffing.
var tinyPNG = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func TestEncode_TextFile(t *testing.T) {
	path := writeTestFile(t, "notes.txt", []byte("hello golem"))

	att, err := NewEncoder().Encode(path)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if att.Name != "notes.txt" {
		t.Errorf("Name = %q, want %q", att.Name, "notes.txt")
	}
	if att.MimeType != "text/plain" {
		t.Errorf("MimeType = %q, want %q", att.MimeType, "text/plain")
	}
	decoded, err := base64.StdEncoding.DecodeString(att.Data)
	if err != nil {
		t.Fatalf("Data is not valid base64: %v", err)
	}
	if string(decoded) != "hello golem" {
		t.Errorf("decoded = %q, want original bytes", decoded)
	}
	if att.PreviewPath != "" {
		t.Error("non-image should not get a preview")
	}
}

func TestEncode_ImageGetsPreview(t *testing.T) {
	path := writeTestFile(t, "pic.png", tinyPNG)

	att, err := NewEncoder().Encode(path)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	if att.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want %q", att.MimeType, "image/png")
	}
	if att.PreviewPath == "" {
		t.Fatal("image attachment should carry a preview path")
	}
	defer os.Remove(att.PreviewPath)

	preview, err := os.ReadFile(att.PreviewPath)
	if err != nil {
		t.Fatalf("preview unreadable: %v", err)
	}
	if string(preview) != string(tinyPNG) {
		t.Error("preview bytes differ from source")
	}
}

func TestEncode_UnknownExtensionSniffsContent(t *testing.T) {
	path := writeTestFile(t, "mystery.golemdata", tinyPNG)

	att, err := NewEncoder().Encode(path)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if att.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want sniffed %q", att.MimeType, "image/png")
	}
}

func TestEncode_TooLarge(t *testing.T) {
	path := writeTestFile(t, "big.bin", make([]byte, 128))
	enc := &Encoder{maxSize: 64}

	_, err := enc.Encode(path)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestEncode_MissingFile(t *testing.T) {
	_, err := NewEncoder().Encode(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestEncode_Directory(t *testing.T) {
	_, err := NewEncoder().Encode(t.TempDir())
	if err == nil {
		t.Fatal("expected error for directory")
	}
}

func TestReleasePreview(t *testing.T) {
	path := writeTestFile(t, "pic.png", tinyPNG)
	att, err := NewEncoder().Encode(path)
	if err != nil {
		t.Fatal(err)
	}

	ReleasePreview(att.PreviewPath)
	if _, err := os.Stat(att.PreviewPath); !os.IsNotExist(err) {
		t.Error("preview file still exists after release")
	}

	// Non-preview paths are refused.
	keep := writeTestFile(t, "keep.txt", []byte("x"))
	ReleasePreview(keep)
	if _, err := os.Stat(keep); err != nil {
		t.Error("release removed a file it does not own")
	}

	ReleasePreview("")
}
