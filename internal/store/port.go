// Copyright (c) 2025 Stoky Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"os"
	"sync"

	"github.com/stokyware/golem/internal/util"
)

// Port is the durable-storage boundary for the session collection: a
// single keyed blob. Load returns os.ErrNotExist when no blob has ever
// been written.
type Port interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// =============================================================================
// FILE PORT
// =============================================================================

// FilePort persists the session blob to a single JSON file.
type FilePort struct {
	Path string
}

// NewFilePort creates a file-backed port at the given path.
func NewFilePort(path string) *FilePort {
	return &FilePort{Path: path}
}

// Load reads the persisted blob.
func (p *FilePort) Load() ([]byte, error) {
	return os.ReadFile(p.Path)
}

// Save writes the blob atomically so a crash never leaves a torn file.
func (p *FilePort) Save(data []byte) error {
	return util.AtomicWriteFile(p.Path, data, 0644)
}

// =============================================================================
// MEMORY PORT
// =============================================================================

// MemoryPort is an in-memory Port used by tests and ephemeral sessions.
type MemoryPort struct {
	mu    sync.Mutex
	data  []byte
	saved bool

	// Saves counts Save calls, for asserting persistence behavior.
	Saves int
}

// NewMemoryPort creates an empty in-memory port.
func NewMemoryPort() *MemoryPort {
	return &MemoryPort{}
}

// Load returns the stored blob, or os.ErrNotExist if nothing was saved.
func (p *MemoryPort) Load() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.saved {
		return nil, os.ErrNotExist
	}
	out := make([]byte, len(p.data))
	copy(out, p.data)
	return out, nil
}

// Save stores a copy of the blob.
func (p *MemoryPort) Save(data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = make([]byte, len(data))
	copy(p.data, data)
	p.saved = true
	p.Saves++
	return nil
}

// Seed pre-populates the port with a blob, as if a previous run saved it.
func (p *MemoryPort) Seed(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = append([]byte(nil), data...)
	p.saved = true
}
