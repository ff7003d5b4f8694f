// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package kms

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// PitchAlignment is the row alignment used by the memfd allocator.
const PitchAlignment = 64

// Memfd allocates buffers as anonymous memory files. A memfd is a valid
// dma-buf stand-in for consumers that only map the descriptor.
type Memfd struct {
	mu      sync.Mutex
	next    uint32
	buffers map[uint32]int
}

// NewMemfd returns an empty memfd allocator.
func NewMemfd() *Memfd {
	return &Memfd{buffers: make(map[uint32]int)}
}

// CreateDumb implements Allocator.
func (m *Memfd) CreateDumb(width, height, bpp int) (DumbBuffer, error) {
	if err := checkSize(width, height, bpp); err != nil {
		return DumbBuffer{}, err
	}
	pitch := Align(width*bpp/8, PitchAlignment)
	size := uint64(pitch) * uint64(height)

	fd, err := unix.MemfdCreate("agecube-dumb", unix.MFD_CLOEXEC)
	if err != nil {
		return DumbBuffer{}, fmt.Errorf("kms: memfd_create: %w", err)
	}
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		_ = unix.Close(fd)
		return DumbBuffer{}, fmt.Errorf("kms: size memfd to %d: %w", size, err)
	}

	m.mu.Lock()
	m.next++
	h := m.next
	m.buffers[h] = fd
	m.mu.Unlock()

	return DumbBuffer{Handle: h, Width: width, Height: height, BPP: bpp, Pitch: pitch, Size: size}, nil
}

// ExportDMABuf implements Allocator.
func (m *Memfd) ExportDMABuf(b DumbBuffer) (int, error) {
	m.mu.Lock()
	fd, ok := m.buffers[b.Handle]
	m.mu.Unlock()
	if !ok {
		return -1, fmt.Errorf("%w: %d", ErrUnknownBuffer, b.Handle)
	}
	dup, err := unix.FcntlInt(uintptr(fd), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return -1, fmt.Errorf("kms: export handle %d: %w", b.Handle, err)
	}
	return dup, nil
}

// DestroyDumb implements Allocator.
func (m *Memfd) DestroyDumb(b DumbBuffer) error {
	m.mu.Lock()
	fd, ok := m.buffers[b.Handle]
	delete(m.buffers, b.Handle)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBuffer, b.Handle)
	}
	return unix.Close(fd)
}

// Close releases every buffer still allocated.
func (m *Memfd) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var first error
	for h, fd := range m.buffers {
		if err := unix.Close(fd); err != nil && first == nil {
			first = err
		}
		delete(m.buffers, h)
	}
	return first
}
