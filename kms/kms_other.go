// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !linux

package kms

// DRM is unavailable outside Linux.
type DRM struct{}

// OpenDRM always fails outside Linux.
func OpenDRM(path string) (*DRM, error) { return nil, ErrUnsupported }

func (*DRM) CreateDumb(int, int, int) (DumbBuffer, error) { return DumbBuffer{}, ErrUnsupported }
func (*DRM) ExportDMABuf(DumbBuffer) (int, error)         { return -1, ErrUnsupported }
func (*DRM) DestroyDumb(DumbBuffer) error                 { return ErrUnsupported }
func (*DRM) Close() error                                 { return nil }

// Memfd is unavailable outside Linux.
type Memfd struct{}

// NewMemfd returns an allocator whose every call fails.
func NewMemfd() *Memfd { return &Memfd{} }

func (*Memfd) CreateDumb(int, int, int) (DumbBuffer, error) { return DumbBuffer{}, ErrUnsupported }
func (*Memfd) ExportDMABuf(DumbBuffer) (int, error)         { return -1, ErrUnsupported }
func (*Memfd) DestroyDumb(DumbBuffer) error                 { return ErrUnsupported }
func (*Memfd) Close() error                                 { return nil }
