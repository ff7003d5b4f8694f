// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package kms allocates kernel-backed pixel buffers and exports them as
// dma-buf file descriptors.
//
// The DRM allocator issues the dumb-buffer and PRIME ioctls of a DRM node
// directly. The memfd allocator provides the same contract on any Linux
// kernel without a display device, which is what the tests use.
package kms

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupported is returned on platforms without dma-buf support.
	ErrUnsupported = errors.New("kms: not supported on this platform")

	// ErrUnknownBuffer is returned for handles the allocator did not create.
	ErrUnknownBuffer = errors.New("kms: unknown buffer handle")

	// ErrInvalidSize is returned for non-positive dimensions or depths.
	ErrInvalidSize = errors.New("kms: invalid buffer size")
)

// TileAlignment is the pixel alignment dumb buffers are allocated with.
const TileAlignment = 16

// Align rounds v up to a multiple of alignment, which must be a power of
// two.
func Align(v, alignment int) int {
	return (v + alignment - 1) &^ (alignment - 1)
}

// DumbBuffer describes a linear buffer allocated by an Allocator.
type DumbBuffer struct {
	Handle uint32
	Width  int
	Height int
	BPP    int
	Pitch  int
	Size   uint64
}

func (b DumbBuffer) String() string {
	return fmt.Sprintf("dumb#%d %dx%d bpp=%d pitch=%d size=%d",
		b.Handle, b.Width, b.Height, b.BPP, b.Pitch, b.Size)
}

// Allocator creates dumb buffers and exports them as dma-bufs.
type Allocator interface {
	// CreateDumb allocates a width x height buffer of bpp bits per pixel.
	CreateDumb(width, height, bpp int) (DumbBuffer, error)

	// ExportDMABuf returns a new close-on-exec, read-write dma-buf file
	// descriptor for b. The caller owns and closes it.
	ExportDMABuf(b DumbBuffer) (int, error)

	DestroyDumb(b DumbBuffer) error
	Close() error
}

func checkSize(width, height, bpp int) error {
	if width <= 0 || height <= 0 || bpp <= 0 || bpp%8 != 0 {
		return fmt.Errorf("%w: %dx%d bpp=%d", ErrInvalidSize, width, height, bpp)
	}
	return nil
}

// MemfdDevice is the device name Open maps to the memfd allocator.
const MemfdDevice = "mem"

// Open returns the allocator for a device path: the memfd allocator for
// MemfdDevice, a DRM node otherwise.
func Open(device string) (Allocator, error) {
	if device == MemfdDevice {
		return NewMemfd(), nil
	}
	return OpenDRM(device)
}
