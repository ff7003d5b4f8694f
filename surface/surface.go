// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"

	"github.com/gogpu/agecube/damage"
	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/gputypes"
)

// Provider is a display surface that reuses its back buffers.
//
// Providers are NOT thread-safe. Acquire, BufferAge and Present must be
// called in that order from a single goroutine, once per frame.
type Provider interface {
	// Acquire returns the back buffer to draw the next frame into.
	// Calling Acquire again before Present returns the same buffer.
	Acquire() (gpu.Framebuffer, error)

	// BufferAge returns the age of the acquired buffer.
	BufferAge() damage.BufferAge

	// Present shows the acquired buffer. Only pixels inside r are
	// guaranteed to reach the display. Present may block to pace frames.
	Present(r damage.Rect) error

	// Size returns the buffer dimensions in pixels.
	Size() (width, height int)

	// Format returns the pixel format of the buffers.
	Format() gputypes.TextureFormat
}

var (
	// ErrNotAcquired is returned by Present when no buffer is acquired.
	ErrNotAcquired = errors.New("surface: present without acquired buffer")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("surface: closed")
)
