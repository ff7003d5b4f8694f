// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import "errors"

var (
	// ErrPassEnded is returned when a pass is used after End.
	ErrPassEnded = errors.New("gpu: pass already ended")

	// ErrNoProgram is returned by Draw when no program is bound.
	ErrNoProgram = errors.New("gpu: no program bound")

	// ErrInvalidDraw is returned for draw calls whose vertex data does not
	// match the requested range.
	ErrInvalidDraw = errors.New("gpu: invalid draw call")

	// ErrMissingAttribute is returned when a draw call lacks an attribute
	// the bound program reads.
	ErrMissingAttribute = errors.New("gpu: missing vertex attribute")

	// ErrNoTexture is returned when a textured program draws with no
	// texture bound.
	ErrNoTexture = errors.New("gpu: no texture bound")

	// ErrUnsupported is returned for operations a backend cannot perform.
	ErrUnsupported = errors.New("gpu: operation not supported by backend")

	// ErrInvalidImport is returned when a dma-buf descriptor is malformed
	// or does not fit the memory behind the file descriptor.
	ErrInvalidImport = errors.New("gpu: invalid dma-buf import")

	// ErrForeignObject is returned when an object created by one device is
	// passed to another.
	ErrForeignObject = errors.New("gpu: object belongs to another device")
)
