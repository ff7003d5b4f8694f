// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package agecube

import (
	"errors"
	"fmt"
)

// ErrorKind classifies session errors.
type ErrorKind uint8

const (
	// KindResource covers failures acquiring a resource: reading or
	// compiling shaders, linking programs, allocating, exporting or
	// importing the kernel buffer, creating textures.
	KindResource ErrorKind = iota + 1

	// KindGPU covers failing passes, draw calls and readbacks. A KindGPU
	// error poisons the session: the buffer history it relies on is no
	// longer known.
	KindGPU

	// KindFramebuffer reports an incomplete render target. It is only
	// logged, never returned from a frame.
	KindFramebuffer
)

func (k ErrorKind) String() string {
	switch k {
	case KindResource:
		return "resource"
	case KindGPU:
		return "gpu"
	case KindFramebuffer:
		return "framebuffer"
	default:
		return "unknown"
	}
}

// Error is the error type returned by Session and its components.
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("agecube: %s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func resourceError(op string, err error) error {
	return &Error{Kind: KindResource, Op: op, Err: err}
}

func gpuError(op string, err error) error {
	return &Error{Kind: KindGPU, Op: op, Err: err}
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k ErrorKind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

// ErrClosed is returned by a closed session.
var ErrClosed = errors.New("agecube: session closed")
