// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

// FramebufferStatus reports whether a framebuffer can be rendered to.
type FramebufferStatus uint8

const (
	FramebufferComplete FramebufferStatus = iota
	FramebufferUnsupported
	FramebufferIncompleteAttachment
	FramebufferMissingAttachment
	FramebufferIncompleteDimensions
)

// String returns a human readable reason for the status.
func (s FramebufferStatus) String() string {
	switch s {
	case FramebufferComplete:
		return "framebuffer complete"
	case FramebufferUnsupported:
		return "framebuffer unsupported"
	case FramebufferIncompleteAttachment:
		return "incomplete attachment"
	case FramebufferMissingAttachment:
		return "missing attachment"
	case FramebufferIncompleteDimensions:
		return "incomplete dimensions"
	default:
		return "framebuffer error"
	}
}

// Complete reports whether s is FramebufferComplete.
func (s FramebufferStatus) Complete() bool {
	return s == FramebufferComplete
}
