// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package damage decides how much of a reused buffer must be redrawn.
//
// A display surface reports the age of every buffer it hands out: the
// number of frames since that buffer was last presented. Given the age and
// the index of the frame about to be drawn, [Lookup] returns a [Plan]: whether
// to clear, which triangles of the animated face to draw, and the rectangle
// to declare as damaged when presenting.
//
// The decision is a table indexed by [AgeState] and frame [Parity]; see
// [Table].
package damage
