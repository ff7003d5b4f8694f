// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides display surfaces that hand out reusable back
// buffers and report their age.
//
// A [Provider] follows the EGL_EXT_buffer_age model: every acquired buffer
// carries the number of frames since it was last presented, or zero when
// its contents are undefined. Present takes the damaged rectangle of the
// frame; the scanout plane only receives pixels inside it.
//
// # Frame sequence
//
//	fb, _ := sc.Acquire()
//	age := sc.BufferAge()
//	// draw into fb according to age
//	sc.Present(damageRect)
//
// A Swapchain with one buffer reports ages 0, 1, 1, ...; with two buffers
// 0, 0, 2, 2, ...; with three or more the ages exceed the history a
// renderer tracks.
package surface
