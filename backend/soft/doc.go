// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package soft implements gpu.Device on the CPU.
//
// Triangles are rasterized with fixed-point edge functions and a top-left
// fill rule, so triangles sharing an edge never both cover a pixel and
// never leave a gap between them. Textures are read with nearest
// filtering. A dma-buf import maps the descriptor's memory and renders
// into it directly; the kernel buffer and the texture are the same bytes.
package soft
