// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package hal implements gpu.Device on the gogpu/wgpu hardware abstraction
// layer.
//
// The device records each pass into its own command encoder. Ended passes
// are queued and submitted together by Flush, which waits on a fence before
// releasing the per-draw vertex and uniform buffers. ReadPixels flushes
// first, then copies the color attachment into a staging buffer.
//
// Only solid programs are supported. Sampling and dma-buf import return
// gpu.ErrUnsupported, so the offscreen path needs backend/soft.
package hal
