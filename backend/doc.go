// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend selects a gpu.Device implementation by name.
//
// Importing the package registers both built-in devices:
//
//   - "soft": CPU rasterizer with zero-copy dma-buf import (always available)
//   - "hal": gogpu/wgpu HAL on Vulkan, damage path only
//
// Open a specific device, or let Default pick the first one that opens:
//
//	dev, err := backend.Open(backend.Soft)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer dev.Destroy()
//
// Further devices can be added with Register, typically from init.
package backend
