// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !linux

package soft

import (
	"fmt"

	"github.com/gogpu/agecube/gpu"
)

// ImportDMABuf implements gpu.Device. dma-buf is Linux only.
func (d *Device) ImportDMABuf(desc gpu.DMABufDescriptor) (gpu.Texture, error) {
	return nil, fmt.Errorf("soft: import %q: %w", desc.Label, gpu.ErrUnsupported)
}
