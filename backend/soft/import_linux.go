// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux

package soft

import (
	"fmt"

	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/agecube/kms"
	"github.com/gogpu/gputypes"
	"golang.org/x/sys/unix"
)

// ImportDMABuf implements gpu.Device by mapping the descriptor shared and
// rendering straight into the mapping. The mapping stays valid after the
// caller closes desc.FD and is released by DestroyTexture.
func (d *Device) ImportDMABuf(desc gpu.DMABufDescriptor) (gpu.Texture, error) {
	order, ok := kms.ChannelOrder(desc.FourCC)
	if !ok {
		return nil, fmt.Errorf("soft: import %q: %w: format %s", desc.Label, gpu.ErrInvalidImport, kms.FormatName(desc.FourCC))
	}
	if desc.Width <= 0 || desc.Height <= 0 || desc.Offset < 0 || desc.Pitch < desc.Width*4 {
		return nil, fmt.Errorf("soft: import %q: %w: %dx%d pitch %d", desc.Label, gpu.ErrInvalidImport, desc.Width, desc.Height, desc.Pitch)
	}

	var st unix.Stat_t
	if err := unix.Fstat(desc.FD, &st); err != nil {
		return nil, fmt.Errorf("soft: import %q: stat fd %d: %w", desc.Label, desc.FD, err)
	}
	need := int64(desc.Offset) + int64(desc.Pitch)*int64(desc.Height)
	if st.Size < need {
		return nil, fmt.Errorf("soft: import %q: %w: buffer holds %d bytes, image needs %d", desc.Label, gpu.ErrInvalidImport, st.Size, need)
	}

	mem, err := unix.Mmap(desc.FD, 0, int(st.Size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("soft: import %q: mmap fd %d: %w", desc.Label, desc.FD, err)
	}

	d.stats.Imports++
	d.log().Debug("soft: imported dma-buf",
		"label", desc.Label, "fd", desc.FD, "format", kms.FormatName(desc.FourCC),
		"size", st.Size, "pitch", desc.Pitch)

	return &texture{
		dev:     d,
		label:   desc.Label,
		width:   desc.Width,
		height:  desc.Height,
		stride:  desc.Pitch,
		format:  gputypes.TextureFormatRGBA8Unorm,
		order:   order,
		pix:     mem[desc.Offset:],
		release: func() error { return unix.Munmap(mem) },
	}, nil
}
