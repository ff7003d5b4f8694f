// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hal

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	wgpuhal "github.com/gogpu/wgpu/hal"
)

// copyPitchAlignment is the row alignment buffer copies require.
const copyPitchAlignment = 256

// readback copies the whole of tex into a staging buffer, waits for it and
// crops r into dst as RGBA rows.
func (d *Device) readback(tex *texture, r image.Rectangle, dst []byte) error {
	w, h := uint32(tex.width), uint32(tex.height) //nolint:gosec // texture sizes are positive
	bytesPerRow := w * 4
	alignedBytesPerRow := (bytesPerRow + copyPitchAlignment - 1) &^ (copyPitchAlignment - 1)
	size := uint64(alignedBytesPerRow) * uint64(h)

	encoder, err := d.device.CreateCommandEncoder(&wgpuhal.CommandEncoderDescriptor{
		Label: tex.label + "_readback",
	})
	if err != nil {
		return fmt.Errorf("hal: readback: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(tex.label + "_readback"); err != nil {
		return fmt.Errorf("hal: readback: begin encoding: %w", err)
	}

	staging, err := d.device.CreateBuffer(&wgpuhal.BufferDescriptor{
		Label: tex.label + "_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		encoder.DiscardEncoding()
		return fmt.Errorf("hal: readback: create staging buffer: %w", err)
	}
	defer d.device.DestroyBuffer(staging)

	encoder.TransitionTextures([]wgpuhal.TextureBarrier{{
		Texture: tex.raw,
		Usage: wgpuhal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(tex.raw, staging, []wgpuhal.BufferTextureCopy{{
		BufferLayout: wgpuhal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  wgpuhal.ImageCopyTexture{Texture: tex.raw, MipLevel: 0},
		Size:         wgpuhal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	// Back to attachment usage for the next pass.
	encoder.TransitionTextures([]wgpuhal.TextureBarrier{{
		Texture: tex.raw,
		Usage: wgpuhal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("hal: readback: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmd)

	if err := d.submit([]wgpuhal.CommandBuffer{cmd}); err != nil {
		return err
	}
	data := make([]byte, size)
	if err := d.queue.ReadBuffer(staging, 0, data); err != nil {
		return fmt.Errorf("hal: readback: %w", err)
	}
	d.stats.Readbacks++

	cropRows(dst, data, int(alignedBytesPerRow), r, tex.format == gputypes.TextureFormatBGRA8Unorm)
	return nil
}

// cropRows copies r out of rows of pitch bytes into tightly packed RGBA,
// swapping red and blue when the source is BGRA.
func cropRows(dst, src []byte, pitch int, r image.Rectangle, bgra bool) {
	n := r.Dx() * 4
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := src[y*pitch+r.Min.X*4 : y*pitch+r.Min.X*4+n]
		copy(dst[i:i+n], row)
		if bgra {
			for k := i; k < i+n; k += 4 {
				dst[k], dst[k+2] = dst[k+2], dst[k]
			}
		}
		i += n
	}
}
