// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package agecube

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/agecube/damage"
	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/agecube/kms"
	"github.com/gogpu/gputypes"
)

// OffscreenFormat is the DRM format the kernel buffer is imported as.
var OffscreenFormat = kms.FormatRGBA8888

// OffscreenImage is a kernel buffer imported as a texture. The same
// texture is the color attachment of Framebuffer and the sampled source
// of the second pass.
type OffscreenImage struct {
	Buffer kms.DumbBuffer

	// FD is the exported dma-buf descriptor.
	FD int

	// Width and Height are the logical size; Buffer holds the aligned
	// allocation.
	Width  int
	Height int

	Texture     gpu.Texture
	Framebuffer gpu.Framebuffer
	Status      gpu.FramebufferStatus
}

// OffscreenPipeline renders a triangle into an OffscreenImage and then
// samples the image onto a display framebuffer.
type OffscreenPipeline struct {
	dev      gpu.Device
	alloc    kms.Allocator
	image    *OffscreenImage
	solid    gpu.Program
	textured gpu.Program
	clear    gputypes.Color
	color    gputypes.Color
	logger   *slog.Logger
}

// NewOffscreenPipeline allocates a width x height kernel buffer through
// alloc, exports it and imports it into dev. solid draws the first pass,
// textured the second.
func NewOffscreenPipeline(dev gpu.Device, alloc kms.Allocator, solid, textured gpu.Program, width, height int, opts ...Option) (*OffscreenPipeline, error) {
	if solid == nil || solid.Kind() != gpu.ProgramSolid || textured == nil || textured.Kind() != gpu.ProgramTextured {
		return nil, resourceError("offscreen pipeline", fmt.Errorf("%w: want solid and textured programs", gpu.ErrNoProgram))
	}
	o := buildOptions(opts)
	img, err := initOffscreenTarget(dev, alloc, width, height, o.logger)
	if err != nil {
		return nil, err
	}
	return &OffscreenPipeline{
		dev:      dev,
		alloc:    alloc,
		image:    img,
		solid:    solid,
		textured: textured,
		clear:    o.clear,
		color:    o.colors[damage.Color1],
		logger:   o.logger,
	}, nil
}

// initOffscreenTarget allocates the kernel buffer aligned to
// kms.TileAlignment, exports it and imports it with the logical size.
// An incomplete framebuffer is logged and otherwise ignored.
func initOffscreenTarget(dev gpu.Device, alloc kms.Allocator, width, height int, logger *slog.Logger) (*OffscreenImage, error) {
	aw, ah := kms.Align(width, kms.TileAlignment), kms.Align(height, kms.TileAlignment)
	buf, err := alloc.CreateDumb(aw, ah, 32)
	if err != nil {
		return nil, resourceError("allocate offscreen buffer", err)
	}

	fd, err := alloc.ExportDMABuf(buf)
	if err != nil {
		_ = alloc.DestroyDumb(buf)
		return nil, resourceError("export offscreen buffer", err)
	}
	logger.Info("agecube: offscreen buffer", "pitch", buf.Pitch, "fd", fd,
		"width", width, "height", height, "aligned", fmt.Sprintf("%dx%d", aw, ah))

	img := &OffscreenImage{Buffer: buf, FD: fd, Width: width, Height: height}
	img.Texture, err = dev.ImportDMABuf(gpu.DMABufDescriptor{
		Label:  "offscreen",
		Width:  width,
		Height: height,
		FourCC: OffscreenFormat,
		FD:     fd,
		Offset: 0,
		Pitch:  buf.Pitch,
	})
	if err != nil {
		img.release(dev, alloc)
		return nil, resourceError("import offscreen buffer", err)
	}

	img.Framebuffer, err = dev.CreateFramebuffer(img.Texture)
	if err != nil {
		img.release(dev, alloc)
		return nil, resourceError("offscreen framebuffer", err)
	}

	img.Status = dev.CheckFramebuffer(img.Framebuffer)
	if img.Status.Complete() {
		logger.Info("agecube: offscreen framebuffer complete")
	} else {
		diag := &Error{Kind: KindFramebuffer, Op: "check offscreen framebuffer", Err: errors.New(img.Status.String())}
		logger.Warn("agecube: offscreen framebuffer", "err", diag)
	}
	return img, nil
}

// release destroys everything img holds, in reverse order of creation.
func (img *OffscreenImage) release(dev gpu.Device, alloc kms.Allocator) error {
	if img.Framebuffer != nil {
		dev.DestroyFramebuffer(img.Framebuffer)
		img.Framebuffer = nil
	}
	if img.Texture != nil {
		dev.DestroyTexture(img.Texture)
		img.Texture = nil
	}
	var errs []error
	if img.FD >= 0 {
		errs = append(errs, closeFD(img.FD))
		img.FD = -1
	}
	errs = append(errs, alloc.DestroyDumb(img.Buffer))
	return errors.Join(errs...)
}

// Image returns the imported kernel buffer.
func (p *OffscreenPipeline) Image() *OffscreenImage { return p.image }

// RenderPass1 clears the offscreen image and draws the first triangle of
// the full-target quad into it with the solid program.
func (p *OffscreenPipeline) RenderPass1() error {
	pass, err := p.dev.BeginPass(gpu.PassDescriptor{
		Label:      "offscreen-pass-1",
		Target:     p.image.Framebuffer,
		LoadOp:     gputypes.LoadOpClear,
		ClearValue: p.clear,
	})
	if err != nil {
		return gpuError("offscreen pass 1", err)
	}
	err = p.drawSolid(pass)
	if endErr := pass.End(); err == nil {
		err = endErr
	}
	if err != nil {
		return gpuError("offscreen pass 1", err)
	}
	return nil
}

func (p *OffscreenPipeline) drawSolid(pass gpu.Pass) error {
	if err := pass.SetProgram(p.solid); err != nil {
		return err
	}
	pass.SetColor(p.color)
	return pass.Draw(gpu.DrawCall{
		Attribs: []gpu.VertexAttrib{position(damage.FullTriangle())},
		Count:   3,
	})
}

// RenderPass2 clears fb and draws the same triangle with the textured
// program, sampling the offscreen image with nearest filtering so every
// pixel reproduces the texel under it.
func (p *OffscreenPipeline) RenderPass2(fb gpu.Framebuffer) error {
	pass, err := p.dev.BeginPass(gpu.PassDescriptor{
		Label:      "offscreen-pass-2",
		Target:     fb,
		LoadOp:     gputypes.LoadOpClear,
		ClearValue: p.clear,
	})
	if err != nil {
		return gpuError("offscreen pass 2", err)
	}
	err = p.drawTextured(pass)
	if endErr := pass.End(); err == nil {
		err = endErr
	}
	if err != nil {
		return gpuError("offscreen pass 2", err)
	}
	return nil
}

func (p *OffscreenPipeline) drawTextured(pass gpu.Pass) error {
	if err := pass.SetProgram(p.textured); err != nil {
		return err
	}
	if err := pass.SetTexture(0, p.image.Texture, gpu.NearestClamp()); err != nil {
		return err
	}
	tri := damage.FullTriangle()
	return pass.Draw(gpu.DrawCall{
		Attribs: []gpu.VertexAttrib{
			position(tri),
			{Location: gpu.LocationTexCoord, Format: gputypes.VertexFormatFloat32x2, Data: damage.TexCoords(tri)},
		},
		Count: 3,
	})
}

// Render runs both passes into fb and returns the damage, always the full
// target.
//
// Pass 1 is ended and flushed before pass 2 begins. This ordering on a
// single device is the only synchronization between writing the image and
// sampling it; both passes must stay on the calling goroutine.
func (p *OffscreenPipeline) Render(fb gpu.Framebuffer) (damage.Rect, error) {
	if err := p.RenderPass1(); err != nil {
		return damage.Rect{}, err
	}
	if err := p.dev.Flush(); err != nil {
		return damage.Rect{}, gpuError("flush offscreen pass 1", err)
	}
	if err := p.RenderPass2(fb); err != nil {
		return damage.Rect{}, err
	}
	return damage.Full(fb.Width(), fb.Height()), nil
}

// Close releases the image and the kernel buffer.
func (p *OffscreenPipeline) Close() error {
	if p.image == nil {
		return nil
	}
	err := p.image.release(p.dev, p.alloc)
	p.image = nil
	return err
}

func position(data []float32) gpu.VertexAttrib {
	return gpu.VertexAttrib{Location: gpu.LocationPosition, Format: gputypes.VertexFormatFloat32x2, Data: data}
}
