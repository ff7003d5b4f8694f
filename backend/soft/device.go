// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package soft

import (
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/gputypes"
)

// Stats counts the work a Device has performed.
type Stats struct {
	Passes    int
	Clears    int
	DrawCalls int
	Fragments int
	Flushes   int
	Imports   int
}

// Device is a CPU implementation of gpu.Device. It is not safe for
// concurrent use.
type Device struct {
	logger    atomic.Pointer[slog.Logger]
	stats     Stats
	open      *pass
	destroyed bool
}

var _ gpu.Device = (*Device)(nil)

// New returns a ready software device.
func New() *Device {
	d := &Device{}
	d.logger.Store(slog.New(slog.DiscardHandler))
	return d
}

// SetLogger sets the logger used for device diagnostics.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.logger.Store(l)
}

func (d *Device) log() *slog.Logger { return d.logger.Load() }

// Name implements gpu.Device.
func (d *Device) Name() string { return "soft" }

// Stats returns the counters accumulated so far.
func (d *Device) Stats() Stats { return d.stats }

// ResetStats zeroes the counters.
func (d *Device) ResetStats() { d.stats = Stats{} }

type program struct {
	kind  gpu.ProgramKind
	label string
}

func (p *program) Kind() gpu.ProgramKind { return p.kind }
func (p *program) Label() string         { return p.label }

// CreateProgram implements gpu.Device. The software device runs fixed
// function equivalents of the two program kinds, so the stages are only
// checked for presence.
func (d *Device) CreateProgram(desc gpu.ProgramDescriptor) (gpu.Program, error) {
	if desc.Kind != gpu.ProgramSolid && desc.Kind != gpu.ProgramTextured {
		return nil, fmt.Errorf("soft: program %q: %w: kind %d", desc.Label, gpu.ErrUnsupported, desc.Kind)
	}
	if desc.Vertex.Source == "" || desc.Fragment.Source == "" {
		return nil, fmt.Errorf("soft: program %q: missing shader stage", desc.Label)
	}
	return &program{kind: desc.Kind, label: desc.Label}, nil
}

// CreateTexture implements gpu.Device.
func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("soft: texture %q: invalid size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	var order [4]int
	switch desc.Format {
	case gputypes.TextureFormatRGBA8Unorm:
		order = orderRGBA
	case gputypes.TextureFormatBGRA8Unorm:
		order = orderBGRA
	default:
		return nil, fmt.Errorf("soft: texture %q: %w: format %v", desc.Label, gpu.ErrUnsupported, desc.Format)
	}
	return &texture{
		dev:    d,
		label:  desc.Label,
		width:  desc.Width,
		height: desc.Height,
		stride: desc.Width * 4,
		format: desc.Format,
		order:  order,
		pix:    make([]byte, desc.Width*desc.Height*4),
	}, nil
}

// CreateFramebuffer implements gpu.Device.
func (d *Device) CreateFramebuffer(color gpu.Texture) (gpu.Framebuffer, error) {
	t, err := d.texture(color)
	if err != nil {
		return nil, err
	}
	return &framebuffer{color: t}, nil
}

// CheckFramebuffer implements gpu.Device.
func (d *Device) CheckFramebuffer(fb gpu.Framebuffer) gpu.FramebufferStatus {
	f, ok := fb.(*framebuffer)
	switch {
	case !ok || f == nil || f.color == nil:
		return gpu.FramebufferMissingAttachment
	case f.color.dev != d:
		return gpu.FramebufferUnsupported
	case f.color.width <= 0 || f.color.height <= 0:
		return gpu.FramebufferIncompleteDimensions
	case len(f.color.pix) < f.color.offset(f.color.width-1, f.color.height-1)+4:
		return gpu.FramebufferIncompleteAttachment
	}
	return gpu.FramebufferComplete
}

// BeginPass implements gpu.Device. Only one pass may be open at a time.
func (d *Device) BeginPass(desc gpu.PassDescriptor) (gpu.Pass, error) {
	if d.destroyed {
		return nil, fmt.Errorf("soft: begin pass %q: device destroyed", desc.Label)
	}
	if d.open != nil {
		return nil, fmt.Errorf("soft: begin pass %q: pass %q still open", desc.Label, d.open.label)
	}
	f, err := d.framebuffer(desc.Target)
	if err != nil {
		return nil, err
	}
	if desc.LoadOp == gputypes.LoadOpClear {
		f.color.fill(rgba8(desc.ClearValue))
		d.stats.Clears++
	}
	p := &pass{dev: d, label: desc.Label, target: f.color}
	d.open = p
	d.stats.Passes++
	return p, nil
}

// ReadPixels implements gpu.Device.
func (d *Device) ReadPixels(fb gpu.Framebuffer, r image.Rectangle, dst []byte) error {
	f, err := d.framebuffer(fb)
	if err != nil {
		return err
	}
	if !r.In(f.color.bounds()) {
		return fmt.Errorf("soft: read %v outside %v", r, f.color.bounds())
	}
	if len(dst) < r.Dx()*r.Dy()*4 {
		return fmt.Errorf("soft: read %v: destination holds %d bytes", r, len(dst))
	}
	i := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := f.color.get(x, y)
			copy(dst[i:i+4], c[:])
			i += 4
		}
	}
	return nil
}

// Flush implements gpu.Device. Draws complete before Draw returns, so
// flushing only checks that no pass is left open.
func (d *Device) Flush() error {
	if d.open != nil {
		return fmt.Errorf("soft: flush with pass %q open", d.open.label)
	}
	d.stats.Flushes++
	return nil
}

// DestroyProgram implements gpu.Device.
func (d *Device) DestroyProgram(gpu.Program) {}

// DestroyTexture implements gpu.Device. Imported textures are unmapped.
func (d *Device) DestroyTexture(t gpu.Texture) {
	tex, ok := t.(*texture)
	if !ok || tex.dev != d {
		return
	}
	if tex.release != nil {
		if err := tex.release(); err != nil {
			d.log().Warn("soft: unmap texture", "label", tex.label, "err", err)
		}
		tex.release = nil
	}
	tex.pix = nil
}

// DestroyFramebuffer implements gpu.Device.
func (d *Device) DestroyFramebuffer(gpu.Framebuffer) {}

// Destroy implements gpu.Device.
func (d *Device) Destroy() {
	d.destroyed = true
}

func (d *Device) texture(t gpu.Texture) (*texture, error) {
	tex, ok := t.(*texture)
	if !ok || tex == nil || tex.dev != d {
		return nil, gpu.ErrForeignObject
	}
	return tex, nil
}

func (d *Device) framebuffer(fb gpu.Framebuffer) (*framebuffer, error) {
	f, ok := fb.(*framebuffer)
	if !ok || f == nil || f.color == nil || f.color.dev != d {
		return nil, gpu.ErrForeignObject
	}
	return f, nil
}

func rgba8(c gputypes.Color) [4]uint8 {
	return [4]uint8{unorm8(c.R), unorm8(c.G), unorm8(c.B), unorm8(c.A)}
}
