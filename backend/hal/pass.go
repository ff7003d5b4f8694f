// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hal

import (
	"fmt"

	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/gputypes"
	wgpuhal "github.com/gogpu/wgpu/hal"
	"honnef.co/go/safeish"
)

// recording is an ended pass waiting for Flush, with the buffers its draws
// reference.
type recording struct {
	cmd        wgpuhal.CommandBuffer
	buffers    []wgpuhal.Buffer
	bindGroups []wgpuhal.BindGroup
}

func (r *recording) release(dev wgpuhal.Device) {
	for _, bg := range r.bindGroups {
		dev.DestroyBindGroup(bg)
	}
	for _, b := range r.buffers {
		dev.DestroyBuffer(b)
	}
	if r.cmd != nil {
		dev.FreeCommandBuffer(r.cmd)
	}
	*r = recording{}
}

type pass struct {
	dev     *Device
	label   string
	target  *texture
	encoder wgpuhal.CommandEncoder
	rp      wgpuhal.RenderPassEncoder
	rec     recording

	program *program
	color   [4]float32
	ended   bool
}

// BeginPass implements gpu.Device. Only one pass may be open at a time.
func (d *Device) BeginPass(desc gpu.PassDescriptor) (gpu.Pass, error) {
	if d.destroyed {
		return nil, fmt.Errorf("hal: begin pass %q: device destroyed", desc.Label)
	}
	if d.open != nil {
		return nil, fmt.Errorf("hal: begin pass %q: pass %q still open", desc.Label, d.open.label)
	}
	f, err := d.framebuffer(desc.Target)
	if err != nil {
		return nil, err
	}

	encoder, err := d.device.CreateCommandEncoder(&wgpuhal.CommandEncoderDescriptor{
		Label: desc.Label + "_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("hal: pass %q: create command encoder: %w", desc.Label, err)
	}
	if err := encoder.BeginEncoding(desc.Label); err != nil {
		return nil, fmt.Errorf("hal: pass %q: begin encoding: %w", desc.Label, err)
	}

	loadOp := gputypes.LoadOpLoad
	if desc.LoadOp == gputypes.LoadOpClear {
		loadOp = gputypes.LoadOpClear
	}
	rp := encoder.BeginRenderPass(&wgpuhal.RenderPassDescriptor{
		Label: desc.Label,
		ColorAttachments: []wgpuhal.RenderPassColorAttachment{{
			View:       f.color.view,
			LoadOp:     loadOp,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: desc.ClearValue,
		}},
	})

	p := &pass{dev: d, label: desc.Label, target: f.color, encoder: encoder, rp: rp}
	d.open = p
	d.stats.Passes++
	return p, nil
}

func (p *pass) SetProgram(prog gpu.Program) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	pr, ok := prog.(*program)
	if !ok || pr == nil || pr.dev != p.dev {
		return gpu.ErrForeignObject
	}
	rp, err := pr.pipeline(p.target.format)
	if err != nil {
		return err
	}
	p.rp.SetPipeline(rp)
	p.program = pr
	return nil
}

func (p *pass) SetColor(c gputypes.Color) {
	p.color = [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

func (p *pass) SetTexture(int, gpu.Texture, gpu.SamplerDescriptor) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	return fmt.Errorf("hal: pass %q: %w: texture sampling", p.label, gpu.ErrUnsupported)
}

// Draw uploads the positions and the current color into fresh buffers.
// They live until the next Flush.
func (p *pass) Draw(call gpu.DrawCall) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	if p.program == nil {
		return gpu.ErrNoProgram
	}
	if err := call.Validate(); err != nil {
		return err
	}
	pos, ok := call.Attrib(gpu.LocationPosition)
	if !ok || pos.Format != gputypes.VertexFormatFloat32x2 {
		return fmt.Errorf("%w: position", gpu.ErrMissingAttribute)
	}

	verts := pos.Data[call.First*2 : (call.First+call.Count)*2]
	vertBuf, err := p.upload(p.label+"_verts", safeish.SliceCast[[]byte](verts),
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	color := p.color
	uniformBuf, err := p.upload(p.label+"_color", safeish.SliceCast[[]byte](color[:]),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	bindGroup, err := p.dev.device.CreateBindGroup(&wgpuhal.BindGroupDescriptor{
		Label:  p.label + "_bind",
		Layout: p.program.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: uniformBuf.NativeHandle(), Offset: 0, Size: colorUniformSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("hal: pass %q: create bind group: %w", p.label, err)
	}
	p.rec.bindGroups = append(p.rec.bindGroups, bindGroup)

	p.rp.SetBindGroup(0, bindGroup, nil)
	p.rp.SetVertexBuffer(0, vertBuf, 0)
	p.rp.Draw(uint32(call.Count), 1, 0, 0) //nolint:gosec // validated positive
	p.dev.stats.DrawCalls++
	return nil
}

func (p *pass) upload(label string, data []byte, usage gputypes.BufferUsage) (wgpuhal.Buffer, error) {
	buf, err := p.dev.device.CreateBuffer(&wgpuhal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("hal: pass %q: create %s: %w", p.label, label, err)
	}
	p.rec.buffers = append(p.rec.buffers, buf)
	p.dev.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

// End finishes encoding and queues the pass for the next Flush. A pass
// whose encoding fails releases its buffers immediately.
func (p *pass) End() error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	p.ended = true
	if p.dev.open == p {
		p.dev.open = nil
	}

	p.rp.End()
	cmd, err := p.encoder.EndEncoding()
	if err != nil {
		p.rec.release(p.dev.device)
		return fmt.Errorf("hal: pass %q: end encoding: %w", p.label, err)
	}
	p.rec.cmd = cmd
	rec := p.rec
	p.dev.pending = append(p.dev.pending, &rec)
	return nil
}
