// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package soft

import (
	"fmt"

	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/gputypes"
)

type pass struct {
	dev    *Device
	label  string
	target *texture

	program *program
	color   [4]uint8
	texture *texture
	ended   bool
}

func (p *pass) SetProgram(prog gpu.Program) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	pr, ok := prog.(*program)
	if !ok || pr == nil {
		return gpu.ErrForeignObject
	}
	p.program = pr
	return nil
}

func (p *pass) SetColor(c gputypes.Color) {
	p.color = rgba8(c)
}

func (p *pass) SetTexture(unit int, t gpu.Texture, s gpu.SamplerDescriptor) error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	if unit != 0 {
		return fmt.Errorf("soft: texture unit %d: %w", unit, gpu.ErrUnsupported)
	}
	if s.MinFilter != gputypes.FilterModeNearest || s.MagFilter != gputypes.FilterModeNearest {
		return fmt.Errorf("soft: %w: only nearest filtering", gpu.ErrUnsupported)
	}
	tex, err := p.dev.texture(t)
	if err != nil {
		return err
	}
	if tex == p.target {
		return fmt.Errorf("soft: texture %q is the target of pass %q", tex.label, p.label)
	}
	p.texture = tex
	return nil
}

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

	var uv gpu.VertexAttrib
	if p.program.kind == gpu.ProgramTextured {
		if p.texture == nil {
			return gpu.ErrNoTexture
		}
		uv, ok = call.Attrib(gpu.LocationTexCoord)
		if !ok || uv.Format != gputypes.VertexFormatFloat32x2 {
			return fmt.Errorf("%w: texcoord", gpu.ErrMissingAttribute)
		}
	}

	w, h := p.target.width, p.target.height
	frag := p.fragment()
	for first := call.First; first < call.First+call.Count; first += 3 {
		var tri [3]rasterVertex
		for i := range tri {
			k := (first + i) * 2
			tri[i] = viewportVertex(pos.Data[k], pos.Data[k+1], w, h)
			if uv.Data != nil {
				tri[i].u, tri[i].v = uv.Data[k], uv.Data[k+1]
			}
		}
		p.dev.stats.Fragments += rasterize(tri, w, h, frag)
	}
	p.dev.stats.DrawCalls++
	return nil
}

func (p *pass) fragment() fragment {
	target := p.target
	if p.program.kind == gpu.ProgramTextured {
		src := p.texture
		return func(x, y int, u, v float32) {
			target.set(x, y, sampleNearest(src, u, v))
		}
	}
	c := p.color
	return func(x, y int, _, _ float32) {
		target.set(x, y, c)
	}
}

func (p *pass) End() error {
	if p.ended {
		return gpu.ErrPassEnded
	}
	p.ended = true
	if p.dev.open == p {
		p.dev.open = nil
	}
	return nil
}
