// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hal

import (
	"fmt"

	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/gputypes"
	wgpuhal "github.com/gogpu/wgpu/hal"
)

// positionStride is the byte stride of one float32x2 position.
const positionStride = 8

// colorUniformSize is the size of the solid fill uniform: one vec4<f32>.
const colorUniformSize = 16

type program struct {
	dev   *Device
	kind  gpu.ProgramKind
	label string

	vertex        wgpuhal.ShaderModule
	fragment      wgpuhal.ShaderModule
	vertexEntry   string
	fragmentEntry string
	uniformLayout wgpuhal.BindGroupLayout
	pipeLayout    wgpuhal.PipelineLayout

	// One pipeline per target format, created on first use.
	pipelines map[gputypes.TextureFormat]wgpuhal.RenderPipeline
}

func (p *program) Kind() gpu.ProgramKind { return p.kind }
func (p *program) Label() string         { return p.label }

// CreateProgram implements gpu.Device. Each stage is built from its SPIR-V
// words when present, otherwise from the WGSL source.
func (d *Device) CreateProgram(desc gpu.ProgramDescriptor) (gpu.Program, error) {
	if d.destroyed {
		return nil, fmt.Errorf("hal: program %q: device destroyed", desc.Label)
	}
	if desc.Kind != gpu.ProgramSolid {
		return nil, fmt.Errorf("hal: program %q: %w: %s programs", desc.Label, gpu.ErrUnsupported, desc.Kind)
	}

	p := &program{
		dev:           d,
		kind:          desc.Kind,
		label:         desc.Label,
		vertexEntry:   entryPoint(desc.Vertex, "vs_main"),
		fragmentEntry: entryPoint(desc.Fragment, "fs_main"),
		pipelines:     make(map[gputypes.TextureFormat]wgpuhal.RenderPipeline),
	}
	var err error
	if p.vertex, err = d.shaderModule(desc.Label+"_vs", desc.Vertex); err != nil {
		return nil, err
	}
	if p.fragment, err = d.shaderModule(desc.Label+"_fs", desc.Fragment); err != nil {
		p.destroy()
		return nil, err
	}

	p.uniformLayout, err = d.device.CreateBindGroupLayout(&wgpuhal.BindGroupLayoutDescriptor{
		Label: desc.Label + "_uniform_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
		},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("hal: program %q: create bind group layout: %w", desc.Label, err)
	}

	p.pipeLayout, err = d.device.CreatePipelineLayout(&wgpuhal.PipelineLayoutDescriptor{
		Label:            desc.Label + "_pipe_layout",
		BindGroupLayouts: []wgpuhal.BindGroupLayout{p.uniformLayout},
	})
	if err != nil {
		p.destroy()
		return nil, fmt.Errorf("hal: program %q: create pipeline layout: %w", desc.Label, err)
	}
	return p, nil
}

func entryPoint(s gpu.ShaderStage, fallback string) string {
	if s.EntryPoint != "" {
		return s.EntryPoint
	}
	return fallback
}

func (d *Device) shaderModule(label string, s gpu.ShaderStage) (wgpuhal.ShaderModule, error) {
	var src wgpuhal.ShaderSource
	switch {
	case len(s.SPIRV) > 0:
		src.SPIRV = s.SPIRV
	case s.Source != "":
		src.WGSL = s.Source
	default:
		return nil, fmt.Errorf("hal: shader %q: missing source", label)
	}
	m, err := d.device.CreateShaderModule(&wgpuhal.ShaderModuleDescriptor{
		Label:  label,
		Source: src,
	})
	if err != nil {
		return nil, fmt.Errorf("hal: create shader %q: %w", label, err)
	}
	return m, nil
}

// pipeline returns the render pipeline writing to format.
func (p *program) pipeline(format gputypes.TextureFormat) (wgpuhal.RenderPipeline, error) {
	if rp, ok := p.pipelines[format]; ok {
		return rp, nil
	}
	rp, err := p.dev.device.CreateRenderPipeline(&wgpuhal.RenderPipelineDescriptor{
		Label:  p.label + "_pipeline",
		Layout: p.pipeLayout,
		Vertex: wgpuhal.VertexState{
			Module:     p.vertex,
			EntryPoint: p.vertexEntry,
			Buffers: []gputypes.VertexBufferLayout{
				{
					ArrayStride: positionStride,
					StepMode:    gputypes.VertexStepModeVertex,
					Attributes: []gputypes.VertexAttribute{
						{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: gpu.LocationPosition},
					},
				},
			},
		},
		Fragment: &wgpuhal.FragmentState{
			Module:     p.fragment,
			EntryPoint: p.fragmentEntry,
			Targets: []gputypes.ColorTargetState{
				{
					Format:    format,
					WriteMask: gputypes.ColorWriteMaskAll,
				},
			},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("hal: program %q: create pipeline for %v: %w", p.label, format, err)
	}
	p.pipelines[format] = rp
	return rp, nil
}

func (p *program) destroy() {
	dev := p.dev.device
	for f, rp := range p.pipelines {
		dev.DestroyRenderPipeline(rp)
		delete(p.pipelines, f)
	}
	if p.pipeLayout != nil {
		dev.DestroyPipelineLayout(p.pipeLayout)
		p.pipeLayout = nil
	}
	if p.uniformLayout != nil {
		dev.DestroyBindGroupLayout(p.uniformLayout)
		p.uniformLayout = nil
	}
	if p.fragment != nil {
		dev.DestroyShaderModule(p.fragment)
		p.fragment = nil
	}
	if p.vertex != nil {
		dev.DestroyShaderModule(p.vertex)
		p.vertex = nil
	}
}

// DestroyProgram implements gpu.Device.
func (d *Device) DestroyProgram(p gpu.Program) {
	pr, ok := p.(*program)
	if !ok || pr == nil || pr.dev != d {
		return
	}
	pr.destroy()
}
