// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu defines the device abstraction the renderer draws through.
//
// A [Device] owns programs, textures and framebuffers, records render
// passes and reads pixels back. Commands issued on one device execute in
// submission order: a pass that has ended, followed by [Device.Flush], is
// observably complete before any later pass samples its target. Nothing
// else orders work, so a device must be driven from a single goroutine.
//
// Two implementations exist: backend/soft rasterizes on the CPU and can
// import dma-buf memory without a copy, backend/hal records the same
// passes through the gogpu/wgpu hardware abstraction layer.
package gpu

import (
	"image"

	"github.com/gogpu/gputypes"
)

// Device creates GPU objects and records passes.
type Device interface {
	// Name identifies the implementation in logs.
	Name() string

	CreateProgram(desc ProgramDescriptor) (Program, error)
	CreateTexture(desc TextureDescriptor) (Texture, error)

	// ImportDMABuf wraps the memory behind a dma-buf file descriptor as a
	// texture without copying it. The descriptor stays owned by the caller.
	ImportDMABuf(desc DMABufDescriptor) (Texture, error)

	CreateFramebuffer(color Texture) (Framebuffer, error)
	CheckFramebuffer(fb Framebuffer) FramebufferStatus

	BeginPass(desc PassDescriptor) (Pass, error)

	// ReadPixels copies r of fb into dst as tightly packed RGBA8 rows.
	ReadPixels(fb Framebuffer, r image.Rectangle, dst []byte) error

	// Flush submits all recorded work and waits for it to complete.
	Flush() error

	DestroyProgram(p Program)
	DestroyTexture(t Texture)
	DestroyFramebuffer(fb Framebuffer)
	Destroy()
}

// Program is a linked vertex and fragment shader pair.
type Program interface {
	Kind() ProgramKind
	Label() string
}

// Texture is a 2D RGBA image.
type Texture interface {
	Width() int
	Height() int
	Format() gputypes.TextureFormat
}

// Framebuffer is a render target with a single color attachment.
type Framebuffer interface {
	Width() int
	Height() int
	Color() Texture
}

// Pass records draw calls into one framebuffer.
// Vertex attributes are supplied per draw call and are not retained.
type Pass interface {
	SetProgram(p Program) error

	// SetColor sets the fill color used by ProgramSolid.
	SetColor(c gputypes.Color)

	// SetTexture binds t to the sampler unit read by ProgramTextured.
	SetTexture(unit int, t Texture, s SamplerDescriptor) error

	Draw(call DrawCall) error
	End() error
}

// ProgramKind selects the fixed vertex layout and fragment behavior of a
// program.
type ProgramKind uint8

const (
	// ProgramSolid fills triangles with a uniform color.
	// Location 0 holds float32x2 positions.
	ProgramSolid ProgramKind = iota
	// ProgramTextured samples texture unit 0.
	// Location 0 holds float32x2 positions, location 1 float32x2 texture
	// coordinates.
	ProgramTextured
)

func (k ProgramKind) String() string {
	switch k {
	case ProgramSolid:
		return "solid"
	case ProgramTextured:
		return "textured"
	default:
		return "unknown"
	}
}

// Attribute locations shared by every program.
const (
	LocationPosition = 0
	LocationTexCoord = 1
)

// ShaderStage is the compiled form of one shader file.
type ShaderStage struct {
	Name       string
	Source     string
	EntryPoint string
	SPIRV      []uint32
}

// ProgramDescriptor describes a program to create.
type ProgramDescriptor struct {
	Label    string
	Kind     ProgramKind
	Vertex   ShaderStage
	Fragment ShaderStage
}

// TextureDescriptor describes a texture to allocate.
type TextureDescriptor struct {
	Label  string
	Width  int
	Height int
	Format gputypes.TextureFormat
	Usage  gputypes.TextureUsage
}

// DMABufDescriptor describes a single-plane linear dma-buf to import.
// Width and Height are the logical image size; the allocation behind FD
// may be larger.
type DMABufDescriptor struct {
	Label  string
	Width  int
	Height int
	FourCC uint32
	FD     int
	Offset int
	Pitch  int
}

// SamplerDescriptor describes how a texture is read.
type SamplerDescriptor struct {
	MinFilter gputypes.FilterMode
	MagFilter gputypes.FilterMode
	Address   gputypes.AddressMode
}

// NearestClamp samples the nearest texel and clamps to the edge.
func NearestClamp() SamplerDescriptor {
	return SamplerDescriptor{
		MinFilter: gputypes.FilterModeNearest,
		MagFilter: gputypes.FilterModeNearest,
		Address:   gputypes.AddressModeClampToEdge,
	}
}

// PassDescriptor describes a render pass.
type PassDescriptor struct {
	Label      string
	Target     Framebuffer
	LoadOp     gputypes.LoadOp
	ClearValue gputypes.Color
}

// VertexAttrib is one vertex attribute array. Data is read tightly packed.
type VertexAttrib struct {
	Location int
	Format   gputypes.VertexFormat
	Data     []float32
}

// DrawCall draws Count vertices starting at First as a triangle list.
type DrawCall struct {
	Attribs []VertexAttrib
	First   int
	Count   int
}

// Components returns the number of float32 components in f, or 0 for
// formats the programs do not use.
func Components(f gputypes.VertexFormat) int {
	switch f {
	case gputypes.VertexFormatFloat32x2:
		return 2
	case gputypes.VertexFormatFloat32x4:
		return 4
	default:
		return 0
	}
}

// Validate checks that every attribute holds Count vertices from First.
func (c DrawCall) Validate() error {
	if c.Count <= 0 || c.Count%3 != 0 || c.First < 0 {
		return ErrInvalidDraw
	}
	for _, a := range c.Attribs {
		n := Components(a.Format)
		if n == 0 || len(a.Data) < (c.First+c.Count)*n {
			return ErrInvalidDraw
		}
	}
	return nil
}

// Attrib returns the attribute bound at location loc.
func (c DrawCall) Attrib(loc int) (VertexAttrib, bool) {
	for _, a := range c.Attribs {
		if a.Location == loc {
			return a, true
		}
	}
	return VertexAttrib{}, false
}
