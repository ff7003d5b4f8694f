// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package agecube

import (
	"errors"
	"log/slog"

	"github.com/gogpu/agecube/damage"
	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/agecube/kms"
	"github.com/gogpu/agecube/shader"
	"github.com/gogpu/agecube/surface"
)

// Frame describes one rendered frame.
type Frame struct {
	Index  damage.FrameIndex
	Age    damage.BufferAge
	State  damage.AgeState
	Draws  int
	Damage damage.Rect
}

// Session owns the programs, the renderer and the offscreen image of one
// surface, and drives the per-frame sequence: acquire, query age, draw,
// present.
//
// A Session is not safe for concurrent use. The device and surface are
// borrowed and must outlive it.
type Session struct {
	dev    gpu.Device
	surf   surface.Provider
	opts   options
	logger *slog.Logger

	solid    gpu.Program
	textured gpu.Program

	renderer  *DamageRenderer
	offscreen *OffscreenPipeline
	ownAlloc  kms.Allocator

	frame  damage.FrameIndex
	failed error
	closed bool
}

// NewSession loads the programs and, in ModeOffscreen, sets up the kernel
// buffer. Every failure here is a KindResource error and leaves nothing
// allocated; no frame has been presented.
func NewSession(dev gpu.Device, surf surface.Provider, opts ...Option) (*Session, error) {
	o := buildOptions(opts)
	s := &Session{dev: dev, surf: surf, opts: o, logger: o.logger}
	propagateLogger(o.logger, dev, surf)

	if err := s.init(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) init() error {
	loader := shader.NewLoader(s.opts.shaders)

	var err error
	s.solid, err = s.program(loader, gpu.ProgramSolid)
	if err != nil {
		return err
	}

	width, height := s.surf.Size()
	switch s.opts.mode {
	case ModeOffscreen:
		s.textured, err = s.program(loader, gpu.ProgramTextured)
		if err != nil {
			return err
		}
		alloc := s.opts.alloc
		if alloc == nil {
			alloc = kms.NewMemfd()
			s.ownAlloc = alloc
		}
		s.offscreen, err = NewOffscreenPipeline(s.dev, alloc, s.solid, s.textured, width, height, s.optionList()...)
	default:
		s.renderer, err = NewDamageRenderer(s.dev, s.solid, s.optionList()...)
	}
	if err != nil {
		return err
	}

	s.logger.Info("agecube: session ready", "device", s.dev.Name(), "mode", s.opts.mode,
		"width", width, "height", height)
	return nil
}

func (s *Session) optionList() []Option {
	o := s.opts
	return []Option{WithColors(o.colors[0], o.colors[1]), WithClearColor(o.clear), WithLogger(o.logger)}
}

func (s *Session) program(loader *shader.Loader, kind gpu.ProgramKind) (gpu.Program, error) {
	desc, err := loader.Program(kind.String(), kind)
	if err != nil {
		return nil, resourceError("load "+kind.String()+" program", err)
	}
	p, err := s.dev.CreateProgram(desc)
	if err != nil {
		return nil, resourceError("create "+kind.String()+" program", err)
	}
	s.logger.Info("agecube: program ready", "program", kind.String(),
		"vertex", desc.Vertex.Name, "fragment", desc.Fragment.Name)
	return p, nil
}

// Mode returns the drawing mode.
func (s *Session) Mode() Mode { return s.opts.mode }

// FrameIndex returns the index of the next frame.
func (s *Session) FrameIndex() damage.FrameIndex { return s.frame }

// Offscreen returns the offscreen image, nil outside ModeOffscreen.
func (s *Session) Offscreen() *OffscreenImage {
	if s.offscreen == nil {
		return nil
	}
	return s.offscreen.Image()
}

// RenderFrame draws and presents the next frame.
//
// A KindGPU error is fatal: the surface's buffer history can no longer be
// trusted, so every later call returns the same error.
func (s *Session) RenderFrame() (Frame, error) {
	if s.closed {
		return Frame{}, ErrClosed
	}
	if s.failed != nil {
		return Frame{}, s.failed
	}

	f, err := s.renderFrame()
	if err != nil {
		s.failed = err
		s.logger.Error("agecube: frame failed", "frame", s.frame, "err", err)
		return f, err
	}
	s.frame++
	return f, nil
}

func (s *Session) renderFrame() (Frame, error) {
	f := Frame{Index: s.frame}

	fb, err := s.surf.Acquire()
	if err != nil {
		return f, gpuError("acquire", err)
	}
	f.Age = s.surf.BufferAge()

	switch s.opts.mode {
	case ModeOffscreen:
		f.State = damage.AgeUnknown
		f.Draws = 2
		f.Damage, err = s.offscreen.Render(fb)
	default:
		var plan damage.Plan
		plan, err = s.renderer.Draw(fb, f.Index, f.Age)
		f.State, f.Draws, f.Damage = plan.State, len(plan.Draws), plan.Damage
	}
	if err != nil {
		return f, err
	}

	if err := s.surf.Present(f.Damage); err != nil {
		return f, gpuError("present", err)
	}
	return f, nil
}

// Run renders n frames, calling after (if non-nil) once each frame has
// been presented. It stops at the first error.
func (s *Session) Run(n int, after func(Frame) error) error {
	for range n {
		f, err := s.RenderFrame()
		if err != nil {
			return err
		}
		if after != nil {
			if err := after(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases the offscreen image and the programs. Close is
// idempotent.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if s.offscreen != nil {
		errs = append(errs, s.offscreen.Close())
	}
	if s.ownAlloc != nil {
		errs = append(errs, s.ownAlloc.Close())
	}
	if s.textured != nil {
		s.dev.DestroyProgram(s.textured)
	}
	if s.solid != nil {
		s.dev.DestroyProgram(s.solid)
	}
	return errors.Join(errs...)
}
