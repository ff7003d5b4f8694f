// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package agecube

import (
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/gogpu/agecube/kms"
	"github.com/gogpu/gputypes"
)

// Mode selects what a Session draws each frame.
type Mode uint8

const (
	// ModeDamage draws the animated face with age-driven partial redraw.
	ModeDamage Mode = iota
	// ModeOffscreen renders into the imported kernel buffer and samples it
	// onto the surface.
	ModeOffscreen
)

func (m Mode) String() string {
	if m == ModeOffscreen {
		return "offscreen"
	}
	return "damage"
}

// ParseMode parses the String form of a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "damage", "":
		return ModeDamage, nil
	case "offscreen":
		return ModeOffscreen, nil
	}
	return 0, fmt.Errorf("agecube: unknown mode %q", s)
}

// Default colors. The clear color is transparent black.
var (
	DefaultClearColor = gputypes.Color{}
	DefaultColor1     = gputypes.Color{R: 1, G: 0.5, B: 0, A: 1}
	DefaultColor2     = gputypes.Color{R: 0, G: 0.4, B: 1, A: 1}
)

// Option configures a Session, a DamageRenderer or an OffscreenPipeline.
//
// Example:
//
//	s, err := agecube.NewSession(dev, sc,
//	    agecube.WithMode(agecube.ModeOffscreen),
//	    agecube.WithAllocator(alloc))
type Option func(*options)

type options struct {
	mode    Mode
	shaders fs.FS
	alloc   kms.Allocator
	clear   gputypes.Color
	colors  [2]gputypes.Color
	logger  *slog.Logger
}

func defaultOptions() options {
	return options{
		mode:   ModeDamage,
		clear:  DefaultClearColor,
		colors: [2]gputypes.Color{DefaultColor1, DefaultColor2},
		logger: Logger(),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithMode sets the drawing mode. The default is ModeDamage.
func WithMode(m Mode) Option {
	return func(o *options) {
		o.mode = m
	}
}

// WithShaderFS reads shader files from fsys instead of the built-in set.
// fsys must hold solid.vert.wgsl and solid.frag.wgsl, plus
// textured.vert.wgsl and textured.frag.wgsl for ModeOffscreen.
func WithShaderFS(fsys fs.FS) Option {
	return func(o *options) {
		o.shaders = fsys
	}
}

// WithAllocator sets the kernel buffer allocator used by ModeOffscreen.
// The session does not close it. Without this option a memfd allocator is
// created and owned by the session.
func WithAllocator(a kms.Allocator) Option {
	return func(o *options) {
		o.alloc = a
	}
}

// WithClearColor sets the background color.
func WithClearColor(c gputypes.Color) Option {
	return func(o *options) {
		o.clear = c
	}
}

// WithColors sets the two face colors.
func WithColors(c1, c2 gputypes.Color) Option {
	return func(o *options) {
		o.colors = [2]gputypes.Color{c1, c2}
	}
}

// WithLogger overrides the package logger for one session.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = newNopLogger()
		}
		o.logger = l
	}
}
