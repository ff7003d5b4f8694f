// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package agecube

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/agecube/damage"
	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/gputypes"
)

// DamageRenderer draws the animated face into reused buffers, redrawing
// only what the buffer age says is stale.
type DamageRenderer struct {
	dev     gpu.Device
	program gpu.Program
	clear   gputypes.Color
	colors  [2]gputypes.Color
	logger  *slog.Logger
}

// NewDamageRenderer returns a renderer drawing with solid, a program of
// kind gpu.ProgramSolid. Only the color and logger options apply.
func NewDamageRenderer(dev gpu.Device, solid gpu.Program, opts ...Option) (*DamageRenderer, error) {
	if solid == nil || solid.Kind() != gpu.ProgramSolid {
		return nil, resourceError("damage renderer", fmt.Errorf("%w: want a solid program", gpu.ErrNoProgram))
	}
	o := buildOptions(opts)
	return &DamageRenderer{
		dev:     dev,
		program: solid,
		clear:   o.clear,
		colors:  o.colors,
		logger:  o.logger,
	}, nil
}

// Draw brings fb, a buffer of the given age, up to date with frame and
// returns the executed plan. Plan.Damage is the rectangle to present.
//
// A buffer one frame old only gets the two wedges whose color flips
// between frames. Anything else is cleared and drawn in full. Both cases
// make two draw calls.
//
// A buffer two frames old already holds this frame's pixels, so Draw opens
// no pass and makes no draw call. The plan still declares the face as
// damage, because the frame presented last showed the other split.
func (r *DamageRenderer) Draw(fb gpu.Framebuffer, frame damage.FrameIndex, age damage.BufferAge) (damage.Plan, error) {
	plan := damage.Lookup(age, frame, fb.Width(), fb.Height())
	r.logger.Debug("agecube: frame plan",
		"frame", frame, "age", age, "state", plan.State, "parity", plan.Parity,
		"draws", len(plan.Draws), "damage", plan.Damage.String())

	if !plan.Clear && len(plan.Draws) == 0 {
		return plan, nil
	}

	desc := gpu.PassDescriptor{
		Label:      fmt.Sprintf("frame-%d", frame),
		Target:     fb,
		LoadOp:     gputypes.LoadOpLoad,
		ClearValue: r.clear,
	}
	if plan.Clear {
		desc.LoadOp = gputypes.LoadOpClear
	}

	pass, err := r.dev.BeginPass(desc)
	if err != nil {
		return plan, gpuError(desc.Label, err)
	}
	if err := r.record(pass, plan.Draws); err != nil {
		_ = pass.End()
		return plan, gpuError(desc.Label, err)
	}
	if err := pass.End(); err != nil {
		return plan, gpuError(desc.Label, err)
	}
	return plan, nil
}

func (r *DamageRenderer) record(pass gpu.Pass, draws []damage.Draw) error {
	if err := pass.SetProgram(r.program); err != nil {
		return err
	}
	for _, d := range draws {
		pass.SetColor(r.colors[d.Color])
		err := pass.Draw(gpu.DrawCall{
			Attribs: []gpu.VertexAttrib{position(damage.Vertices(d.Variant))},
			Count:   3,
		})
		if err != nil {
			return fmt.Errorf("draw %v: %w", d.Variant, err)
		}
	}
	return nil
}
