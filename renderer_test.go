// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package agecube

import (
	"bytes"
	"image"
	"testing"

	"github.com/gogpu/agecube/backend/soft"
	"github.com/gogpu/agecube/damage"
	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/gputypes"
)

func solidProgram(t *testing.T, dev gpu.Device) gpu.Program {
	t.Helper()
	p, err := dev.CreateProgram(gpu.ProgramDescriptor{
		Label:    "solid",
		Kind:     gpu.ProgramSolid,
		Vertex:   gpu.ShaderStage{Source: "@vertex fn vs_main() {}"},
		Fragment: gpu.ShaderStage{Source: "@fragment fn fs_main() {}"},
	})
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}
	return p
}

func newBuffer(t *testing.T, dev gpu.Device, w, h int) gpu.Framebuffer {
	t.Helper()
	tex, err := dev.CreateTexture(gpu.TextureDescriptor{Width: w, Height: h, Format: gputypes.TextureFormatRGBA8Unorm})
	if err != nil {
		t.Fatal(err)
	}
	fb, err := dev.CreateFramebuffer(tex)
	if err != nil {
		t.Fatal(err)
	}
	return fb
}

func snapshot(t *testing.T, dev gpu.Device, fb gpu.Framebuffer) []byte {
	t.Helper()
	buf := make([]byte, fb.Width()*fb.Height()*4)
	if err := dev.ReadPixels(fb, image.Rect(0, 0, fb.Width(), fb.Height()), buf); err != nil {
		t.Fatal(err)
	}
	return buf
}

// reference draws frame i from scratch.
func reference(t *testing.T, w, h int, i damage.FrameIndex) []byte {
	t.Helper()
	dev := soft.New()
	r, err := NewDamageRenderer(dev, solidProgram(t, dev))
	if err != nil {
		t.Fatal(err)
	}
	fb := newBuffer(t, dev, w, h)
	if _, err := r.Draw(fb, i, 0); err != nil {
		t.Fatal(err)
	}
	return snapshot(t, dev, fb)
}

// changedRect returns the bounding box of pixels that differ.
func changedRect(a, b []byte, w, h int) damage.Rect {
	var r damage.Rect
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 4
			if !bytes.Equal(a[i:i+4], b[i:i+4]) {
				r = r.Union(damage.Rect{X: x, Y: y, Width: 1, Height: 1})
			}
		}
	}
	return r
}

// Buffers reused round robin must end up identical to a full redraw, and
// everything the renderer touched must lie inside the declared damage.
func TestPartialRedrawMatchesFullRedraw(t *testing.T) {
	const w, h, frames = 64, 64, 8
	refs := make([][]byte, frames)
	for i := range refs {
		refs[i] = reference(t, w, h, damage.FrameIndex(i))
	}

	for _, n := range []int{1, 2, 3} {
		dev := soft.New()
		r, err := NewDamageRenderer(dev, solidProgram(t, dev))
		if err != nil {
			t.Fatal(err)
		}
		ring := make([]gpu.Framebuffer, n)
		last := make([]int, n)
		for k := range ring {
			ring[k] = newBuffer(t, dev, w, h)
			last[k] = -1
		}

		for i := 0; i < frames; i++ {
			k := i % n
			age := damage.BufferAge(0)
			if last[k] >= 0 {
				age = damage.BufferAge(i - last[k])
			}
			before := snapshot(t, dev, ring[k])

			plan, err := r.Draw(ring[k], damage.FrameIndex(i), age)
			if err != nil {
				t.Fatal(err)
			}
			after := snapshot(t, dev, ring[k])
			last[k] = i

			if !bytes.Equal(after, refs[i]) {
				t.Fatalf("%d buffers, frame %d (age %d): buffer differs from full redraw", n, i, age)
			}
			if changed := changedRect(before, after, w, h); !plan.Damage.ContainsRect(changed) {
				t.Errorf("%d buffers, frame %d (age %d): changed %v outside damage %v", n, i, age, changed, plan.Damage)
			}
		}
	}
}

func TestFullRedrawIsIdempotent(t *testing.T) {
	for _, i := range []damage.FrameIndex{0, 1, 6, 7} {
		a := reference(t, 40, 30, i)
		b := reference(t, 40, 30, i)
		if !bytes.Equal(a, b) {
			t.Errorf("frame %d: two full redraws differ", i)
		}
	}
}

func TestDrawCallCounts(t *testing.T) {
	dev := soft.New()
	r, err := NewDamageRenderer(dev, solidProgram(t, dev))
	if err != nil {
		t.Fatal(err)
	}
	fb := newBuffer(t, dev, 32, 32)

	tests := []struct {
		frame  damage.FrameIndex
		age    damage.BufferAge
		draws  int
		passes int
		clear  bool
	}{
		{0, 0, 2, 1, true},
		{1, 1, 2, 1, false},
		{2, 2, 0, 0, false},
		{3, 5, 2, 1, true},
	}
	for _, tt := range tests {
		dev.ResetStats()
		plan, err := r.Draw(fb, tt.frame, tt.age)
		if err != nil {
			t.Fatal(err)
		}
		st := dev.Stats()
		if st.DrawCalls != tt.draws || st.Passes != tt.passes || (st.Clears == 1) != tt.clear {
			t.Errorf("frame %d age %d: stats %+v, want %d draws %d passes clear=%v",
				tt.frame, tt.age, st, tt.draws, tt.passes, tt.clear)
		}
		if tt.age == 2 && plan.Damage != damage.ExtentFace.Rect(32, 32) {
			t.Errorf("frame %d age 2: damage %v, want the face rect", tt.frame, plan.Damage)
		}
	}
}

func TestNewDamageRendererNeedsSolidProgram(t *testing.T) {
	if _, err := NewDamageRenderer(soft.New(), nil); !IsKind(err, KindResource) {
		t.Errorf("err = %v, want KindResource", err)
	}
}
