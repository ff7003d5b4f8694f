// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package agecube

import (
	"bytes"
	"errors"
	"testing"
	"testing/fstest"

	"github.com/gogpu/agecube/backend/soft"
	"github.com/gogpu/agecube/damage"
	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/agecube/shader"
	"github.com/gogpu/agecube/surface"
)

func newTestSession(t *testing.T, w, h, buffers int, opts ...Option) (*Session, *surface.Swapchain, *soft.Device) {
	t.Helper()
	dev := soft.New()
	sc, err := surface.NewSwapchain(dev, surface.Config{Width: w, Height: h, Buffers: buffers})
	if err != nil {
		t.Fatalf("NewSwapchain: %v", err)
	}
	t.Cleanup(func() { _ = sc.Close() })
	s, err := NewSession(dev, sc, opts...)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, sc, dev
}

func TestScenario256(t *testing.T) {
	s, _, _ := newTestSession(t, 256, 256, 1)

	var frames []Frame
	if err := s.Run(8, func(f Frame) error { frames = append(frames, f); return nil }); err != nil {
		t.Fatal(err)
	}
	if len(frames) != 8 {
		t.Fatalf("rendered %d frames", len(frames))
	}
	if frames[0].Age != 0 || frames[0].Damage != (damage.Rect{X: 0, Y: 0, Width: 256, Height: 256}) {
		t.Errorf("frame 0: %+v", frames[0])
	}
	want := damage.Rect{X: 63, Y: 63, Width: 130, Height: 130}
	for _, f := range frames[1:] {
		if f.Age != 1 {
			t.Errorf("frame %d: age %d, want 1", f.Index, f.Age)
		}
		if f.Damage != want {
			t.Errorf("frame %d: damage %v, want %v", f.Index, f.Damage, want)
		}
	}
}

// What reaches the scanout plane through damage rectangles alone must be
// the full frame, whatever the buffer count.
func TestScanoutMatchesFullRedraw(t *testing.T) {
	const w, h = 96, 64
	for _, n := range []int{1, 2, 3} {
		s, sc, _ := newTestSession(t, w, h, n)
		full := damage.Full(w, h)
		for i := 0; i < 6; i++ {
			f, err := s.RenderFrame()
			if err != nil {
				t.Fatal(err)
			}
			if f.Age == 0 && f.Damage != full {
				t.Errorf("%d buffers, frame %d: age 0 damage %v", n, i, f.Damage)
			}
			if f.State != damage.AgeUnknown && f.Damage.Area() >= full.Area() {
				t.Errorf("%d buffers, frame %d: tracked damage %v not smaller than target", n, i, f.Damage)
			}
			if got, want := sc.Scanout().Pix, reference(t, w, h, f.Index); !bytes.Equal(got, want) {
				t.Fatalf("%d buffers, frame %d: scanout differs from full redraw", n, i)
			}
		}
	}
}

func TestMissingShaderFailsBeforePresent(t *testing.T) {
	dev := soft.New()
	sc, err := surface.NewSwapchain(dev, surface.Config{Width: 16, Height: 16})
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()

	_, err = NewSession(dev, sc, WithShaderFS(fstest.MapFS{}))
	if !IsKind(err, KindResource) {
		t.Fatalf("err = %v, want KindResource", err)
	}
	var ce *shader.CompileError
	if !errors.As(err, &ce) {
		t.Errorf("err = %v, want a shader compile error", err)
	}
	if sc.Stats().Presents != 0 {
		t.Errorf("%d frames presented", sc.Stats().Presents)
	}
}

// failingDevice fails every draw call after the first n.
type failingDevice struct {
	*soft.Device
	n int
}

func (d *failingDevice) BeginPass(desc gpu.PassDescriptor) (gpu.Pass, error) {
	p, err := d.Device.BeginPass(desc)
	if err != nil {
		return nil, err
	}
	return &failingPass{Pass: p, dev: d}, nil
}

type failingPass struct {
	gpu.Pass
	dev *failingDevice
}

var errInjected = errors.New("injected draw failure")

func (p *failingPass) Draw(call gpu.DrawCall) error {
	if p.dev.n == 0 {
		return errInjected
	}
	p.dev.n--
	return p.Pass.Draw(call)
}

func TestDrawFailureIsFatal(t *testing.T) {
	dev := &failingDevice{Device: soft.New(), n: 2}
	sc, err := surface.NewSwapchain(dev, surface.Config{Width: 16, Height: 16, Buffers: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer sc.Close()
	s, err := NewSession(dev, sc)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if _, err := s.RenderFrame(); err != nil {
		t.Fatalf("frame 0: %v", err)
	}
	_, err = s.RenderFrame()
	if !IsKind(err, KindGPU) || !errors.Is(err, errInjected) {
		t.Fatalf("frame 1: err = %v, want KindGPU wrapping the draw error", err)
	}
	if _, again := s.RenderFrame(); again != err {
		t.Errorf("later frame: err = %v, want the first failure", again)
	}
	if sc.Stats().Presents != 1 {
		t.Errorf("%d presents, want only frame 0", sc.Stats().Presents)
	}
}

func TestClosedSession(t *testing.T) {
	s, _, _ := newTestSession(t, 8, 8, 1)
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RenderFrame(); !errors.Is(err, ErrClosed) {
		t.Errorf("RenderFrame after Close = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeDamage, ModeOffscreen} {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseMode("cube"); err == nil {
		t.Error("ParseMode accepted an unknown mode")
	}
}

func TestErrorKinds(t *testing.T) {
	err := gpuError("draw", errInjected)
	if !IsKind(err, KindGPU) || IsKind(err, KindResource) {
		t.Errorf("IsKind mismatch for %v", err)
	}
	if !errors.Is(err, errInjected) {
		t.Error("Error does not unwrap")
	}
	if IsKind(errInjected, KindGPU) {
		t.Error("plain error reported as KindGPU")
	}
}
