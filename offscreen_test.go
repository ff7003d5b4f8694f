// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package agecube

import (
	"errors"
	"testing"

	"github.com/gogpu/agecube/backend/soft"
	"github.com/gogpu/agecube/kms"
	"github.com/gogpu/agecube/surface"
)

// failingAllocator fails at a chosen step and records what it was asked.
type failingAllocator struct {
	failCreate bool
	width      int
	height     int
	destroyed  int
}

var errNoMemory = errors.New("out of dumb buffers")

func (a *failingAllocator) CreateDumb(w, h, bpp int) (kms.DumbBuffer, error) {
	a.width, a.height = w, h
	if a.failCreate {
		return kms.DumbBuffer{}, errNoMemory
	}
	return kms.DumbBuffer{Handle: 1, Width: w, Height: h, BPP: bpp, Pitch: w * 4}, nil
}

func (a *failingAllocator) ExportDMABuf(kms.DumbBuffer) (int, error) {
	return -1, errNoMemory
}

func (a *failingAllocator) DestroyDumb(kms.DumbBuffer) error {
	a.destroyed++
	return nil
}

func (a *failingAllocator) Close() error { return nil }

func TestOffscreenSetupFailures(t *testing.T) {
	tests := []struct {
		name      string
		alloc     *failingAllocator
		destroyed int
	}{
		{"allocate", &failingAllocator{failCreate: true}, 0},
		{"export", &failingAllocator{}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := soft.New()
			sc, err := surface.NewSwapchain(dev, surface.Config{Width: 250, Height: 100})
			if err != nil {
				t.Fatal(err)
			}
			defer sc.Close()

			_, err = NewSession(dev, sc, WithMode(ModeOffscreen), WithAllocator(tt.alloc))
			if !IsKind(err, KindResource) || !errors.Is(err, errNoMemory) {
				t.Fatalf("err = %v, want KindResource wrapping the allocator error", err)
			}
			if tt.alloc.width != 256 || tt.alloc.height != 112 {
				t.Errorf("allocated %dx%d, want 256x112", tt.alloc.width, tt.alloc.height)
			}
			if tt.alloc.destroyed != tt.destroyed {
				t.Errorf("destroyed %d buffers, want %d", tt.alloc.destroyed, tt.destroyed)
			}
			if sc.Stats().Presents != 0 {
				t.Error("frame presented after failed setup")
			}
		})
	}
}
