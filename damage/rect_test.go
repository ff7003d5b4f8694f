// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package damage

import (
	"image"
	"testing"
)

func TestRectOps(t *testing.T) {
	a := Rect{X: 10, Y: 10, Width: 20, Height: 20}
	b := Rect{X: 25, Y: 0, Width: 10, Height: 15}

	if got := a.Union(b); got != (Rect{10, 0, 25, 30}) {
		t.Errorf("Union = %v", got)
	}
	if got := a.Intersect(b); got != (Rect{25, 10, 5, 5}) {
		t.Errorf("Intersect = %v", got)
	}
	if got := a.Inset(-1); got != (Rect{9, 9, 22, 22}) {
		t.Errorf("Inset(-1) = %v", got)
	}
	if got := (Rect{-4, -4, 10, 10}).Clamp(8, 8); got != (Rect{0, 0, 6, 6}) {
		t.Errorf("Clamp = %v", got)
	}
	if got := (Rect{}).Union(a); got != a {
		t.Errorf("empty Union = %v, want %v", got, a)
	}
	if !a.Contains(10, 29) || a.Contains(30, 10) {
		t.Error("Contains uses wrong bounds")
	}
	if got := a.Image(); got != image.Rect(10, 10, 30, 30) {
		t.Errorf("Image = %v", got)
	}
	if !(Rect{Width: 0, Height: 5}).Empty() {
		t.Error("zero width rect not empty")
	}
}

func TestFaceBounds(t *testing.T) {
	tests := []struct {
		w, h int
		want Rect
	}{
		{256, 256, Rect{64, 64, 128, 128}},
		{250, 250, Rect{62, 62, 126, 126}},
		{100, 40, Rect{25, 10, 50, 20}},
	}
	for _, tt := range tests {
		if got := FaceBounds(tt.w, tt.h); got != tt.want {
			t.Errorf("FaceBounds(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestTexCoordsIdentity(t *testing.T) {
	uv := TexCoords(FullTriangle())
	want := []float32{0, 1, 0, 0, 1, 0}
	for i := range want {
		if uv[i] != want[i] {
			t.Fatalf("TexCoords = %v, want %v", uv, want)
		}
	}
}
