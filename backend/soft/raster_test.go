// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package soft

import (
	"testing"

	"github.com/gogpu/agecube/damage"
)

func triangleOf(v damage.Variant, w, h int) [3]rasterVertex {
	d := damage.Vertices(v)
	var tri [3]rasterVertex
	for i := range tri {
		tri[i] = viewportVertex(d[2*i], d[2*i+1], w, h)
	}
	return tri
}

// coverage counts how often each pixel is covered by the variants.
func coverage(w, h int, variants ...damage.Variant) []int {
	counts := make([]int, w*h)
	for _, v := range variants {
		rasterize(triangleOf(v, w, h), w, h, func(x, y int, _, _ float32) {
			counts[y*w+x]++
		})
	}
	return counts
}

func TestWedgesTileHalves(t *testing.T) {
	halves := []struct {
		half   damage.Variant
		wedges []damage.Variant
	}{
		{damage.HalfUpperLeft, []damage.Variant{damage.WedgeTop, damage.WedgeLeft}},
		{damage.HalfLowerRight, []damage.Variant{damage.WedgeBottom, damage.WedgeRight}},
		{damage.HalfUpperRight, []damage.Variant{damage.WedgeTop, damage.WedgeRight}},
		{damage.HalfLowerLeft, []damage.Variant{damage.WedgeBottom, damage.WedgeLeft}},
	}
	sizes := [][2]int{{256, 256}, {250, 250}, {37, 37}, {64, 48}}

	for _, size := range sizes {
		w, h := size[0], size[1]
		for _, hv := range halves {
			want := coverage(w, h, hv.half)
			got := coverage(w, h, hv.wedges...)
			for i := range want {
				if got[i] > 1 {
					t.Fatalf("%dx%d %v: pixel (%d,%d) covered %d times by wedges", w, h, hv.half, i%w, i/w, got[i])
				}
				if got[i] != want[i] {
					t.Fatalf("%dx%d %v: pixel (%d,%d) half=%d wedges=%d", w, h, hv.half, i%w, i/w, want[i], got[i])
				}
			}
		}
	}
}

func TestSplitsCoverSameFace(t *testing.T) {
	const w, h = 256, 256
	a := coverage(w, h, damage.HalfUpperLeft, damage.HalfLowerRight)
	b := coverage(w, h, damage.HalfUpperRight, damage.HalfLowerLeft)
	face := damage.FaceBounds(w, h)
	for i := range a {
		x, y := i%w, i/w
		want := 0
		if face.Contains(x, y) {
			want = 1
		}
		if a[i] != want || b[i] != want {
			t.Fatalf("pixel (%d,%d): split A %d, split B %d, want %d", x, y, a[i], b[i], want)
		}
	}
}

func TestTopLeftRuleOnPixelCentres(t *testing.T) {
	// Both triangles share a diagonal that passes through pixel centres.
	p := func(x, y int64) rasterVertex { return rasterVertex{x: x << subpixelBits, y: y << subpixelBits} }
	upper := [3]rasterVertex{p(0, 0), p(4, 0), p(0, 4)}
	lower := [3]rasterVertex{p(4, 0), p(4, 4), p(0, 4)}

	counts := make([]int, 16)
	for _, tri := range [][3]rasterVertex{upper, lower} {
		rasterize(tri, 4, 4, func(x, y int, _, _ float32) { counts[y*4+x]++ })
	}
	for i, c := range counts {
		if c != 1 {
			t.Errorf("pixel (%d,%d) covered %d times", i%4, i/4, c)
		}
	}
}

func TestRasterizeDegenerate(t *testing.T) {
	tri := [3]rasterVertex{{x: 0, y: 0}, {x: 512, y: 512}, {x: 1024, y: 1024}}
	if n := rasterize(tri, 8, 8, func(int, int, float32, float32) { t.Fatal("fragment emitted") }); n != 0 {
		t.Errorf("covered %d pixels", n)
	}
}

func TestSampleNearestClamps(t *testing.T) {
	tex := &texture{width: 2, height: 2, stride: 8, order: orderRGBA, pix: make([]byte, 16)}
	tex.set(0, 0, [4]uint8{1, 0, 0, 255})
	tex.set(1, 1, [4]uint8{2, 0, 0, 255})

	tests := []struct {
		u, v float32
		want uint8
	}{
		{0.25, 0.25, 1},
		{-3, -3, 1},
		{0.75, 0.75, 2},
		{9, 9, 2},
	}
	for _, tt := range tests {
		if got := sampleNearest(tex, tt.u, tt.v)[0]; got != tt.want {
			t.Errorf("sample(%v, %v) = %d, want %d", tt.u, tt.v, got, tt.want)
		}
	}
}

func TestUnorm8(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{0, 0}, {1, 255}, {0.5, 128}, {-1, 0}, {2, 255},
	}
	for _, tt := range tests {
		if got := unorm8(tt.in); got != tt.want {
			t.Errorf("unorm8(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
