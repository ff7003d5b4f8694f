// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package soft

import (
	"github.com/chewxy/math32"
)

// Vertex positions are snapped to 1/256 of a pixel before rasterizing so
// that edge tests are exact integer arithmetic.
const (
	subpixelBits = 8
	subpixelOne  = 1 << subpixelBits
	subpixelHalf = subpixelOne / 2
)

// rasterVertex is a vertex in fixed-point framebuffer coordinates with its
// interpolated attributes.
type rasterVertex struct {
	x, y int64
	u, v float32
}

// snap converts a framebuffer coordinate to fixed point.
func snap(p float32) int64 {
	return int64(math32.Floor(p*subpixelOne + 0.5))
}

// viewportVertex maps an NDC position onto a width x height framebuffer
// whose row 0 is the top row.
func viewportVertex(x, y float32, width, height int) rasterVertex {
	return rasterVertex{
		x: snap((x + 1) / 2 * float32(width)),
		y: snap((1 - y) / 2 * float32(height)),
	}
}

// edgeFunction returns twice the signed area of (a, b, c).
func edgeFunction(a, b rasterVertex, cx, cy int64) int64 {
	return (cx-a.x)*(b.y-a.y) - (cy-a.y)*(b.x-a.x)
}

// topLeft reports whether the edge a->b of a positively oriented triangle
// is a top or left edge. Pixels whose centre lies exactly on such an edge
// belong to the triangle.
func topLeft(a, b rasterVertex) bool {
	dx, dy := b.x-a.x, b.y-a.y
	return dy > 0 || (dy == 0 && dx < 0)
}

func bias(a, b rasterVertex) int64 {
	if topLeft(a, b) {
		return 1
	}
	return 0
}

// fragment is called for every covered pixel with the interpolated
// texture coordinates.
type fragment func(x, y int, u, v float32)

// rasterize calls frag for every pixel of a width x height target whose
// centre is covered by the triangle.
func rasterize(tri [3]rasterVertex, width, height int, frag fragment) int {
	v0, v1, v2 := tri[0], tri[1], tri[2]

	area := edgeFunction(v0, v1, v2.x, v2.y)
	if area == 0 {
		return 0
	}
	if area < 0 {
		v0, v2 = v2, v0
		area = -area
	}
	invArea := 1 / float32(area)

	minX := max(0, int(min(v0.x, v1.x, v2.x)>>subpixelBits))
	minY := max(0, int(min(v0.y, v1.y, v2.y)>>subpixelBits))
	maxX := min(width, int((max(v0.x, v1.x, v2.x)+subpixelOne-1)>>subpixelBits))
	maxY := min(height, int((max(v0.y, v1.y, v2.y)+subpixelOne-1)>>subpixelBits))

	b0, b1, b2 := bias(v1, v2), bias(v2, v0), bias(v0, v1)

	covered := 0
	for y := minY; y < maxY; y++ {
		py := int64(y)<<subpixelBits + subpixelHalf
		for x := minX; x < maxX; x++ {
			px := int64(x)<<subpixelBits + subpixelHalf

			w0 := edgeFunction(v1, v2, px, py)
			w1 := edgeFunction(v2, v0, px, py)
			w2 := edgeFunction(v0, v1, px, py)
			if w0+b0 <= 0 || w1+b1 <= 0 || w2+b2 <= 0 {
				continue
			}

			f0 := float32(w0) * invArea
			f1 := float32(w1) * invArea
			f2 := float32(w2) * invArea
			frag(x, y, f0*v0.u+f1*v1.u+f2*v2.u, f0*v0.v+f1*v1.v+f2*v2.v)
			covered++
		}
	}
	return covered
}

// sampleNearest returns the texel of t under (u, v) with clamp-to-edge
// addressing.
func sampleNearest(t *texture, u, v float32) [4]uint8 {
	x := int(math32.Floor(u * float32(t.width)))
	y := int(math32.Floor(v * float32(t.height)))
	x = min(max(x, 0), t.width-1)
	y = min(max(y, 0), t.height-1)
	return t.get(x, y)
}

// unorm8 converts a normalized color channel to 8 bits.
func unorm8(c float64) uint8 {
	f := math32.Min(math32.Max(float32(c), 0), 1)
	return uint8(math32.Floor(f*255 + 0.5))
}
