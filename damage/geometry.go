// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package damage

import (
	"image"
	"math"
)

// Variant names one precomputed triangle of the animated face.
type Variant uint8

// Halves of the two diagonal splits and the four wedges cut by both
// diagonals. Each half is the union of two wedges.
const (
	HalfUpperLeft  Variant = iota // split A, color 1
	HalfLowerRight                // split A, color 2
	HalfUpperRight                // split B, color 1
	HalfLowerLeft                 // split B, color 2
	WedgeTop
	WedgeBottom
	WedgeLeft
	WedgeRight

	numVariants
)

var variantNames = [numVariants]string{
	"half-ul", "half-lr", "half-ur", "half-ll",
	"wedge-top", "wedge-bottom", "wedge-left", "wedge-right",
}

func (v Variant) String() string {
	if v < numVariants {
		return variantNames[v]
	}
	return "invalid"
}

// FaceExtent is the half-size of the animated face in normalized device
// coordinates. The face spans [-FaceExtent, FaceExtent] on both axes.
const FaceExtent = 0.5

// Corners of the face and its centre, NDC with y up.
var (
	cornerUL = [2]float32{-FaceExtent, FaceExtent}
	cornerUR = [2]float32{FaceExtent, FaceExtent}
	cornerLL = [2]float32{-FaceExtent, -FaceExtent}
	cornerLR = [2]float32{FaceExtent, -FaceExtent}
	centre   = [2]float32{0, 0}
)

var variantTriangles = [numVariants][3][2]float32{
	HalfUpperLeft:  {cornerLL, cornerUL, cornerUR},
	HalfLowerRight: {cornerLL, cornerUR, cornerLR},
	HalfUpperRight: {cornerUL, cornerUR, cornerLR},
	HalfLowerLeft:  {cornerUL, cornerLR, cornerLL},
	WedgeTop:       {cornerUL, cornerUR, centre},
	WedgeBottom:    {cornerLR, cornerLL, centre},
	WedgeLeft:      {cornerLL, cornerUL, centre},
	WedgeRight:     {cornerUR, cornerLR, centre},
}

// Vertices returns the triangle of v as a flat x,y array in NDC, ready to
// be bound as a two-component vertex attribute. The slice is freshly
// allocated.
func Vertices(v Variant) []float32 {
	t := variantTriangles[v]
	return []float32{t[0][0], t[0][1], t[1][0], t[1][1], t[2][0], t[2][1]}
}

// FullTriangle is the first triangle of a quad covering the whole target,
// used by the offscreen passes.
func FullTriangle() []float32 {
	return []float32{-1, -1, -1, 1, 1, 1}
}

// TexCoords returns texture coordinates that map every vertex of an NDC
// triangle onto the texel underneath it, so sampling reproduces the
// source image pixel for pixel.
func TexCoords(ndc []float32) []float32 {
	uv := make([]float32, len(ndc))
	for i := 0; i+1 < len(ndc); i += 2 {
		uv[i] = (ndc[i] + 1) / 2
		uv[i+1] = (1 - ndc[i+1]) / 2
	}
	return uv
}

// MinFaceDamageSize is the shortest axis, in pixels, on which the face
// bounds padded by SeamPadding stay clear of both edges. Shorter axes are
// damaged edge to edge.
const MinFaceDamageSize = 8

// FaceBounds projects the face through a width x height viewport and
// returns the pixel rectangle that contains every pixel it can touch.
// See MinFaceDamageSize for where the padded bounds reach the edges.
func FaceBounds(width, height int) Rect {
	x0, y0 := toPixel(-FaceExtent, FaceExtent, width, height)
	x1, y1 := toPixel(FaceExtent, -FaceExtent, width, height)
	return FromImage(image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))).Clamp(width, height)
}

// toPixel maps NDC to framebuffer coordinates with row 0 at the top.
func toPixel(x, y float64, width, height int) (float64, float64) {
	return (x + 1) / 2 * float64(width), (1 - y) / 2 * float64(height)
}
