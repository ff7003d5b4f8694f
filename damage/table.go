// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package damage

// ColorSlot selects one of the two face colors.
type ColorSlot uint8

const (
	// Color1 fills the upper-left half of even frames, the upper-right
	// half of odd frames and always the top wedge.
	Color1 ColorSlot = iota
	// Color2 fills the remaining half and always the bottom wedge.
	Color2
)

// Draw is one draw call of a plan: a triangle and the color slot it is
// filled with.
type Draw struct {
	Variant Variant
	Color   ColorSlot
}

// Extent classifies the damage a plan declares.
type Extent uint8

const (
	// ExtentNone declares nothing.
	ExtentNone Extent = iota
	// ExtentFace declares the face bounds padded by SeamPadding.
	ExtentFace
	// ExtentFull declares the whole target.
	ExtentFull
)

// SeamPadding is the number of pixels added around the face bounds so
// that filtering on the face border never reads outside the damage.
const SeamPadding = 1

// Entry is one cell of the decision table.
type Entry struct {
	Clear  bool
	Draws  []Draw
	Extent Extent
}

// Plan is an Entry resolved against a target size.
type Plan struct {
	State  AgeState
	Parity Parity
	Clear  bool
	Draws  []Draw
	Damage Rect
}

// Table maps (age state, frame parity) to the work needed to bring a
// reused buffer up to date.
//
// The top wedge is color 1 and the bottom wedge color 2 under both
// splits, so a buffer one frame old only differs in the left and right
// wedges. A buffer two frames old holds the same split and needs no
// drawing, but it still differs from the frame presented last, so the
// face is declared damaged.
var Table = [numAgeStates][2]Entry{
	AgeUnknown: {
		Even: {Clear: true, Extent: ExtentFull, Draws: []Draw{
			{HalfUpperLeft, Color1}, {HalfLowerRight, Color2},
		}},
		Odd: {Clear: true, Extent: ExtentFull, Draws: []Draw{
			{HalfUpperRight, Color1}, {HalfLowerLeft, Color2},
		}},
	},
	AgePrevious: {
		Even: {Extent: ExtentFace, Draws: []Draw{
			{WedgeLeft, Color1}, {WedgeRight, Color2},
		}},
		Odd: {Extent: ExtentFace, Draws: []Draw{
			{WedgeLeft, Color2}, {WedgeRight, Color1},
		}},
	},
	AgeSecond: {
		Even: {Extent: ExtentFace},
		Odd:  {Extent: ExtentFace},
	},
}

// Lookup resolves the plan for frame i drawn into a width x height buffer
// of the given age.
func Lookup(age BufferAge, i FrameIndex, width, height int) Plan {
	state := Classify(age, i)
	parity := i.Parity()
	e := Table[state][parity]
	return Plan{
		State:  state,
		Parity: parity,
		Clear:  e.Clear,
		Draws:  e.Draws,
		Damage: e.Extent.Rect(width, height),
	}
}

// Rect returns the damage rectangle for extent x on a width x height target.
//
// ExtentFace covers the whole of any axis shorter than MinFaceDamageSize,
// so on a target smaller than that in both directions it equals the full
// rectangle.
func (x Extent) Rect(width, height int) Rect {
	switch x {
	case ExtentFull:
		return Full(width, height)
	case ExtentFace:
		return FaceBounds(width, height).Inset(-SeamPadding).Clamp(width, height)
	default:
		return Rect{}
	}
}

// FaceColor returns the color slot that covers wedge w at parity p in a
// complete frame. It panics if w is not a wedge.
func FaceColor(w Variant, p Parity) ColorSlot {
	switch w {
	case WedgeTop:
		return Color1
	case WedgeBottom:
		return Color2
	case WedgeLeft:
		if p == Even {
			return Color1
		}
		return Color2
	case WedgeRight:
		if p == Even {
			return Color2
		}
		return Color1
	}
	panic("damage: not a wedge: " + w.String())
}
