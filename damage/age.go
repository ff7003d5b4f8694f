// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package damage

// HistoryDepth is the number of past frames whose contents the renderer
// can reason about. Older buffers are redrawn from scratch.
const HistoryDepth = 2

// BufferAge is the number of frames since the acquired buffer was last
// presented, as defined by EGL_EXT_buffer_age. Zero means the contents
// are undefined.
type BufferAge int

// FrameIndex counts frames from zero.
type FrameIndex uint64

// Parity selects which diagonal split the animated face uses.
type Parity uint8

const (
	// Even frames split the face along diagonal A.
	Even Parity = iota
	// Odd frames split the face along diagonal B.
	Odd
)

// Parity returns the parity of frame i.
func (i FrameIndex) Parity() Parity {
	return Parity(i & 1)
}

// Flip returns the other parity.
func (p Parity) Flip() Parity {
	return p ^ 1
}

func (p Parity) String() string {
	if p == Even {
		return "even"
	}
	return "odd"
}

// AgeState is a buffer age reduced to the cases the renderer distinguishes.
type AgeState uint8

const (
	// AgeUnknown means the buffer contents cannot be trusted.
	AgeUnknown AgeState = iota
	// AgePrevious means the buffer holds the previous frame.
	AgePrevious
	// AgeSecond means the buffer holds the frame before the previous one.
	AgeSecond

	numAgeStates
)

func (s AgeState) String() string {
	switch s {
	case AgePrevious:
		return "age1"
	case AgeSecond:
		return "age2"
	default:
		return "unknown"
	}
}

// Classify reduces a reported age to an AgeState for frame i.
// Ages beyond HistoryDepth, negative ages, and ages pointing before
// frame zero are unknown.
func Classify(age BufferAge, i FrameIndex) AgeState {
	if age <= 0 || age > HistoryDepth || uint64(age) > uint64(i) {
		return AgeUnknown
	}
	return AgeState(age)
}
