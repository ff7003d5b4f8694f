// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package kms

// FourCC builds a DRM format code from its four characters.
func FourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// DRM formats are named after the channel order of a little-endian 32-bit
// word, so the memory order is reversed.
var (
	// FormatRGBA8888 stores bytes A, B, G, R.
	FormatRGBA8888 = FourCC('R', 'A', '2', '4')
	// FormatABGR8888 stores bytes R, G, B, A.
	FormatABGR8888 = FourCC('A', 'B', '2', '4')
	// FormatARGB8888 stores bytes B, G, R, A.
	FormatARGB8888 = FourCC('A', 'R', '2', '4')
	// FormatXRGB8888 stores bytes B, G, R, X.
	FormatXRGB8888 = FourCC('X', 'R', '2', '4')
)

// FormatName returns the four characters of code.
func FormatName(code uint32) string {
	return string([]byte{byte(code), byte(code >> 8), byte(code >> 16), byte(code >> 24)})
}

// ChannelOrder returns, for each memory byte of a pixel, the RGBA channel
// index it holds (0=R, 1=G, 2=B, 3=A, -1 for padding). ok is false for
// formats that are not 32-bit RGB.
func ChannelOrder(code uint32) (order [4]int, ok bool) {
	switch code {
	case FormatRGBA8888:
		return [4]int{3, 2, 1, 0}, true
	case FormatABGR8888:
		return [4]int{0, 1, 2, 3}, true
	case FormatARGB8888:
		return [4]int{2, 1, 0, 3}, true
	case FormatXRGB8888:
		return [4]int{2, 1, 0, -1}, true
	}
	return order, false
}
