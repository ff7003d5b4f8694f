// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package soft

import (
	"fmt"
	"image"

	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/gputypes"
)

// Memory byte to channel index maps for the formats CreateTexture accepts.
var (
	orderRGBA = [4]int{0, 1, 2, 3}
	orderBGRA = [4]int{2, 1, 0, 3}
)

// texture is a linear 32-bit image. order maps each memory byte of a pixel
// to the RGBA channel stored there, -1 for padding bytes.
type texture struct {
	dev    *Device
	label  string
	width  int
	height int
	stride int
	format gputypes.TextureFormat
	order  [4]int
	pix    []byte

	// release unmaps imported memory.
	release func() error
}

func (t *texture) Width() int                     { return t.width }
func (t *texture) Height() int                    { return t.height }
func (t *texture) Format() gputypes.TextureFormat { return t.format }

// Stride returns the number of bytes between rows.
func (t *texture) Stride() int { return t.stride }

func (t *texture) String() string {
	return fmt.Sprintf("texture %q %dx%d stride=%d", t.label, t.width, t.height, t.stride)
}

func (t *texture) bounds() image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}

func (t *texture) offset(x, y int) int {
	return y*t.stride + x*4
}

func (t *texture) set(x, y int, c [4]uint8) {
	p := t.pix[t.offset(x, y):]
	for b, ch := range t.order {
		if ch >= 0 {
			p[b] = c[ch]
		} else {
			p[b] = 0xff
		}
	}
}

func (t *texture) get(x, y int) [4]uint8 {
	c := [4]uint8{3: 0xff}
	p := t.pix[t.offset(x, y):]
	for b, ch := range t.order {
		if ch >= 0 {
			c[ch] = p[b]
		}
	}
	return c
}

func (t *texture) fill(c [4]uint8) {
	for y := 0; y < t.height; y++ {
		for x := 0; x < t.width; x++ {
			t.set(x, y, c)
		}
	}
}

// framebuffer renders into a single texture.
type framebuffer struct {
	color *texture
}

func (f *framebuffer) Width() int  { return f.color.width }
func (f *framebuffer) Height() int { return f.color.height }

func (f *framebuffer) Color() gpu.Texture { return f.color }
