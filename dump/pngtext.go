// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dump

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/png"
	"io"
)

// ihdrEnd is the offset just past the PNG signature and the IHDR chunk,
// which png.Encode always writes first.
const ihdrEnd = 8 + 4 + 4 + 13 + 4

// pngWithText returns a PNG encoder that inserts one tEXt chunk right
// after IHDR.
func pngWithText(keyword, text string) Encoder {
	chunk := textChunk(keyword, text)
	return func(w io.Writer, img image.Image) error {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return err
		}
		b := buf.Bytes()
		if len(b) < ihdrEnd || string(b[12:16]) != "IHDR" {
			return errors.New("dump: png encoder wrote no IHDR")
		}
		for _, part := range [][]byte{b[:ihdrEnd], chunk, b[ihdrEnd:]} {
			if _, err := w.Write(part); err != nil {
				return err
			}
		}
		return nil
	}
}

// textChunk builds a tEXt chunk: length, type, keyword NUL text, CRC of
// type and data.
func textChunk(keyword, text string) []byte {
	n := len(keyword) + 1 + len(text)
	c := make([]byte, 0, 12+n)
	c = binary.BigEndian.AppendUint32(c, uint32(n)) //nolint:gosec // short strings
	c = append(c, "tEXt"...)
	c = append(c, keyword...)
	c = append(c, 0)
	c = append(c, text...)
	return binary.BigEndian.AppendUint32(c, crc32.ChecksumIEEE(c[4:]))
}
