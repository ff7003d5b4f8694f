// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package dump renders a fixed number of frames and writes each one to an
// image file.
//
// File names come from a template whose first '#' is replaced by a single
// ASCII character counting up from '0', so "dump#.png" yields dump0.png,
// dump1.png and so on. The encoder is picked from the file extension.
package dump

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/agecube"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Defaults of Config.
const (
	DefaultFrames   = 8
	DefaultTemplate = "dump#.png"
)

// MaxFrames is the number of distinct printable characters after '0'.
const MaxFrames = '~' - '0' + 1

var (
	// ErrUnknownFormat is returned for file extensions without an encoder.
	ErrUnknownFormat = errors.New("dump: unknown image format")

	// ErrBadTemplate is returned for templates without a '#'.
	ErrBadTemplate = errors.New("dump: template has no '#'")
)

// Encoder writes img to w.
type Encoder func(w io.Writer, img image.Image) error

var encoders = map[string]Encoder{
	".png":  png.Encode,
	".bmp":  bmp.Encode,
	".tif":  encodeTIFF,
	".tiff": encodeTIFF,
}

func encodeTIFF(w io.Writer, img image.Image) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
}

// EncoderFor returns the encoder for the extension of name.
func EncoderFor(name string) (Encoder, error) {
	ext := strings.ToLower(filepath.Ext(name))
	enc, ok := encoders[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	return enc, nil
}

// FrameName expands template for frame i.
func FrameName(template string, i int) (string, error) {
	k := strings.IndexByte(template, '#')
	if k < 0 {
		return "", ErrBadTemplate
	}
	if i < 0 || i >= MaxFrames {
		return "", fmt.Errorf("dump: frame %d has no name character", i)
	}
	return template[:k] + string(rune('0'+i)) + template[k+1:], nil
}

// Config configures Run.
type Config struct {
	// Frames is the number of frames, DefaultFrames when zero.
	Frames int

	// Template is the file name template, DefaultTemplate when empty.
	Template string

	// Dir is prepended to every file name.
	Dir string

	// Title, when set, is stored in every PNG file as a tEXt chunk with
	// the keyword "Title". Other formats ignore it.
	Title string
}

// Source provides the image to dump after each frame.
type Source interface {
	Scanout() *image.RGBA
}

// Run renders cfg.Frames frames with s and writes the scanout of src after
// each one. It returns the files written. Any error stops the run.
func Run(s *agecube.Session, src Source, cfg Config) ([]string, error) {
	if cfg.Frames == 0 {
		cfg.Frames = DefaultFrames
	}
	if cfg.Template == "" {
		cfg.Template = DefaultTemplate
	}
	if cfg.Frames < 0 || cfg.Frames > MaxFrames {
		return nil, fmt.Errorf("dump: %d frames, want 1..%d", cfg.Frames, MaxFrames)
	}
	enc, err := EncoderFor(cfg.Template)
	if err != nil {
		return nil, err
	}
	if cfg.Title != "" && strings.EqualFold(filepath.Ext(cfg.Template), ".png") {
		enc = pngWithText("Title", cfg.Title)
	}
	if _, err := FrameName(cfg.Template, 0); err != nil {
		return nil, err
	}

	log := agecube.Logger()
	var files []string
	err = s.Run(cfg.Frames, func(f agecube.Frame) error {
		name, err := FrameName(cfg.Template, int(f.Index))
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.Dir, name)
		if err := write(path, enc, src.Scanout()); err != nil {
			return err
		}
		log.Info("dump: frame", "frame", f.Index, "age", f.Age, "damage", f.Damage.String(), "file", path)
		files = append(files, path)
		return nil
	})
	return files, err
}

func write(path string, enc Encoder, img image.Image) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("dump: close %s: %w", path, cerr)
		}
	}()
	if err := enc(f, img); err != nil {
		return fmt.Errorf("dump: encode %s: %w", path, err)
	}
	return nil
}
