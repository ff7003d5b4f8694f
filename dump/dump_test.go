// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package dump

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/agecube"
	"github.com/gogpu/agecube/backend/soft"
	"github.com/gogpu/agecube/surface"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func newSession(t *testing.T, w, h int) (*agecube.Session, *surface.Swapchain) {
	t.Helper()
	dev := soft.New()
	sc, err := surface.NewSwapchain(dev, surface.Config{Width: w, Height: h, Buffers: 1})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = sc.Close() })
	s, err := agecube.NewSession(dev, sc)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, sc
}

func TestFrameName(t *testing.T) {
	tests := []struct {
		tmpl string
		i    int
		want string
	}{
		{"dump#.png", 0, "dump0.png"},
		{"dump#.png", 7, "dump7.png"},
		{"#-#.bmp", 3, "3-#.bmp"},
		{"f#", 10, "f:"},
	}
	for _, tt := range tests {
		got, err := FrameName(tt.tmpl, tt.i)
		if err != nil || got != tt.want {
			t.Errorf("FrameName(%q, %d) = %q, %v; want %q", tt.tmpl, tt.i, got, err, tt.want)
		}
	}
	if _, err := FrameName("dump.png", 0); !errors.Is(err, ErrBadTemplate) {
		t.Errorf("no '#': err = %v", err)
	}
	if _, err := FrameName("d#.png", MaxFrames); err == nil {
		t.Error("expected error past the last name character")
	}
}

func TestEncoderFor(t *testing.T) {
	for _, name := range []string{"a.png", "a.BMP", "a.tif", "a.tiff"} {
		if _, err := EncoderFor(name); err != nil {
			t.Errorf("EncoderFor(%q): %v", name, err)
		}
	}
	if _, err := EncoderFor("a.jpg"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("jpg: err = %v", err)
	}
}

func TestRunWritesEveryFrame(t *testing.T) {
	s, sc := newSession(t, 32, 32)
	dir := t.TempDir()

	files, err := Run(s, sc, Config{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != DefaultFrames {
		t.Fatalf("wrote %d files, want %d", len(files), DefaultFrames)
	}
	if want := filepath.Join(dir, "dump7.png"); files[7] != want {
		t.Errorf("files[7] = %q, want %q", files[7], want)
	}

	f, err := os.Open(files[7])
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds() != image.Rect(0, 0, 32, 32) {
		t.Errorf("bounds = %v", img.Bounds())
	}
	// Frame 7 is odd: the upper right half carries the first color.
	r, g, b, _ := img.At(20, 10).RGBA()
	want := sc.Scanout().RGBAAt(20, 10)
	if uint8(r>>8) != want.R || uint8(g>>8) != want.G || uint8(b>>8) != want.B {
		t.Errorf("pixel (20,10) = %d,%d,%d; want %v", r>>8, g>>8, b>>8, want)
	}
}

func TestRunEncodings(t *testing.T) {
	decode := map[string]func(string) (image.Image, error){
		"d#.bmp": func(p string) (image.Image, error) {
			f, err := os.Open(p)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			return bmp.Decode(f)
		},
		"d#.tiff": func(p string) (image.Image, error) {
			f, err := os.Open(p)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			return tiff.Decode(f)
		},
	}
	for tmpl, dec := range decode {
		t.Run(tmpl, func(t *testing.T) {
			s, sc := newSession(t, 16, 16)
			files, err := Run(s, sc, Config{Frames: 2, Template: tmpl, Dir: t.TempDir()})
			if err != nil {
				t.Fatal(err)
			}
			if len(files) != 2 {
				t.Fatalf("wrote %d files", len(files))
			}
			img, err := dec(files[1])
			if err != nil {
				t.Fatal(err)
			}
			if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
				t.Errorf("bounds = %v", img.Bounds())
			}
		})
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	s, sc := newSession(t, 8, 8)
	if _, err := Run(s, sc, Config{Template: "out#.gif"}); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("gif: err = %v", err)
	}
	if _, err := Run(s, sc, Config{Template: "out.png"}); !errors.Is(err, ErrBadTemplate) {
		t.Errorf("no '#': err = %v", err)
	}
	if _, err := Run(s, sc, Config{Frames: MaxFrames + 1}); err == nil {
		t.Error("expected error for too many frames")
	}
	if s.FrameIndex() != 0 {
		t.Errorf("bad config rendered %d frames", s.FrameIndex())
	}
	if _, err := Run(s, sc, Config{Frames: 1, Dir: filepath.Join(t.TempDir(), "missing")}); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestRunWritesPNGTitle(t *testing.T) {
	s, sc := newSession(t, 16, 16)
	files, err := Run(s, sc, Config{Frames: 1, Dir: t.TempDir(), Title: "hello"})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("tEXtTitle\x00hello")) {
		t.Error("PNG lacks the Title text chunk")
	}
	// The decoder checks every chunk CRC.
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 16 {
		t.Errorf("bounds = %v", img.Bounds())
	}
}
