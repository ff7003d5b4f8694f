// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image"
	"image/draw"
	"log/slog"
	"time"

	"github.com/gogpu/agecube/damage"
	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/gputypes"
)

// Buffer count limits for a Swapchain.
const (
	MinBuffers     = 1
	MaxBuffers     = 4
	DefaultBuffers = 2
)

// Config configures a Swapchain.
type Config struct {
	Width  int
	Height int

	// Buffers is the number of back buffers, DefaultBuffers when zero.
	Buffers int

	// Format is the buffer format, RGBA8Unorm when undefined.
	Format gputypes.TextureFormat

	// RefreshRate paces Present to the given rate in Hz. Zero disables
	// pacing.
	RefreshRate float64
}

// Stats counts presented frames and the pixels copied to scanout.
type Stats struct {
	Presents      int
	DamagedPixels int
}

type backBuffer struct {
	index int
	tex   gpu.Texture
	fb    gpu.Framebuffer

	// presentedAt is the 1-based present count at which the buffer was
	// last shown, 0 when it never was.
	presentedAt uint64
}

// Swapchain is a Provider backed by textures of a gpu.Device, composited
// onto a CPU scanout plane.
type Swapchain struct {
	dev      gpu.Device
	cfg      Config
	buffers  []*backBuffer
	next     int
	current  *backBuffer
	presents uint64

	scanout *image.RGBA
	stage   []byte
	stats   Stats

	period   time.Duration
	deadline time.Time
	now      func() time.Time
	sleep    func(time.Duration)

	logger *slog.Logger
	closed bool
}

var _ Provider = (*Swapchain)(nil)

// NewSwapchain allocates the back buffers on dev.
func NewSwapchain(dev gpu.Device, cfg Config) (*Swapchain, error) {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("surface: invalid size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Buffers == 0 {
		cfg.Buffers = DefaultBuffers
	}
	if cfg.Buffers < MinBuffers || cfg.Buffers > MaxBuffers {
		return nil, fmt.Errorf("surface: %d buffers, want %d..%d", cfg.Buffers, MinBuffers, MaxBuffers)
	}
	if cfg.Format == gputypes.TextureFormatUndefined {
		cfg.Format = gputypes.TextureFormatRGBA8Unorm
	}

	s := &Swapchain{
		dev:     dev,
		cfg:     cfg,
		scanout: image.NewRGBA(image.Rect(0, 0, cfg.Width, cfg.Height)),
		now:     time.Now,
		sleep:   time.Sleep,
		logger:  slog.New(slog.DiscardHandler),
	}
	if cfg.RefreshRate > 0 {
		s.period = time.Duration(float64(time.Second) / cfg.RefreshRate)
	}

	for i := range cfg.Buffers {
		tex, err := dev.CreateTexture(gpu.TextureDescriptor{
			Label:  fmt.Sprintf("back-buffer-%d", i),
			Width:  cfg.Width,
			Height: cfg.Height,
			Format: cfg.Format,
			Usage:  gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
		})
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("surface: back buffer %d: %w", i, err)
		}
		fb, err := dev.CreateFramebuffer(tex)
		if err != nil {
			dev.DestroyTexture(tex)
			s.Close()
			return nil, fmt.Errorf("surface: back buffer %d: %w", i, err)
		}
		s.buffers = append(s.buffers, &backBuffer{index: i, tex: tex, fb: fb})
	}
	return s, nil
}

// SetLogger sets the logger used for per-frame diagnostics.
func (s *Swapchain) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	s.logger = l
}

// Acquire implements Provider.
func (s *Swapchain) Acquire() (gpu.Framebuffer, error) {
	if s.closed {
		return nil, ErrClosed
	}
	if s.current == nil {
		s.current = s.buffers[s.next]
	}
	return s.current.fb, nil
}

// BufferAge implements Provider. It reports 0 when nothing is acquired.
func (s *Swapchain) BufferAge() damage.BufferAge {
	b := s.current
	if b == nil || b.presentedAt == 0 {
		return 0
	}
	return damage.BufferAge(s.presents + 1 - b.presentedAt)
}

// Present implements Provider. The damaged part of the back buffer is read
// back and copied onto the scanout plane; the rest of the plane keeps
// what earlier frames put there.
func (s *Swapchain) Present(r damage.Rect) error {
	if s.closed {
		return ErrClosed
	}
	b := s.current
	if b == nil {
		return ErrNotAcquired
	}

	r = r.Clamp(s.cfg.Width, s.cfg.Height)
	if !r.Empty() {
		if err := s.compose(b, r.Image()); err != nil {
			return err
		}
	}

	s.presents++
	b.presentedAt = s.presents
	s.current = nil
	s.next = (s.next + 1) % len(s.buffers)
	s.stats.Presents++
	s.stats.DamagedPixels += r.Area()

	s.logger.Debug("surface: present", "buffer", b.index, "frame", s.presents, "damage", r.String())
	s.pace()
	return nil
}

func (s *Swapchain) compose(b *backBuffer, r image.Rectangle) error {
	n := r.Dx() * r.Dy() * 4
	if cap(s.stage) < n {
		s.stage = make([]byte, n)
	}
	s.stage = s.stage[:n]
	if err := s.dev.ReadPixels(b.fb, r, s.stage); err != nil {
		return fmt.Errorf("surface: read back buffer %d: %w", b.index, err)
	}
	src := &image.RGBA{Pix: s.stage, Stride: r.Dx() * 4, Rect: r}
	draw.Draw(s.scanout, r, src, r.Min, draw.Src)
	return nil
}

// pace blocks until the next refresh deadline.
func (s *Swapchain) pace() {
	if s.period == 0 {
		return
	}
	now := s.now()
	if s.deadline.IsZero() || now.After(s.deadline) {
		s.deadline = now.Add(s.period)
		return
	}
	s.sleep(s.deadline.Sub(now))
	s.deadline = s.deadline.Add(s.period)
}

// Size implements Provider.
func (s *Swapchain) Size() (int, int) { return s.cfg.Width, s.cfg.Height }

// Format implements Provider.
func (s *Swapchain) Format() gputypes.TextureFormat { return s.cfg.Format }

// Buffers returns the number of back buffers.
func (s *Swapchain) Buffers() int { return len(s.buffers) }

// Stats returns the present counters.
func (s *Swapchain) Stats() Stats { return s.stats }

// Scanout returns a copy of the scanout plane.
func (s *Swapchain) Scanout() *image.RGBA {
	img := image.NewRGBA(s.scanout.Rect)
	copy(img.Pix, s.scanout.Pix)
	return img
}

// ReadBuffer returns the full contents of the acquired buffer.
func (s *Swapchain) ReadBuffer() (*image.RGBA, error) {
	if s.current == nil {
		return nil, ErrNotAcquired
	}
	img := image.NewRGBA(image.Rect(0, 0, s.cfg.Width, s.cfg.Height))
	if err := s.dev.ReadPixels(s.current.fb, img.Rect, img.Pix); err != nil {
		return nil, fmt.Errorf("surface: read buffer %d: %w", s.current.index, err)
	}
	return img, nil
}

// Close destroys the back buffers. Close is idempotent.
func (s *Swapchain) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, b := range s.buffers {
		s.dev.DestroyFramebuffer(b.fb)
		s.dev.DestroyTexture(b.tex)
	}
	s.buffers = nil
	s.current = nil
	return nil
}
