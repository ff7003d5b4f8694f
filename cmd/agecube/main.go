// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command agecube renders a two-colored face that swaps colors every frame
// and dumps each presented frame to an image file.
//
// In damage mode only the pixels the buffer age requires are redrawn. In
// offscreen mode every frame goes through a kernel buffer imported as a
// texture.
//
//	agecube -frames 8 -buffers 2 -out 'frame#.png'
//	agecube -mode offscreen -device mem
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/agecube"
	"github.com/gogpu/agecube/backend"
	"github.com/gogpu/agecube/dump"
	"github.com/gogpu/agecube/kms"
	"github.com/gogpu/agecube/surface"
)

type config struct {
	device  string
	width   int
	height  int
	frames  int
	buffers int
	mode    string
	backend string
	shaders string
	out     string
	title   string
	refresh float64
	verbose bool
}

// deviceUsage documents that -device only matters in offscreen mode.
const deviceUsage = "DRM node for kernel buffers, or \"mem\" for memfd; read in offscreen mode only, ignored in damage mode"

func newFlagSet(cfg *config) *flag.FlagSet {
	fs := flag.NewFlagSet("agecube", flag.ContinueOnError)
	fs.StringVar(&cfg.device, "device", "/dev/dri/card0", deviceUsage)
	fs.IntVar(&cfg.width, "width", 256, "image width")
	fs.IntVar(&cfg.height, "height", 256, "image height")
	fs.IntVar(&cfg.frames, "frames", dump.DefaultFrames, "number of frames to render")
	fs.IntVar(&cfg.buffers, "buffers", 1, "number of swapchain buffers")
	fs.StringVar(&cfg.mode, "mode", agecube.ModeDamage.String(), "render mode: damage or offscreen")
	fs.StringVar(&cfg.backend, "backend", backend.Soft, "device backend: soft or hal")
	fs.StringVar(&cfg.shaders, "shaders", "", "directory with shader sources (default: built in)")
	fs.StringVar(&cfg.out, "out", dump.DefaultTemplate, "output file template; '#' becomes the frame number")
	fs.StringVar(&cfg.title, "title", "hello", "Title text stored in PNG frames, empty for none")
	fs.Float64Var(&cfg.refresh, "refresh", 0, "present rate in Hz, 0 for unpaced")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	return fs
}

// parseFlags parses args into a config. deviceSet reports whether -device
// was given explicitly.
func parseFlags(args []string) (cfg config, deviceSet bool, err error) {
	fs := newFlagSet(&cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, false, err
	}
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "device" {
			deviceSet = true
		}
	})
	return cfg, deviceSet, nil
}

func main() {
	cfg, deviceSet, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	level := slog.LevelInfo
	if cfg.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	agecube.SetLogger(logger)

	if deviceSet && cfg.mode != agecube.ModeOffscreen.String() {
		logger.Warn("-device is ignored outside offscreen mode", "device", cfg.device, "mode", cfg.mode)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("agecube failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config, logger *slog.Logger) (err error) {
	mode, err := agecube.ParseMode(cfg.mode)
	if err != nil {
		return err
	}
	opts := []agecube.Option{agecube.WithMode(mode), agecube.WithLogger(logger)}

	if cfg.shaders != "" {
		info, serr := os.Stat(cfg.shaders)
		if serr != nil {
			return serr
		}
		if !info.IsDir() {
			return fmt.Errorf("shaders: %s is not a directory", cfg.shaders)
		}
		opts = append(opts, agecube.WithShaderFS(os.DirFS(cfg.shaders)))
	}

	if mode == agecube.ModeOffscreen {
		var alloc kms.Allocator
		alloc, err = kms.Open(cfg.device)
		if err != nil {
			return fmt.Errorf("open %s: %w", cfg.device, err)
		}
		defer func() { err = errors.Join(err, alloc.Close()) }()
		opts = append(opts, agecube.WithAllocator(alloc))
	}

	dev, err := backend.Open(cfg.backend)
	if err != nil {
		return err
	}
	defer dev.Destroy()
	logger.Info("device opened", "device", dev.Name())

	sc, err := surface.NewSwapchain(dev, surface.Config{
		Width:       cfg.width,
		Height:      cfg.height,
		Buffers:     cfg.buffers,
		RefreshRate: cfg.refresh,
	})
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, sc.Close()) }()

	s, err := agecube.NewSession(dev, sc, opts...)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, s.Close()) }()

	files, err := dump.Run(s, sc, dump.Config{Frames: cfg.frames, Template: cfg.out, Title: cfg.title})
	if err != nil {
		return err
	}
	st := sc.Stats()
	logger.Info("done", "files", len(files), "presents", st.Presents, "damaged_pixels", st.DamagedPixels)
	return nil
}
