// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package hal

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gogpu/agecube/gpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	wgpuhal "github.com/gogpu/wgpu/hal"
	_ "github.com/gogpu/wgpu/hal/vulkan" // register the Vulkan backend
)

// fenceTimeout bounds every wait for submitted work.
const fenceTimeout = 5 * time.Second

// Stats counts the work a Device has performed.
type Stats struct {
	Passes    int
	DrawCalls int
	Submits   int
	Flushes   int
	Readbacks int
}

// Device is a gpu.Device backed by a HAL device and queue. It is not safe
// for concurrent use.
type Device struct {
	logger atomic.Pointer[slog.Logger]

	device   wgpuhal.Device
	queue    wgpuhal.Queue
	instance wgpuhal.Instance // nil when the device belongs to a provider
	adapter  string
	format   gputypes.TextureFormat

	open      *pass
	pending   []*recording
	stats     Stats
	destroyed bool
}

var _ gpu.Device = (*Device)(nil)

// New wraps an open HAL device and queue. The caller keeps ownership of
// both; Destroy releases only the objects created through the Device.
func New(device wgpuhal.Device, queue wgpuhal.Queue) (*Device, error) {
	if device == nil || queue == nil {
		return nil, errors.New("hal: nil device or queue")
	}
	d := &Device{
		device: device,
		queue:  queue,
		format: gputypes.TextureFormatRGBA8Unorm,
	}
	d.logger.Store(slog.New(slog.DiscardHandler))
	return d, nil
}

// Open creates a standalone Vulkan device on the first discrete or
// integrated adapter, falling back to the first adapter found.
func Open() (*Device, error) {
	backend, ok := wgpuhal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, fmt.Errorf("hal: vulkan backend not available: %w", gpu.ErrUnsupported)
	}
	instance, err := backend.CreateInstance(&wgpuhal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("hal: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, errors.New("hal: no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("hal: open device: %w", err)
	}
	d, err := New(openDev.Device, openDev.Queue)
	if err != nil {
		openDev.Device.Destroy()
		instance.Destroy()
		return nil, err
	}
	d.instance = instance
	d.adapter = selected.Info.Name
	return d, nil
}

// NewFromProvider shares the device of an external provider such as a
// gogpu window. The provider must also expose HalDevice() any and
// HalQueue() any returning the HAL objects behind it. Targets default to
// the provider's surface format.
func NewFromProvider(provider gpucontext.DeviceProvider) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, errors.New("hal: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(wgpuhal.Device)
	if !ok || device == nil {
		return nil, errors.New("hal: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(wgpuhal.Queue)
	if !ok || queue == nil {
		return nil, errors.New("hal: provider HalQueue is not hal.Queue")
	}
	d, err := New(device, queue)
	if err != nil {
		return nil, err
	}
	if f := provider.SurfaceFormat(); f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatRGBA8Unorm {
		d.format = f
	}
	return d, nil
}

// SetLogger sets the logger used for device diagnostics.
func (d *Device) SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	d.logger.Store(l)
}

func (d *Device) log() *slog.Logger { return d.logger.Load() }

// Name implements gpu.Device.
func (d *Device) Name() string {
	if d.adapter != "" {
		return "hal (" + d.adapter + ")"
	}
	return "hal"
}

// PreferredFormat is the color format targets should use.
func (d *Device) PreferredFormat() gputypes.TextureFormat { return d.format }

// Stats returns the counters accumulated so far.
func (d *Device) Stats() Stats { return d.stats }

// CreateTexture implements gpu.Device. Textures are render targets that
// can be copied out for readback.
func (d *Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	if d.destroyed {
		return nil, fmt.Errorf("hal: texture %q: device destroyed", desc.Label)
	}
	if desc.Width <= 0 || desc.Height <= 0 {
		return nil, fmt.Errorf("hal: texture %q: invalid size %dx%d", desc.Label, desc.Width, desc.Height)
	}
	if desc.Format != gputypes.TextureFormatRGBA8Unorm && desc.Format != gputypes.TextureFormatBGRA8Unorm {
		return nil, fmt.Errorf("hal: texture %q: %w: format %v", desc.Label, gpu.ErrUnsupported, desc.Format)
	}

	raw, err := d.device.CreateTexture(&wgpuhal.TextureDescriptor{
		Label:         desc.Label,
		Size:          wgpuhal.Extent3D{Width: uint32(desc.Width), Height: uint32(desc.Height), DepthOrArrayLayers: 1}, //nolint:gosec // checked positive above
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("hal: create texture %q: %w", desc.Label, err)
	}
	view, err := d.device.CreateTextureView(raw, &wgpuhal.TextureViewDescriptor{
		Label: desc.Label + "_view",
	})
	if err != nil {
		d.device.DestroyTexture(raw)
		return nil, fmt.Errorf("hal: create view %q: %w", desc.Label, err)
	}
	return &texture{
		dev:    d,
		label:  desc.Label,
		raw:    raw,
		view:   view,
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
	}, nil
}

// ImportDMABuf implements gpu.Device. The HAL has no external memory
// import, so it always fails.
func (d *Device) ImportDMABuf(desc gpu.DMABufDescriptor) (gpu.Texture, error) {
	return nil, fmt.Errorf("hal: import %q: %w: dma-buf import", desc.Label, gpu.ErrUnsupported)
}

// CreateFramebuffer implements gpu.Device.
func (d *Device) CreateFramebuffer(color gpu.Texture) (gpu.Framebuffer, error) {
	t, err := d.texture(color)
	if err != nil {
		return nil, err
	}
	return &framebuffer{color: t}, nil
}

// CheckFramebuffer implements gpu.Device.
func (d *Device) CheckFramebuffer(fb gpu.Framebuffer) gpu.FramebufferStatus {
	f, ok := fb.(*framebuffer)
	switch {
	case !ok || f == nil || f.color == nil || f.color.raw == nil:
		return gpu.FramebufferMissingAttachment
	case f.color.dev != d:
		return gpu.FramebufferUnsupported
	case f.color.width <= 0 || f.color.height <= 0:
		return gpu.FramebufferIncompleteDimensions
	}
	return gpu.FramebufferComplete
}

// ReadPixels implements gpu.Device. Pending passes are flushed first.
func (d *Device) ReadPixels(fb gpu.Framebuffer, r image.Rectangle, dst []byte) error {
	f, err := d.framebuffer(fb)
	if err != nil {
		return err
	}
	bounds := image.Rect(0, 0, f.color.width, f.color.height)
	if !r.In(bounds) {
		return fmt.Errorf("hal: read %v outside %v", r, bounds)
	}
	if len(dst) < r.Dx()*r.Dy()*4 {
		return fmt.Errorf("hal: read %v: destination holds %d bytes", r, len(dst))
	}
	if err := d.Flush(); err != nil {
		return err
	}
	return d.readback(f.color, r, dst)
}

// Flush implements gpu.Device. It submits every ended pass and waits for
// the GPU before releasing their per-draw buffers.
func (d *Device) Flush() error {
	if d.open != nil {
		return fmt.Errorf("hal: flush with pass %q open", d.open.label)
	}
	d.stats.Flushes++
	if len(d.pending) == 0 {
		return nil
	}

	recs := d.pending
	d.pending = nil
	defer func() {
		for _, rec := range recs {
			rec.release(d.device)
		}
	}()

	cmds := make([]wgpuhal.CommandBuffer, len(recs))
	for i, rec := range recs {
		cmds[i] = rec.cmd
	}
	if err := d.submit(cmds); err != nil {
		return err
	}
	d.log().Debug("hal: flushed", "passes", len(recs))
	return nil
}

func (d *Device) submit(cmds []wgpuhal.CommandBuffer) error {
	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("hal: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit(cmds, fence, 1); err != nil {
		return fmt.Errorf("hal: submit: %w", err)
	}
	d.stats.Submits++
	ok, err := d.device.Wait(fence, 1, fenceTimeout)
	if err != nil || !ok {
		return fmt.Errorf("hal: wait for GPU: ok=%v err=%w", ok, err)
	}
	return nil
}

// DestroyTexture implements gpu.Device.
func (d *Device) DestroyTexture(t gpu.Texture) {
	tex, ok := t.(*texture)
	if !ok || tex == nil || tex.dev != d {
		return
	}
	if tex.view != nil {
		d.device.DestroyTextureView(tex.view)
		tex.view = nil
	}
	if tex.raw != nil {
		d.device.DestroyTexture(tex.raw)
		tex.raw = nil
	}
}

// DestroyFramebuffer implements gpu.Device. The color texture is owned
// separately.
func (d *Device) DestroyFramebuffer(gpu.Framebuffer) {}

// Destroy implements gpu.Device. Work still pending is discarded. A device
// opened with Open also releases its HAL device and instance.
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	for _, rec := range d.pending {
		rec.release(d.device)
	}
	d.pending = nil
	if d.instance != nil {
		d.device.Destroy()
		d.instance.Destroy()
		d.instance = nil
	}
}

func (d *Device) texture(t gpu.Texture) (*texture, error) {
	tex, ok := t.(*texture)
	if !ok || tex == nil || tex.dev != d {
		return nil, gpu.ErrForeignObject
	}
	return tex, nil
}

func (d *Device) framebuffer(fb gpu.Framebuffer) (*framebuffer, error) {
	f, ok := fb.(*framebuffer)
	if !ok || f == nil || f.color == nil || f.color.dev != d {
		return nil, gpu.ErrForeignObject
	}
	return f, nil
}

type texture struct {
	dev    *Device
	label  string
	raw    wgpuhal.Texture
	view   wgpuhal.TextureView
	width  int
	height int
	format gputypes.TextureFormat
}

func (t *texture) Width() int                     { return t.width }
func (t *texture) Height() int                    { return t.height }
func (t *texture) Format() gputypes.TextureFormat { return t.format }

type framebuffer struct {
	color *texture
}

func (f *framebuffer) Width() int         { return f.color.width }
func (f *framebuffer) Height() int        { return f.color.height }
func (f *framebuffer) Color() gpu.Texture { return f.color }
