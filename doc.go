// Package agecube renders an animated face into reused display buffers,
// redrawing only what each buffer's age says is stale.
//
// # Overview
//
// A display surface hands out back buffers together with their age: the
// number of frames since the buffer was last presented. A buffer that is
// one frame old holds the previous frame, so only the geometry that
// changed between the two frames has to be drawn again, and only its
// bounding rectangle is declared damaged at present time. The decision
// lives in package damage as a table keyed by buffer age and frame parity.
//
// The second mode renders through a kernel-allocated buffer: a DRM dumb
// buffer (or memfd) is exported as a dma-buf, imported as a texture without
// a copy, drawn into by a first pass and sampled by a second.
//
// # Quick Start
//
//	dev := soft.New()
//	sc, _ := surface.NewSwapchain(dev, surface.Config{Width: 256, Height: 256, Buffers: 1})
//	s, err := agecube.NewSession(dev, sc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Close()
//	for range 8 {
//	    f, err := s.RenderFrame()
//	    // f.Damage is {0,0,256,256} for frame 0, about {63,63,130,130} after
//	}
//
// # Packages
//
//   - damage: rectangles, buffer age and the redraw decision table
//   - gpu: the device abstraction
//   - backend: device selection by name
//   - backend/soft: CPU device with zero-copy dma-buf import
//   - backend/hal: device on the gogpu/wgpu hardware abstraction layer
//   - kms: dumb buffer allocation and dma-buf export
//   - shader: WGSL loading and compilation
//   - surface: swapchain with buffer age and present-with-damage
//   - dump: frame dump harness
//   - cmd/agecube: command line front end
//
// # Logging
//
// agecube is silent by default. See [SetLogger].
package agecube
