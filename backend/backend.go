// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"

	"github.com/gogpu/agecube/gpu"
)

// Names of the built-in devices.
const (
	// Soft is the CPU device from backend/soft.
	Soft = "soft"
	// HAL is the gogpu/wgpu HAL device from backend/hal.
	HAL = "hal"
)

// ErrBackendNotAvailable is returned when a requested backend is not
// registered, or when no registered backend opens.
var ErrBackendNotAvailable = errors.New("backend: not available")

// Factory opens a new device.
type Factory func() (gpu.Device, error)
