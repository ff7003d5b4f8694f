// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"github.com/gogpu/agecube/backend/hal"
	"github.com/gogpu/agecube/backend/soft"
	"github.com/gogpu/agecube/gpu"
)

func init() {
	Register(Soft, func() (gpu.Device, error) {
		return soft.New(), nil
	})
	Register(HAL, func() (gpu.Device, error) {
		return hal.Open()
	})
}
