// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/agecube/backend/hal"
	"github.com/gogpu/agecube/backend/soft"
	"github.com/gogpu/agecube/gpu"
)

func TestBuiltinsRegistered(t *testing.T) {
	for _, name := range []string{Soft, HAL} {
		if !IsRegistered(name) {
			t.Errorf("%q not registered", name)
		}
	}
	got := Available()
	if !slices.IsSorted(got) {
		t.Errorf("Available() = %v, not sorted", got)
	}
}

func TestOpenSoft(t *testing.T) {
	dev, err := Open(Soft)
	if err != nil {
		t.Fatal(err)
	}
	defer dev.Destroy()
	if dev.Name() != "soft" {
		t.Errorf("Name() = %q", dev.Name())
	}
}

func TestOpenUnknown(t *testing.T) {
	if _, err := Open("metal"); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("err = %v, want ErrBackendNotAvailable", err)
	}
}

func TestDefaultFallsBack(t *testing.T) {
	errBroken := errors.New("broken")
	Register("broken", func() (gpu.Device, error) { return nil, errBroken })
	defer Unregister("broken")
	Register(HAL, func() (gpu.Device, error) { return nil, errBroken })
	defer Register(HAL, func() (gpu.Device, error) { return hal.Open() })

	dev, err := Default(nil)
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	defer dev.Destroy()
	if dev.Name() != "soft" {
		t.Errorf("Default opened %q, want soft", dev.Name())
	}

	if _, err := Open("broken"); !errors.Is(err, errBroken) {
		t.Errorf("Open(broken) err = %v", err)
	}
}

func TestDefaultNoneOpen(t *testing.T) {
	saved := make(map[string]Factory)
	registryMu.Lock()
	for k, v := range factories {
		saved[k] = v
	}
	factories = map[string]Factory{}
	registryMu.Unlock()
	defer func() {
		registryMu.Lock()
		factories = saved
		registryMu.Unlock()
	}()

	Register(Soft, func() (gpu.Device, error) { return nil, errors.New("no") })
	if _, err := Default(nil); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("err = %v", err)
	}
	Register(Soft, func() (gpu.Device, error) { return soft.New(), nil })
	dev, err := Default(nil)
	if err != nil {
		t.Fatal(err)
	}
	dev.Destroy()
}
