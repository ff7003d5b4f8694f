// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/gogpu/agecube/gpu"
)

var (
	registryMu sync.RWMutex
	factories  = make(map[string]Factory)
	// Priority order for Default: the first backend that opens wins.
	priority = []string{HAL, Soft}
)

// Register registers a device factory under name, replacing any previous
// factory of that name.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	factories[name] = f
}

// Unregister removes a factory. This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(factories, name)
}

// Available returns the registered names in sorted order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered reports whether a factory named name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := factories[name]
	return ok
}

// Open opens the device registered under name.
func Open(name string) (gpu.Device, error) {
	registryMu.RLock()
	f, ok := factories[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrBackendNotAvailable, name, Available())
	}
	dev, err := f()
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return dev, nil
}

// Default opens the first backend in priority order that succeeds, then
// any other registered backend. Failures are logged to l at debug level.
func Default(l *slog.Logger) (gpu.Device, error) {
	if l == nil {
		l = slog.New(slog.DiscardHandler)
	}
	names := slices.Clone(priority)
	for _, name := range Available() {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	for _, name := range names {
		if !IsRegistered(name) {
			continue
		}
		dev, err := Open(name)
		if err != nil {
			l.Debug("backend: skipped", "backend", name, "err", err)
			continue
		}
		return dev, nil
	}
	return nil, ErrBackendNotAvailable
}
