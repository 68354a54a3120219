// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"sync"
)

// Factory builds a fresh, unopened Backend instance.
type Factory func() Backend

var (
	mu    sync.Mutex
	names []string
	all   = map[string]Factory{}
)

// Register adds a named backend factory to the registry.
//
// Back-ends call this from an init() guarded by their own availability
// check, mirroring ftdi's init()-time driverreg.MustRegister guarded by
// d2xx.Available.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	if _, ok := all[name]; !ok {
		names = append(names, name)
	}
	all[name] = f
}

// Names returns the registered backend names, in registration order.
func Names() []string {
	mu.Lock()
	defer mu.Unlock()
	out := make([]string, len(names))
	copy(out, names)
	return out
}

// Open selects a backend and opens cfg against it.
//
// If cfg.BackendName is non-empty, only that backend is tried. Otherwise
// every registered backend is tried in registration order; the first one
// whose Open succeeds is returned. If none succeed, the last error is
// returned.
func Open(cfg Config) (Backend, error) {
	mu.Lock()
	var candidates []string
	if cfg.BackendName != "" {
		if _, ok := all[cfg.BackendName]; !ok {
			mu.Unlock()
			return nil, fmt.Errorf("usbblaster: unknown backend %q", cfg.BackendName)
		}
		candidates = []string{cfg.BackendName}
	} else {
		candidates = append(candidates, names...)
	}
	factories := make(map[string]Factory, len(candidates))
	for _, n := range candidates {
		factories[n] = all[n]
	}
	mu.Unlock()

	if len(candidates) == 0 {
		return nil, fmt.Errorf("usbblaster: no backend registered")
	}

	var lastErr error
	for _, n := range candidates {
		b := factories[n]()
		if err := b.Open(cfg); err != nil {
			lastErr = fmt.Errorf("usbblaster: backend %q: %w", n, err)
			continue
		}
		return b, nil
	}
	return nil, lastErr
}

// reset clears the registry. Test-only.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	names = nil
	all = map[string]Factory{}
}
