// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usbblaster

import "errors"

// DeviceError wraps a transport-layer failure (spec.md §7 kind 1): a USB
// open/read/write/speed call that returned an error, or the PrAcc
// deadline expiring.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string { return "usbblaster: " + e.Op + ": " + e.Err.Error() }
func (e *DeviceError) Unwrap() error { return e.Err }

// ProtocolError covers PrAcc out-of-arena accesses and FASTDATA load
// failures (spec.md §7 kinds 4-5): the target behaved outside the
// protocol the executor expects.
type ProtocolError struct {
	Op  string
	Err error
}

func (e *ProtocolError) Error() string { return "usbblaster: " + e.Op + ": " + e.Err.Error() }
func (e *ProtocolError) Unwrap() error { return e.Err }

// ErrNoBackend is wrapped in the DeviceError Open returns when no back-end
// name was selected and no registered back-end could be opened (including
// when none is registered).
var ErrNoBackend = errors.New("usbblaster: no transport back-end available")
