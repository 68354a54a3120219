// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package transport defines the narrow contract the JTAG and EJTAG engines
// need from a USB bulk transport, and a small registry of named back-ends.
//
// Two concrete back-ends are expected to exist: a libusb-style interface and
// a vendor D2XX-style interface. Neither is implemented in this package;
// see the sibling ftdid2xx and gousbjtag packages.
package transport

import "periph.io/x/conn/v3/physic"

// Config describes how to find and open a probe.
//
// VID, PID and Description are set before Open; BackendName selects which
// registered Backend factory to use, or "" to try all of them in
// registration order.
type Config struct {
	VID         uint16
	PID         uint16
	Description string
	BackendName string
}

// Backend is the contract the JTAG engine consumes from a USB transport.
//
// Implementations are not required to be safe for concurrent use; the
// engines above it are themselves single-threaded (spec.md §5).
type Backend interface {
	// Open acquires the device described by cfg.
	Open(cfg Config) error
	// Close releases the device. Close on an unopened Backend is a no-op.
	Close() error
	// Read fills buf with up to len(buf) bytes already queued by the
	// device and returns how many it actually got. It does not block
	// waiting for more than is already available.
	Read(buf []byte) (int, error)
	// Write hands buf to the device and returns how many bytes were
	// accepted. Callers must retry with the unwritten suffix.
	Write(buf []byte) (int, error)
	// SetSpeed configures the TCK rate.
	SetSpeed(freq physic.Frequency) error
	// Identify returns the VID/PID/description this backend is bound to.
	Identify() (vid, pid uint16, desc string)
}
