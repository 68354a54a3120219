// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usbblaster

import (
	"log"

	"github.com/jtagcore/usbblaster/transport"
)

// warnf reports a configuration misuse the caller should see regardless
// of the usbblaster_debug build tag — spec.md §6 calls these cases
// "warned", not silently-traced.
func warnf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Config accumulates the "commands" spec.md §6 describes before Open:
// device description, VID/PID, back-end selection, and pin levels. Pin
// levels may also be set after Open, taking effect immediately; levels
// set before Open are queued and applied once the transport is up.
type Config struct {
	Description string
	VID, PID    uint16
	BackendName string

	pin6, pin8       bool
	pin6Set, pin8Set bool
}

// SetPin6/SetPin8 queue a pin level to apply once Open succeeds (spec.md
// §6: "accepted at any phase"). Calling these on a Config already passed
// to Open has no effect; use Session.SetPin6/SetPin8 instead.
func (c *Config) SetPin6(level bool) {
	c.pin6, c.pin6Set = level, true
}

func (c *Config) SetPin8(level bool) {
	c.pin8, c.pin8Set = level, true
}

// SetDescription records the device description string. Config-phase
// only, matching spec.md §6.
func (c *Config) SetDescription(desc string) {
	c.Description = desc
}

// SetVIDPID sets VID and PID from args. args must supply exactly two
// values to take effect; more than two is warned and truncated to the
// first two, fewer than two is warned and the call is ignored entirely
// (spec.md §6).
func (c *Config) SetVIDPID(args ...uint16) {
	switch {
	case len(args) < 2:
		warnf("usbblaster: set VID/PID needs 2 arguments, got %d: ignored", len(args))
		return
	case len(args) > 2:
		warnf("usbblaster: set VID/PID takes 2 arguments, got %d: truncated", len(args))
	}
	c.VID, c.PID = args[0], args[1]
}

// SelectBackend names the transport back-end to use ("ftdi" or
// "ftd2xx" in the reference back-ends; extensible via transport.Register).
func (c *Config) SelectBackend(name string) {
	c.BackendName = name
}

func (c *Config) transportConfig() transport.Config {
	return transport.Config{
		VID:         c.VID,
		PID:         c.PID,
		Description: c.Description,
		BackendName: c.BackendName,
	}
}
