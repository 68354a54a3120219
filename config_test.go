// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usbblaster

import "testing"

func TestSetVIDPIDExactTwoArgs(t *testing.T) {
	var c Config
	c.SetVIDPID(0x0403, 0x6010)
	if c.VID != 0x0403 || c.PID != 0x6010 {
		t.Fatalf("VID/PID = %#x/%#x, want 0x0403/0x6010", c.VID, c.PID)
	}
}

func TestSetVIDPIDTooFewIgnored(t *testing.T) {
	var c Config
	c.VID, c.PID = 1, 2
	c.SetVIDPID(0x0403)
	if c.VID != 1 || c.PID != 2 {
		t.Fatalf("VID/PID changed to %#x/%#x on too-few args, want unchanged", c.VID, c.PID)
	}
}

func TestSetVIDPIDTooManyTruncated(t *testing.T) {
	var c Config
	c.SetVIDPID(0x0403, 0x6010, 0x9999)
	if c.VID != 0x0403 || c.PID != 0x6010 {
		t.Fatalf("VID/PID = %#x/%#x, want first two truncated to 0x0403/0x6010", c.VID, c.PID)
	}
}

func TestSetPin6Pin8QueueBeforeOpen(t *testing.T) {
	var c Config
	c.SetPin6(true)
	c.SetPin8(false)
	if !c.pin6Set || !c.pin6 {
		t.Fatal("SetPin6 did not queue level true")
	}
	if !c.pin8Set || c.pin8 {
		t.Fatal("SetPin8 did not queue level false")
	}
}

func TestSelectBackendAndDescription(t *testing.T) {
	var c Config
	c.SelectBackend("ftd2xx")
	c.SetDescription("probe-1")
	tc := c.transportConfig()
	if tc.BackendName != "ftd2xx" || tc.Description != "probe-1" {
		t.Fatalf("transportConfig = %+v, want backend ftd2xx desc probe-1", tc)
	}
}
