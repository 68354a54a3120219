// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

import "testing"

func TestStandardOracleNextMatchesGraph(t *testing.T) {
	var o StandardOracle
	if got := o.Next(Reset, false); got != Idle {
		t.Fatalf("Next(Reset,0) = %s, want IDLE", got)
	}
	if got := o.Next(Reset, true); got != Reset {
		t.Fatalf("Next(Reset,1) = %s, want RESET", got)
	}
}

func TestStandardOraclePathSameState(t *testing.T) {
	var o StandardOracle
	bits, n := o.Path(Idle, Idle)
	if n != 0 || bits != 0 {
		t.Fatalf("Path(Idle,Idle) = (%d,%d), want (0,0)", bits, n)
	}
}

func TestStandardOraclePathReachesTarget(t *testing.T) {
	var o StandardOracle
	bits, n := o.Path(Idle, IRShift)
	if n == 0 {
		t.Fatal("expected a nonzero-length path from IDLE to IRSHIFT")
	}
	state := Idle
	for i := 0; i < n; i++ {
		bit := (bits>>uint(i))&1 != 0
		state = o.Next(state, bit)
	}
	if state != IRShift {
		t.Fatalf("replaying Path's bits landed on %s, want IRSHIFT", state)
	}
}
