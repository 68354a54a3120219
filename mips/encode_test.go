// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mips

import "testing"

func TestAddiuEncoding(t *testing.T) {
	// addiu $t0, $zero, 4
	got := Addiu(T0, R0, 4)
	want := uint32(OpAddiu)<<26 | uint32(T0)<<16 | 4
	if got != want {
		t.Fatalf("got %#08x, want %#08x", got, want)
	}
}

func TestJrEncoding(t *testing.T) {
	got := Jr(RA)
	want := uint32(RA) << 21
	want |= uint32(FuncJr)
	if got != want {
		t.Fatalf("got %#08x, want %#08x", got, want)
	}
}

func TestROutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range field")
		}
	}()
	R(OpSpecial, 99, 0, 0, 0, 0)
}

func TestJTargetOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for oversized jump target")
		}
	}()
	J(OpJ, 1<<27)
}

func TestImm32RoundTrips(t *testing.T) {
	code := Imm32(T0, 0xFF200200)
	if len(code) != 2 {
		t.Fatalf("got %d instructions, want 2", len(code))
	}
	wantLui := I(OpLui, 0, T0, 0xFF20)
	if code[0] != wantLui {
		t.Fatalf("lui = %#08x, want %#08x", code[0], wantLui)
	}
	wantOri := I(OpOri, T0, T0, 0x0200)
	if code[1] != wantOri {
		t.Fatalf("ori = %#08x, want %#08x", code[1], wantOri)
	}
}

func TestJumpTargetMasksRegion(t *testing.T) {
	got := JumpTarget(0xFF200200)
	want := (uint32(0xFF200200) & 0x0fffffff) >> 2
	if got != want {
		t.Fatalf("got %#x, want %#x", got, want)
	}
}
