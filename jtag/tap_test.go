// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

import "testing"

// fakeOracle implements the standard IEEE 1149.1 graph directly, enough to
// exercise the driver without depending on the host's real table.
type fakeOracle struct{}

func (fakeOracle) Next(from State, tms bool) State {
	b := uint64(0)
	if tms {
		b = 1
	}
	return stdNext[from][b]
}

func (fakeOracle) Path(from, to State) (uint64, int) {
	if from == to {
		return 0, 0
	}
	// Breadth-first search over the 1-bit edges.
	type node struct {
		state State
		bits  uint64
		n     int
	}
	visited := map[State]bool{from: true}
	queue := []node{{from, 0, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, tms := range []uint64{0, 1} {
			next := stdNext[cur.state][tms]
			if next == to {
				return cur.bits | (tms << uint(cur.n)), cur.n + 1
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, node{next, cur.bits | (tms << uint(cur.n)), cur.n + 1})
			}
		}
	}
	panic("fakeOracle: no path")
}

var stdNext = map[State][2]State{
	Reset:     {Idle, Reset},
	Idle:      {Idle, DRSelect},
	DRSelect:  {DRCapture, IRSelect},
	DRCapture: {DRShift, DRExit1},
	DRShift:   {DRShift, DRExit1},
	DRExit1:   {DRPause, DRUpdate},
	DRPause:   {DRPause, DRExit2},
	DRExit2:   {DRShift, DRUpdate},
	DRUpdate:  {Idle, DRSelect},
	IRSelect:  {IRCapture, Reset},
	IRCapture: {IRShift, IRExit1},
	IRShift:   {IRShift, IRExit1},
	IRExit1:   {IRPause, IRUpdate},
	IRPause:   {IRPause, IRExit2},
	IRExit2:   {IRShift, IRUpdate},
	IRUpdate:  {Idle, DRSelect},
}

func newTestSession() (*Session, *fakeBackend) {
	b := &fakeBackend{}
	s := NewSession(b, fakeOracle{})
	return s, b
}

func TestResetFromIdle(t *testing.T) {
	s, b := newTestSession()
	s.state = Idle
	if err := s.Reset(false, false); err != nil {
		t.Fatal(err)
	}
	if s.state != Reset {
		t.Fatalf("state = %s, want RESET", s.state)
	}
	// Reset only queues its bytes; flush them so the fake sees them.
	if err := s.wbuf.flush(); err != nil {
		t.Fatal(err)
	}
	// 5 pulses * 2 bytes + 1 idle byte.
	if len(b.written) != 11 {
		t.Fatalf("wrote %d bytes, want 11", len(b.written))
	}
	for i := 0; i < 10; i += 2 {
		if b.written[i]&bitTMS == 0 {
			t.Fatalf("byte %d: TMS clear in low phase", i)
		}
		if b.written[i+1] != b.written[i]|bitTCK {
			t.Fatalf("byte %d: high phase is not the low-phase byte with TCK set", i+1)
		}
	}
	last := b.written[len(b.written)-1]
	if last&bitTCK != 0 {
		t.Fatalf("final byte has TCK set")
	}
}

func TestScanIRWithPause(t *testing.T) {
	s, b := newTestSession()
	s.state = Idle
	data := []byte{0x0b} // 0b1011
	cmd := &Scan{IR: true, Bits: 4, Data: data, Dir: ScanIO, EndState: IRPause}
	// 4 one-byte bit-bang reads.
	b.toRead = make([]byte, 4)
	if err := s.Scan(cmd); err != nil {
		t.Fatal(err)
	}
	if s.state != IRPause {
		t.Fatalf("state = %s, want IRPAUSE", s.state)
	}
	for _, by := range b.written {
		if by&bitSHMODE != 0 {
			t.Fatalf("unexpected byte-shift header in a 4-bit scan")
		}
	}
}

func Test256BitDRScanByteShift(t *testing.T) {
	s, b := newTestSession()
	s.state = Idle
	data := make([]byte, 32)
	for i := range data {
		data[i] = byte(i)
	}
	cmd := &Scan{Bits: 256, Data: data, Dir: ScanIO, EndState: DRPause}
	// 31 bytes for the single byte-shift burst (256 bits borrows 8 bits
	// into the bit-bang tail) plus 8 one-byte bit-bang reads.
	b.toRead = make([]byte, 31+8)
	if err := s.Scan(cmd); err != nil {
		t.Fatal(err)
	}
	if s.state != DRPause {
		t.Fatalf("state = %s, want DRPAUSE", s.state)
	}
	foundHeader := false
	for _, by := range b.written {
		if by&bitSHMODE != 0 {
			n := by & shiftLengthMask
			if n == 0 {
				t.Fatalf("byte-shift header encodes N=0")
			}
			foundHeader = true
		}
	}
	if !foundHeader {
		t.Fatalf("expected at least one byte-shift header")
	}
}

func TestReadU32RoundTripBitCount(t *testing.T) {
	s, b := newTestSession()
	s.state = Idle
	in := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	// 32 bits borrows 8 bits into the bit-bang tail: 3 bytes over
	// byte-shift plus 8 one-byte bit-bang reads.
	b.toRead = make([]byte, 3+8)
	cmd := &Scan{Bits: 32, Data: append([]byte(nil), in...), Dir: ScanIO, EndState: DRPause}
	if err := s.Scan(cmd); err != nil {
		t.Fatal(err)
	}
	if len(cmd.Data) != 4 {
		t.Fatalf("got %d bytes back, want 4", len(cmd.Data))
	}
}

func TestRunTestZeroCyclesNoOp(t *testing.T) {
	s, b := newTestSession()
	s.state = Idle
	if err := s.RunTest(0, Idle); err != nil {
		t.Fatal(err)
	}
	if len(b.written) != 0 {
		t.Fatalf("expected no bytes written for zero cycles, got %d", len(b.written))
	}
}
