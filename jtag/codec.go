// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

// Bit-bang byte layout (spec.md §4.1).
const (
	bitTCK    = 1 << 0
	bitTMS    = 1 << 1
	bitNCE    = 1 << 2 // pin6
	bitNCS    = 1 << 3 // pin8
	bitTDI    = 1 << 4
	bitLED    = 1 << 5
	bitREAD   = 1 << 6
	bitSHMODE = 1 << 7
)

// Byte-shift header layout (spec.md §4.1, §6).
const (
	shiftHeaderMode = 1 << 7
	shiftHeaderRead = 1 << 6
	shiftLengthMask = 0x3f
	maxShiftLength  = 63
)

// buildOut composes a bit-bang output byte from the session's current pin
// state. LED is always set while the probe is active.
func (s *Session) buildOut(read bool) byte {
	var b byte = bitLED
	if s.pin6 {
		b |= bitNCE
	}
	if s.pin8 {
		b |= bitNCS
	}
	if s.tms {
		b |= bitTMS
	}
	if s.tdi {
		b |= bitTDI
	}
	if read {
		b |= bitREAD
	}
	return b
}

// pulse emits one TCK pulse in bit-bang mode with the given TMS/TDI levels,
// low phase then high phase. The session's tms/tdi fields are updated so
// buildOut reflects the new levels on subsequent calls.
func (s *Session) pulse(tms, tdi, read bool) error {
	s.tms, s.tdi = tms, tdi
	low := s.buildOut(read)
	if err := s.queueByteFlushing(low); err != nil {
		return err
	}
	return s.queueByteFlushing(low | bitTCK)
}

// idleClock emits the byte that leaves TCK low after the final pulse of a
// logical operation (invariant 1 in spec.md §3).
func (s *Session) idleClock() error {
	return s.queueByteFlushing(s.buildOut(false))
}

// queueByteFlushing is queueByte with the buffer's remaining() precondition
// always satisfied: a single byte never overflows a 64-byte buffer.
func (s *Session) queueByteFlushing(b byte) error {
	return s.wbuf.queueByte(b)
}

// byteShiftHeader builds the header byte for a byte-shift burst of n
// payload bytes ([1,63]) with optional TDO capture.
func byteShiftHeader(n int, read bool) byte {
	h := byte(shiftHeaderMode) | byte(n&shiftLengthMask)
	if read {
		h |= shiftHeaderRead
	}
	return h
}
