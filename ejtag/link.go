// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ejtag

import "github.com/jtagcore/usbblaster/jtag"

// Standard EJTAG instruction register codes. The executor treats these as
// opaque constants of the surrounding MIPS environment (spec.md §6); it
// never derives or negotiates them.
const (
	irAddress  = 0x08
	irData     = 0x09
	irControl  = 0x0a
	irAll      = 0x0b
	irFastData = 0x0e
	irLength   = 5
)

// PrAcc debug-memory-segment addresses. Opaque to the executor beyond the
// region comparisons spec.md §4.3 describes.
const (
	PrAccBase     = 0xFF200000
	PrAccText     = PrAccBase + 0x200
	PrAccParamIn  = PrAccBase + 0x400
	PrAccParamOut = PrAccBase + 0x800
	PrAccStack    = PrAccBase + 0xc00

	// maxArenaWords bounds the param-in/param-out arenas; the blocksize
	// policy (spec.md §4.3) never issues more than this many words in one
	// PrAcc primitive call.
	maxArenaWords = 0x400
)

// Control register bits.
const (
	ctrlPrAcc = 1 << 18
	ctrlPrNW  = 1 << 19
)

// Link is the thin EJTAG wrapper spec.md §2 describes: it sets an IR
// instruction and shifts 32-bit DRs. This package specifies only the
// sequence of IR/DR operations a PrAcc cycle or FASTDATA word needs, not
// the scan primitives themselves.
type Link interface {
	// SetInstruction shifts ir into the TAP's instruction register.
	SetInstruction(ir uint32) error
	// ScanData shifts a 32-bit DR. When write is true, word is driven in
	// and the previous DR contents are returned; when false, zeros are
	// driven and the captured value is returned.
	ScanData(ir uint32, word uint32, write bool) (uint32, error)
}

// jtagLink is the concrete Link built over a jtag.Session, composing the
// two engines per spec.md §1.
type jtagLink struct {
	s *jtag.Session
}

// NewLink builds a Link over an open jtag.Session.
func NewLink(s *jtag.Session) Link {
	return &jtagLink{s: s}
}

func (l *jtagLink) SetInstruction(ir uint32) error {
	data := []byte{byte(ir)}
	cmd := &jtag.Scan{IR: true, Bits: irLength, Data: data, Dir: jtag.ScanOut, EndState: jtag.Idle}
	return l.s.Scan(cmd)
}

func (l *jtagLink) ScanData(ir uint32, word uint32, write bool) (uint32, error) {
	if err := l.SetInstruction(ir); err != nil {
		return 0, err
	}
	var buf [4]byte
	if write {
		buf[0] = byte(word)
		buf[1] = byte(word >> 8)
		buf[2] = byte(word >> 16)
		buf[3] = byte(word >> 24)
	}
	cmd := &jtag.Scan{Bits: 32, Data: buf[:], Dir: jtag.ScanIO, EndState: jtag.Idle}
	if err := l.s.Scan(cmd); err != nil {
		return 0, err
	}
	got := uint32(cmd.Data[0]) | uint32(cmd.Data[1])<<8 | uint32(cmd.Data[2])<<16 | uint32(cmd.Data[3])<<24
	return got, nil
}
