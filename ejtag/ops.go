// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ejtag

import "fmt"

// ReadWord reads one 32-bit word from the target's memory at addr.
func (e *Executor) ReadWord(addr uint32) (uint32, error) {
	in := []uint32{addr}
	out := make([]uint32, 1)
	if err := e.Execute(readU32(), in, out, 0); err != nil {
		return 0, err
	}
	return out[0], nil
}

// WriteWord writes val to the target's memory at addr.
func (e *Executor) WriteWord(addr, val uint32) error {
	in := []uint32{addr, val}
	return e.Execute(writeU32(), in, nil, 0)
}

// ReadBlock32 reads len(dst) words starting at addr into dst. Callers
// must split transfers wider than maxArenaWords themselves (spec.md
// §4.3's blocksize policy); ReadBlock32 rejects anything larger.
func (e *Executor) ReadBlock32(addr uint32, dst []uint32) error {
	if len(dst) > maxArenaWords {
		return fmt.Errorf("ejtag: block of %d words exceeds arena of %d: %w", len(dst), maxArenaWords, ErrOutOfArena)
	}
	in := []uint32{addr}
	return e.Execute(readMem32(len(dst)), in, dst, 0)
}

// WriteBlock32 writes src to addr in the target's memory.
func (e *Executor) WriteBlock32(addr uint32, src []uint32) error {
	if len(src) > maxArenaWords {
		return fmt.Errorf("ejtag: block of %d words exceeds arena of %d: %w", len(src), maxArenaWords, ErrOutOfArena)
	}
	in := make([]uint32, len(src)+1)
	copy(in, src)
	in[len(src)] = addr
	return e.Execute(writeMem32(len(src)), in, nil, 0)
}

// ReadHalf reads one halfword at addr. Single-shot per the blocksize
// Open Question (see DESIGN.md): halfword transfers never batch.
func (e *Executor) ReadHalf(addr uint32) (uint16, error) {
	in := []uint32{addr}
	out := make([]uint32, 1)
	if err := e.Execute(readMem16(), in, out, 0); err != nil {
		return 0, err
	}
	return uint16(out[0]), nil
}

// ReadByte reads one byte at addr. Single-shot, same rationale as ReadHalf.
func (e *Executor) ReadByte(addr uint32) (byte, error) {
	in := []uint32{addr}
	out := make([]uint32, 1)
	if err := e.Execute(readMem8(), in, out, 0); err != nil {
		return 0, err
	}
	return byte(out[0]), nil
}

// WriteHalf writes one halfword to addr.
func (e *Executor) WriteHalf(addr uint32, val uint16) error {
	in := []uint32{addr, uint32(val)}
	return e.Execute(writeMem16(), in, nil, 0)
}

// WriteByte writes one byte to addr.
func (e *Executor) WriteByte(addr uint32, val byte) error {
	in := []uint32{addr, uint32(val)}
	return e.Execute(writeMem8(), in, nil, 0)
}

// ReadRegs returns the 38-word register set spec.md §4.3 documents: the
// 32 GPRs (GPR0 always 0) followed by Status, Lo, Hi, BadVAddr, Cause,
// and DEPC.
func (e *Executor) ReadRegs() ([]uint32, error) {
	out := make([]uint32, regsWordCount)
	if err := e.Execute(readRegs(), nil, out, 0); err != nil {
		return nil, err
	}
	return out, nil
}

// WriteRegs restores the 38-word register set from regs, which must have
// regsWordCount elements in ReadRegs's order. Writing DEPC moves the
// resume PC a halted target uses once debug mode exits.
func (e *Executor) WriteRegs(regs []uint32) error {
	if len(regs) != regsWordCount {
		return fmt.Errorf("ejtag: WriteRegs wants %d values, got %d", regsWordCount, len(regs))
	}
	return e.Execute(writeRegs(), regs, nil, 0)
}
