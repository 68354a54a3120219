// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ejtag

import (
	"fmt"

	"github.com/jtagcore/usbblaster/mips"
)

// handlerWords is the fixed resident FASTDATA handler size (spec.md §4.4).
const handlerWords = 16

// fastDataMemAddr is the CPU-side memory-mapped location of the FASTDATA
// register: the handler reads/writes this address to exchange a word
// with the JTAG-side FASTDATA DR, the same mechanism PrAccText/ParamIn/
// ParamOut use for the slower per-cycle path.
const fastDataMemAddr = PrAccBase + 0xc08

// Handler tail-word layout, used to spill $8..$11 before they're
// repurposed as the transfer's address/length/data registers.
const (
	slotSpillT0 = 12
	slotSpillT1 = 13
	slotSpillT2 = 14
	slotSpillT3 = 15
)

// handlerDirSlot is the first of the two instruction words spec.md §4.4
// says are patched to flip direction between read and write.
const handlerDirSlot = 8

// buildHandler assembles the resident handler, patching the direction
// pair for a read (target memory -> FASTDATA) or write (FASTDATA ->
// target memory) transfer. Entered with $15 pointing at its own base,
// $9 holding start_addr and $10 end_addr once loaded, it loops moving
// one word per iteration until $9 == $10, then returns to PrAccText via
// DeSave. The spill slots are written but not read back -- there is no
// room left in the 16-word budget to restore $8..$11, so callers must
// not rely on their value surviving a FASTDATA transfer.
func buildHandler(read bool) []uint32 {
	code := make([]uint32, handlerWords)
	code[0] = mips.Sw(mips.T0, scratch, slotSpillT0*4)
	code[1] = mips.Sw(mips.T1, scratch, slotSpillT1*4)
	code[2] = mips.Sw(mips.T2, scratch, slotSpillT2*4)
	code[3] = mips.Sw(mips.T3, scratch, slotSpillT3*4)
	code[4] = mips.Lui(mips.T0, uint16(uint32(fastDataMemAddr)>>16))
	code[5] = mips.Ori(mips.T0, mips.T0, uint16(fastDataMemAddr))
	code[6] = mips.Lw(mips.T1, mips.T0, 0) // $9 = start_addr
	code[7] = mips.Lw(mips.T2, mips.T0, 0) // $10 = end_addr
	if read {
		code[handlerDirSlot] = mips.Lw(mips.T3, mips.T1, 0)   // $11 <- mem[$9]
		code[handlerDirSlot+1] = mips.Sw(mips.T3, mips.T0, 0) // FASTDATA <- $11
	} else {
		code[handlerDirSlot] = mips.Lw(mips.T3, mips.T0, 0)   // $11 <- FASTDATA
		code[handlerDirSlot+1] = mips.Sw(mips.T3, mips.T1, 0) // mem[$9] <- $11
	}
	code[10] = mips.Addiu(mips.T1, mips.T1, 4)
	loopBranch := 11
	code[loopBranch] = mips.Bne(mips.T1, mips.T2, int16(handlerDirSlot-loopBranch-1))
	code[12] = mips.Nop() // delay slot
	code[13] = mips.Mfc0(mips.T0, mips.DeSave, 0)
	code[14] = mips.Jr(mips.T0)
	code[15] = mips.Nop() // delay slot
	return code
}

// jumpStub builds the 5-word stub spec.md §4.4 step 3 describes: it
// loads the work area's address into $15 and jumps there. The leading
// nop is a pipeline filler pushed through PrAcc like any other word;
// Execute doesn't care, it just serves whatever PrAccText fetches.
func jumpStub(workAddr uint32) []uint32 {
	code := []uint32{mips.Nop()}
	code = append(code, mips.Imm32(scratch, workAddr)...)
	code = append(code, mips.Jr(scratch), mips.Nop())
	return code
}

// praccBlockWriter is the slice of Executor that FastdataEngine needs to
// deposit the resident handler (spec.md §4.4 step 2): the write_mem32
// stub path.
type praccBlockWriter interface {
	WriteBlock32(addr uint32, src []uint32) error
}

// FastdataEngine bypasses the per-cycle PrAcc dialog for bulk memory
// transfer by uploading a resident handler once per direction change and
// streaming words through the FASTDATA DR thereafter.
type FastdataEngine struct {
	exec praccBlockWriter
	link Link

	workBase uint32
	workSize uint32

	uploaded bool
	lastRead bool
}

// NewFastdataEngine builds a FastdataEngine over exec, using workBase/
// workSize as the caller-provided target RAM work area.
func NewFastdataEngine(exec *Executor, link Link, workBase, workSize uint32) *FastdataEngine {
	return &FastdataEngine{exec: exec, link: link, workBase: workBase, workSize: workSize}
}

// Transfer moves len(buf) words between the FASTDATA area and target
// memory starting at targetAddr. read selects direction: true copies
// target memory into buf, false writes buf to target memory.
func (f *FastdataEngine) Transfer(targetAddr uint32, buf []uint32, read bool) error {
	if f.workSize < handlerWords*4 {
		return fmt.Errorf("ejtag: fastdata work area of %d bytes smaller than handler (%d bytes): %w",
			f.workSize, handlerWords*4, ErrResourceUnavailable)
	}

	if !f.uploaded || f.lastRead != read {
		if err := f.exec.WriteBlock32(f.workBase, buildHandler(read)); err != nil {
			return err
		}
		f.uploaded = true
		f.lastRead = read
	}

	if err := f.pushJumpStub(); err != nil {
		return err
	}

	addr, err := f.link.ScanData(irAddress, 0, false)
	if err != nil {
		return err
	}
	if addr != f.workBase {
		return fmt.Errorf("ejtag: fastdata handler entry at %#08x, want %#08x", addr, f.workBase)
	}

	if _, err := f.link.ScanData(irFastData, targetAddr, true); err != nil {
		return err
	}
	endAddr := targetAddr + uint32(len(buf))*4
	if _, err := f.link.ScanData(irFastData, endAddr, true); err != nil {
		return err
	}

	for i := range buf {
		if read {
			word, err := f.link.ScanData(irFastData, 0, false)
			if err != nil {
				return fmt.Errorf("ejtag: fastdata word %d: %w", i, ErrFastdataLoad)
			}
			buf[i] = word
		} else {
			if _, err := f.link.ScanData(irFastData, buf[i], true); err != nil {
				return fmt.Errorf("ejtag: fastdata word %d: %w", i, ErrFastdataLoad)
			}
		}
	}

	exitAddr, err := f.link.ScanData(irAddress, 0, false)
	if err != nil {
		return err
	}
	if exitAddr != PrAccText {
		logf("ejtag: fastdata exit address %#08x, want %#08x", exitAddr, PrAccText)
	}
	return nil
}

// pushJumpStub emits the 5-word jump stub one word per PrAcc cycle over
// the Data DR, the way the PrAcc read path serves an instruction fetch
// (spec.md §4.4 step 3).
func (f *FastdataEngine) pushJumpStub() error {
	for _, w := range jumpStub(f.workBase) {
		if _, err := f.link.ScanData(irData, w, true); err != nil {
			return err
		}
	}
	return nil
}
