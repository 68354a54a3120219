// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ejtag

import "github.com/jtagcore/usbblaster/mips"

// The stub builders below generate the fixed instruction sequences
// Executor.Execute drip-feeds through PrAccText. Every stub follows the
// same shape: load absolute debug-segment addresses into scratch
// registers with mips.Imm32, move words through them, then jump back to
// the start of PrAccText to signal completion (Execute treats the
// second fetch from that address as end-of-stub, spec.md §4.3).
//
// $t7 ($15) is reserved as the stub's own scratch pointer. read_regs
// stashes it in COP0 DeSave first so the dump records the caller's value;
// write_regs loads it from its own parameter slot. Apart from write_regs,
// which loads every GPR from its parameters, no stub puts back the
// registers it uses ($15, $at, $t0..$t3) before jumping back. The FASTDATA
// handler (fastdata.go) uses the same register as its resident base
// pointer for the same reason.
const scratch = mips.T7

// readU32 reads one word from the address in ParamIn[0] into ParamOut[0].
func readU32() []uint32 {
	code := mips.Imm32(scratch, PrAccParamIn)
	code = append(code, mips.Lw(mips.T0, scratch, 0))
	code = append(code, mips.Imm32(scratch, PrAccParamOut)...)
	code = append(code, mips.Lw(mips.T1, mips.T0, 0))
	code = append(code, mips.Sw(mips.T1, scratch, 0))
	code = append(code, jumpToText()...)
	return code
}

// writeU32 writes ParamIn[1] to the address in ParamIn[0].
func writeU32() []uint32 {
	code := mips.Imm32(scratch, PrAccParamIn)
	code = append(code, mips.Lw(mips.T0, scratch, 0))
	code = append(code, mips.Lw(mips.T1, scratch, 4))
	code = append(code, mips.Sw(mips.T1, mips.T0, 0))
	code = append(code, jumpToText()...)
	return code
}

// readMem32 reads count words from the address in ParamIn[0] into
// ParamOut[0:count]. count is bounded by the blocksize policy spec.md
// §4.3 describes (at most maxArenaWords per call).
func readMem32(count int) []uint32 {
	code := mips.Imm32(scratch, PrAccParamIn)
	code = append(code, mips.Lw(mips.T0, scratch, 0)) // T0: source address
	code = append(code, mips.Imm32(mips.T2, PrAccParamOut)...)
	code = append(code, mips.Addiu(mips.T3, mips.R0, uint16(count)))
	loop := len(code)
	code = append(code, mips.Lw(mips.T1, mips.T0, 0))
	code = append(code, mips.Sw(mips.T1, mips.T2, 0))
	code = append(code, mips.Addiu(mips.T0, mips.T0, 4))
	code = append(code, mips.Addiu(mips.T2, mips.T2, 4))
	code = append(code, mips.Addiu(mips.T3, mips.T3, uint16(int16(-1))))
	code = append(code, mips.Bne(mips.T3, mips.R0, int16(loop-len(code)-1)))
	code = append(code, mips.Nop()) // delay slot
	code = append(code, jumpToText()...)
	return code
}

// writeMem32 writes ParamIn[0:count] to the address in ParamIn[count].
func writeMem32(count int) []uint32 {
	code := mips.Imm32(scratch, PrAccParamIn)
	code = append(code, mips.Lw(mips.T0, scratch, uint16(count*4))) // T0: dest address
	code = append(code, mips.Imm32(mips.T2, PrAccParamIn)...)
	code = append(code, mips.Addiu(mips.T3, mips.R0, uint16(count)))
	loop := len(code)
	code = append(code, mips.Lw(mips.T1, mips.T2, 0))
	code = append(code, mips.Sw(mips.T1, mips.T0, 0))
	code = append(code, mips.Addiu(mips.T0, mips.T0, 4))
	code = append(code, mips.Addiu(mips.T2, mips.T2, 4))
	code = append(code, mips.Addiu(mips.T3, mips.T3, uint16(int16(-1))))
	code = append(code, mips.Bne(mips.T3, mips.R0, int16(loop-len(code)-1)))
	code = append(code, mips.Nop())
	code = append(code, jumpToText()...)
	return code
}

// readMem16 and readMem8 are deliberately single-shot rather than
// blocksized (spec.md §9 Open Question: the halfword/byte paths are rare
// enough in practice that the extra loop-control complexity isn't worth
// it; see DESIGN.md).
func readMem16() []uint32 {
	code := mips.Imm32(scratch, PrAccParamIn)
	code = append(code, mips.Lw(mips.T0, scratch, 0))
	code = append(code, mips.Imm32(mips.T2, PrAccParamOut)...)
	code = append(code, mips.Lhu(mips.T1, mips.T0, 0))
	code = append(code, mips.Sw(mips.T1, mips.T2, 0))
	code = append(code, jumpToText()...)
	return code
}

func readMem8() []uint32 {
	code := mips.Imm32(scratch, PrAccParamIn)
	code = append(code, mips.Lw(mips.T0, scratch, 0))
	code = append(code, mips.Imm32(mips.T2, PrAccParamOut)...)
	code = append(code, mips.Lbu(mips.T1, mips.T0, 0))
	code = append(code, mips.Sw(mips.T1, mips.T2, 0))
	code = append(code, jumpToText()...)
	return code
}

func writeMem16() []uint32 {
	code := mips.Imm32(scratch, PrAccParamIn)
	code = append(code, mips.Lw(mips.T0, scratch, 0))
	code = append(code, mips.Lw(mips.T1, scratch, 4))
	code = append(code, mips.Sh(mips.T1, mips.T0, 0))
	code = append(code, jumpToText()...)
	return code
}

func writeMem8() []uint32 {
	code := mips.Imm32(scratch, PrAccParamIn)
	code = append(code, mips.Lw(mips.T0, scratch, 0))
	code = append(code, mips.Lw(mips.T1, scratch, 4))
	code = append(code, mips.Sb(mips.T1, mips.T0, 0))
	code = append(code, jumpToText()...)
	return code
}

// numGPRs is the width of the GPR file (GPR0..GPR31, spec.md §4.3).
const numGPRs = 32

// Word offsets of the special registers read_regs/write_regs move after
// the 32 GPRs, giving the documented 38-word layout (spec.md §4.3/§8:
// "GPR0..31, status, lo, hi, badvaddr, cause, depc").
const (
	wordStatus    = numGPRs
	wordLo        = numGPRs + 1
	wordHi        = numGPRs + 2
	wordBadVAddr  = numGPRs + 3
	wordCause     = numGPRs + 4
	wordDEPC      = numGPRs + 5
	regsWordCount = numGPRs + 6
)

// readRegs dumps the 32 GPRs in register-number order (GPR0/$zero reads
// as 0 via the hardwired register, no special-casing needed) followed by
// Status, Lo, Hi, BadVAddr, Cause, and DEPC — DEPC being the resume PC a
// halted target returns to, so it must round-trip through write_regs.
// $t7's own slot is filled from its COP0 DeSave stash, since its live
// value was overwritten to address ParamOut before the dump began.
func readRegs() []uint32 {
	code := []uint32{mips.Mtc0(scratch, mips.DeSave, 0)}
	code = append(code, mips.Imm32(scratch, PrAccParamOut)...)
	for r := 0; r < numGPRs; r++ {
		if r == scratch {
			continue
		}
		code = append(code, mips.Sw(r, scratch, uint16(r*4)))
	}
	code = append(code, mips.Mfc0(mips.AT, mips.DeSave, 0))
	code = append(code, mips.Sw(mips.AT, scratch, uint16(scratch*4)))
	code = append(code, mips.Mfc0(mips.AT, mips.Status, 0))
	code = append(code, mips.Sw(mips.AT, scratch, uint16(wordStatus*4)))
	code = append(code, mips.Mflo(mips.AT))
	code = append(code, mips.Sw(mips.AT, scratch, uint16(wordLo*4)))
	code = append(code, mips.Mfhi(mips.AT))
	code = append(code, mips.Sw(mips.AT, scratch, uint16(wordHi*4)))
	code = append(code, mips.Mfc0(mips.AT, mips.BadVAddr, 0))
	code = append(code, mips.Sw(mips.AT, scratch, uint16(wordBadVAddr*4)))
	code = append(code, mips.Mfc0(mips.AT, mips.Cause, 0))
	code = append(code, mips.Sw(mips.AT, scratch, uint16(wordCause*4)))
	code = append(code, mips.Mfc0(mips.AT, mips.DEPC, 0))
	code = append(code, mips.Sw(mips.AT, scratch, uint16(wordDEPC*4)))
	code = append(code, jumpToText()...)
	return code
}

// writeRegs restores the same 38-word layout readRegs dumps. The special
// registers load first, using AT as a temporary, so that the GPR restore
// loop below (which includes AT at its own slot) has the last word on
// AT and leaves it holding the caller's value rather than a COP0 scratch
// value. Scratch's own new value loads last, base and destination the
// same register: the load's effective address is computed from the old
// value before the destination is overwritten, a standard MIPS idiom
// that lets a base register retire itself.
func writeRegs() []uint32 {
	code := mips.Imm32(scratch, PrAccParamIn)
	code = append(code, mips.Lw(mips.AT, scratch, uint16(wordStatus*4)))
	code = append(code, mips.Mtc0(mips.AT, mips.Status, 0))
	code = append(code, mips.Lw(mips.AT, scratch, uint16(wordLo*4)))
	code = append(code, mips.Mtlo(mips.AT))
	code = append(code, mips.Lw(mips.AT, scratch, uint16(wordHi*4)))
	code = append(code, mips.Mthi(mips.AT))
	code = append(code, mips.Lw(mips.AT, scratch, uint16(wordBadVAddr*4)))
	code = append(code, mips.Mtc0(mips.AT, mips.BadVAddr, 0))
	code = append(code, mips.Lw(mips.AT, scratch, uint16(wordCause*4)))
	code = append(code, mips.Mtc0(mips.AT, mips.Cause, 0))
	code = append(code, mips.Lw(mips.AT, scratch, uint16(wordDEPC*4)))
	code = append(code, mips.Mtc0(mips.AT, mips.DEPC, 0))
	for r := 1; r < numGPRs; r++ {
		if r == scratch {
			continue
		}
		code = append(code, mips.Lw(r, scratch, uint16(r*4)))
	}
	code = append(code, mips.Lw(scratch, scratch, uint16(scratch*4)))
	code = append(code, jumpToText()...)
	return code
}

func jumpToText() []uint32 {
	return []uint32{mips.J_(mips.JumpTarget(PrAccText)), mips.Nop()}
}
