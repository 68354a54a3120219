// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package mips

import "fmt"

// Opcodes used by the EJTAG PrAcc stubs.
const (
	OpSpecial = 0x00
	OpRegImm  = 0x01
	OpJ       = 0x02
	OpJal     = 0x03
	OpBeq     = 0x04
	OpBne     = 0x05
	OpAddiu   = 0x09
	OpSlti    = 0x0a
	OpSltiu   = 0x0b
	OpAndi    = 0x0c
	OpOri     = 0x0d
	OpXori    = 0x0e
	OpLui     = 0x0f
	OpCop0    = 0x10
	OpLb      = 0x20
	OpLh      = 0x21
	OpLw      = 0x23
	OpLbu     = 0x24
	OpLhu     = 0x25
	OpSb      = 0x28
	OpSh      = 0x29
	OpSw      = 0x2b
)

// SPECIAL function codes.
const (
	FuncSll  = 0x00
	FuncSrl  = 0x02
	FuncSra  = 0x03
	FuncJr   = 0x08
	FuncJalr = 0x09
	FuncAddu = 0x21
	FuncSubu = 0x23
	FuncAnd  = 0x24
	FuncOr   = 0x25
	FuncXor  = 0x26
	FuncNor  = 0x27
)

// COP0 rs sub-opcodes.
const (
	Cop0MF = 0x00
	Cop0MT = 0x04
)

// SPECIAL function codes for the HI/LO accumulator moves.
const (
	FuncMfhi = 0x10
	FuncMthi = 0x11
	FuncMflo = 0x12
	FuncMtlo = 0x13
)

// COP0 register numbers read_regs/write_regs move besides DeSave
// (spec.md §4.3's 38-word layout).
const (
	BadVAddr = 8
	Status   = 12
	Cause    = 13
	DEPC     = 24
)

// General-purpose register numbers.
const (
	R0 = iota
	AT
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	GP
	SP
	FP
	RA
)

// DeSave is the COP0 scratch register EJTAG debug mode reserves for the
// probe (COP0 register 31, spec.md §4.3).
const DeSave = 31

func mustFit(name string, v, bits int) {
	max := 1 << uint(bits)
	if v < 0 || v >= max {
		panic(fmt.Sprintf("mips: %s=%d does not fit in %d bits", name, v, bits))
	}
}

// R encodes an R-type instruction: op(6) rs(5) rt(5) rd(5) shamt(5) funct(6).
func R(op, rs, rt, rd, shamt, funct int) uint32 {
	mustFit("op", op, 6)
	mustFit("rs", rs, 5)
	mustFit("rt", rt, 5)
	mustFit("rd", rd, 5)
	mustFit("shamt", shamt, 5)
	mustFit("funct", funct, 6)
	return uint32(op)<<26 | uint32(rs)<<21 | uint32(rt)<<16 | uint32(rd)<<11 | uint32(shamt)<<6 | uint32(funct)
}

// I encodes an I-type instruction: op(6) rs(5) rt(5) imm(16, signed or
// unsigned — callers pass the raw 16-bit pattern).
func I(op, rs, rt int, imm uint16) uint32 {
	mustFit("op", op, 6)
	mustFit("rs", rs, 5)
	mustFit("rt", rt, 5)
	return uint32(op)<<26 | uint32(rs)<<21 | uint32(rt)<<16 | uint32(imm)
}

// J encodes a J-type instruction: op(6) target(26), target already shifted
// right by 2 (word-aligned jump target within the current 256MB region).
func J(op int, target uint32) uint32 {
	mustFit("op", op, 6)
	if target >= 1<<26 {
		panic(fmt.Sprintf("mips: jump target %#x does not fit in 26 bits", target))
	}
	return uint32(op)<<26 | target
}

// --- Convenience mnemonics used by the ejtag stubs ---

func Nop() uint32 { return R(OpSpecial, 0, 0, 0, 0, FuncSll) }

func Addiu(rt, rs int, imm uint16) uint32 { return I(OpAddiu, rs, rt, imm) }
func Ori(rt, rs int, imm uint16) uint32   { return I(OpOri, rs, rt, imm) }
func Lui(rt int, imm uint16) uint32       { return I(OpLui, 0, rt, imm) }
func Andi(rt, rs int, imm uint16) uint32  { return I(OpAndi, rs, rt, imm) }

func Lw(rt, base int, offset uint16) uint32  { return I(OpLw, base, rt, offset) }
func Sw(rt, base int, offset uint16) uint32  { return I(OpSw, base, rt, offset) }
func Lhu(rt, base int, offset uint16) uint32 { return I(OpLhu, base, rt, offset) }
func Sh(rt, base int, offset uint16) uint32  { return I(OpSh, base, rt, offset) }
func Lbu(rt, base int, offset uint16) uint32 { return I(OpLbu, base, rt, offset) }
func Sb(rt, base int, offset uint16) uint32  { return I(OpSb, base, rt, offset) }

// Beq/Bne take a branch offset already expressed in instruction words
// (i.e. already divided by 4), signed, relative to the delay slot.
func Beq(rs, rt int, words int16) uint32 { return I(OpBeq, rs, rt, uint16(words)) }
func Bne(rs, rt int, words int16) uint32 { return I(OpBne, rs, rt, uint16(words)) }

func Addu(rd, rs, rt int) uint32 { return R(OpSpecial, rs, rt, rd, 0, FuncAddu) }
func Subu(rd, rs, rt int) uint32 { return R(OpSpecial, rs, rt, rd, 0, FuncSubu) }
func And(rd, rs, rt int) uint32  { return R(OpSpecial, rs, rt, rd, 0, FuncAnd) }
func Or(rd, rs, rt int) uint32   { return R(OpSpecial, rs, rt, rd, 0, FuncOr) }

func Jr(rs int) uint32  { return R(OpSpecial, rs, 0, 0, 0, FuncJr) }
func Jalr(rs int) uint32 { return R(OpSpecial, rs, 0, RA, 0, FuncJalr) }

// Mfhi/Mflo/Mthi/Mtlo move the HI/LO accumulator registers the MULT/DIV
// family target, which read_regs/write_regs also surface per spec.md §4.3.
func Mfhi(rd int) uint32 { return R(OpSpecial, 0, 0, rd, 0, FuncMfhi) }
func Mflo(rd int) uint32 { return R(OpSpecial, 0, 0, rd, 0, FuncMflo) }
func Mthi(rs int) uint32 { return R(OpSpecial, rs, 0, 0, 0, FuncMthi) }
func Mtlo(rs int) uint32 { return R(OpSpecial, rs, 0, 0, 0, FuncMtlo) }

func J_(target uint32) uint32 { return J(OpJ, target) }

// Mfc0/Mtc0 move a COP0 register to/from a GPR. sel is the register
// select field (0 for the single-select registers this driver uses).
func Mfc0(rt, rd, sel int) uint32 {
	mustFit("sel", sel, 3)
	return uint32(OpCop0)<<26 | uint32(Cop0MF)<<21 | uint32(rt)<<16 | uint32(rd)<<11 | uint32(sel)
}
func Mtc0(rt, rd, sel int) uint32 {
	mustFit("sel", sel, 3)
	return uint32(OpCop0)<<26 | uint32(Cop0MT)<<21 | uint32(rt)<<16 | uint32(rd)<<11 | uint32(sel)
}

// Imm32 returns the lui/ori instruction pair that loads the absolute
// 32-bit value val into register rt. The PrAcc stubs use this to address
// the debug memory segment, which lives outside any register's reach in
// a single instruction.
func Imm32(rt int, val uint32) []uint32 {
	return []uint32{
		Lui(rt, uint16(val>>16)),
		Ori(rt, rt, uint16(val)),
	}
}

// JumpTarget converts an absolute word-aligned address into the 26-bit
// field a J-type instruction encodes: the low 28 bits of the address,
// shifted right by 2. Valid only when the caller and the jump target
// share the same 256MB region, true of every PrAcc stub in this driver
// since the whole arena sits at 0xFF2xxxxx, inside the top 256MB region.
func JumpTarget(addr uint32) uint32 {
	return (addr & 0x0fffffff) >> 2
}
