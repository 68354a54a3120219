// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ejtag

import (
	"fmt"
	"time"
)

// prAccDeadline bounds how long Execute waits for the target to assert
// PRACC before giving up (spec.md §4.3 step 1).
const prAccDeadline = 1 * time.Second

// Executor runs fixed MIPS32 instruction stubs on a halted EJTAG target,
// serving the debug-memory-segment traps the stub's code, param-in,
// param-out and stack accesses raise.
type Executor struct {
	link Link
}

// NewExecutor builds an Executor over link.
func NewExecutor(link Link) *Executor {
	return &Executor{link: link}
}

// Execute loads code into the PrAcc text arena as the target fetches it,
// serves reads of in from PrAccParamIn, serves writes into out at
// PrAccParamOut, and serves PrAccStack as a push/pop register-save area.
//
// cycles bounds how many PrAcc dialogs are served. When cycles is 0, the
// executor instead runs until it observes a fetch from PrAccText for the
// second time -- the stub's own re-entry onto its first instruction,
// which every stub in package ejtag uses to signal completion.
func (e *Executor) Execute(code, in, out []uint32, cycles int) error {
	stack := make([]uint32, 0, 8)
	textVisits := 0
	deadline := time.Now().Add(prAccDeadline)

	for i := 0; cycles == 0 || i < cycles; i++ {
		ctrl, err := e.waitPrAcc(deadline)
		if err != nil {
			return err
		}

		addr, err := e.link.ScanData(irAddress, 0, false)
		if err != nil {
			return err
		}

		if ctrl&ctrlPrNW != 0 {
			val, err := e.link.ScanData(irData, 0, false)
			if err != nil {
				return err
			}
			if err := routeWrite(addr, in, out, &stack, val); err != nil {
				return err
			}
		} else {
			val, err := resolveRead(addr, code, in, out, &stack)
			if err != nil {
				return err
			}
			if _, err := e.link.ScanData(irData, val, true); err != nil {
				return err
			}
		}

		if addr == PrAccText {
			textVisits++
		}

		if _, err := e.link.ScanData(irControl, ctrl&^ctrlPrAcc, true); err != nil {
			return err
		}

		deadline = time.Now().Add(prAccDeadline)

		if cycles == 0 && textVisits >= 2 {
			break
		}
	}

	if len(stack) != 0 {
		logf("ejtag: pracc stack not empty at exit, %d word(s) left", len(stack))
	}

	return nil
}

// waitPrAcc polls the Control DR until PRACC is asserted or deadline
// passes, returning the sampled control word.
func (e *Executor) waitPrAcc(deadline time.Time) (uint32, error) {
	for {
		ctrl, err := e.link.ScanData(irControl, 0, false)
		if err != nil {
			return 0, err
		}
		if ctrl&ctrlPrAcc != 0 {
			return ctrl, nil
		}
		if time.Now().After(deadline) {
			return 0, ErrPrAccTimeout
		}
	}
}

// resolveRead serves an instruction fetch or load trap by region.
func resolveRead(addr uint32, code, in, out []uint32, stack *[]uint32) (uint32, error) {
	switch {
	case addr >= PrAccText && addr < PrAccText+uint32(len(code))*4:
		return code[(addr-PrAccText)/4], nil
	case addr >= PrAccParamIn && addr < PrAccParamIn+uint32(len(in))*4:
		return in[(addr-PrAccParamIn)/4], nil
	case addr >= PrAccParamOut && addr < PrAccParamOut+uint32(len(out))*4:
		return out[(addr-PrAccParamOut)/4], nil
	case addr == PrAccStack:
		if len(*stack) == 0 {
			return 0, fmt.Errorf("ejtag: stack pop with empty stack: %w", ErrOutOfArena)
		}
		last := len(*stack) - 1
		val := (*stack)[last]
		*stack = (*stack)[:last]
		return val, nil
	default:
		return 0, fmt.Errorf("ejtag: fetch/load at %#08x: %w", addr, ErrOutOfArena)
	}
}

// routeWrite serves a store trap by region.
func routeWrite(addr uint32, in, out []uint32, stack *[]uint32, val uint32) error {
	switch {
	case addr >= PrAccParamIn && addr < PrAccParamIn+uint32(len(in))*4:
		in[(addr-PrAccParamIn)/4] = val
		return nil
	case addr >= PrAccParamOut && addr < PrAccParamOut+uint32(len(out))*4:
		out[(addr-PrAccParamOut)/4] = val
		return nil
	case addr == PrAccStack:
		*stack = append(*stack, val)
		return nil
	default:
		return fmt.Errorf("ejtag: store at %#08x: %w", addr, ErrOutOfArena)
	}
}
