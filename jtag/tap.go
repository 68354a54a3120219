// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

import (
	"fmt"

	"github.com/jtagcore/usbblaster/transport"
)

// Session is a TAP driver bound to one probe. It owns the write buffer,
// the last-set pin levels and the recorded TAP state; it is not
// thread-safe, matching spec.md §5's single-owner model.
type Session struct {
	backend transport.Backend
	oracle  StateOracle
	wbuf    writeBuffer

	pin6, pin8 bool
	tms, tdi   bool
	state      State

	// trstBound/srstBound record whether the host has wired pin6/pin8 to
	// TRST/SRST; Reset only drives them when bound (spec.md §9).
	trstBound, srstBound bool
}

// NewSession builds a TAP driver over backend using oracle for TAP-graph
// knowledge. The recorded state starts at Reset; callers normally follow
// with Open.
func NewSession(backend transport.Backend, oracle StateOracle) *Session {
	s := &Session{backend: backend, oracle: oracle, state: Reset}
	s.wbuf.write = backend.Write
	return s
}

// BindTRST marks pin6 as wired to the target's TRST line.
func (s *Session) BindTRST() { s.trstBound = true }

// BindSRST marks pin8 as wired to the target's SRST line.
func (s *Session) BindSRST() { s.srstBound = true }

// State returns the recorded TAP state.
func (s *Session) State() State { return s.state }

// SetPin6 sets pin6's output level. It takes effect on the next queued
// byte; if the transport is already open, that byte is flushed
// immediately so the change is visible at once (spec.md §6).
func (s *Session) SetPin6(level bool) error {
	s.pin6 = level
	return s.pokePins()
}

// SetPin8 sets pin8's output level, with the same immediacy as SetPin6.
func (s *Session) SetPin8(level bool) error {
	s.pin8 = level
	return s.pokePins()
}

func (s *Session) pokePins() error {
	if err := s.queueByteFlushing(s.buildOut(false)); err != nil {
		return err
	}
	return s.wbuf.flush()
}

// Open flushes the probe's input FIFO and forces Test-Logic-Reset, per
// spec.md §6's wire-level open sequence.
func (s *Session) Open() error {
	var zero [packetSize]byte
	for i := 0; i < 2; i++ {
		if _, err := s.backend.Write(zero[:]); err != nil {
			return fmt.Errorf("jtag: open: flush FIFO: %w", err)
		}
	}
	if err := s.tmsSequence(0x1f, 5); err != nil {
		return fmt.Errorf("jtag: open: force TLR: %w", err)
	}
	s.state = Reset
	return nil
}

// Close releases all drive lines by sending a single zero byte.
func (s *Session) Close() error {
	if err := s.queueByteFlushing(0); err != nil {
		return err
	}
	return s.wbuf.flush()
}

// TMSSequence emits n TMS transitions (one TCK pulse each), TDI unchanged,
// ending with TCK low. It does not update the recorded TAP state; callers
// that know the resulting state should set it themselves (StateMove and
// Reset do this).
func (s *Session) TMSSequence(bits uint64, n int) error {
	return s.tmsSequence(bits, n)
}

func (s *Session) tmsSequence(bits uint64, n int) error {
	if n == 0 {
		return nil
	}
	for i := 0; i < n; i++ {
		bit := (bits>>uint(i))&1 != 0
		if err := s.pulse(bit, s.tdi, false); err != nil {
			return err
		}
	}
	return s.idleClock()
}

// PathMove walks the TAP through each state in states, one TMS bit per
// hop, asking the oracle which of the two possible TMS values reaches the
// next state.
func (s *Session) PathMove(states []State) error {
	if len(states) == 0 {
		return nil
	}
	for _, target := range states {
		var bit bool
		switch {
		case s.oracle.Next(s.state, false) == target:
			bit = false
		case s.oracle.Next(s.state, true) == target:
			bit = true
		default:
			return fmt.Errorf("jtag: no single-bit transition from %s to %s", s.state, target)
		}
		if err := s.pulse(bit, s.tdi, false); err != nil {
			return err
		}
		s.state = target
	}
	return s.idleClock()
}

// StateMove moves the TAP from its recorded state to target using the
// oracle-supplied TMS path.
func (s *Session) StateMove(target State) error {
	if s.state == target {
		return nil
	}
	bits, n := s.oracle.Path(s.state, target)
	if n == 0 {
		s.state = target
		return nil
	}
	if err := s.tmsSequence(bits, n); err != nil {
		return err
	}
	s.state = target
	return nil
}

// RunTest moves to Idle, clocks cycles zero bits with TMS=0 (no exit),
// then moves to end.
func (s *Session) RunTest(cycles int, end State) error {
	if err := s.StateMove(Idle); err != nil {
		return err
	}
	if cycles > 0 {
		if _, err := s.shiftBits(nil, cycles, false, false); err != nil {
			return err
		}
	}
	return s.StateMove(end)
}

// StableClocks shifts cycles zero bits with TMS held at its current
// level and no exit; a no-op for cycles == 0.
func (s *Session) StableClocks(cycles int) error {
	if cycles == 0 {
		return nil
	}
	_, err := s.shiftBits(nil, cycles, false, false)
	return err
}

// Reset drives the configured TRST/SRST pin levels when the host has
// bound them, then always forces Test-Logic-Reset via TMS=1x5.
func (s *Session) Reset(trst, srst bool) error {
	if s.trstBound {
		s.pin6 = trst
	}
	if s.srstBound {
		s.pin8 = srst
	}
	if err := s.tmsSequence(0x1f, 5); err != nil {
		return err
	}
	s.state = Reset
	return nil
}

// Scan moves to IRShift/DRShift, shifts cmd.Bits bits, and — unless
// cmd.StayInShift — exits through Exit1 to Pause and, if cmd.EndState is
// not Pause, on to cmd.EndState.
func (s *Session) Scan(cmd *Scan) error {
	shiftState, exit1State, pauseState := DRShift, DRExit1, DRPause
	if cmd.IR {
		shiftState, exit1State, pauseState = IRShift, IRExit1, IRPause
	}
	if err := s.StateMove(shiftState); err != nil {
		return err
	}
	read := cmd.Dir != ScanOut
	out, err := s.shiftBits(cmd.Data, cmd.Bits, read, !cmd.StayInShift)
	if err != nil {
		return err
	}
	if read {
		cmd.Data = out
	}
	if cmd.StayInShift {
		s.state = shiftState
		return nil
	}
	s.state = exit1State
	if err := s.pulse(false, s.tdi, false); err != nil {
		return err
	}
	if err := s.idleClock(); err != nil {
		return err
	}
	s.state = pauseState
	if cmd.EndState != pauseState {
		return s.StateMove(cmd.EndState)
	}
	return nil
}
