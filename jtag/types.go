// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

// State is a node in the IEEE 1149.1 TAP state graph.
type State int

// The standard IEEE 1149.1 TAP states.
const (
	Reset State = iota
	Idle
	DRSelect
	DRCapture
	DRShift
	DRExit1
	DRPause
	DRExit2
	DRUpdate
	IRSelect
	IRCapture
	IRShift
	IRExit1
	IRPause
	IRExit2
	IRUpdate
)

func (s State) String() string {
	switch s {
	case Reset:
		return "RESET"
	case Idle:
		return "IDLE"
	case DRSelect:
		return "DRSELECT"
	case DRCapture:
		return "DRCAPTURE"
	case DRShift:
		return "DRSHIFT"
	case DRExit1:
		return "DREXIT1"
	case DRPause:
		return "DRPAUSE"
	case DRExit2:
		return "DREXIT2"
	case DRUpdate:
		return "DRUPDATE"
	case IRSelect:
		return "IRSELECT"
	case IRCapture:
		return "IRCAPTURE"
	case IRShift:
		return "IRSHIFT"
	case IRExit1:
		return "IREXIT1"
	case IRPause:
		return "IRPAUSE"
	case IRExit2:
		return "IREXIT2"
	case IRUpdate:
		return "IRUPDATE"
	default:
		return "UNKNOWN"
	}
}

// Direction is the data flow of a Scan.
type Direction int

const (
	// ScanOut clocks Data out; the buffer is read-only.
	ScanOut Direction = iota
	// ScanIn clocks zeros or a caller buffer out and captures TDO into the
	// output buffer, which may be nil on input and is allocated or
	// caller-provided for the result (spec.md §9).
	ScanIn
	// ScanIO clocks Data out and overwrites it in place with TDO.
	ScanIO
)

// StateOracle supplies the TAP-transition knowledge the jtag package does
// not hard-code: a pure function from the IEEE 1149.1 graph, per spec.
type StateOracle interface {
	// Path returns the TMS bits (LSB shifted first) and their count needed
	// to move from from to to.
	Path(from, to State) (tmsBits uint64, length int)
	// Next returns the state reached from from when a single TMS bit of
	// value tmsBit is clocked.
	Next(from State, tmsBit bool) State
}

// Scan describes one IR or DR shift.
//
// Data is an in-out buffer: for ScanIO it is owned exclusively by the
// caller for the duration of the call and is overwritten with TDO: for
// ScanOut it is read-only; for ScanIn it may be nil, in which case zeros
// are clocked and a newly allocated buffer holding the captured TDO is
// stored in Data.
type Scan struct {
	IR       bool
	Bits     int
	Data     []byte
	Dir      Direction
	EndState State
	// StayInShift keeps the TAP in {IR,DR}Shift instead of exiting through
	// Exit1/Pause at the end of the scan.
	StayInShift bool
}
