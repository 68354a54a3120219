// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

// StandardOracle implements StateOracle over the standard IEEE 1149.1 TAP
// graph. Spec.md §2 treats the (from,to)->(tms,length) table as something
// "assumed available... provided by the host"; StandardOracle is that
// table for hosts that don't have their own, and is the default wired by
// the root usbblaster package.
type StandardOracle struct{}

func (StandardOracle) Next(from State, tms bool) State {
	b := 0
	if tms {
		b = 1
	}
	return tapGraph[from][b]
}

func (StandardOracle) Path(from, to State) (tmsBits uint64, length int) {
	if from == to {
		return 0, 0
	}
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
		for tms := uint64(0); tms <= 1; tms++ {
			next := tapGraph[cur.state][tms]
			bits := cur.bits | (tms << uint(cur.n))
			if next == to {
				return bits, cur.n + 1
			}
			if !visited[next] {
				visited[next] = true
				queue = append(queue, node{next, bits, cur.n + 1})
			}
		}
	}
	panic("jtag: StandardOracle: no path from " + from.String() + " to " + to.String())
}

// tapGraph[state][tms] is the next state for a single TMS bit, the
// standard IEEE 1149.1 transition table.
var tapGraph = map[State][2]State{
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
