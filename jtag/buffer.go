// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

import "fmt"

// packetSize is the USB-Blaster's bulk packet size.
const packetSize = 64

// writeBuffer is the 64-byte write-side accumulator described by spec.md
// §4.1. It is embedded in Session rather than exported: nothing outside
// the TAP driver is allowed to queue bytes directly.
type writeBuffer struct {
	write func([]byte) (int, error)

	buf  [packetSize]byte
	fill int
}

// remaining reports how many bytes can still be queued before a flush is
// forced.
func (w *writeBuffer) remaining() int {
	return packetSize - w.fill
}

// queueByte appends a single byte, flushing first if the buffer is already
// full, and flushing again if this byte exactly fills it.
func (w *writeBuffer) queueByte(b byte) error {
	if w.fill == packetSize {
		if err := w.flush(); err != nil {
			return err
		}
	}
	w.buf[w.fill] = b
	w.fill++
	if w.fill == packetSize {
		return w.flush()
	}
	return nil
}

// queueBytes appends up to w.remaining() bytes, zero-filling when p is nil.
// Calling with n > w.remaining() is a programmer error: the caller is
// required to check remaining() first, so this aborts the process rather
// than returning an error (spec.md §7 kind 2).
func (w *writeBuffer) queueBytes(p []byte, n int) error {
	if n > w.remaining() {
		panic(fmt.Sprintf("jtag: queueBytes overflow: n=%d remaining=%d", n, w.remaining()))
	}
	if p == nil {
		for i := 0; i < n; i++ {
			w.buf[w.fill+i] = 0
		}
	} else {
		copy(w.buf[w.fill:w.fill+n], p[:n])
	}
	w.fill += n
	if w.fill == packetSize {
		return w.flush()
	}
	return nil
}

// flush writes the buffered bytes to the transport, retrying on short
// writes, and resets the fill index to zero.
func (w *writeBuffer) flush() error {
	if w.fill == 0 {
		return nil
	}
	total := 0
	for total != w.fill {
		n, err := w.write(w.buf[total:w.fill])
		if err != nil {
			w.fill = 0
			return err
		}
		total += n
	}
	w.fill = 0
	return nil
}
