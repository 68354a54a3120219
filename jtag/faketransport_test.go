// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package jtag

import (
	"periph.io/x/conn/v3/physic"

	"github.com/jtagcore/usbblaster/transport"
)

// fakeBackend records every byte written and serves reads from a
// programmed queue, letting tests assert wire-exactness without real
// hardware.
type fakeBackend struct {
	written []byte
	toRead  []byte
}

func (f *fakeBackend) Open(cfg transport.Config) error { return nil }
func (f *fakeBackend) Close() error                    { return nil }

func (f *fakeBackend) Read(buf []byte) (int, error) {
	n := copy(buf, f.toRead)
	f.toRead = f.toRead[n:]
	return n, nil
}

func (f *fakeBackend) Write(buf []byte) (int, error) {
	f.written = append(f.written, buf...)
	return len(buf), nil
}

func (f *fakeBackend) SetSpeed(freq physic.Frequency) error { return nil }
func (f *fakeBackend) Identify() (uint16, uint16, string)   { return 0x09fb, 0x6001, "fake" }
