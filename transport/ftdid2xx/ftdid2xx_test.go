// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ftdid2xx

import (
	"testing"

	"periph.io/x/d2xx"
	"periph.io/x/d2xx/d2xxtest"

	"github.com/jtagcore/usbblaster/transport"
)

func TestOpenMatchesVIDPID(t *testing.T) {
	b := &Backend{
		numDevices: func() (int, error) { return 1, nil },
		open: func(i int) (d2xx.Handle, d2xx.Err) {
			if i != 0 {
				t.Fatalf("unexpected index %d", i)
			}
			return &d2xxtest.Fake{
				DevType: uint32(0),
				Vid:     0x09fb,
				Pid:     0x6010,
				Data:    [][]byte{{}, {0}},
			}, 0
		},
	}
	if err := b.Open(transport.Config{VID: 0x09fb, PID: 0x6010}); err != nil {
		t.Fatal(err)
	}
	vid, pid, _ := b.Identify()
	if vid != 0x09fb || pid != 0x6010 {
		t.Fatalf("got vid=%#04x pid=%#04x", vid, pid)
	}
	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestOpenNoMatch(t *testing.T) {
	b := &Backend{
		numDevices: func() (int, error) { return 1, nil },
		open: func(i int) (d2xx.Handle, d2xx.Err) {
			return &d2xxtest.Fake{Vid: 0x0403, Pid: 0x6001, Data: [][]byte{{}, {0}}}, 0
		},
	}
	if err := b.Open(transport.Config{VID: 0x09fb, PID: 0x6010}); err == nil {
		t.Fatal("expected error")
	}
}
