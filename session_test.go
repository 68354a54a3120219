// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usbblaster

import (
	"testing"

	"periph.io/x/conn/v3/physic"

	"github.com/jtagcore/usbblaster/transport"
)

// fakeBackend records every byte written and serves reads from a
// programmed queue, the same role jtag's own fakeBackend plays, so
// Session can be exercised end to end without real hardware.
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

func init() {
	transport.Register("usbblaster-test-fake", func() transport.Backend { return &fakeBackend{} })
}

func TestOpenForcesTestLogicReset(t *testing.T) {
	var c Config
	c.SelectBackend("usbblaster-test-fake")
	s, err := Open(&c)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	if s.TAP().State() != 0 { // jtag.Reset == 0
		t.Fatalf("state after Open = %v, want Reset", s.TAP().State())
	}
}

func TestCapabilitiesAreFixed(t *testing.T) {
	var c Config
	c.SelectBackend("usbblaster-test-fake")
	s, err := Open(&c)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	caps := s.Capabilities()
	if !caps.TMSSequenceSupported || !caps.JTAGOnly {
		t.Fatalf("Capabilities = %+v, want both true", caps)
	}
}

func TestSetPin6TakesEffectImmediately(t *testing.T) {
	var c Config
	c.SelectBackend("usbblaster-test-fake")
	s, err := Open(&c)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	b := s.backend.(*fakeBackend)
	before := len(b.written)
	if err := s.SetPin6(true); err != nil {
		t.Fatalf("SetPin6: %v", err)
	}
	if len(b.written) <= before {
		t.Fatal("SetPin6 on an open session did not flush a byte")
	}
}

func TestOpenAppliesQueuedPinLevels(t *testing.T) {
	var c Config
	c.SelectBackend("usbblaster-test-fake")
	c.SetPin6(true)
	s, err := Open(&c)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
	b := s.backend.(*fakeBackend)
	if len(b.written) == 0 {
		t.Fatal("Open with a queued pin6 level did not flush a byte")
	}
}

func TestUnknownBackendNameErrors(t *testing.T) {
	var c Config
	c.SelectBackend("no-such-backend")
	if _, err := Open(&c); err == nil {
		t.Fatal("expected error opening an unregistered backend name")
	}
}
