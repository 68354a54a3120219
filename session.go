// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usbblaster

import (
	"errors"
	"fmt"

	"github.com/jtagcore/usbblaster/ejtag"
	"github.com/jtagcore/usbblaster/jtag"
	"github.com/jtagcore/usbblaster/transport"

	// Register the reference back-ends by side effect, the way the
	// teacher's host_linux.go imports gpioioctl/netlink/sysfs for
	// registration alone.
	_ "github.com/jtagcore/usbblaster/transport/ftdid2xx"
	_ "github.com/jtagcore/usbblaster/transport/gousbjtag"
)

// Session is the probe session spec.md §3 describes: a transport handle,
// a TAP driver, and a PrAcc executor and FASTDATA engine composed over
// the same EJTAG link. Created by Open, torn down by Close, and not
// thread-safe (spec.md §5: exclusive ownership by the caller).
type Session struct {
	backend transport.Backend
	tap     *jtag.Session
	link    ejtag.Link
	exec    *ejtag.Executor
}

// Open selects a transport back-end per cfg (spec.md §6: named selection,
// or first-success-wins when BackendName is empty), opens it, and forces
// Test-Logic-Reset.
func Open(cfg *Config) (*Session, error) {
	backend, err := transport.Open(cfg.transportConfig())
	if err != nil {
		if cfg.BackendName == "" {
			err = fmt.Errorf("%w: %v", ErrNoBackend, err)
		}
		return nil, &DeviceError{Op: "open", Err: err}
	}

	tap := jtag.NewSession(backend, jtag.StandardOracle{})
	if err := tap.Open(); err != nil {
		backend.Close()
		return nil, &DeviceError{Op: "open", Err: err}
	}

	link := ejtag.NewLink(tap)
	s := &Session{
		backend: backend,
		tap:     tap,
		link:    link,
		exec:    ejtag.NewExecutor(link),
	}

	if cfg.pin6Set {
		if err := s.SetPin6(cfg.pin6); err != nil {
			s.Close()
			return nil, err
		}
	}
	if cfg.pin8Set {
		if err := s.SetPin8(cfg.pin8); err != nil {
			s.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close releases all drive lines and closes the transport.
func (s *Session) Close() error {
	tapErr := s.tap.Close()
	backendErr := s.backend.Close()
	if tapErr != nil {
		return &DeviceError{Op: "close", Err: tapErr}
	}
	if backendErr != nil {
		return &DeviceError{Op: "close", Err: backendErr}
	}
	return nil
}

// BindTRST/BindSRST mark pin6/pin8 as wired to the target's TRST/SRST
// lines, so Reset drives them.
func (s *Session) BindTRST() { s.tap.BindTRST() }
func (s *Session) BindSRST() { s.tap.BindSRST() }

// SetPin6/SetPin8 set pin output levels immediately (spec.md §6: "accepted
// at any phase; takes effect immediately if the transport is open").
func (s *Session) SetPin6(level bool) error {
	if err := s.tap.SetPin6(level); err != nil {
		return &DeviceError{Op: "set pin6", Err: err}
	}
	return nil
}

func (s *Session) SetPin8(level bool) error {
	if err := s.tap.SetPin8(level); err != nil {
		return &DeviceError{Op: "set pin8", Err: err}
	}
	return nil
}

// Reset drives the configured TRST/SRST levels (if bound) and forces
// Test-Logic-Reset.
func (s *Session) Reset(trst, srst bool) error {
	if err := s.tap.Reset(trst, srst); err != nil {
		return &DeviceError{Op: "reset", Err: err}
	}
	return nil
}

// TAP exposes the underlying TAP driver for callers that need raw scan
// access beyond the EJTAG primitives below.
func (s *Session) TAP() *jtag.Session { return s.tap }

// Executor exposes the PrAcc executor for memory/register primitives.
func (s *Session) Executor() *ejtag.Executor { return s.exec }

// NewFastdataEngine builds a FASTDATA bulk-transfer engine over this
// session's executor and link, using workBase/workSize as the
// caller-provided target RAM work area (spec.md §4.4).
func (s *Session) NewFastdataEngine(workBase, workSize uint32) *ejtag.FastdataEngine {
	return ejtag.NewFastdataEngine(s.exec, s.link, workBase, workSize)
}

// Capabilities returns this core's fixed capability flags (spec.md §6).
func (s *Session) Capabilities() Capabilities { return capabilities }

// ReadWord and WriteWord are thin, typed-error convenience wrappers over
// Executor's PrAcc-serviced memory primitives.
func (s *Session) ReadWord(addr uint32) (uint32, error) {
	v, err := s.exec.ReadWord(addr)
	if err != nil {
		return 0, wrapProtocol("read word", err)
	}
	return v, nil
}

func (s *Session) WriteWord(addr, val uint32) error {
	if err := s.exec.WriteWord(addr, val); err != nil {
		return wrapProtocol("write word", err)
	}
	return nil
}

// wrapProtocol types an executor error: out-of-arena accesses become a
// ProtocolError, everything else (transport failures, the PrAcc deadline)
// a DeviceError.
func wrapProtocol(op string, err error) error {
	if err == nil {
		return nil
	}
	if !errors.Is(err, ejtag.ErrOutOfArena) {
		return &DeviceError{Op: op, Err: fmt.Errorf("%w", err)}
	}
	return &ProtocolError{Op: op, Err: fmt.Errorf("%w", err)}
}
