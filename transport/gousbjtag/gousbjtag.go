// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gousbjtag implements transport.Backend over a libusb-style
// interface, for USB-Blaster-class probes accessed without a vendor DLL.
package gousbjtag

import (
	"errors"
	"fmt"

	"github.com/google/gousb"
	"periph.io/x/conn/v3/physic"

	"github.com/jtagcore/usbblaster/transport"
)

func init() {
	transport.Register("ftdi", func() transport.Backend { return &Backend{} })
}

// Backend is a transport.Backend over github.com/google/gousb.
//
// Bulk endpoint numbers follow the USB-Blaster's fixed descriptor: OUT
// endpoint 2, IN endpoint 1.
type Backend struct {
	ctx *gousb.Context
	dev *gousb.Device
	cfg *gousb.Config
	ifc *gousb.Interface

	in  *gousb.InEndpoint
	out *gousb.OutEndpoint

	vid, pid    uint16
	description string
}

const (
	outEndpoint = 2
	inEndpoint  = 1
)

// Open acquires the first device matching cfg.VID/cfg.PID.
func (b *Backend) Open(cfg transport.Config) (err error) {
	if cfg.VID == 0 || cfg.PID == 0 {
		return errors.New("usbblaster/gousbjtag: VID and PID are required")
	}
	b.ctx = gousb.NewContext()
	defer func() {
		if err != nil {
			b.ctx.Close()
			b.ctx = nil
		}
	}()

	dev, err := b.ctx.OpenDeviceWithVIDPID(gousb.ID(cfg.VID), gousb.ID(cfg.PID))
	if err != nil {
		return fmt.Errorf("usbblaster/gousbjtag: open: %w", err)
	}
	if dev == nil {
		return fmt.Errorf("usbblaster/gousbjtag: no device matching vid=%#04x pid=%#04x", cfg.VID, cfg.PID)
	}
	b.dev = dev
	defer func() {
		if err != nil {
			b.dev.Close()
			b.dev = nil
		}
	}()

	if err = b.dev.SetAutoDetach(true); err != nil {
		return fmt.Errorf("usbblaster/gousbjtag: set auto detach: %w", err)
	}

	cfgHandle, err := b.dev.Config(1)
	if err != nil {
		return fmt.Errorf("usbblaster/gousbjtag: claim config: %w", err)
	}
	b.cfg = cfgHandle
	defer func() {
		if err != nil {
			b.cfg.Close()
			b.cfg = nil
		}
	}()

	ifc, err := b.cfg.Interface(0, 0)
	if err != nil {
		return fmt.Errorf("usbblaster/gousbjtag: claim interface: %w", err)
	}
	b.ifc = ifc
	defer func() {
		if err != nil {
			b.ifc.Close()
			b.ifc = nil
		}
	}()

	in, err := b.ifc.InEndpoint(inEndpoint)
	if err != nil {
		return fmt.Errorf("usbblaster/gousbjtag: in endpoint: %w", err)
	}
	out, err := b.ifc.OutEndpoint(outEndpoint)
	if err != nil {
		return fmt.Errorf("usbblaster/gousbjtag: out endpoint: %w", err)
	}
	b.in, b.out = in, out
	b.vid, b.pid, b.description = cfg.VID, cfg.PID, cfg.Description
	return nil
}

// Close releases the device.
func (b *Backend) Close() error {
	if b.ifc != nil {
		b.ifc.Close()
		b.ifc = nil
	}
	var err error
	if b.cfg != nil {
		err = b.cfg.Close()
		b.cfg = nil
	}
	if b.dev != nil {
		if e := b.dev.Close(); err == nil {
			err = e
		}
		b.dev = nil
	}
	if b.ctx != nil {
		b.ctx.Close()
		b.ctx = nil
	}
	return err
}

// Read pulls whatever is already queued on the bulk IN endpoint.
func (b *Backend) Read(buf []byte) (int, error) {
	if b.in == nil {
		return 0, errors.New("usbblaster/gousbjtag: not open")
	}
	return b.in.Read(buf)
}

// Write hands buf to the bulk OUT endpoint.
func (b *Backend) Write(buf []byte) (int, error) {
	if b.out == nil {
		return 0, errors.New("usbblaster/gousbjtag: not open")
	}
	return b.out.Write(buf)
}

// SetSpeed is a no-op: this class of libusb-accessed probe derives its TCK
// rate from the bit-bang/byte-shift pacing, not a device register.
func (b *Backend) SetSpeed(freq physic.Frequency) error {
	return nil
}

// Identify returns the VID/PID/description this backend was opened with.
func (b *Backend) Identify() (uint16, uint16, string) {
	return b.vid, b.pid, b.description
}
