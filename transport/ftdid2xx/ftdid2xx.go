// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ftdid2xx implements transport.Backend over the vendor D2XX
// interface, for USB-Blaster-class probes built on FTDI silicon.
package ftdid2xx

import (
	"errors"
	"fmt"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/d2xx"

	"github.com/jtagcore/usbblaster/transport"
)

func init() {
	if d2xx.Available {
		transport.Register("ftd2xx", func() transport.Backend { return &Backend{open: d2xx.Open} })
	}
}

// opener abstracts d2xx.Open for testing.
type opener func(i int) (d2xx.Handle, d2xx.Err)

// Backend is a transport.Backend over periph.io/x/d2xx.
//
// It is not safe for concurrent use, matching the single-owner session
// model the engines above it assume.
type Backend struct {
	open       opener
	numDevices func() (int, error)

	h           d2xx.Handle
	vid, pid    uint16
	description string
}

// Open scans the attached D2XX devices and acquires the first one matching
// cfg.VID/cfg.PID (a zero value on either matches anything).
func (b *Backend) Open(cfg transport.Config) error {
	if b.open == nil {
		b.open = d2xx.Open
	}
	num, err := b.numberOfDevices()
	if err != nil {
		return err
	}
	for i := 0; i < num; i++ {
		h, e := b.open(i)
		if e != 0 {
			continue
		}
		_, vid, pid, e := h.GetDeviceInfo()
		if e != 0 {
			_ = h.Close()
			continue
		}
		if (cfg.VID != 0 && vid != cfg.VID) || (cfg.PID != 0 && pid != cfg.PID) {
			_ = h.Close()
			continue
		}
		if e := h.Reset(); e != 0 {
			_ = h.Close()
			return toErr("Reset", e)
		}
		if e := h.SetBitMode(0, 0); e != 0 {
			_ = h.Close()
			return toErr("SetBitMode", e)
		}
		b.h = h
		b.vid, b.pid = vid, pid
		b.description = cfg.Description
		return nil
	}
	return fmt.Errorf("usbblaster/ftdid2xx: no device matching vid=%#04x pid=%#04x", cfg.VID, cfg.PID)
}

func (b *Backend) numberOfDevices() (int, error) {
	if b.numDevices != nil {
		return b.numDevices()
	}
	num, e := d2xx.CreateDeviceInfoList()
	if e != 0 {
		return 0, toErr("CreateDeviceInfoList", e)
	}
	return num, nil
}

// Close releases the device.
func (b *Backend) Close() error {
	if b.h == nil {
		return nil
	}
	err := toErr("Close", b.h.Close())
	b.h = nil
	return err
}

// Read returns bytes already queued by the device without blocking for more.
func (b *Backend) Read(buf []byte) (int, error) {
	if b.h == nil {
		return 0, errors.New("usbblaster/ftdid2xx: not open")
	}
	p, e := b.h.GetQueueStatus()
	if e != 0 {
		return 0, toErr("GetQueueStatus", e)
	}
	v := int(p)
	if v > len(buf) {
		v = len(buf)
	}
	if v == 0 {
		return 0, nil
	}
	n, e := b.h.Read(buf[:v])
	return n, toErr("Read", e)
}

// Write hands buf to the device, retrying internally on short writes.
func (b *Backend) Write(buf []byte) (int, error) {
	if b.h == nil {
		return 0, errors.New("usbblaster/ftdid2xx: not open")
	}
	total := 0
	for total != len(buf) {
		n, e := b.h.Write(buf[total:])
		if e != 0 {
			return total + n, toErr("Write", e)
		}
		if n == 0 {
			return total, errors.New("usbblaster/ftdid2xx: write stalled")
		}
		total += n
	}
	return total, nil
}

// SetSpeed configures TCK via the device's baud-rate divisor, the same
// register D2XX-class probes use to derive their JTAG clock.
func (b *Backend) SetSpeed(freq physic.Frequency) error {
	if b.h == nil {
		return errors.New("usbblaster/ftdid2xx: not open")
	}
	if freq >= physic.GigaHertz {
		return errors.New("usbblaster/ftdid2xx: speed too high")
	}
	return toErr("SetBaudRate", b.h.SetBaudRate(uint32(freq/physic.Hertz)))
}

// Identify returns the VID/PID/description this backend was opened with.
func (b *Backend) Identify() (uint16, uint16, string) {
	return b.vid, b.pid, b.description
}

func toErr(s string, e d2xx.Err) error {
	if e == 0 {
		return nil
	}
	return fmt.Errorf("usbblaster/ftdid2xx: %s: %s", s, e.String())
}
