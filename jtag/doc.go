// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package jtag implements the USB-Blaster wire protocol: a 64-byte packet
// buffer, the bit-bang/byte-shift codec, and a TAP driver built on top of
// them.
//
// The package does not know how to compute TAP state transitions; callers
// supply a StateOracle that maps (from, to) pairs to TMS bit sequences, the
// same way periph's ftdi package leaves protocol-specific bus decisions
// (SPI mode, clock polarity) to its callers while owning only the MPSSE
// byte-level encoding.
package jtag
