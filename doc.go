// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package usbblaster is the composition root of a debug-and-programming
// driver stack that bridges a host program to a MIPS32 CPU via an
// Altera USB-Blaster-class JTAG probe. It wires a USB transport
// back-end, the jtag package's TAP driver, and the ejtag package's
// PrAcc executor and FASTDATA engine into one Session.
package usbblaster
