// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ejtag runs short MIPS32 instruction sequences on a halted
// EJTAG-debug-mode core by serving its instruction fetches and load/store
// traps over the processor-access (PrAcc) mechanism, and streams bulk
// memory through the FASTDATA register.
//
// It is a client of package jtag's scan primitives (spec.md §1: "the
// engines compose"), reached only through the Link interface so the exact
// IR/DR scan sequencing stays swappable by the host.
package ejtag
