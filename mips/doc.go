// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package mips provides range-checked MIPS32 R/I/J instruction encoders.
//
// Per spec.md §9's "raw-byte MIPS stubs → typed assembler builder" note,
// these are pure functions: the ejtag package's fixed instruction stubs
// are built by calling them, rather than hand-toggling magic words, while
// the exact branch-delay-slot ordering and branch offsets they produce
// remain the load-bearing on-the-wire contract.
package mips
