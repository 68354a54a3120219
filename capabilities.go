// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package usbblaster

// Capabilities describes fixed properties of this driver core that a
// host dispatcher (out of scope here) might branch on (spec.md §6).
type Capabilities struct {
	// TMSSequenceSupported is always true: every back-end reaches the
	// TAP through jtag.Session.TMSSequence.
	TMSSequenceSupported bool
	// JTAGOnly is always true: this core never exposes a non-JTAG debug
	// transport.
	JTAGOnly bool
}

// capabilities is returned by every Session; it never varies by back-end.
var capabilities = Capabilities{TMSSequenceSupported: true, JTAGOnly: true}
