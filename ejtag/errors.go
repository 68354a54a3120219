// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ejtag

import "errors"

// ErrPrAccTimeout is returned when the Control DR's PRACC bit is not
// observed asserted within the 1 second deadline (spec.md §4.3 step 1).
var ErrPrAccTimeout = errors.New("ejtag: timed out waiting for PRACC")

// ErrOutOfArena is returned when a serviced fetch/load/store address falls
// outside the text/param-in/param-out/stack regions (spec.md §4.3 step 4).
var ErrOutOfArena = errors.New("ejtag: address outside pracc arena")

// ErrResourceUnavailable is returned when a FASTDATA work area is smaller
// than the resident handler (spec.md §4.4 step 1).
var ErrResourceUnavailable = errors.New("ejtag: resource not available")

// ErrFastdataLoad is returned when a per-word FASTDATA scan fails during
// a transfer.
var ErrFastdataLoad = errors.New("ejtag: fastdata load failed")

// ErrFastdataExitMismatch names the warning-grade condition spec.md §4.4
// step 8 describes. FastdataEngine.Transfer only logs that condition and
// never returns this error; it is exported for callers that run their own
// exit-address check.
var ErrFastdataExitMismatch = errors.New("ejtag: fastdata exit address mismatch")
