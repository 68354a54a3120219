// Copyright 2024 The usbblaster Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

//go:build usbblaster_debug

package usbblaster

import "log"

// logf is enabled when the build tag usbblaster_debug is specified.
func logf(format string, v ...interface{}) {
	log.Printf(format, v...)
}
