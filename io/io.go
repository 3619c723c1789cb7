// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package io provides small printf-style helpers used as the append-only
// diagnostic sink for the integrator (the "errfp" of §6). It is a thin,
// stdlib-only wrapper (fmt + ANSI escapes), matching the gosl convention of
// not pulling in a third-party logging/color library for this concern.
package io

import (
	"fmt"
	"io"
)

const (
	colReset  = "\033[0m"
	colRed    = "\033[31m"
	colYellow = "\033[33m"
	colCyan   = "\033[36m"
)

// Pf writes a plain formatted message to w.
func Pf(w io.Writer, msg string, args ...interface{}) {
	fmt.Fprintf(w, msg, args...)
}

// Pfred writes a formatted message in red — used for fatal/error diagnostics.
func Pfred(w io.Writer, msg string, args ...interface{}) {
	fmt.Fprintf(w, colRed+msg+colReset, args...)
}

// Pfyel writes a formatted message in yellow — used for warnings (e.g. t+h==t).
func Pfyel(w io.Writer, msg string, args ...interface{}) {
	fmt.Fprintf(w, colYellow+msg+colReset, args...)
}

// Pfcyan writes a formatted message in cyan — used for informational traces.
func Pfcyan(w io.Writer, msg string, args ...interface{}) {
	fmt.Fprintf(w, colCyan+msg+colReset, args...)
}

// Sf is shorthand for fmt.Sprintf.
func Sf(msg string, args ...interface{}) string {
	return fmt.Sprintf(msg, args...)
}
