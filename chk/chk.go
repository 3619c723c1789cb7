// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chk provides panic-based fatal-error helpers and printf-style
// test assertions, in the style used throughout the gosl packages.
package chk

import (
	"fmt"
	"math"
	"testing"
)

// Panic raises a formatted panic. Used for faults that can only come from
// programmer misuse (nil callback, illegal configuration), never for
// conditions a well-behaved caller can hit at runtime.
func Panic(msg string, args ...interface{}) {
	panic(fmt.Sprintf(msg, args...))
}

// PanicSimilar is an alias for Panic, kept for call sites that don't format.
func PanicSimilar(msg string) {
	panic(msg)
}

// PrintTitle prints a test section header.
func PrintTitle(title string) {
	fmt.Printf("\n=== %s =======================================\n", title)
}

// Int checks that a==b, failing the test with a named message otherwise.
func Int(tst *testing.T, msg string, a, b int) {
	if a != b {
		tst.Errorf("%s failed: %d != %d", msg, a, b)
	}
}

// IntAssert panics immediately if a != b. Used outside of _test.go files,
// e.g. to validate array lengths before indexing.
func IntAssert(a, b int) {
	if a != b {
		Panic("int assert failed: %d != %d", a, b)
	}
}

// Float64 checks |a-b| <= tol, failing the test with a named message otherwise.
func Float64(tst *testing.T, msg string, tol, a, b float64) {
	if math.Abs(a-b) > tol {
		tst.Errorf("%s failed: %v != %v (tol=%v, diff=%v)", msg, a, b, tol, math.Abs(a-b))
	}
}

// Bool checks that a==b, failing the test with a named message otherwise.
func Bool(tst *testing.T, msg string, a, b bool) {
	if a != b {
		tst.Errorf("%s failed: %v != %v", msg, a, b)
	}
}

// PrintAnaNum prints a side-by-side comparison of analytical vs numerical
// values, marking whether they agree within tol.
func PrintAnaNum(msg string, tol, ana, num float64, verbose bool) (diff float64) {
	diff = math.Abs(ana - num)
	if verbose {
		status := "OK"
		if diff > tol {
			status = "FAIL"
		}
		fmt.Printf("%-20s ana=%23.15e num=%23.15e diff=%10.3e [%s]\n", msg, ana, num, diff, status)
	}
	return
}
