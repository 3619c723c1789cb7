// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fun declares the callback and linear-solver capability types
// consumed by package mls, in the same spirit as gosl's fun.Vv/fun.Tv/fun.Mv
// type aliases (see num.NlSolver.Ffcn/JfcnSp/JfcnDn) — named function types
// instead of ad-hoc interfaces, so callers can pass plain closures.
package fun

import (
	"errors"

	"github.com/sthibaul/sundials/la"
)

// Rhs evaluates ẏ = f(t,y) into ydot. A RecoverableError return lets the
// corrector retry with a smaller step instead of aborting (§4.4).
type Rhs func(t float64, y, ydot la.Vector) error

// EwtFunc computes a caller-supplied error-weight vector w from the current
// solution y, overriding the default (rtol,atol) weighting (§4.2 ewt).
type EwtFunc func(y, w la.Vector) error

// RecoverableError marks a callback failure the step controller may retry
// (reduce h and re-attempt) rather than treat as fatal.
type RecoverableError struct {
	Msg string
}

func (e *RecoverableError) Error() string { return e.Msg }

// IsRecoverable reports whether err is (or wraps) a *RecoverableError.
func IsRecoverable(err error) bool {
	var re *RecoverableError
	return errors.As(err, &re)
}

// ConvFail classifies why the nonlinear corrector is (re-)requesting a
// linear-solver setup, mirroring the original's NO_FAILURES/FAIL_BAD_J/FAIL_OTHER.
type ConvFail int

const (
	NoFailures ConvFail = iota
	FailBadJ
	FailOther
)

// LinFlag is the shared recoverable/unrecoverable convention for setup/solve:
// 0 success, >0 recoverable, <0 unrecoverable (§4.7).
type LinFlag int

const (
	LinOK          LinFlag = 0
	LinRecoverable LinFlag = 1
	LinUnrecoverable LinFlag = -1
)

// LinearSolver is the capability record consumed by the Newton corrector
// (§4.7). It replaces the original's function-pointer vtable plus
// back-pointer to the integrator (§9 "cyclic reference"): gamma/ewt/tn/jcur
// are passed explicitly instead of being read back through the solver.
type LinearSolver interface {
	// Init performs one-time preparation. Called once from mls.Solver.Init.
	Init() error

	// Setup prepares data for solving (I - γ·J)x = b. convfail indicates why
	// a fresh setup was requested; yPred/fPred are the predicted solution and
	// f(t,yPred); gamma is h/l[1]. Setup must set jcur=true whenever it
	// refreshed Jacobian data. Returns LinOK/LinRecoverable/LinUnrecoverable.
	Setup(convfail ConvFail, gamma float64, yPred, fPred la.Vector, jcur *bool) (LinFlag, error)

	// Solve solves P·x = b approximately, P ≈ I - γ·J, writing the result
	// into x. w is the current error-weight vector (for scaled stopping
	// criteria in iterative solvers); yCur/fCur are the corrector's current
	// iterate and f(t,yCur).
	Solve(x, b, w la.Vector, yCur, fCur la.Vector) (LinFlag, error)

	// Free releases solver-private memory.
	Free() error
}
