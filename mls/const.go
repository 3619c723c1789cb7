// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mls implements a variable-order, variable-step BDF/Adams
// multistep integrator for stiff and nonstiff systems of ordinary
// differential equations y'=f(t,y), y∈ℝ^N — the core described by §1-§9.
//
// It generalizes the lazy-setup, tolerance-driven Newton iteration found in
// gosl's num.NlSolver (a single nonlinear solve) into the full linear
// multistep state machine: Nordsieck history, per-step method coefficients,
// a functional/Newton corrector, and a step controller that adapts order
// and step size while controlling local truncation error.
package mls

// Method selects the linear multistep family (§2).
type Method int

const (
	Adams Method = iota // nonstiff, l(x) from products of (1+x/ξ_i)
	BDF                 // stiff, fixed-leading-coefficient form
)

func (m Method) String() string {
	if m == Adams {
		return "Adams"
	}
	return "BDF"
}

// IterType selects the nonlinear corrector kind (§4.4).
type IterType int

const (
	Functional IterType = iota
	Newton
)

func (t IterType) String() string {
	if t == Functional {
		return "Functional"
	}
	return "Newton"
}

// Itask controls how far Step advances and whether dense output is produced
// at an intermediate point (§4.6).
type Itask int

const (
	Normal Itask = iota
	OneStep
	NormalTstop
	OneStepTstop
)

// Tolerance type selector (§3 itol).
type ToleranceType int

const (
	SS ToleranceType = iota // scalar rtol, scalar atol
	SV                      // scalar rtol, vector atol
)

// Fixed-capacity sizing (§6 "Numeric constants to honor").
const (
	AdamsQMax = 12
	BDFQMax   = 5
	NumTests  = 5
)

// lMax is the largest L=q+1 across both methods; Z/tau/l are sized to it,
// so the same storage serves either method (the method is fixed at Create).
const lMax = AdamsQMax + 1

// Default tunables (§4.6 set_* defaults).
const (
	defaultMaxNumSteps    = 500
	defaultMaxHnilWarns   = 10
	defaultMaxErrFails    = 7
	defaultMaxCorIters    = 3
	defaultMaxConvFails   = 10
	defaultNonlinConvCoef = 0.1
)

// Corrector constants (§4.4).
const (
	dgmax = 0.3  // |gamrat-1| threshold forcing a fresh Newton setup
	msbp  = 20   // steps between mandatory Newton setups
	rdiv  = 2.0  // divergence ratio threshold
	etacf = 0.25 // step shrink factor on a recoverable corrector failure
)

// Step-size adjustment bounds (§4.5 "Next-step selection").
const (
	etamin       = 0.1
	etamax       = 10.0
	etamaxFirst  = 10000.0
	etamaxFail   = 2.0
	etamaxErrFail = 0.2
	thresh       = 1.5
	addon        = 1e-6
	bias1        = 6.0 // order q-1 error-bound bias
	bias2        = 10.0 // order q   bias
	bias3        = 10.0 // order q+1 bias (more conservative about growing order)
	biasErrFail  = 10000.0
)

// How many times "t+h==t" is reported is bounded by the mxhnil tunable
// (default defaultMaxHnilWarns, see warnHnil; §4.5 step 1).
