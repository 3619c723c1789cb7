// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import (
	"io"
	"math"
	"os"

	"github.com/sthibaul/sundials/fun"
	"github.com/sthibaul/sundials/la"
)

// lifecycleState is the tagged-variant replacement for the original's
// "void *cvode_mem plus a MallocDone sentinel bool" (§9 "Opaque handle").
type lifecycleState int

const (
	stateUninitialized lifecycleState = iota
	stateInitialized
)

// Stats groups the monotone work counters and post-step telemetry that would
// otherwise require many independent getters, as one value type.
type Stats struct {
	Nsteps    int // nst
	Nfevals   int // nfe
	Netfails  int // netf
	Ncfnfails int // ncfn
	Nniters   int // nni
	Nsetups   int // nsetups
	Nhnil     int // nhnil
	Qu        int // order used on the last successful step
	Qcur      int // current order
	Hu        float64 // step size used on the last successful step
	Hcur      float64 // current step size
	H0u       float64 // first step size actually used
	Tcur      float64 // current time tn
	Tolsf     float64 // suggested tolerance scale factor, set when TOO_MUCH_ACC fires
	Nor       int     // number of order reductions from stability-limit detection
}

// Solver is the integrator handle (§3 "Integrator state"). It is created by
// Create, (re-)installed onto a problem by Init/Reinit, and torn down by
// Free — the tagged variant described in §9 rather than a pointer with
// sentinel booleans.
type Solver struct {
	state lifecycleState

	// method is fixed at Create; iter is set at Create and changed by ResetIterType
	method Method
	iter   IterType

	// mutable via ResetIterType
	linSolver fun.LinearSolver

	// order bookkeeping (§3)
	q, qprime, qwait int
	L                int

	// step-size bookkeeping (§3)
	h, hprime, nextH, hscale float64
	eta                      float64
	etamax                   float64

	tn float64

	hist *nordsieck

	ewt           la.Vector
	y, acor       la.Vector
	tempv, ftemp  la.Vector

	tau [lMax + 2]float64 // 1-based ring of prior step sizes; tau[0] unused

	cf coeffs

	rl1, gamma, gammap, gamrat float64

	crate, acnrm float64
	mnewt        int

	nst, nfe, netf, ncfn, nni, nsetups, nhnil int
	nstlp                                     int // nst at the last linear-solver setup

	qu                 int
	hu                 float64
	h0u                float64
	savedTq5           float64
	jcur               bool
	tolsf              float64

	sldeton bool
	ssdat   [7][5]float64 // sample ring: rows 0..5 (newest in row 0), columns 1..4 (§3 ssdat)
	nscon   int
	nor     int

	forceSetup bool

	errfp  io.Writer
	uround float64

	rtol float64
	atol la.Vector
	itol ToleranceType

	n int // problem dimension N

	f       fun.Rhs
	ewtFunc fun.EwtFunc
	fData   interface{}

	// tunables (§4.6 set_*)
	maxord    int
	mxsteps   int
	mxhnil    int
	hin       float64
	hmin      float64
	hmax      float64
	hasTstop  bool
	tstop     float64
	maxnef    int
	maxcor    int
	maxncf    int
	nlscoef   float64

	// internal bookkeeping
	nhnilWarned int
	firstStep   bool
	irfnd       bool // returning from an error-test/convergence failure retry
}

// Create allocates a new integrator handle (§4.6 "create"). The returned
// handle is not usable until Init is called.
func Create(method Method, iter IterType) *Solver {
	return &Solver{
		state:     stateUninitialized,
		method:    method,
		iter:      iter,
		maxord:    defaultMaxOrd(method),
		mxsteps:   defaultMaxNumSteps,
		mxhnil:    defaultMaxHnilWarns,
		hmin:      0,
		hmax:      math.Inf(1),
		maxnef:    defaultMaxErrFails,
		maxcor:    defaultMaxCorIters,
		maxncf:    defaultMaxConvFails,
		nlscoef:   defaultNonlinConvCoef,
		errfp:     os.Stdout,
		uround:    uround,
	}
}

func defaultMaxOrd(m Method) int {
	if m == Adams {
		return AdamsQMax
	}
	return BDFQMax
}

const uround = 2.220446049250313e-16
