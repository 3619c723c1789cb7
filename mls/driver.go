// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import (
	"math"

	"github.com/sthibaul/sundials/fun"
	"github.com/sthibaul/sundials/io"
	"github.com/sthibaul/sundials/la"
)

// Init installs the problem f/y0/t0 and tolerances onto a freshly Created
// handle (§4.6 "init"). qmax is fixed for the lifetime of this Init (a
// subsequent Reinit with the same dimension reuses the Nordsieck array,
// which is sized for the largest order of either method, §5 "Resource
// lifetimes").
func (o *Solver) Init(f fun.Rhs, t0 float64, y0 la.Vector, rtol float64, atol la.Vector, itol ToleranceType) error {
	if f == nil {
		return newStatusError("Init", IllInput, errStr("f is nil"))
	}
	if len(y0) == 0 {
		return newStatusError("Init", IllInput, errStr("y0 has zero length"))
	}
	if rtol < 0 {
		return newStatusError("Init", IllInput, errStr("rtol must be >= 0"))
	}
	if !atol.AllPositive() && itol == SV {
		return newStatusError("Init", IllInput, errStr("atol components must be > 0"))
	}
	if itol == SS && atol[0] <= 0 {
		return newStatusError("Init", IllInput, errStr("atol must be > 0"))
	}

	n := len(y0)
	reuse := o.state == stateInitialized && o.n == n
	o.n = n
	o.f = f
	o.rtol = rtol
	o.atol = atol.Clone()
	o.itol = itol
	o.tn = t0

	if !reuse {
		o.hist = newNordsieck(n)
	}
	o.y = la.NewVector(n)
	o.acor = la.NewVector(n)
	o.tempv = la.NewVector(n)
	o.ftemp = la.NewVector(n)
	o.ewt = la.NewVector(n)

	o.q = 1
	o.L = 2
	o.qprime = 1
	o.qwait = o.L + 1
	o.h = 0
	o.hscale = 0
	o.hprime = 0
	o.nextH = 0
	o.eta = 1
	o.etamax = etamaxFirst

	o.nst, o.nfe, o.netf, o.ncfn, o.nni, o.nsetups, o.nhnil = 0, 0, 0, 0, 0, 0, 0
	o.nstlp = 0
	o.nhnilWarned = 0
	o.jcur = false
	o.forceSetup = false
	o.tolsf = 1
	o.nscon = 0
	o.nor = 0
	o.irfnd = false
	o.firstStep = true
	o.qu = 0
	o.hu = 0
	o.h0u = 0
	o.savedTq5 = 0
	for i := range o.tau {
		o.tau[i] = 0
	}

	y0.CopyInto(o.y)

	if err := o.computeEwt(o.y, o.ewt); err != nil {
		return newStatusError("Init", IllInput, err)
	}

	ydot := la.NewVector(n)
	if err := o.callRhs(t0, o.y, ydot); err != nil {
		return newStatusError("Init", IllInput, err)
	}

	if o.hin != 0 {
		o.h = o.hin
	} else {
		h, err := o.estimateInitialStep(t0, o.y, ydot)
		if err != nil {
			return newStatusError("Init", IllInput, err)
		}
		o.h = h
	}
	if math.Abs(o.h) < o.hmin {
		o.h = o.hmin * signOf(o.h)
	}
	if math.Abs(o.h) > o.hmax {
		o.h = o.hmax * signOf(o.h)
	}
	o.hscale = o.h

	hy0dot := ydot.Clone()
	hy0dot.Scale(o.h)
	o.hist.resetTo(o.y, hy0dot)

	o.state = stateInitialized
	return nil
}

// Reinit re-initializes the handle for a new problem without releasing the
// Nordsieck array, provided the new problem has the existing dimension
// (§5 "Re-init does not release the Nordsieck array"). It must not widen
// qmax (§4.6).
func (o *Solver) Reinit(f fun.Rhs, t0 float64, y0 la.Vector, rtol float64, atol la.Vector, itol ToleranceType) error {
	if o.state != stateInitialized {
		return newStatusError("Reinit", IllInput, errStr("handle not initialized"))
	}
	return o.Init(f, t0, y0, rtol, atol, itol)
}

// ResetIterType switches the corrector between Functional and Newton between
// calls (§4.6). Per the Open Question resolved in DESIGN.md: L.Free is
// called if and only if the new iter is Functional and a solver was
// previously attached.
func (o *Solver) ResetIterType(iter IterType) error {
	if iter == Functional && o.iter == Newton && o.linSolver != nil {
		if err := o.linSolver.Free(); err != nil {
			return newStatusError("ResetIterType", SetupFailure, err)
		}
		o.linSolver = nil
	}
	o.iter = iter
	o.forceSetup = true
	return nil
}

// SetLinearSolver attaches a linear solver for Newton iteration (§4.7). A
// solver may also be attached while iter==Functional; it is kept and used
// once ResetIterType switches to Newton. The solver's presence is what
// distinguishes "Newton with solver" from "Newton pending a solver" during
// ResetIterType bookkeeping.
func (o *Solver) SetLinearSolver(ls fun.LinearSolver) error {
	if ls == nil {
		return newStatusError("SetLinearSolver", IllInput, errStr("nil solver"))
	}
	if err := ls.Init(); err != nil {
		return newStatusError("SetLinearSolver", SetupFailure, err)
	}
	o.linSolver = ls
	o.forceSetup = true
	return nil
}

// Free releases the handle. Safe to call multiple times.
func (o *Solver) Free() error {
	if o.linSolver != nil {
		err := o.linSolver.Free()
		o.linSolver = nil
		if err != nil {
			return newStatusError("Free", SetupFailure, err)
		}
	}
	o.state = stateUninitialized
	return nil
}

// Stats returns the current work counters and last-step telemetry (§13
// "Getter surface" supplement).
func (o *Solver) Stats() Stats {
	return Stats{
		Nsteps: o.nst, Nfevals: o.nfe, Netfails: o.netf, Ncfnfails: o.ncfn,
		Nniters: o.nni, Nsetups: o.nsetups, Nhnil: o.nhnil,
		Qu: o.qu, Qcur: o.q, Hu: o.hu, Hcur: o.h, H0u: o.h0u,
		Tcur: o.tn, Tolsf: o.tolsf, Nor: o.nor,
	}
}

// --- setters (§4.6 "set_*") ---

func (o *Solver) SetFData(d interface{})      { o.fData = d }
func (o *Solver) SetErrFile(w interface{ Write([]byte) (int, error) }) { o.errfp = w }
func (o *Solver) SetEwtFunc(f fun.EwtFunc)    { o.ewtFunc = f }

func (o *Solver) SetMaxOrd(q int) error {
	limit := defaultMaxOrd(o.method)
	if q <= 0 || q > limit {
		return newStatusError("SetMaxOrd", IllInput, errStr("maxord out of range"))
	}
	o.maxord = q
	if o.state == stateInitialized && o.q > q {
		o.q = q
		o.qprime = q
	}
	return nil
}

func (o *Solver) SetMaxNumSteps(n int) error {
	if n <= 0 {
		return newStatusError("SetMaxNumSteps", IllInput, errStr("mxsteps must be > 0"))
	}
	o.mxsteps = n
	return nil
}

func (o *Solver) SetMaxHnilWarns(n int) error { o.mxhnil = n; return nil }

func (o *Solver) SetInitStep(h float64) error { o.hin = h; return nil }

func (o *Solver) SetMinStep(h float64) error {
	if h < 0 {
		return newStatusError("SetMinStep", IllInput, errStr("hmin must be >= 0"))
	}
	o.hmin = h
	return nil
}

func (o *Solver) SetMaxStep(h float64) error {
	if h <= 0 {
		return newStatusError("SetMaxStep", IllInput, errStr("hmax must be > 0"))
	}
	o.hmax = h
	return nil
}

func (o *Solver) SetStopTime(t float64) error { o.tstop = t; o.hasTstop = true; return nil }

func (o *Solver) SetMaxErrFails(n int) error   { o.maxnef = n; return nil }
func (o *Solver) SetMaxNonlinIters(n int) error { o.maxcor = n; return nil }
func (o *Solver) SetMaxConvFails(n int) error  { o.maxncf = n; return nil }

func (o *Solver) SetNonlinConvCoef(c float64) error {
	if c <= 0 {
		return newStatusError("SetNonlinConvCoef", IllInput, errStr("nlscoef must be > 0"))
	}
	o.nlscoef = c
	return nil
}

func (o *Solver) SetStabLimDet(on bool) error {
	if on && o.method != BDF {
		return newStatusError("SetStabLimDet", IllInput, errStr("stability-limit detection is BDF-only"))
	}
	o.sldeton = on
	return nil
}

// --- internals ---

func (o *Solver) callRhs(t float64, y, ydot la.Vector) error {
	o.nfe++
	return o.f(t, y, ydot)
}

func (o *Solver) computeEwt(y, w la.Vector) error {
	if o.ewtFunc != nil {
		return o.ewtFunc(y, w)
	}
	for i := range y {
		atol := o.atol[0]
		if o.itol == SV {
			atol = o.atol[i]
		}
		w[i] = 1.0 / (o.rtol*math.Abs(y[i]) + atol)
	}
	if !w.AllPositive() {
		return errStr("ewt component <= 0")
	}
	return nil
}

// estimateInitialStep implements §4.6 "Initial step estimation": a first
// guess h0 = 1/||ẏ||_W (bounded by the distance to tstop and by hmax),
// followed by a single refinement with a finite-difference ||ÿ||_W that
// shrinks h0 so that (1/2)h²||ÿ||_W ≤ 1. The result is never smaller than
// 100 times the roundoff in t.
func (o *Solver) estimateInitialStep(t0 float64, y0, ydot la.Vector) (float64, error) {
	n := len(y0)
	tdist := o.hmax
	if o.hasTstop {
		if d := math.Abs(o.tstop - t0); d < tdist {
			tdist = d
		}
	}
	if math.IsInf(tdist, 1) {
		tdist = 1.0
	}
	tround := o.uround * math.Max(math.Abs(t0), tdist)
	hlb := 100 * tround

	ywrms := la.WrmsNorm(y0, o.ewt)
	fwrms := la.WrmsNorm(ydot, o.ewt)
	var h0 float64
	if fwrms <= 0.5/math.Max(ywrms, 1e-10) || fwrms == 0 {
		h0 = math.Min(hlb*1000, tdist)
	} else {
		h0 = 1.0 / fwrms
	}
	if h0 > tdist {
		h0 = tdist
	}
	sigma := math.Copysign(1, tdist)
	h0 = sigma * math.Min(math.Abs(h0), o.hmax)

	// one Newton-like refinement using a finite-difference estimate of ÿ
	yTmp := la.NewVector(n)
	fTmp := la.NewVector(n)
	la.LinearSum(yTmp, 1, y0, h0, ydot)
	if err := o.callRhs(t0+h0, yTmp, fTmp); err != nil {
		if fun.IsRecoverable(err) {
			h0 *= 0.5
			return h0, nil
		}
		return 0, err
	}
	yddnrm := 0.0
	for i := 0; i < n; i++ {
		d := (fTmp[i] - ydot[i]) / h0
		yddnrm += (d * o.ewt[i]) * (d * o.ewt[i])
	}
	yddnrm = math.Sqrt(yddnrm / float64(n))

	if yddnrm*h0*h0*0.5 > 1 {
		h1 := math.Sqrt(2.0 / yddnrm)
		if math.Abs(h1) < math.Abs(h0) {
			h0 = sigma * math.Min(math.Abs(h1), math.Abs(h0))
		}
	}
	if math.Abs(h0) < hlb {
		h0 = sigma * hlb
	}
	return h0, nil
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

func errStr(msg string) error { return simpleErr(msg) }

// warnHnil emits the bounded "t+h == t" warning (§4.5 step 1, §7 "Warnings").
func (o *Solver) warnHnil() {
	o.nhnil++
	if o.nhnilWarned < o.mxhnil {
		io.Pfyel(o.errfp, "[step] warning: internal t+h == t at t=%.6e; further warnings suppressed after %d\n", o.tn, o.mxhnil)
		o.nhnilWarned++
	}
}
