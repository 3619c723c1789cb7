// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import (
	"math"

	"github.com/sthibaul/sundials/fun"
	"github.com/sthibaul/sundials/la"
)

// correctorOutcome is the result of one nonlinear-solve attempt (§4.4
// "entry -> iterate -> {converged | slow-div | setup-stale | unrecoverable}").
type correctorOutcome int

const (
	corrConverged correctorOutcome = iota
	corrRecoverableFail
	corrFatal
)

// nonlinearSolve solves G(y)=0, y = Z[0] + acor, either by functional
// (fixed-point) or Newton iteration (§4.4 "entry -> iterate -> {converged |
// setup-stale -> request-setup -> iterate | slow-div | unrecoverable}"). It
// owns o.acor, o.crate, o.acnrm, o.mnewt on return.
//
// A Newton failure where the Jacobian was not current (!o.jcur) is treated
// as a setup-stale exit rather than a genuine divergence: the linear solver
// is re-run with fun.FailBadJ to force Jacobian re-evaluation and the same
// step attempt (same h, same predicted y) is retried once before falling
// back to the caller's h-shrink retry path.
func (o *Solver) nonlinearSolve() (correctorOutcome, error) {
	if o.iter == Newton && o.linSolver == nil {
		return corrFatal, newStatusError("nonlinearSolve", SetupFailure, errStr("Newton iteration requires a linear solver (SetLinearSolver was never called)"))
	}

	if o.iter == Newton {
		if err := o.maybeSetupNewton(); err != nil {
			return corrFatal, err
		}
	}

	outcome, err := o.iterate()
	if err != nil {
		return corrFatal, err
	}
	if outcome == corrConverged {
		return corrConverged, nil
	}

	if outcome == corrRecoverableFail && o.iter == Newton && !o.jcur {
		if err := o.runNewtonSetup(fun.FailBadJ, false); err != nil {
			return corrFatal, err
		}
		outcome, err = o.iterate()
		if err != nil {
			return corrFatal, err
		}
	}
	return outcome, nil
}

// iterate runs the fixed-point or Newton correction loop to convergence or
// failure, starting from acor=0 at the current predicted Z[0] (§4.4
// "iterate").
func (o *Solver) iterate() (correctorOutcome, error) {
	yPred := o.hist.col(0)
	o.acor.Fill(0)
	o.crate = 1

	var delP float64
	for o.mnewt = 0; o.mnewt < o.maxcor; o.mnewt++ {
		la.LinearSum(o.y, 1, yPred, 1, o.acor)

		if err := o.callRhs(o.tn, o.y, o.ftemp); err != nil {
			if fun.IsRecoverable(err) {
				return corrRecoverableFail, nil
			}
			return corrFatal, err
		}

		o.nni++
		var del float64
		var outcome correctorOutcome
		var err error
		if o.iter == Newton {
			del, outcome, err = o.newtonIterStep()
		} else {
			del, outcome, err = o.functionalIterStep()
		}
		if err != nil {
			return corrFatal, err
		}
		if outcome != corrConverged {
			return outcome, nil
		}

		if o.mnewt > 0 {
			o.crate = math.Max(0.3*o.crate, del/delP)
		}
		dcon := del * math.Min(1, o.crate) / o.tq().tq[4]

		if dcon <= 1 {
			o.acnrm = la.WrmsNorm(o.acor, o.ewt)
			if o.iter == Newton {
				o.jcur = false
			}
			return corrConverged, nil
		}

		if o.mnewt > 0 && del/delP > rdiv {
			return corrRecoverableFail, nil
		}
		delP = del
	}
	return corrRecoverableFail, nil
}

func (o *Solver) tq() *coeffs { return &o.cf }

// functionalIterStep performs one fixed-point update
// acor <- rl1*(h*f(t, Z[0]+acor_old) - Z[1]); returns ||acor-acor_old||_W.
func (o *Solver) functionalIterStep() (del float64, outcome correctorOutcome, err error) {
	next := o.tempv
	next.Fill(0)
	next.Axpy(o.h*o.rl1, o.ftemp)
	next.Axpy(-o.rl1, o.hist.col(1))
	diff := la.NewVector(len(next))
	for i := range diff {
		diff[i] = next[i] - o.acor[i]
	}
	del = la.WrmsNorm(diff, o.ewt)
	next.CopyInto(o.acor)
	return del, corrConverged, nil
}

// newtonIterStep solves (I-gamma*J)*delta = h*rl1*f(t,y) - rl1*Z[1] - acor
// and applies acor += delta; returns ||delta||_W.
func (o *Solver) newtonIterStep() (del float64, outcome correctorOutcome, err error) {
	b := la.NewVector(len(o.acor))
	la.LinearSum(b, o.h*o.rl1, o.ftemp, -1, o.acor)
	b.Axpy(-o.rl1, o.hist.col(1))

	delta := la.NewVector(len(o.acor))
	flag, serr := o.linSolver.Solve(delta, b, o.ewt, o.y, o.ftemp)
	if serr != nil || flag == fun.LinUnrecoverable {
		return 0, corrFatal, nonNilErr(serr, "linear solve unrecoverable failure")
	}
	if flag == fun.LinRecoverable {
		return 0, corrRecoverableFail, nil
	}

	o.acor.Axpy(1, delta)
	del = la.WrmsNorm(delta, o.ewt)
	return del, corrConverged, nil
}

// maybeSetupNewton decides, per §4.4, whether a fresh L.setup is required
// before this step's Newton iteration, and performs it if so.
func (o *Solver) maybeSetupNewton() error {
	needSetup := o.forceSetup ||
		math.Abs(o.gamrat-1) > dgmax ||
		o.nst-o.nstlp >= msbp

	if !needSetup {
		return nil
	}
	return o.runNewtonSetup(fun.NoFailures, false)
}

// runNewtonSetup evaluates f at the predicted Z[0] and invokes L.setup once.
// retried indicates this call is already the retry after a recoverable
// setup flag; a second consecutive recoverable flag is a fatal
// SETUP_FAILURE. A jcur=false report is not counted as a failure here:
// nonlinearSolve re-runs setup with FailBadJ once per step attempt, and a
// repeated stale report does not raise SETUP_FAILURE.
func (o *Solver) runNewtonSetup(convfail fun.ConvFail, retried bool) error {
	o.nsetups++
	o.nstlp = o.nst
	o.gammap = o.gamma
	fPred := la.NewVector(o.n)
	if err := o.callRhs(o.tn, o.hist.col(0), fPred); err != nil {
		return err
	}
	jcur := false
	flag, err := o.linSolver.Setup(convfail, o.gamma, o.hist.col(0), fPred, &jcur)
	if err != nil || flag == fun.LinUnrecoverable {
		return nonNilErr(err, "linear solver setup unrecoverable failure")
	}
	if flag == fun.LinRecoverable {
		if retried {
			return newStatusError("runNewtonSetup", SetupFailure, errStr("linear solver setup failed twice consecutively"))
		}
		return o.runNewtonSetup(fun.FailOther, true)
	}
	o.jcur = jcur
	o.forceSetup = false
	o.gamrat = 1
	return nil
}

func nonNilErr(err error, msg string) error {
	if err != nil {
		return err
	}
	return errStr(msg)
}
