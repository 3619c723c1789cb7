// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import (
	"math"

	"github.com/sthibaul/sundials/io"
	"github.com/sthibaul/sundials/la"
)

// takeStep performs one internal step attempt loop: predictor, coefficient
// engine, corrector, local error test, and (on acceptance) order/step
// selection — retrying on recoverable failures until the step is accepted
// or a retry budget is exhausted (§4.5).
func (o *Solver) takeStep() (Status, error) {
	if o.tn+o.h == o.tn {
		o.warnHnil()
	}

	if o.nst > 0 && o.hprime != o.h {
		o.h = o.hprime
	}
	o.rescaleForNewStep()

	nefCount := 0
	ncfCount := 0

	for {
		if err := o.computeEwt(o.hist.col(0), o.ewt); err != nil {
			return IllInput, err
		}

		o.hist.predict(o.q)
		o.cf.set(o.method, o.q, o.h, o.tau[:], o.qwait, o.nlscoef)
		o.rl1 = 1 / o.cf.l[1]
		o.gamma = o.h * o.rl1
		if o.nst == 0 {
			o.gammap = o.gamma
		}
		o.gamrat = o.gamma / o.gammap

		outcome, err := o.nonlinearSolve()
		if err != nil {
			return SetupFailure, err
		}

		if outcome != corrConverged {
			ncfCount++
			o.ncfn++
			o.hist.unpredict(o.q)
			o.eta = math.Max(etamin, etacf)
			o.h *= o.eta
			o.hscale = o.h
			o.hist.rescale(o.q, o.eta)
			o.firstStep = false
			o.forceSetup = true
			if ncfCount >= o.maxncf {
				return ConvFailure, newStatusError("takeStep", ConvFailure, errStr("corrector failed to converge after maxncf retries"))
			}
			continue
		}

		// local error test (§4.5 step 6)
		dsm := o.acnrm / o.cf.tq[2]
		if dsm <= 1 {
			o.completeStep(dsm)
			return Success, nil
		}

		nefCount++
		o.netf++
		o.hist.unpredict(o.q)

		if nefCount >= o.maxnef {
			return ErrFailure, newStatusError("takeStep", ErrFailure, errStr("local error test failed maxnef times"))
		}

		o.irfnd = true
		o.etamax = 1

		eta := 1.0 / (math.Pow(biasErrFail*dsm, 1.0/float64(o.L)) + addon)
		if nefCount >= 2 {
			eta = math.Min(eta, etamaxErrFail)
		}
		eta = math.Max(etamin, eta)
		o.h *= eta
		o.hscale = o.h
		o.hist.rescale(o.q, eta)

		if nefCount >= 3 && o.q > 1 {
			o.q--
			o.L = o.q + 1
			o.qwait = o.L + 1
		}
	}
}

// rescaleForNewStep rescales Z by h/hscale before the first attempt of a
// new step, if a prior prepareNextStep changed h without yet touching Z.
func (o *Solver) rescaleForNewStep() {
	if o.h != o.hscale {
		eta := o.h / o.hscale
		o.hist.rescale(o.q, eta)
		o.hscale = o.h
	}
}

// completeStep finalizes an accepted step: applies the correction to Z,
// advances tn, shifts the tau ring, runs stability-limit detection, and
// selects (q,h) for the next attempt (§4.5 step 7).
func (o *Solver) completeStep(dsm float64) {
	o.nst++
	o.hist.correct(o.q, o.acor, o.cf.l[:])
	o.tn += o.h

	for j := o.L; j >= 2; j-- {
		o.tau[j] = o.tau[j-1]
	}
	if o.q == 1 && o.nst > 1 {
		o.tau[2] = o.tau[1]
	}
	o.tau[1] = o.h

	o.qu = o.q
	o.hu = o.h
	if o.firstStep {
		o.h0u = o.h
	}
	o.firstStep = false
	o.jcur = false
	o.irfnd = false

	if o.sldeton && o.method == BDF && o.q >= 3 {
		o.stabilityLimitDetect(dsm)
	}

	o.qwait--
	if o.qwait == 1 && o.q != o.maxord {
		o.acor.CopyInto(o.hist.col(o.maxord))
		o.savedTq5 = o.cf.tq[5]
	}

	o.prepareNextStep(dsm)

	o.etamax = etamax
	if o.nst <= 10 {
		o.etamax = math.Max(o.etamax, etamaxFirst/math.Max(1, float64(o.nst)))
	}
}

// prepareNextStep selects the next (q,h) by comparing η candidates for
// trial orders q-1, q, q+1 (§4.5 "Next-step selection").
func (o *Solver) prepareNextStep(dsm float64) {
	if o.etamax == 1 {
		if o.qwait < 2 {
			o.qwait = 2
		}
		o.qprime = o.q
		o.hprime = o.h
		o.nextH = o.h
		o.eta = 1
		return
	}

	etaq := 1.0 / (math.Pow(bias2*dsm, 1.0/float64(o.L)) + addon)

	if o.qwait != 0 {
		o.eta = etaq
		o.qprime = o.q
		o.setEta()
		return
	}

	o.qwait = 2
	etaqm1 := o.computeEtaqm1()
	etaqp1 := o.computeEtaqp1()
	o.chooseEta(etaq, etaqm1, etaqp1)
	o.setEta()
}

func (o *Solver) computeEtaqm1() float64 {
	if o.q <= 1 {
		return 0
	}
	ddn := la.WrmsNorm(o.hist.col(o.q), o.ewt) / o.cf.tq[1]
	return 1.0 / (math.Pow(bias1*ddn, 1.0/float64(o.q)) + addon)
}

func (o *Solver) computeEtaqp1() float64 {
	if o.q == o.maxord || o.savedTq5 == 0 {
		return 0
	}
	diff := la.NewVector(o.n)
	for i := range diff {
		diff[i] = o.acor[i] - o.hist.col(o.maxord)[i]
	}
	dup := la.WrmsNorm(diff, o.ewt) / o.cf.tq[3]
	return 1.0 / (math.Pow(bias3*dup, 1.0/float64(o.L+1)) + addon)
}

// chooseEta picks the largest of the three η candidates and sets o.eta /
// o.qprime accordingly (§4.5 "pick the largest that improves by at least
// THRESH").
func (o *Solver) chooseEta(etaq, etaqm1, etaqp1 float64) {
	etam := math.Max(etaqm1, math.Max(etaq, etaqp1))
	if etam < thresh {
		o.eta = 1
		o.qprime = o.q
		return
	}
	switch etam {
	case etaq:
		o.eta = etaq
		o.qprime = o.q
	case etaqm1:
		o.eta = etaqm1
		o.qprime = o.q - 1
	default:
		o.eta = etaqp1
		o.qprime = o.q + 1
		scratch := o.hist.col(o.maxord)
		for i := range scratch {
			scratch[i] = o.cf.tq[5] * o.acor[i]
		}
	}
}

// setEta clamps eta to [ETAMIN,etamax] and to the tstop constraint, then
// derives hprime/qprime transition.
func (o *Solver) setEta() {
	o.eta = math.Min(o.eta, o.etamax)
	o.eta = math.Max(etamin, o.eta)

	if o.hasTstop {
		if (o.tn+o.h*o.eta-o.tstop)*signOf(o.h) > 0 {
			o.eta = (o.tstop - o.tn) / o.h
		}
	}

	o.hprime = o.h * o.eta
	o.nextH = o.hprime

	if o.qprime != o.q {
		o.q = o.qprime
		o.L = o.q + 1
		o.qwait = o.L + 1
	}
}

func (o *Solver) logFatal(op string, format string, args ...interface{}) {
	io.Pfred(o.errfp, "["+op+"] "+format, args...)
}
