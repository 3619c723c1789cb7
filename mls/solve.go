// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import (
	"math"

	"github.com/sthibaul/sundials/la"
)

// Step advances the solution from the current tn towards tout, writing the
// result into yout and returning the time actually reached (§4.6 "step(tout,
// itask) -> status", §6 "Execution").
//
// Normal/NormalTstop take as many internal steps as needed and then produce
// dense output at tout (via GetDky); OneStep/OneStepTstop return after
// exactly one internal step, with yout holding that step's solution. The
// *Tstop variants additionally clamp the step so tn never passes tstop, and
// report TstopReturn when tn lands on tstop.
func (o *Solver) Step(tout float64, yout la.Vector, itask Itask) (float64, Status, error) {
	if o.state != stateInitialized {
		return o.tn, IllInput, newStatusError("Step", IllInput, errStr("handle not initialized"))
	}
	if (itask == NormalTstop || itask == OneStepTstop) && !o.hasTstop {
		return o.tn, IllInput, newStatusError("Step", IllInput, errStr("tstop itask requires SetStopTime"))
	}
	wantTstop := itask == NormalTstop || itask == OneStepTstop
	oneStep := itask == OneStep || itask == OneStepTstop

	if wantTstop {
		if (o.tn-o.tstop)*signOf(o.h) > 0 {
			return o.tn, IllInput, newStatusError("Step", IllInput, errStr("tstop is behind tn in the direction of integration"))
		}
		if (o.tn+o.h-o.tstop)*signOf(o.h) > 0 {
			o.h = o.tstop - o.tn
		}
	}

	nstloc := 0
	for {
		if wantTstop && math.Abs(o.tn-o.tstop) <= 100*o.uround*math.Max(math.Abs(o.tn), math.Abs(o.tstop)) {
			o.hist.col(0).CopyInto(yout)
			return o.tstop, TstopReturn, nil
		}

		if !oneStep {
			done := (o.tn-tout)*signOf(o.h) >= 0
			if done {
				if status, err := o.GetDky(tout, 0, yout); status != DkyOK {
					return o.tn, IllInput, newStatusError("Step", IllInput, err)
				}
				return tout, Success, nil
			}
		}

		if nstloc >= o.mxsteps {
			return o.tn, TooMuchWork, newStatusError("Step", TooMuchWork, errStr("maximum number of internal steps reached before reaching tout"))
		}

		if wantTstop {
			if (o.tn+o.hprime-o.tstop)*signOf(o.h) > 0 {
				o.hprime = o.tstop - o.tn
			}
		}

		status, err := o.takeStep()
		nstloc++
		if status != Success {
			return o.tn, status, err
		}

		if tolsf := o.estimateTolsf(); tolsf > 1 {
			o.tolsf = tolsf
			return o.tn, TooMuchAcc, newStatusError("Step", TooMuchAcc, errStr("requested tolerances are smaller than can be handled for this problem"))
		}

		if oneStep {
			o.hist.col(0).CopyInto(yout)
			return o.tn, Success, nil
		}
	}
}

// estimateTolsf reports how much the user's tolerances would need to be
// scaled up to be satisfiable given the unit roundoff (reported as
// Stats.Tolsf).
func (o *Solver) estimateTolsf() float64 {
	return 2 * o.uround * la.WrmsNorm(o.hist.col(0), o.ewt)
}

// GetDky evaluates the k-th derivative of the interpolating polynomial at t
// (§4.6 "dense output"), legal for t in [tn-hu, tn] and k in [0, qu]. The
// degenerate call GetDky(tn, 0, dky) returns exactly Z[0].
func (o *Solver) GetDky(t float64, k int, dky la.Vector) (DkyStatus, error) {
	if k < 0 || k > o.qu {
		return DkyBadK, errStr("k out of range [0,qu]")
	}
	tfuzz := 100 * o.uround * (math.Abs(o.tn) + math.Abs(o.h))
	if o.h < 0 {
		tfuzz = -tfuzz
	}
	tp := o.tn - o.hu - tfuzz
	tn1 := o.tn + tfuzz
	if (t-tp)*(t-tn1) > 0 {
		return DkyBadT, errStr("t outside the interval of the last successful step")
	}
	if len(dky) != o.n {
		return DkyBadDky, errStr("dky has the wrong length")
	}

	s := (t - o.tn) / o.hu

	for j := o.qu; j >= k; j-- {
		c := 1.0
		for i := j; i >= j-k+1; i-- {
			c *= float64(i)
		}
		if j == o.qu {
			o.hist.col(j).CopyInto(dky)
			dky.Scale(c)
		} else {
			dky.Scale(s)
			dky.Axpy(c, o.hist.col(j))
		}
	}
	if k == 0 {
		return DkyOK, nil
	}

	r := math.Pow(o.hu, -float64(k))
	dky.Scale(r)
	return DkyOK, nil
}
