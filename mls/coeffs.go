// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import "math"

// coeffs holds the per-step method-coefficient engine output (§4.3):
// l[0..q] for the corrector's predictor-correction formula and tq[1..5]
// for local-error-test / convergence / trial-order estimation.
type coeffs struct {
	l  [lMax + 1]float64
	tq [NumTests + 1]float64
}

// set computes l and tq for the given method, order q, current step h, and
// the ring of prior step sizes tau[1..q+1] (tau[0] unused, 1-based per §3 to
// match the source; qwait gates the more expensive trial-order estimates
// (tq[1] and tq[3]) exactly as the original only refreshes them when a
// trial order change is imminent (qwait==1)).
func (c *coeffs) set(method Method, q int, h float64, tau []float64, qwait int, nlscoef float64) {
	switch method {
	case Adams:
		c.setAdams(q, h, tau, qwait, nlscoef)
	default:
		c.setBDF(q, h, tau, qwait, nlscoef)
	}
}

func (c *coeffs) setBDF(q int, h float64, tau []float64, qwait int, nlscoef float64) {
	var alpha0, alpha0Hat, xiInv, xistarInv, hsum float64

	c.l[0] = 1
	c.l[1] = 1
	xiInv = 1
	xistarInv = 1
	for i := 2; i <= q; i++ {
		c.l[i] = 0
	}
	alpha0 = -1
	alpha0Hat = -1
	hsum = h

	if q > 1 {
		for j := 2; j < q; j++ {
			hsum += tau[j-1]
			xiInv = h / hsum
			alpha0 -= 1.0 / float64(j)
			for i := j; i >= 1; i-- {
				c.l[i] += c.l[i-1] * xiInv
			}
		}
		alpha0 -= 1.0 / float64(q)
		xistarInv = -c.l[1] - alpha0
		hsum += tau[q-1]
		xiInv = h / hsum
		alpha0Hat = -c.l[1] - xiInv
		for i := q; i >= 1; i-- {
			c.l[i] += c.l[i-1] * xistarInv
		}
	}

	c.setTqBDF(q, h, tau, qwait, nlscoef, hsum, alpha0, alpha0Hat, xiInv, xistarInv)
}

func (c *coeffs) setTqBDF(q int, h float64, tau []float64, qwait int, nlscoef,
	hsum, alpha0, alpha0Hat, xiInv, xistarInv float64) {

	a1 := 1 - alpha0Hat + alpha0
	a2 := 1 + float64(q)*a1
	c.tq[2] = math.Abs(a1 / (alpha0 * a2))
	c.tq[5] = math.Abs(a2 * xistarInv / (c.l[q] * xiInv))

	if qwait == 1 {
		if q > 1 {
			cc := xistarInv / c.l[q]
			a3 := alpha0 + 1.0/float64(q)
			a4 := alpha0Hat + xiInv
			cpInv := (1 - a4 + a3) / a3
			c.tq[1] = math.Abs(cc * cpInv)
		} else {
			c.tq[1] = 1
		}
		hsum += tau[q]
		xiInv = h / hsum
		a5 := alpha0 - 1.0/float64(q+1)
		a6 := alpha0Hat - xiInv
		cppInv := (1 - a6 + a5) / a2
		c.tq[3] = math.Abs(cppInv * xiInv * float64(q+2) * a5)
	}
	c.tq[4] = nlscoef / c.tq[2]
}

func (c *coeffs) setAdams(q int, h float64, tau []float64, qwait int, nlscoef float64) {
	if q == 1 {
		c.l[0] = 1
		c.l[1] = 1
		c.tq[1] = 1
		c.tq[5] = 1
		c.tq[2] = 0.5
		c.tq[3] = 1.0 / 12.0
		c.tq[4] = nlscoef / c.tq[2]
		return
	}

	var m [lMax + 1]float64
	hsum := c.adamsStart(q, h, tau, qwait, &m)

	m0 := altSum(q-1, m[:], 1)
	m1 := altSum(q-1, m[:], 2)

	c.adamsFinalize(q, h, qwait, nlscoef, &m, m0, m1, hsum)
}

func (c *coeffs) adamsStart(q int, h float64, tau []float64, qwait int, m *[lMax + 1]float64) (hsum float64) {
	hsum = h
	m[0] = 1
	for i := 1; i <= q; i++ {
		m[i] = 0
	}
	for j := 1; j < q; j++ {
		if j == q-1 && qwait == 1 {
			sum := altSum(q-2, m[:], 2)
			c.tq[1] = float64(q) * sum / m[q-2]
		}
		xiInv := h / hsum
		for i := j; i >= 1; i-- {
			m[i] += m[i-1] * xiInv
		}
		hsum += tau[j]
	}
	return
}

func (c *coeffs) adamsFinalize(q int, h float64, qwait int, nlscoef float64,
	m *[lMax + 1]float64, m0, m1, hsum float64) {

	m0inv := 1 / m0

	c.l[1] = 1
	for i := 1; i <= q; i++ {
		c.l[i] = m0inv * (m[i-1] / float64(i))
	}
	xi := hsum / h
	xiInv := 1 / xi

	c.tq[2] = m1 * m0inv / xi
	c.tq[5] = xi / c.l[q]

	if qwait == 1 {
		for i := q; i >= 1; i-- {
			m[i] += m[i-1] * xiInv
		}
		m2 := altSum(q, m[:], 2)
		c.tq[3] = m2 * m0inv / float64(q+1)
	}
	c.tq[4] = nlscoef / c.tq[2]
}

// altSum computes sum_{i=0}^{iend} (-1)^i * a[i]/(i+k), the alternating
// divided-difference sum used by the Adams-coefficient recursion.
func altSum(iend int, a []float64, k int) float64 {
	if iend < 0 {
		return 0
	}
	sum := 0.0
	sign := 1.0
	for i := 0; i <= iend; i++ {
		sum += sign * (a[i] / float64(i+k))
		sign = -sign
	}
	return sum
}
