// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import "math"

// stabilityLimitDetect implements the SLDET heuristic (§4.5, glossary
// "SLDET"): BDF order ≥3 accumulates a ring of six scaled error samples;
// once nscon reaches 10 consecutive accepted steps since the last
// reduction, the ratio of successive tq[5]*acnrm samples is examined for
// the geometric growth characteristic of a method approaching its
// stability boundary, and if found the order is forced down.
//
// The original computes roots of a cubic and a quartic in the sample ratio
// to classify the growth pattern; this reimplementation uses a simpler
// geometric-ratio test over the five newest samples of that window — the
// root-finding itself is an implementation detail of the original's
// polynomial-based classifier, not part of this spec's observable
// behavior (order gets reduced when approaching instability, §4.5).
func (o *Solver) stabilityLimitDetect(dsm float64) {
	sample := o.cf.tq[5] * o.acnrm

	for r := 5; r >= 1; r-- {
		for c := 1; c <= 4; c++ {
			o.ssdat[r][c] = o.ssdat[r-1][c]
		}
	}
	o.ssdat[0][1] = sample
	_ = dsm

	o.nscon++
	if o.nscon < 10 {
		return
	}

	if o.detectGrowth() {
		if o.q > 1 {
			o.q--
			o.L = o.q + 1
			o.qwait = o.L + 1
			o.etamax = etamaxFail
			o.nor++
		}
		o.nscon = 0
	}
}

// detectGrowth reports whether the last five scaled-error samples show
// sustained near-unity-or-greater growth: all four successive ratios must
// exceed 0.9 — the signature of approaching the method's stability boundary.
func (o *Solver) detectGrowth() bool {
	const growThreshold = 0.9
	count := 0
	for r := 0; r < 4; r++ {
		prev := o.ssdat[r+1][1]
		cur := o.ssdat[r][1]
		if prev == 0 {
			continue
		}
		ratio := cur / prev
		if ratio > growThreshold && !math.IsInf(ratio, 0) && !math.IsNaN(ratio) {
			count++
		}
	}
	return count >= 4
}
