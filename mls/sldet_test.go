// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import (
	"testing"

	"github.com/sthibaul/sundials/chk"
)

// TestStabilityLimitDetectNoActionBeforeWindowFills checks that no order
// reduction is attempted until nscon reaches the 10-step gate (§4.5 SLDET).
func TestStabilityLimitDetectNoActionBeforeWindowFills(t *testing.T) {
	chk.PrintTitle("StabilityLimitDetectNoActionBeforeWindowFills")
	s := Create(BDF, Functional)
	s.q = 3
	s.cf.tq[5] = 1
	s.acnrm = 1
	for i := 0; i < 9; i++ {
		s.stabilityLimitDetect(0.5)
	}
	chk.Int(t, "q unchanged before window fills", s.q, 3)
	chk.Int(t, "nscon tracks calls", s.nscon, 9)
}

// TestStabilityLimitDetectReducesOrderOnSustainedGrowth feeds a growing
// sequence of scaled-error samples and checks that, once the window fills,
// persistent near-unity-or-greater growth forces an order reduction.
func TestStabilityLimitDetectReducesOrderOnSustainedGrowth(t *testing.T) {
	chk.PrintTitle("StabilityLimitDetectReducesOrderOnSustainedGrowth")
	s := Create(BDF, Functional)
	s.q = 4
	s.L = 5
	s.qwait = 0
	s.etamax = etamax

	sample := 1.0
	for i := 0; i < 10; i++ {
		s.cf.tq[5] = 1
		s.acnrm = sample
		s.stabilityLimitDetect(0.5)
		sample *= 1.5
	}
	if s.q >= 4 {
		t.Errorf("expected an order reduction under sustained growth, q=%d", s.q)
	}
	chk.Int(t, "nscon reset after reduction", s.nscon, 0)
	if s.nor == 0 {
		t.Errorf("expected nor to be incremented")
	}
}
