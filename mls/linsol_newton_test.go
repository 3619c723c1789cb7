// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import (
	"math"
	"testing"

	"github.com/sthibaul/sundials/chk"
	"github.com/sthibaul/sundials/la"
	"github.com/sthibaul/sundials/linsol"
)

// TestBDFNewtonDenseVanDerPol runs BDF/Newton wired to a real fun.LinearSolver
// (linsol.Dense) against a genuinely nonlinear, y-dependent Jacobian (a
// reduced, non-stiff Van der Pol oscillator) and checks that the integration
// completes within a modest step budget. This is the §8 scenario-3 shape,
// exercised as a test: it
// would have caught a Jacobian frozen after its first evaluation, since a
// state-dependent Jacobian held fixed for the whole run eventually drives
// Newton to repeated stale-setup failures long before t=tEnd.
func TestBDFNewtonDenseVanDerPol(t *testing.T) {
	chk.PrintTitle("BDFNewtonDenseVanDerPol")
	const mu = 1.0

	rhs := func(t float64, y, ydot la.Vector) error {
		ydot[0] = y[1]
		ydot[1] = mu * ((1-y[0]*y[0])*y[1] - y[0])
		return nil
	}
	jac := func(t float64, y, fy la.Vector, j *la.Matrix) error {
		j.Set(0, 0, 0)
		j.Set(0, 1, 1)
		j.Set(1, 0, mu*(-2*y[0]*y[1]-1))
		j.Set(1, 1, mu*(1-y[0]*y[0]))
		return nil
	}

	s := Create(BDF, Newton)
	ls := linsol.NewDense(2, jac)
	if err := s.SetLinearSolver(ls); err != nil {
		t.Fatalf("SetLinearSolver: %v", err)
	}
	y0 := la.NewVectorFrom([]float64{2, 0})
	if err := s.Init(rhs, 0, y0, 1e-6, la.NewVectorFrom([]float64{1e-8, 1e-8}), SS); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Free()

	y := la.NewVector(2)
	const tEnd = 4.0
	tret, status, err := s.Step(tEnd, y, Normal)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	chk.Int(t, "status", int(status), int(Success))
	chk.Float64(t, "tret", 1e-12, tret, tEnd)

	st := s.Stats()
	if st.Nsteps >= 1500 {
		t.Errorf("nst=%d, expected < 1500", st.Nsteps)
	}
	if math.IsNaN(y[0]) || math.IsNaN(y[1]) {
		t.Errorf("solution blew up: y=%v", []float64(y))
	}
}
