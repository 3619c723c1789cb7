// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import (
	"math"
	"testing"

	"github.com/sthibaul/sundials/chk"
	"github.com/sthibaul/sundials/fun"
	"github.com/sthibaul/sundials/la"
)

func decayRhs(t float64, y, ydot la.Vector) error {
	ydot[0] = -y[0]
	return nil
}

func TestInitRejectsBadInputs(t *testing.T) {
	chk.PrintTitle("InitRejectsBadInputs")
	s := Create(BDF, Functional)
	if err := s.Init(nil, 0, la.NewVector(1), 1e-6, la.NewVectorFrom([]float64{1e-8}), SS); err == nil {
		t.Errorf("expected error for nil rhs")
	}
	s2 := Create(BDF, Functional)
	if err := s2.Init(decayRhs, 0, la.NewVector(0), 1e-6, la.NewVectorFrom([]float64{1e-8}), SS); err == nil {
		t.Errorf("expected error for zero-length y0")
	}
	s3 := Create(BDF, Functional)
	if err := s3.Init(decayRhs, 0, la.NewVectorFrom([]float64{1}), -1, la.NewVectorFrom([]float64{1e-8}), SS); err == nil {
		t.Errorf("expected error for negative rtol")
	}
	s4 := Create(BDF, Functional)
	if err := s4.Init(decayRhs, 0, la.NewVectorFrom([]float64{1}), 1e-6, la.NewVectorFrom([]float64{0}), SS); err == nil {
		t.Errorf("expected error for non-positive atol")
	}
}

func TestExpDecayBDFFunctional(t *testing.T) {
	chk.PrintTitle("ExpDecayBDFFunctional")
	s := Create(BDF, Functional)
	if err := s.Init(decayRhs, 0, la.NewVectorFrom([]float64{1}), 1e-8, la.NewVectorFrom([]float64{1e-10}), SS); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Free()

	y := la.NewVector(1)
	tret, status, err := s.Step(10, y, Normal)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	chk.Int(t, "status", int(status), int(Success))
	chk.Float64(t, "tret", 1e-12, tret, 10)

	exact := math.Exp(-10)
	diff := chk.PrintAnaNum("y(10)", 1e-6, exact, y[0], true)
	if diff > 1e-6 {
		t.Errorf("|y(10)-e^-10|=%v exceeds 1e-6", diff)
	}
	st := s.Stats()
	if st.Nsteps < 10 {
		t.Errorf("nst=%d, expected >= 10", st.Nsteps)
	}
	if st.Nfevals >= 200 {
		t.Errorf("nfe=%d, expected < 200", st.Nfevals)
	}
}

func TestGetDkyAtTnReturnsZ0(t *testing.T) {
	chk.PrintTitle("GetDkyAtTnReturnsZ0")
	s := Create(BDF, Functional)
	if err := s.Init(decayRhs, 0, la.NewVectorFrom([]float64{1}), 1e-8, la.NewVectorFrom([]float64{1e-10}), SS); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Free()

	y := la.NewVector(1)
	if _, status, err := s.Step(1.0, y, Normal); err != nil || status != Success {
		t.Fatalf("Step: status=%v err=%v", status, err)
	}

	dky := la.NewVector(1)
	status, err := s.GetDky(s.tn, 0, dky)
	if status != DkyOK || err != nil {
		t.Fatalf("GetDky: status=%v err=%v", status, err)
	}
	chk.Float64(t, "dky==Z[0]", 1e-15, dky[0], s.hist.col(0)[0])
}

func TestGetDkyRejectsBadKAndBadT(t *testing.T) {
	chk.PrintTitle("GetDkyRejectsBadKAndBadT")
	s := Create(BDF, Functional)
	if err := s.Init(decayRhs, 0, la.NewVectorFrom([]float64{1}), 1e-8, la.NewVectorFrom([]float64{1e-10}), SS); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Free()

	y := la.NewVector(1)
	if _, status, err := s.Step(1.0, y, Normal); err != nil || status != Success {
		t.Fatalf("Step: status=%v err=%v", status, err)
	}

	dky := la.NewVector(1)
	status, _ := s.GetDky(s.tn, s.qu+1, dky)
	chk.Int(t, "BAD_K", int(status), int(DkyBadK))

	status, _ = s.GetDky(s.tn-10*s.hu, 0, dky)
	chk.Int(t, "BAD_T", int(status), int(DkyBadT))
}

func TestReinitIdempotence(t *testing.T) {
	chk.PrintTitle("ReinitIdempotence")
	s := Create(BDF, Functional)
	y0 := la.NewVectorFrom([]float64{1})
	if err := s.Init(decayRhs, 0, y0, 1e-8, la.NewVectorFrom([]float64{1e-10}), SS); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Free()

	y := la.NewVector(1)
	if _, _, err := s.Step(1.0, y, Normal); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if err := s.Reinit(decayRhs, 0, y0, 1e-8, la.NewVectorFrom([]float64{1e-10}), SS); err != nil {
		t.Fatalf("Reinit: %v", err)
	}
	out := la.NewVector(1)
	tret, status, err := s.Step(0, out, Normal)
	if err != nil {
		t.Fatalf("Step after Reinit: %v", err)
	}
	chk.Int(t, "status", int(status), int(Success))
	chk.Float64(t, "tret==t0", 1e-15, tret, 0)
	chk.Float64(t, "y==y0", 1e-15, out[0], y0[0])
}

func TestResetIterTypeFreesSolverOnlyOnFunctionalSwitch(t *testing.T) {
	chk.PrintTitle("ResetIterTypeFreesSolverOnlyOnFunctionalSwitch")
	s := Create(BDF, Newton)
	y0 := la.NewVectorFrom([]float64{1})
	if err := s.Init(decayRhs, 0, y0, 1e-8, la.NewVectorFrom([]float64{1e-10}), SS); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Free()

	freed := false
	ls := &fakeLinearSolver{onFree: func() { freed = true }}
	if err := s.SetLinearSolver(ls); err != nil {
		t.Fatalf("SetLinearSolver: %v", err)
	}

	if err := s.ResetIterType(Newton); err != nil {
		t.Fatalf("ResetIterType(Newton): %v", err)
	}
	chk.Bool(t, "solver not freed on Newton->Newton", freed, false)

	if err := s.ResetIterType(Functional); err != nil {
		t.Fatalf("ResetIterType(Functional): %v", err)
	}
	chk.Bool(t, "solver freed on Newton->Functional", freed, true)
}

type fakeLinearSolver struct {
	onFree func()
}

func (f *fakeLinearSolver) Init() error { return nil }
func (f *fakeLinearSolver) Setup(convfail fun.ConvFail, gamma float64, yPred, fPred la.Vector, jcur *bool) (fun.LinFlag, error) {
	*jcur = true
	return fun.LinOK, nil
}
func (f *fakeLinearSolver) Solve(x, b, w la.Vector, yCur, fCur la.Vector) (fun.LinFlag, error) {
	x[0] = b[0]
	return fun.LinOK, nil
}
func (f *fakeLinearSolver) Free() error {
	if f.onFree != nil {
		f.onFree()
	}
	return nil
}
