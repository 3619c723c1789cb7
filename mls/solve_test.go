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

func TestOscillatorAdamsFunctional(t *testing.T) {
	chk.PrintTitle("OscillatorAdamsFunctional")
	rhs := func(t float64, y, ydot la.Vector) error {
		ydot[0] = y[1]
		ydot[1] = -y[0]
		return nil
	}
	s := Create(Adams, Functional)
	if err := s.Init(rhs, 0, la.NewVectorFrom([]float64{1, 0}), 1e-6, la.NewVectorFrom([]float64{1e-8}), SS); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Free()

	y := la.NewVector(2)
	tout := 2 * math.Pi
	if _, status, err := s.Step(tout, y, Normal); err != nil || status != Success {
		t.Fatalf("Step: status=%v err=%v", status, err)
	}
	errInf := math.Max(math.Abs(y[0]-1), math.Abs(y[1]))
	if errInf > 1e-4 {
		t.Errorf("||y-(1,0)||_inf = %v, expected <= 1e-4", errInf)
	}
}

func TestOrderChangeProbeReachesHighOrder(t *testing.T) {
	chk.PrintTitle("OrderChangeProbeReachesHighOrder")
	rhs := func(t float64, y, ydot la.Vector) error {
		ydot[0] = math.Cos(t)
		return nil
	}
	s := Create(Adams, Functional)
	if err := s.Init(rhs, 0, la.NewVectorFrom([]float64{0}), 1e-6, la.NewVectorFrom([]float64{1e-9}), SS); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Free()

	y := la.NewVector(1)
	reached := false
	for i := 0; i < 30; i++ {
		if _, status, err := s.Step(math.Inf(1), y, OneStep); err != nil || status != Success {
			t.Fatalf("Step %d: status=%v err=%v", i, status, err)
		}
		if s.q >= 5 {
			reached = true
			break
		}
	}
	chk.Bool(t, "order reaches 5 within 30 steps", reached, true)
}

func TestTstopClampingIsBitExact(t *testing.T) {
	chk.PrintTitle("TstopClampingIsBitExact")
	s := Create(BDF, Functional)
	if err := s.Init(decayRhs, 0, la.NewVectorFrom([]float64{1}), 1e-8, la.NewVectorFrom([]float64{1e-10}), SS); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Free()
	if err := s.SetStopTime(1.0); err != nil {
		t.Fatalf("SetStopTime: %v", err)
	}

	y := la.NewVector(1)
	var tret float64
	var status Status
	var err error
	for i := 0; i < 10000; i++ {
		tret, status, err = s.Step(2.0, y, NormalTstop)
		if err != nil {
			t.Fatalf("Step: %v", err)
		}
		if status == TstopReturn {
			break
		}
		chk.Int(t, "status", int(status), int(Success))
	}
	chk.Int(t, "reached TstopReturn", int(status), int(TstopReturn))
	if tret != 1.0 {
		t.Errorf("tret=%.17g, expected exactly 1.0", tret)
	}
}

func TestConvergenceFailureRetrySucceedsOnThirdAttempt(t *testing.T) {
	chk.PrintTitle("ConvergenceFailureRetrySucceedsOnThirdAttempt")
	armed := false
	attempts := 0
	rhs := func(t float64, y, ydot la.Vector) error {
		ydot[0] = -y[0]
		if armed && t == 0 && attempts < 2 {
			attempts++
			return &fun.RecoverableError{Msg: "injected corrector failure"}
		}
		return nil
	}
	s := Create(BDF, Functional)
	if err := s.Init(rhs, 0, la.NewVectorFrom([]float64{1}), 1e-6, la.NewVectorFrom([]float64{1e-8}), SS); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer s.Free()

	h0 := s.h
	armed = true
	y := la.NewVector(1)
	_, status, err := s.Step(math.Inf(1), y, OneStep)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	chk.Int(t, "status", int(status), int(Success))
	chk.Int(t, "ncfn incremented by 2", s.ncfn, 2)
	if status == ConvFailure {
		t.Errorf("CONV_FAILURE should not be returned")
	}
	expectH := h0 * etacf * etacf
	chk.Float64(t, "h shrunk by ~etacf per failure", 1e-9, s.hu, expectH)
}
