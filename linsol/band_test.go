// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsol

import (
	"testing"

	"github.com/sthibaul/sundials/chk"
	"github.com/sthibaul/sundials/fun"
	"github.com/sthibaul/sundials/la"
)

func TestBandSolveTridiagonal(t *testing.T) {
	chk.PrintTitle("BandSolveTridiagonal")
	// J = tridiag(1, -2, 1) (a standard discrete-Laplacian stencil), n=3.
	jac := func(t float64, y, fy la.Vector, j *la.Matrix) error {
		n, _ := j.Dims()
		for i := 0; i < n; i++ {
			j.Set(i, i, -2)
			if i > 0 {
				j.Set(i, i-1, 1)
			}
			if i < n-1 {
				j.Set(i, i+1, 1)
			}
		}
		return nil
	}
	s := NewBand(3, 1, 1, jac)
	var jcur bool
	gamma := 0.1
	if _, err := s.Setup(fun.NoFailures, gamma, la.NewVector(3), la.NewVector(3), &jcur); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	chk.Bool(t, "jcur on first setup", jcur, true)

	x := la.NewVector(3)
	b := la.NewVectorFrom([]float64{1, 1, 1})
	if _, err := s.Solve(x, b, nil, nil, nil); err != nil {
		t.Fatalf("Solve: %v", err)
	}
	// sanity: M=I-gamma*J is diagonally dominant and symmetric, so the
	// solution should be finite and symmetric around the middle index.
	chk.Float64(t, "symmetric solution", 1e-9, x[0], x[2])
}
