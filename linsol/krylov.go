// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsol

import (
	"github.com/pkg/errors"
	"gonum.org/v1/exp/linsolve"
	"gonum.org/v1/gonum/mat"

	"github.com/sthibaul/sundials/fun"
	"github.com/sthibaul/sundials/la"
)

// JacTimesFn computes jv = J(t,y)*v without assembling J, the matrix-free
// contract Krylov solvers need (§4.7 "pluggable linear solver" — large,
// sparse, or Jacobian-free problems).
type JacTimesFn func(v, jv la.Vector, t float64, y, fy la.Vector) error

// Krylov is an iterative (I-gamma*J)x=b solver using GMRES from
// gonum.org/v1/exp/linsolve, grounded on soypat-godesim's algorithms.go,
// which wires the same package's GMRES method into a Newton step the same
// way. Unlike Dense/Band, Setup does no factorization — the operator is
// applied matrix-free at Solve time via jacTimes.
type Krylov struct {
	n        int
	jacTimes JacTimesFn
	maxIters int

	gamma  float64
	yc, fc la.Vector
}

// NewKrylov constructs a GMRES-based solver for an n-dimensional problem.
// maxIters <= 0 selects gonum's default iteration cap.
func NewKrylov(n int, jacTimes JacTimesFn, maxIters int) *Krylov {
	return &Krylov{n: n, jacTimes: jacTimes, maxIters: maxIters}
}

func (s *Krylov) Init() error { return nil }

// Setup has nothing to factor for a matrix-free solver; it only snapshots
// gamma and the predicted state the operator needs at Solve time, and always
// reports jcur=false since no Jacobian matrix is ever materialized.
func (s *Krylov) Setup(convfail fun.ConvFail, gamma float64, yPred, fPred la.Vector, jcur *bool) (fun.LinFlag, error) {
	if s.jacTimes == nil {
		return fun.LinUnrecoverable, errors.New("krylov solver: no JacTimesFn installed")
	}
	s.gamma = gamma
	s.yc = yPred.Clone()
	s.fc = fPred.Clone()
	*jcur = false
	return fun.LinOK, nil
}

// operator implements linsolve.MulVecToer for A = I - gamma*J, applying J
// via the user's matrix-free JacTimesFn.
type operator struct {
	n        int
	gamma    float64
	yc, fc   la.Vector
	jacTimes JacTimesFn
	err      error
}

func (op *operator) MulVecTo(dst *mat.VecDense, trans bool, x mat.Vector) {
	v := la.NewVector(op.n)
	for i := 0; i < op.n; i++ {
		v[i] = x.AtVec(i)
	}
	jv := la.NewVector(op.n)
	if err := op.jacTimes(v, jv, 0, op.yc, op.fc); err != nil {
		op.err = err
		return
	}
	for i := 0; i < op.n; i++ {
		dst.SetVec(i, v[i]-op.gamma*jv[i])
	}
}

// Solve runs GMRES for (I-gamma*J)x=b to a fixed relative residual
// tolerance of 1e-8; the error weights w are not used. A GMRES failure is
// reported as recoverable.
func (s *Krylov) Solve(x, b, w la.Vector, yCur, fCur la.Vector) (fun.LinFlag, error) {
	op := &operator{n: s.n, gamma: s.gamma, yc: s.yc, fc: s.fc, jacTimes: s.jacTimes}
	bv := mat.NewVecDense(len(b), append([]float64(nil), b...))

	settings := &linsolve.Settings{
		MaxIterations: s.maxIters,
		Tolerance:     1e-8,
	}
	result, err := linsolve.Iterative(op, bv, &linsolve.GMRES{}, settings)
	if op.err != nil {
		if fun.IsRecoverable(op.err) {
			return fun.LinRecoverable, nil
		}
		return fun.LinUnrecoverable, errors.Wrap(op.err, "krylov solver: Jv evaluation failed")
	}
	if err != nil {
		return fun.LinRecoverable, nil
	}
	for i := range x {
		x[i] = result.X.AtVec(i)
	}
	return fun.LinOK, nil
}

func (s *Krylov) Free() error { return nil }
