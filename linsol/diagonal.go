// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linsol

import (
	"errors"
	"math"

	"github.com/sthibaul/sundials/fun"
	"github.com/sthibaul/sundials/la"
)

// DiagJacFn fills d with the diagonal of ∂f/∂y(t,y) — the only part of the
// Jacobian a Diagonal solver ever looks at.
type DiagJacFn func(t float64, y, fy la.Vector, d la.Vector) error

// Diagonal is the trivial linear solver for problems whose Jacobian is (or
// is well approximated by) a diagonal matrix: solving (I-gamma*J)x=b is one
// reciprocal multiply per component. This is the one solver in this package
// built on the standard library rather than gonum — a per-component
// reciprocal has no factorization to delegate, so a matrix library would add
// a dependency without doing any work for it.
type Diagonal struct {
	jacFn DiagJacFn
	d     la.Vector
	inv   la.Vector
	have  bool
}

func NewDiagonal(n int, jacFn DiagJacFn) *Diagonal {
	return &Diagonal{jacFn: jacFn, d: la.NewVector(n), inv: la.NewVector(n)}
}

func (s *Diagonal) Init() error { return nil }

func (s *Diagonal) Setup(convfail fun.ConvFail, gamma float64, yPred, fPred la.Vector, jcur *bool) (fun.LinFlag, error) {
	needJac := convfail == fun.FailBadJ || !s.have
	if needJac {
		if s.jacFn == nil {
			return fun.LinUnrecoverable, errors.New("diagonal solver: no Jacobian function installed")
		}
		if err := s.jacFn(0, yPred, fPred, s.d); err != nil {
			if fun.IsRecoverable(err) {
				return fun.LinRecoverable, nil
			}
			return fun.LinUnrecoverable, err
		}
		s.have = true
		*jcur = true
	} else {
		*jcur = false
	}

	for i := range s.d {
		p := 1 - gamma*s.d[i]
		if math.Abs(p) < 1e-14 {
			return fun.LinRecoverable, nil
		}
		s.inv[i] = 1 / p
	}
	return fun.LinOK, nil
}

func (s *Diagonal) Solve(x, b, w la.Vector, yCur, fCur la.Vector) (fun.LinFlag, error) {
	for i := range x {
		x[i] = s.inv[i] * b[i]
	}
	return fun.LinOK, nil
}

func (s *Diagonal) Free() error { return nil }
