// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import "gonum.org/v1/gonum/mat"

// Matrix is a dense real matrix, wrapping gonum's mat.Dense the way gosl's
// own la.Matrix wraps its row-major backing array — callers use Get/Set,
// never the backing store directly.
type Matrix struct {
	d *mat.Dense
}

// NewMatrix allocates a zeroed r-by-c matrix.
func NewMatrix(r, c int) *Matrix {
	return &Matrix{d: mat.NewDense(r, c, nil)}
}

// Dims returns (rows, cols).
func (o *Matrix) Dims() (int, int) {
	return o.d.Dims()
}

// Get returns M[i,j].
func (o *Matrix) Get(i, j int) float64 {
	return o.d.At(i, j)
}

// Set assigns M[i,j] = v.
func (o *Matrix) Set(i, j int, v float64) {
	o.d.Set(i, j, v)
}

// Add performs M[i,j] += v.
func (o *Matrix) Add(i, j int, v float64) {
	o.d.Set(i, j, o.d.At(i, j)+v)
}

// SetDiagIdentity sets M = I (used to build I - γJ incrementally).
func (o *Matrix) SetDiagIdentity() {
	r, c := o.d.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if i == j {
				o.d.Set(i, j, 1)
			} else {
				o.d.Set(i, j, 0)
			}
		}
	}
}

// Raw exposes the underlying gonum matrix for adapters in package linsol.
func (o *Matrix) Raw() *mat.Dense {
	return o.d
}
