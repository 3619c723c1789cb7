// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package la is the vector/matrix façade consumed by every other package in
// this module: the "V" capability set of the integrator (dimension-preserving
// linear combinations, dot/WRMS norms, element-wise inverse, constant fill).
// It follows the gosl convention of a thin named-slice type (la.Vector)
// rather than an opaque struct. Dot, Axpy and Scale delegate to gonum's
// floats package; the WRMS norm and the element-wise kernels are plain loops.
package la

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is a dense real vector, following gosl's la.Vector convention
// ([]float64 with named methods) rather than an opaque struct.
type Vector []float64

// NewVector allocates a zeroed vector of length n.
func NewVector(n int) Vector {
	return make(Vector, n)
}

// NewVectorFrom copies s into a new Vector.
func NewVectorFrom(s []float64) Vector {
	v := make(Vector, len(s))
	copy(v, s)
	return v
}

// Fill sets every component of o to c ("const_fill" in §4.1).
func (o Vector) Fill(c float64) {
	for i := range o {
		o[i] = c
	}
}

// CopyInto copies o into dst, which must have the same length.
func (o Vector) CopyInto(dst Vector) {
	copy(dst, o)
}

// Clone returns a new independent copy of o.
func (o Vector) Clone() Vector {
	return NewVectorFrom(o)
}

// Axpy computes o += a*x (the BLAS-1 "axpy" primitive).
func (o Vector) Axpy(a float64, x Vector) {
	floats.AddScaled(o, a, x)
}

// Scale computes o *= a in place.
func (o Vector) Scale(a float64) {
	floats.Scale(a, o)
}

// LinearSum computes o = a*x + b*y ("linear_sum" in §4.1).
func LinearSum(o Vector, a float64, x Vector, b float64, y Vector) {
	for i := range o {
		o[i] = a*x[i] + b*y[i]
	}
}

// Dot returns the inner product <o,w>.
func (o Vector) Dot(w Vector) float64 {
	return floats.Dot(o, w)
}

// WrmsNorm returns the weighted root-mean-square norm
// sqrt((1/N) * sum((v_i*w_i)^2)) — the glossary's "WRMS norm".
func WrmsNorm(v, w Vector) float64 {
	n := len(v)
	if n == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		t := v[i] * w[i]
		sum += t * t
	}
	return math.Sqrt(sum / float64(n))
}

// Inv computes o[i] = 1/x[i] ("inv" in §4.1).
func (o Vector) Inv(x Vector) {
	for i := range o {
		o[i] = 1.0 / x[i]
	}
}

// Abs computes o[i] = |x[i]| ("abs" in §4.1).
func (o Vector) Abs(x Vector) {
	for i := range o {
		o[i] = math.Abs(x[i])
	}
}

// Prod computes o[i] = x[i]*y[i] ("prod" in §4.1).
func (o Vector) Prod(x, y Vector) {
	for i := range o {
		o[i] = x[i] * y[i]
	}
}

// MaxAbs returns the largest |component|.
func (o Vector) MaxAbs() float64 {
	m := 0.0
	for _, v := range o {
		if a := math.Abs(v); a > m {
			m = a
		}
	}
	return m
}

// AllPositive reports whether every component is strictly positive — used to
// validate an error-weight vector (§3 invariant "ewt[i] > 0").
func (o Vector) AllPositive() bool {
	for _, v := range o {
		if v <= 0 {
			return false
		}
	}
	return true
}
