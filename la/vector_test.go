// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"math"
	"testing"

	"github.com/sthibaul/sundials/chk"
)

func TestWrmsNorm(t *testing.T) {
	chk.PrintTitle("WrmsNorm")
	v := NewVectorFrom([]float64{3, 4})
	w := NewVectorFrom([]float64{1, 1})
	// sqrt((3^2+4^2)/2) = sqrt(12.5)
	chk.Float64(t, "wrms", 1e-12, WrmsNorm(v, w), math.Sqrt(12.5))
}

func TestAxpyAndScale(t *testing.T) {
	chk.PrintTitle("AxpyAndScale")
	o := NewVectorFrom([]float64{1, 2, 3})
	x := NewVectorFrom([]float64{1, 1, 1})
	o.Axpy(2, x)
	chk.Float64(t, "o[0]", 1e-15, o[0], 3)
	chk.Float64(t, "o[2]", 1e-15, o[2], 5)

	o.Scale(2)
	chk.Float64(t, "o[0] scaled", 1e-15, o[0], 6)
}

func TestLinearSum(t *testing.T) {
	chk.PrintTitle("LinearSum")
	x := NewVectorFrom([]float64{1, 2})
	y := NewVectorFrom([]float64{10, 20})
	o := NewVector(2)
	LinearSum(o, 2, x, 0.5, y)
	chk.Float64(t, "o[0]", 1e-15, o[0], 7)
	chk.Float64(t, "o[1]", 1e-15, o[1], 14)
}

func TestAllPositive(t *testing.T) {
	chk.PrintTitle("AllPositive")
	chk.Bool(t, "all positive", NewVectorFrom([]float64{1, 2, 3}).AllPositive(), true)
	chk.Bool(t, "contains zero", NewVectorFrom([]float64{1, 0, 3}).AllPositive(), false)
	chk.Bool(t, "contains negative", NewVectorFrom([]float64{1, -2, 3}).AllPositive(), false)
}
