// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mls

import "github.com/sthibaul/sundials/la"

// nordsieck holds the scaled-derivative history Z (§4.2, §3 invariants):
// Z[0] is the current solution, Z[1]=h·y', and in general
// Z[j] ≈ (h^j/j!)·y^(j)(tn). Fixed-capacity array sized to lMax, per §9
// "fixed-capacity arrays ... prefer a value array of exactly the
// compile-time size", converted to 0-based indexing throughout.
type nordsieck struct {
	n int // problem dimension N
	q int // current order (view into the owning solver's q)
	z [lMax + 1]la.Vector
}

func newNordsieck(n int) *nordsieck {
	h := &nordsieck{n: n}
	for j := range h.z {
		h.z[j] = la.NewVector(n)
	}
	return h
}

// resetTo sets Z[0]=y0, Z[1]=h*f(t0,y0), and zeroes all higher columns
// (§4.2 reset_to). Used by Init/ReInit.
func (h *nordsieck) resetTo(y0, hy0dot la.Vector) {
	y0.CopyInto(h.z[0])
	hy0dot.CopyInto(h.z[1])
	for j := 2; j < len(h.z); j++ {
		h.z[j].Fill(0)
	}
}

// predict applies the explicit Taylor-expansion predictor in place: for
// k=1..q, for j=q..k: Z[j-1] += Z[j] (§4.2 "predict").
func (h *nordsieck) predict(q int) {
	for k := 1; k <= q; k++ {
		for j := q; j >= k; j-- {
			h.z[j-1].Axpy(1, h.z[j])
		}
	}
}

// unpredict undoes predict exactly (the inverse Pascal update), used to
// restore Z after a rejected step (§4.5 step 7 "On reject: restore Z").
func (h *nordsieck) unpredict(q int) {
	for k := 1; k <= q; k++ {
		for j := q; j >= k; j-- {
			h.z[j-1].Axpy(-1, h.z[j])
		}
	}
}

// correct applies Z[j] += l[j]*e for j=0..q (§4.2 "correct"), where e is the
// corrector's accumulated correction (acor).
func (h *nordsieck) correct(q int, e la.Vector, l []float64) {
	for j := 0; j <= q; j++ {
		h.z[j].Axpy(l[j], e)
	}
}

// rescale multiplies Z[j] by eta^j for j=0..q (§4.2 "rescale").
func (h *nordsieck) rescale(q int, eta float64) {
	factor := eta
	for j := 1; j <= q; j++ {
		h.z[j].Scale(factor)
		factor *= eta
	}
}

// col returns column j (read-only view, e.g. for dense output).
func (h *nordsieck) col(j int) la.Vector {
	return h.z[j]
}
