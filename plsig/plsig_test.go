// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plsig

import (
	"testing"

	"github.com/goki/mat32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-6)

func TestFn(t *testing.T) {
	sig := Params{}
	sig.Defaults()

	// defaults: Thr = 0.1, Sat = 0.65, slope = 1 / 0.55
	tstx := []float32{-0.5, 0, 0.05, 0.1, 0.2, 0.375, 0.5, 0.65, 0.8, 2}
	cory := []float32{0, 0, 0, 0, 0.18181819, 0.5, 0.72727275, 1, 1, 1}
	ny := make([]float32, len(tstx))

	for i := range tstx {
		ny[i] = sig.Fn(tstx[i])
		dif := mat32.Abs(ny[i] - cory[i])
		if dif > difTol { // allow for small numerical diffs
			t.Errorf("Fn err: idx: %v, x: %v, y: %v, cor y: %v, dif: %v\n", i, tstx[i], ny[i], cory[i], dif)
		}
		if ny[i] < 0 || ny[i] > 1 {
			t.Errorf("Fn range err: idx: %v, x: %v, y: %v out of [0,1]\n", i, tstx[i], ny[i])
		}
	}
}

func TestFnThr(t *testing.T) {
	sig := Params{}
	sig.Defaults()

	// external threshold shifts the ramp but keeps the slope
	thr := float32(0.3)
	tstx := []float32{0.2, 0.3, 0.4, 0.575, 0.85, 1}
	cory := []float32{0, 0, 0.18181819, 0.5, 1, 1}

	for i := range tstx {
		y := sig.FnThr(tstx[i], thr)
		dif := mat32.Abs(y - cory[i])
		if dif > difTol {
			t.Errorf("FnThr err: idx: %v, x: %v, y: %v, cor y: %v, dif: %v\n", i, tstx[i], y, cory[i], dif)
		}
	}
}
