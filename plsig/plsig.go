// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package plsig provides the piecewise-linear sigmoid activation function used
by all GCAL model units.

The function is a half-rectified ramp with saturation: zero below the
threshold Thr, one above the saturation point Sat, and linear in between.
This is the standard firing-rate nonlinearity of the LISSOM / GCAL family of
models -- the hard threshold provides the sparsification that drives map
formation, while the linear middle regime keeps the settling dynamics simple
and analyzable.
*/
package plsig

// Params are the piecewise-linear sigmoid activation function parameters.
// Output is 0 for x <= Thr, 1 for x >= Sat, and linear in between, so the
// result is always in the [0,1] range.  The threshold is typically replaced
// per-unit by the homeostatic adaptive threshold -- see the Thr argument
// variants.
type Params struct {
	Thr float32 `def:"0.1" desc:"base activation threshold -- net input at or below this level produces zero output"`
	Sat float32 `def:"0.65" desc:"saturation point -- net input at or above this level produces maximal (1) output"`

	SlopeEff float32 `view:"-" json:"-" xml:"-" desc:"1 / (Sat - Thr) -- slope of the linear regime"`
}

func (pl *Params) Update() {
	pl.SlopeEff = 1 / (pl.Sat - pl.Thr)
}

func (pl *Params) Defaults() {
	pl.Thr = 0.1
	pl.Sat = 0.65
	pl.Update()
}

// Fn computes the piecewise-linear sigmoid of x using the base Thr threshold.
func (pl *Params) Fn(x float32) float32 {
	return pl.FnThr(x, pl.Thr)
}

// FnThr computes the piecewise-linear sigmoid of x using an external
// threshold thr in place of the base Thr -- used with per-unit adaptive
// thresholds.  The saturation point shifts with the threshold so the slope
// of the linear regime is preserved.
func (pl *Params) FnThr(x, thr float32) float32 {
	if x <= thr {
		return 0
	}
	y := (x - thr) * pl.SlopeEff
	if y >= 1 {
		return 1
	}
	return y
}
