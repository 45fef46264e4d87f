// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gain provides divisive contrast gain-control normalization as used by
the LGN sheets of the GCAL model.

Each unit's rectified center-surround response is divided by the
gaussian-pooled mean response of its local neighborhood (the suppressive
field), plus a constant offset.  This renders the LGN output largely
invariant to input contrast, so that the cortical sheet sees a stable input
distribution across widely varying stimulus strengths.
*/
package gain

import (
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// Params parameterizes divisive contrast gain-control normalization based on
// the gaussian-pooled response of a local suppressive field:
// out = Gain * r / (OffsetK + pool(r))
type Params struct {
	On      bool    `desc:"enable contrast gain control -- if off, the rectified response passes through unchanged"`
	Gain    float32 `viewif:"On" min:"0" def:"1" desc:"overall output gain multiplier applied after normalization"`
	OffsetK float32 `viewif:"On" min:"0" def:"0.11" desc:"constant offset in the divisive denominator -- sets the semi-saturation contrast and keeps the division well-defined at zero pooled response"`
	Sigma   float32 `viewif:"On" min:"0" def:"2.5" desc:"sigma of the gaussian pooling kernel for the suppressive field, in grid units"`
	Radius  int     `viewif:"On" min:"1" def:"6" desc:"radius of the gaussian pooling kernel, in grid units"`
}

func (gc *Params) Update() {
}

func (gc *Params) Defaults() {
	gc.On = true
	gc.Gain = 1
	gc.OffsetK = 0.11
	gc.Sigma = 2.5
	gc.Radius = 6
	gc.Update()
}

// Fn computes the gain-controlled output for a unit with rectified response r
// and pooled suppressive-field response s.
func (gc *Params) Fn(r, s float32) float32 {
	if !gc.On {
		return r
	}
	return gc.Gain * r / (gc.OffsetK + s)
}

// Kernel returns the 2D gaussian pooling kernel for given radius and sigma
// (in grid units), normalized so the entries sum to 1.  Kernel size is
// (2*radius+1) square.
func Kernel(radius int, sigma float32) *etensor.Float32 {
	sz := 2*radius + 1
	kt := etensor.NewFloat32([]int{sz, sz}, nil, []string{"Y", "X"})
	sig2 := 2 * sigma * sigma
	sum := float32(0)
	for y := -radius; y <= radius; y++ {
		for x := -radius; x <= radius; x++ {
			d2 := float32(x*x + y*y)
			v := mat32.Exp(-d2 / sig2)
			kt.Set([]int{y + radius, x + radius}, v)
			sum += v
		}
	}
	if sum > 0 {
		nrm := 1 / sum
		for i := range kt.Values {
			kt.Values[i] *= nrm
		}
	}
	return kt
}

// Pool computes the pooled suppressive-field response for every unit of the
// 2D acts grid, writing into pool (resized to match acts).  kernel must be a
// square normalized kernel as produced by Kernel.  Edges renormalize over the
// in-bounds portion of the kernel, so units near the border are not
// artificially under-suppressed.
func Pool(pool, acts, kernel *etensor.Float32) {
	ysz := acts.Dim(0)
	xsz := acts.Dim(1)
	pool.SetShape([]int{ysz, xsz}, nil, []string{"Y", "X"})
	ksz := kernel.Dim(0)
	radius := (ksz - 1) / 2
	for y := 0; y < ysz; y++ {
		for x := 0; x < xsz; x++ {
			sum := float32(0)
			ksum := float32(0)
			for ky := -radius; ky <= radius; ky++ {
				ay := y + ky
				if ay < 0 || ay >= ysz {
					continue
				}
				for kx := -radius; kx <= radius; kx++ {
					ax := x + kx
					if ax < 0 || ax >= xsz {
						continue
					}
					kv := kernel.Value([]int{ky + radius, kx + radius})
					sum += kv * acts.Value([]int{ay, ax})
					ksum += kv
				}
			}
			if ksum > 0 {
				sum /= ksum
			}
			pool.Set([]int{y, x}, sum)
		}
	}
}
