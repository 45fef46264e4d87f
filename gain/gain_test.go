// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gain

import (
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-6)

func TestFn(t *testing.T) {
	gc := Params{}
	gc.Defaults()

	// defaults: Gain = 1, OffsetK = 0.11
	tstr := []float32{0, 0.1, 0.5, 1}
	tsts := []float32{0.2, 0.1, 0.5, 0}
	cory := []float32{0, 0.47619048, 0.8196721, 9.090909}

	for i := range tstr {
		y := gc.Fn(tstr[i], tsts[i])
		dif := mat32.Abs(y - cory[i])
		if dif > difTol {
			t.Errorf("Fn err: idx: %v, r: %v, s: %v, y: %v, cor y: %v, dif: %v\n", i, tstr[i], tsts[i], y, cory[i], dif)
		}
	}

	gc.On = false
	if y := gc.Fn(0.5, 0.5); y != 0.5 {
		t.Errorf("Fn off err: expected passthrough 0.5, got %v\n", y)
	}
}

func TestKernel(t *testing.T) {
	kt := Kernel(3, 1.5)
	sz := kt.Dim(0)
	if sz != 7 || kt.Dim(1) != 7 {
		t.Errorf("Kernel size err: expected 7x7, got %vx%v\n", sz, kt.Dim(1))
	}
	sum := float32(0)
	for _, v := range kt.Values {
		if v < 0 {
			t.Errorf("Kernel negative entry: %v\n", v)
		}
		sum += v
	}
	if mat32.Abs(sum-1) > difTol {
		t.Errorf("Kernel sum err: expected 1, got %v\n", sum)
	}
	ctr := kt.Value([]int{3, 3})
	for _, v := range kt.Values {
		if v > ctr {
			t.Errorf("Kernel peak err: entry %v > center %v\n", v, ctr)
		}
	}
	// symmetry across both axes
	if mat32.Abs(kt.Value([]int{3, 0})-kt.Value([]int{3, 6})) > difTol {
		t.Errorf("Kernel not symmetric in x\n")
	}
	if mat32.Abs(kt.Value([]int{0, 3})-kt.Value([]int{6, 3})) > difTol {
		t.Errorf("Kernel not symmetric in y\n")
	}
}

func TestPool(t *testing.T) {
	kt := Kernel(2, 1)
	acts := etensor.NewFloat32([]int{6, 6}, nil, []string{"Y", "X"})
	pool := &etensor.Float32{}

	// uniform input pools to the same uniform value everywhere, including
	// edges, due to in-bounds kernel renormalization
	for i := range acts.Values {
		acts.Values[i] = 0.5
	}
	Pool(pool, acts, kt)
	for i, v := range pool.Values {
		if mat32.Abs(v-0.5) > difTol {
			t.Errorf("Pool uniform err: idx: %v, v: %v, expected 0.5\n", i, v)
		}
	}

	// single active unit: pooled response peaks at that unit and decays away
	acts.SetZeros()
	acts.Set([]int{3, 3}, 1)
	Pool(pool, acts, kt)
	pk := pool.Value([]int{3, 3})
	if pk <= 0 {
		t.Errorf("Pool peak err: expected positive at source, got %v\n", pk)
	}
	if nb := pool.Value([]int{3, 4}); nb >= pk {
		t.Errorf("Pool decay err: neighbor %v >= peak %v\n", nb, pk)
	}
	if far := pool.Value([]int{0, 0}); far != 0 {
		t.Errorf("Pool range err: expected 0 outside radius, got %v\n", far)
	}
}
