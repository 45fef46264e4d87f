// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"errors"
	"testing"

	"github.com/emer/etable/etensor"
	"github.com/emer/gcal/patterns"
	"github.com/goki/mat32"
)

// MakeRunNet makes a small standard model and a gaussian blob environment
// ready for scheduling
func MakeRunNet(t *testing.T) (*Network, *patterns.GaussEnv) {
	nt := NewNetwork("TestGCAL")
	AddGCAL(nt, 8, 6)
	if err := nt.Build(); err != nil {
		t.Fatal(err)
	}
	ev := &patterns.GaussEnv{Nm: "TestGauss"}
	ev.Defaults()
	ev.SetSize(8)
	return nt, ev
}

func TestSchedulerStates(t *testing.T) {
	var cfg *ConfigError

	sc := NewScheduler(nil, nil)
	if err := sc.Init(1); !errors.As(err, &cfg) {
		t.Errorf("init with nil network: got %v, want ConfigError\n", err)
	}
	if err := sc.Step(); !errors.As(err, &cfg) {
		t.Errorf("step before init: got %v, want ConfigError\n", err)
	}

	nt := NewNetwork("Unbuilt")
	AddGCAL(nt, 8, 6)
	ev := &patterns.GaussEnv{Nm: "TestGauss"}
	ev.Defaults()
	ev.SetSize(8)
	sc = NewScheduler(nt, ev)
	if err := sc.Init(1); !errors.As(err, &cfg) {
		t.Errorf("init with unbuilt network: got %v, want ConfigError\n", err)
	}

	nt, ev = MakeRunNet(t)
	sc = NewScheduler(nt, ev)
	if err := sc.Init(1); err != nil {
		t.Fatal(err)
	}
	if sc.State != Built {
		t.Errorf("state after init = %v, want Built\n", sc.State)
	}
	if err := sc.Step(); err != nil {
		t.Fatal(err)
	}
	if sc.State != Stepped {
		t.Errorf("state after step = %v, want Stepped\n", sc.State)
	}
	if err := sc.Run(3); err != nil {
		t.Fatal(err)
	}
	if sc.State != Stepped {
		t.Errorf("state after run = %v, want Stepped\n", sc.State)
	}
	sc.Terminate()
	if sc.State != Terminated {
		t.Errorf("state after terminate = %v, want Terminated\n", sc.State)
	}
	if err := sc.Step(); !errors.As(err, &cfg) {
		t.Errorf("step after terminate: got %v, want ConfigError\n", err)
	}
	if err := sc.Run(1); !errors.As(err, &cfg) {
		t.Errorf("run after terminate: got %v, want ConfigError\n", err)
	}
}

func TestSchedulerClock(t *testing.T) {
	nt, ev := MakeRunNet(t)
	sc := NewScheduler(nt, ev)
	if err := sc.Init(2); err != nil {
		t.Fatal(err)
	}
	sc.Clock.StepsPerEpoch = 5
	if err := sc.Run(12); err != nil {
		t.Fatal(err)
	}
	if sc.Clock.StepTot != 12 || sc.Clock.Epoch != 2 || sc.Clock.Step != 2 {
		t.Errorf("clock = tot %v epoch %v step %v, want 12 2 2\n", sc.Clock.StepTot, sc.Clock.Epoch, sc.Clock.Step)
	}
}

// trajectory captures the learned weights and settled activations after a run
func trajectory(t *testing.T, seed int64, steps int) ([]float32, []float32) {
	nt, ev := MakeRunNet(t)
	sc := NewScheduler(nt, ev)
	if err := sc.Init(seed); err != nil {
		t.Fatal(err)
	}
	if err := sc.Run(steps); err != nil {
		t.Fatal(err)
	}
	v1 := nt.SheetByName("V1")
	pj := v1.RecvProj("LGNOn")
	var wts, acts []float32
	pj.SynVals(&wts, "Wt")
	v1.UnitVals(&acts, "Act")
	return wts, acts
}

func TestSchedulerDeterminism(t *testing.T) {
	wts1, acts1 := trajectory(t, 42, 10)
	wts2, acts2 := trajectory(t, 42, 10)
	for i := range wts1 {
		if wts1[i] != wts2[i] {
			t.Errorf("weight trajectories differ at %v: %v != %v\n", i, wts1[i], wts2[i])
			break
		}
	}
	for i := range acts1 {
		if acts1[i] != acts2[i] {
			t.Errorf("activation trajectories differ at %v: %v != %v\n", i, acts1[i], acts2[i])
			break
		}
	}
}

func TestSchedulerInvariants(t *testing.T) {
	nt, ev := MakeRunNet(t)
	sc := NewScheduler(nt, ev)
	if err := sc.Init(3); err != nil {
		t.Fatal(err)
	}
	if err := sc.Run(20); err != nil {
		t.Fatal(err)
	}

	for _, sh := range nt.Sheets {
		for ui := range sh.Units {
			act := sh.Units[ui].Act
			if act < 0 || act > 1 {
				t.Errorf("sheet %v unit %v act %v out of 0-1 range\n", sh.Nm, ui, act)
			}
		}
	}

	v1 := nt.SheetByName("V1")
	for ui := range v1.Units {
		if v1.Units[ui].Thr < 0 {
			t.Errorf("v1 unit %v threshold %v below zero\n", ui, v1.Units[ui].Thr)
		}
	}
	for _, pj := range v1.RcvProjs {
		if !pj.Learn.Learn {
			continue
		}
		for ri := range v1.Units {
			sum := pj.WtSumRecv(ri)
			if sum < 1-1.0e-4 || sum > 1+1.0e-4 {
				t.Errorf("%v recv unit %v weight sum %v, want 1\n", pj.Name(), ri, sum)
			}
		}
	}
}

func TestSchedulerRunRecover(t *testing.T) {
	nt, ev := MakeRunNet(t)
	sc := NewScheduler(nt, ev)
	if err := sc.Init(7); err != nil {
		t.Fatal(err)
	}
	sc.InputName = "Bogus"
	var cfg *ConfigError
	if err := sc.Run(3); !errors.As(err, &cfg) {
		t.Fatalf("run with bad input element: got %v, want ConfigError\n", err)
	}
	if sc.State == Running {
		t.Errorf("state stuck at Running after failed run\n")
	}
	sc.InputName = "Retina"
	if err := sc.Step(); err != nil {
		t.Errorf("step after failed run: %v\n", err)
	}
	if err := sc.Run(2); err != nil {
		t.Errorf("run after failed run: %v\n", err)
	}
}

func TestZeroLrateRun(t *testing.T) {
	nt, ev := MakeRunNet(t)
	sc := NewScheduler(nt, ev)
	if err := sc.Init(5); err != nil {
		t.Fatal(err)
	}
	v1 := nt.SheetByName("V1")
	for _, pj := range v1.RcvProjs {
		pj.Learn.Lrate = 0
	}
	bf := make([][]float32, len(v1.RcvProjs))
	for i, pj := range v1.RcvProjs {
		pj.SynVals(&bf[i], "Wt")
		bf[i] = append([]float32{}, bf[i]...)
	}
	if err := sc.Run(100); err != nil {
		t.Fatal(err)
	}
	var af []float32
	for i, pj := range v1.RcvProjs {
		pj.SynVals(&af, "Wt")
		for si := range af {
			if af[si] != bf[i][si] {
				t.Errorf("%v synapse %v changed at zero lrate: %v != %v\n", pj.Name(), si, af[si], bf[i][si])
				break
			}
		}
	}
}

// afferentResponse presents given retinal pattern through the LGN and
// returns the total afferent input it drives into V1 through the current
// weights
func afferentResponse(t *testing.T, nt *Network, pat *etensor.Float32) float32 {
	if err := nt.SheetByName("Retina").ApplyExt(pat); err != nil {
		t.Fatal(err)
	}
	nt.SheetByName("LGNOn").FFStep()
	nt.SheetByName("LGNOff").FFStep()
	v1 := nt.SheetByName("V1")
	v1.AffFmSends()
	tot := float32(0)
	for ui := range v1.Units {
		tot += v1.Units[ui].Aff
	}
	return tot
}

func TestOrientationPreference(t *testing.T) {
	nt, ev := MakeRunNet(t)
	ev.FixOri = 0
	sc := NewScheduler(nt, ev)
	if err := sc.Init(6); err != nil {
		t.Fatal(err)
	}
	if err := sc.Run(1000); err != nil {
		t.Fatal(err)
	}

	// compare total afferent drive for blobs at the trained orientation vs.
	// the orthogonal one, over a grid of blob centers
	gen := &patterns.GaussEnv{Nm: "TestResp"}
	gen.Defaults()
	gen.SetSize(8)
	gen.Init(0)
	ctrs := [][2]float32{{2, 2}, {2, 5}, {3.5, 3.5}, {5, 2}, {5, 5}}
	trained := float32(0)
	orth := float32(0)
	for _, c := range ctrs {
		gen.Pattern.SetZeros()
		gen.DrawGauss(c[0], c[1], 0)
		trained += afferentResponse(t, nt, &gen.Pattern)
		gen.Pattern.SetZeros()
		gen.DrawGauss(c[0], c[1], mat32.Pi/2)
		orth += afferentResponse(t, nt, &gen.Pattern)
	}
	if trained <= orth {
		t.Errorf("trained-orientation response %v not above orthogonal %v\n", trained, orth)
	}
}

func TestActSnapshot(t *testing.T) {
	nt, ev := MakeRunNet(t)
	sc := NewScheduler(nt, ev)
	if err := sc.Init(4); err != nil {
		t.Fatal(err)
	}
	if err := sc.Step(); err != nil {
		t.Fatal(err)
	}

	dt := ActSnapshot(nt)
	if dt.Rows != 1 || dt.NumCols() != len(nt.Sheets) {
		t.Errorf("snapshot dims = %v rows %v cols, want 1 %v\n", dt.Rows, dt.NumCols(), len(nt.Sheets))
	}
	v1 := nt.SheetByName("V1")
	cell := dt.CellTensor("V1", 0)
	if cell == nil {
		t.Fatal("no V1 column in snapshot")
	}
	for ui := range v1.Units {
		if float32(cell.FloatVal1D(ui)) != v1.Units[ui].Act {
			t.Errorf("snapshot act %v != unit act %v\n", cell.FloatVal1D(ui), v1.Units[ui].Act)
			break
		}
	}

	rfs := RFSnapshot(v1.RecvProj("LGNOn"))
	if rfs.Rows != len(v1.Units) {
		t.Errorf("rf snapshot rows = %v, want %v\n", rfs.Rows, len(v1.Units))
	}
}
