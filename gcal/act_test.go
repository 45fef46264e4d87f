// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"testing"

	"github.com/goki/mat32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-6)

func CmprFloats(got, trg []float32, msg string, t *testing.T) {
	for i := range got {
		dif := mat32.Abs(got[i] - trg[i])
		if dif > difTol { // allow for small numerical diffs
			t.Errorf("%v err: got: %v, trg: %v, dif: %v\n", msg, got[i], trg[i], dif)
		}
	}
}

func TestNetFmInputs(t *testing.T) {
	ap := ActParams{}
	ap.Defaults()

	un := Unit{Aff: 0.3, LatE: 0.2, LatI: 0.1}
	ap.NetFmInputs(&un)
	CmprFloats([]float32{un.Net}, []float32{0.65}, "net input integration", t)

	un = Unit{Aff: 0.2}
	ap.NetFmInputs(&un)
	CmprFloats([]float32{un.Net}, []float32{0.3}, "afferent-only net input", t)
}

func TestActFmNet(t *testing.T) {
	ap := ActParams{}
	ap.Defaults()

	nets := []float32{0.05, 0.1, 0.3, 0.65, 2.0}
	wants := []float32{0, 0, 0.36363637, 1, 1}
	acts := make([]float32, len(nets))
	for i, nv := range nets {
		un := Unit{Net: nv, Thr: 0.1}
		ap.ActFmNet(&un)
		acts[i] = un.Act
	}
	CmprFloats(acts, wants, "act from net, thr 0.1", t)

	// raised threshold shifts the ramp without changing the slope
	un := Unit{Net: 0.3, Thr: 0.2}
	ap.ActFmNet(&un)
	CmprFloats([]float32{un.Act}, []float32{0.18181819}, "act from net, thr 0.2", t)
}

func TestActDt(t *testing.T) {
	ap := ActParams{}
	ap.Defaults()
	ap.Dt = 0.5

	un := Unit{Net: 0.65, Thr: 0.1}
	ap.ActFmNet(&un)
	CmprFloats([]float32{un.Act, un.ActDel}, []float32{0.5, 0.5}, "first partial act update", t)
	ap.ActFmNet(&un)
	CmprFloats([]float32{un.Act, un.ActDel}, []float32{0.75, 0.25}, "second partial act update", t)
}

func TestSettleParams(t *testing.T) {
	sp := SettleParams{}
	sp.Defaults()

	if !sp.Converged(0.003) {
		t.Errorf("delta 0.003 should be converged at thr %v\n", sp.ConvThr)
	}
	if sp.Converged(0.005) {
		t.Errorf("delta 0.005 should not be converged at thr %v\n", sp.ConvThr)
	}
	if !sp.Diverged(0.76) {
		t.Errorf("mean act 0.76 should be diverged at thr %v\n", sp.DivergeAvg)
	}
	if sp.Diverged(0.74) {
		t.Errorf("mean act 0.74 should not be diverged at thr %v\n", sp.DivergeAvg)
	}
}
