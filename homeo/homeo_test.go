// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package homeo

import (
	"testing"

	"github.com/goki/mat32"
)

// difTol is the numerical difference tolerance for comparing vs. target values
const difTol = float32(1.0e-6)

func TestAvgFmAct(t *testing.T) {
	ho := Params{}
	ho.Defaults()
	ho.AvgTau = 10 // faster for testing
	ho.Update()

	// avg += 0.1 * (act - avg), act held at 1
	coravg := []float32{0.1, 0.19, 0.271, 0.3439, 0.40951}
	avg := float32(0)
	for i := range coravg {
		ho.AvgFmAct(&avg, 1)
		dif := mat32.Abs(avg - coravg[i])
		if dif > difTol {
			t.Errorf("AvgFmAct err: idx: %v, avg: %v, cor avg: %v, dif: %v\n", i, avg, coravg[i], dif)
		}
	}
}

func TestThrFmAvg(t *testing.T) {
	ho := Params{}
	ho.Defaults()

	// above target: threshold rises
	thr := float32(0.1)
	ho.ThrFmAvg(&thr, 0.124)
	cor := float32(0.1 + 0.01*(0.124-0.024))
	if dif := mat32.Abs(thr - cor); dif > difTol {
		t.Errorf("ThrFmAvg up err: thr: %v, cor: %v, dif: %v\n", thr, cor, dif)
	}

	// below target: threshold falls
	thr = 0.1
	ho.ThrFmAvg(&thr, 0)
	cor = float32(0.1 + 0.01*(0-0.024))
	if dif := mat32.Abs(thr - cor); dif > difTol {
		t.Errorf("ThrFmAvg down err: thr: %v, cor: %v, dif: %v\n", thr, cor, dif)
	}

	// floor at 0
	thr = 0
	ho.ThrFmAvg(&thr, 0)
	if thr != 0 {
		t.Errorf("ThrFmAvg floor err: thr: %v, expected 0\n", thr)
	}
}

func TestOff(t *testing.T) {
	ho := Params{}
	ho.Defaults()
	ho.On = false

	avg := float32(0.5)
	thr := float32(0.5)
	ho.AvgFmAct(&avg, 1)
	ho.ThrFmAvg(&thr, 1)
	if avg != 0.5 || thr != 0.5 {
		t.Errorf("Off err: avg: %v, thr: %v changed while disabled\n", avg, thr)
	}
}
