// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package homeo provides homeostatic adaptation of unit activation thresholds
toward a target average activity level.

Each unit maintains an exponential moving average of its settled activation.
On a slow timescale the unit's threshold moves up when the average runs above
target and down when it runs below, keeping the sheet's long-run activity
near the target level regardless of input statistics.  This is a heuristic
regulation mechanism: it keeps activity bounded in practice but carries no
convergence guarantee.
*/
package homeo

// Params parameterizes homeostatic threshold adaptation: an exponential
// moving average of unit activity drives the per-unit threshold toward
// producing the target activity level.
type Params struct {
	On        bool    `desc:"enable homeostatic threshold adaptation"`
	TargetAct float32 `viewif:"On" min:"0" def:"0.024" desc:"target average activation level for each unit"`
	AvgTau    float32 `viewif:"On" min:"1" def:"100" desc:"time constant in adaptation steps for the exponential moving average of activity"`
	Lrate     float32 `viewif:"On" min:"0" def:"0.01" desc:"learning rate for moving the threshold toward the target -- threshold changes by Lrate * (avg - TargetAct) per adaptation step"`

	AvgDt float32 `inactive:"+" view:"-" json:"-" xml:"-" desc:"rate = 1 / AvgTau"`
}

func (ho *Params) Update() {
	ho.AvgDt = 1 / ho.AvgTau
}

func (ho *Params) Defaults() {
	ho.On = true
	ho.TargetAct = 0.024
	ho.AvgTau = 100
	ho.Lrate = 0.01
	ho.Update()
}

// AvgFmAct updates the running average avg from the current activation act
// using the AvgDt integration rate.
func (ho *Params) AvgFmAct(avg *float32, act float32) {
	if !ho.On {
		return
	}
	*avg += ho.AvgDt * (act - *avg)
}

// ThrFmAvg updates the threshold thr from the running average avg, moving it
// up when activity runs above target and down when below.  Threshold never
// goes below 0.
func (ho *Params) ThrFmAvg(thr *float32, avg float32) {
	if !ho.On {
		return
	}
	*thr += ho.Lrate * (avg - ho.TargetAct)
	if *thr < 0 {
		*thr = 0
	}
}
