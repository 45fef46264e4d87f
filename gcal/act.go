// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"github.com/emer/gcal/plsig"
	"github.com/goki/mat32"
)

// gcal.ActParams contains all the activation computation params and functions
// for the gcal algorithm: piecewise-linear sigmoid applied to the gain-weighted
// combination of afferent, lateral excitatory, and lateral inhibitory net input,
// iterated over settle cycles until convergence.
type ActParams struct {
	Sig      plsig.Params `view:"inline" desc:"piecewise-linear sigmoid activation function parameters"`
	GainAff  float32      `min:"0" def:"1.5" desc:"gain multiplier on the afferent net input"`
	GainLatE float32      `min:"0" def:"1.7" desc:"gain multiplier on the lateral excitatory net input"`
	GainLatI float32      `min:"0" def:"1.4" desc:"gain multiplier on the lateral inhibitory net input"`
	Dt       float32      `min:"0" max:"1" def:"1" desc:"rate of activation update per settle cycle -- 1 = replace activation directly with the new value each cycle"`
	Settle   SettleParams `view:"inline" desc:"settling cycle parameters"`
}

func (ac *ActParams) Defaults() {
	ac.Sig.Defaults()
	ac.GainAff = 1.5
	ac.GainLatE = 1.7
	ac.GainLatI = 1.4
	ac.Dt = 1
	ac.Settle.Defaults()
	ac.Update()
}

func (ac *ActParams) Update() {
	ac.Sig.Update()
	ac.Settle.Update()
}

// InitActs initializes activation state in given unit
func (ac *ActParams) InitActs(un *Unit) {
	un.Act = 0
	un.Ext = 0
	un.Aff = 0
	un.LatE = 0
	un.LatI = 0
	un.Net = 0
	un.ActDel = 0
	un.ActLast = 0
}

// NetFmInputs computes the integrated net input for given unit from its
// accumulated afferent and lateral inputs -- the unit's adaptive threshold
// is applied in ActFmNet via the sigmoid
func (ac *ActParams) NetFmInputs(un *Unit) {
	un.Net = ac.GainAff*un.Aff + ac.GainLatE*un.LatE - ac.GainLatI*un.LatI
}

// ActFmNet computes a new activation value from the unit's current net input,
// applying the sigmoid with the unit's adaptive threshold, the Dt update rate,
// and the 0-1 clamp.  ActDel records the change for convergence testing.
func (ac *ActParams) ActFmNet(un *Unit) {
	nwAct := ac.Sig.FnThr(un.Net, un.Thr)
	if nwAct < 0 {
		nwAct = 0
	} else if nwAct > 1 {
		nwAct = 1
	}
	nwAct = un.Act + ac.Dt*(nwAct-un.Act)
	un.ActDel = nwAct - un.Act
	un.Act = nwAct
}

// gcal.SettleParams control the iterative settling of the cortical sheet
type SettleParams struct {
	Cycles     int     `min:"1" def:"16" desc:"maximum number of settle cycles per step"`
	ConvThr    float32 `min:"0" def:"0.004" desc:"convergence threshold -- settling stops early once the max abs activation change over the sheet falls below this"`
	DivergeAvg float32 `min:"0" def:"0.75" desc:"divergence threshold -- a mean settled activation above this indicates runaway excitation, and the sheet rolls back to its last stable activation state"`
}

func (st *SettleParams) Defaults() {
	st.Cycles = 16
	st.ConvThr = 0.004
	st.DivergeAvg = 0.75
}

func (st *SettleParams) Update() {
}

// Converged returns true if the given max abs activation delta is below
// the convergence threshold
func (st *SettleParams) Converged(maxDel float32) bool {
	return mat32.Abs(maxDel) < st.ConvThr
}

// Diverged returns true if the given mean activation indicates runaway
// excitation
func (st *SettleParams) Diverged(avgAct float32) bool {
	return avgAct > st.DivergeAvg
}
