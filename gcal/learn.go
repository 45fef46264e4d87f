// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

// gcal.LearnParams contains the hebbian learning, divisive weight
// normalization, and structural pruning parameters for a projection.
// Learning is the classic LISSOM / GCAL rule: dwt = lrate * send * recv
// followed by L1 renormalization of each receiving unit's incoming weights,
// so the total synaptic resource per receiving unit is conserved and units
// compete for it.
type LearnParams struct {
	Learn bool        `desc:"enable learning for this projection -- fixed projections (e.g., retina to LGN center-surround) have this off"`
	Lrate float32     `viewif:"Learn" min:"0" def:"0.1" desc:"hebbian learning rate -- multiplies the send * recv activation coproduct"`
	Norm  NormParams  `viewif:"Learn" view:"inline" desc:"divisive L1 weight normalization parameters"`
	Prune PruneParams `viewif:"Learn" view:"inline" desc:"structural plasticity (connection pruning) parameters"`
	WtMax float32     `min:"0" def:"1" desc:"maximum weight value -- weights are clamped to this after learning"`
}

func (ls *LearnParams) Defaults() {
	ls.Learn = true
	ls.Lrate = 0.1
	ls.Norm.Defaults()
	ls.Prune.Defaults()
	ls.WtMax = 1
	ls.Update()
}

func (ls *LearnParams) Update() {
	ls.Norm.Update()
	ls.Prune.Update()
}

// Dwt returns the hebbian weight change for given sending and receiving
// activations
func (ls *LearnParams) Dwt(sact, ract float32) float32 {
	return ls.Lrate * sact * ract
}

// gcal.NormParams specify the divisive L1 normalization of each receiving
// unit's incoming weight vector after every learning pass
type NormParams struct {
	Total float32 `min:"0" def:"1" desc:"target L1 sum for each receiving unit's incoming weights"`
	Eps   float32 `def:"1e-08" desc:"minimum valid normalization denominator -- a weight sum at or below this indicates numerically collapsed weights and aborts the run"`
}

func (nr *NormParams) Defaults() {
	nr.Total = 1
	nr.Eps = 1e-8
}

func (nr *NormParams) Update() {
}

// gcal.PruneParams specify connection pruning: weights that fall below the
// threshold at a pruning pass are permanently removed
type PruneParams struct {
	On  bool    `desc:"enable connection pruning"`
	Thr float32 `viewif:"On" min:"0" def:"0.005" desc:"weight threshold -- synapses with weights below this at a pruning pass are zeroed and never learn or transmit again"`
}

func (pr *PruneParams) Defaults() {
	pr.On = true
	pr.Thr = 0.005
}

func (pr *PruneParams) Update() {
}
