// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import "github.com/emer/gcal/gain"

// FFStep performs the single feedforward activation pass for an LGN sheet:
// gathers the afferent response through the fixed center-surround weights,
// half-rectifies it, applies divisive contrast gain control over the
// gaussian-pooled suppressive field, and clips the result to the 0-1 range.
// LGN sheets do not settle and their weights do not learn.
func (sh *Sheet) FFStep() {
	sh.AffFmSends()
	for ui := range sh.Units {
		r := sh.Units[ui].Aff
		if r < 0 { // half-rectify: DoG responses go negative off-polarity
			r = 0
		}
		sh.RawAct.Values[ui] = r
	}
	if sh.Gain.On {
		gain.Pool(&sh.PoolAct, &sh.RawAct, sh.GainKern)
	}
	for ui := range sh.Units {
		un := &sh.Units[ui]
		act := sh.RawAct.Values[ui]
		if sh.Gain.On {
			act = sh.Gain.Fn(act, sh.PoolAct.Values[ui])
		}
		if act > 1 {
			act = 1
		}
		un.Net = un.Aff
		un.Act = act
	}
	sh.AvgMaxAct()
}
