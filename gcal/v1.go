// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"log"

	"github.com/goki/mat32"
)

// Settle performs the iterative settling process for a Cortex sheet:
// starting from zero activation, each cycle re-gathers the lateral
// excitatory and inhibitory input from the current sheet activations and
// applies the activation update, until the max activation change falls
// below the convergence threshold or the cycle limit is reached.
//
// If the settled mean activation exceeds the divergence threshold, the
// sheet rolls back to its last stable settled state (divergence is
// reported, not corrected); otherwise the settled state becomes the new
// stable fallback.
func (sh *Sheet) Settle() {
	sh.AffFmSends()
	for ui := range sh.Units {
		un := &sh.Units[ui]
		un.Act = 0
		un.ActDel = 0
		un.Net = 0
	}
	cyc := 0
	for ; cyc < sh.Act.Settle.Cycles; cyc++ {
		sh.LatFmActs()
		maxDel := float32(0)
		for ui := range sh.Units {
			un := &sh.Units[ui]
			sh.Act.NetFmInputs(un)
			sh.Act.ActFmNet(un)
			del := mat32.Abs(un.ActDel)
			if del > maxDel {
				maxDel = del
			}
		}
		if sh.Act.Settle.Converged(maxDel) {
			cyc++
			break
		}
	}
	sh.LastCycles = cyc
	sh.AvgMaxAct()
	if sh.Act.Settle.Diverged(sh.ActAvg.Avg) {
		sh.NDiverge++
		log.Printf("gcal.Sheet %v settling diverged: mean act %g > %g, rolling back to last stable state\n", sh.Nm, sh.ActAvg.Avg, sh.Act.Settle.DivergeAvg)
		for ui := range sh.Units {
			un := &sh.Units[ui]
			un.Act = un.ActLast
		}
		sh.AvgMaxAct()
		return
	}
	for ui := range sh.Units {
		un := &sh.Units[ui]
		un.ActLast = un.Act
	}
}
