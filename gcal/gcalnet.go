// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/etensor"
	"github.com/emer/vision/dog"
)

// AddGCAL adds the standard GCAL orientation-map model to the network:
// Retina -> LGNOn / LGNOff -> V1, with V1 local lateral excitation and
// broad lateral inhibition.  All parameters are at their documented
// defaults; use params sheets to override.  Returns the four sheets.
//
// retSz is the side length of the square retina and LGN sheets; v1Sz the
// side length of the square cortical sheet.
func AddGCAL(nt *Network, retSz, v1Sz int) (ret, lgnOn, lgnOff, v1 *Sheet) {
	ret = nt.AddSheet2D("Retina", retSz, retSz, Retina)
	lgnOn = nt.AddSheet2D("LGNOn", retSz, retSz, LGN)
	lgnOn.Pol = On
	lgnOff = nt.AddSheet2D("LGNOff", retSz, retSz, LGN)
	lgnOff.Pol = Off
	v1 = nt.AddSheet2D("V1", v1Sz, v1Sz, Cortex)

	// fixed center-surround filter shared by both LGN channels
	flt := dog.Filter{}
	flt.Defaults()
	flt.SetSize(7, 1)
	dogTsr := &etensor.Float32{}
	flt.ToTensor(dogTsr)

	full := prjn.NewFull()

	onpj := nt.ConnectSheets(ret, lgnOn, full, AffProj)
	onpj.SetClass("RetToLGN")
	onpj.Learn.Learn = false
	onpj.DoGWts = dogTsr

	offpj := nt.ConnectSheets(ret, lgnOff, full, AffProj)
	offpj.SetClass("RetToLGN")
	offpj.Learn.Learn = false
	offpj.DoGWts = dogTsr

	// afferent connection fields from each LGN channel, with a gaussian
	// topographic scale envelope
	afrad := retSz / 2
	if afrad < 3 {
		afrad = 3
	}
	affp := prjn.NewCircle()
	affp.Radius = afrad
	affp.Wrap = false

	onv1 := nt.ConnectSheets(lgnOn, v1, affp, AffProj)
	onv1.SetClass("LGNToV1")
	onv1.ScaleSig = 0.3
	offv1 := nt.ConnectSheets(lgnOff, v1, affp, AffProj)
	offv1.SetClass("LGNToV1")
	offv1.ScaleSig = 0.3

	// local lateral excitation, broad lateral inhibition
	circ := prjn.NewCircle()
	circ.Radius = 4
	circ.Sigma = .75
	circ.Wrap = true

	epj := nt.LateralConnectSheet(v1, circ, LatExcProj)
	epj.SetClass("ExciteLateral")
	epj.Gain = 0.9
	epj.Learn.Lrate = 0.05

	ipj := nt.LateralConnectSheet(v1, prjn.NewFull(), LatInhProj)
	ipj.SetClass("InhibLateral")
	ipj.Gain = 0.9
	ipj.Learn.Lrate = 0.3

	return
}
