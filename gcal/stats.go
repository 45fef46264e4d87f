// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"github.com/emer/etable/etable"
	"github.com/emer/etable/etensor"
)

// ActSnapshot returns a one-row table with the current activation state of
// every sheet in the network, one tensor column per sheet.  Used for the
// per-step activation output and for state dumps on fatal errors.
func ActSnapshot(nt *Network) *etable.Table {
	sch := etable.Schema{}
	for _, sh := range nt.Sheets {
		if sh.IsOff() {
			continue
		}
		sch = append(sch, etable.Column{sh.Name(), etensor.FLOAT32, sh.Shp.Shp, nil})
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, 1)
	tsr := &etensor.Float32{}
	for _, sh := range nt.Sheets {
		if sh.IsOff() {
			continue
		}
		sh.UnitValsTensor(tsr, "Act")
		dt.SetCellTensor(sh.Name(), 0, tsr)
	}
	return dt
}

// RecvWtsTensor fills in the incoming weights of given receiving unit on
// this projection, into given tensor reshaped to the sending sheet shape,
// with zeros where not connected.  This is the receptive field of the unit
// through this projection.
func (pj *Projection) RecvWtsTensor(ri int, tsr *etensor.Float32) {
	ssh := pj.Send.Shape()
	tsr.SetShape(ssh.Shp, nil, []string{"Y", "X"})
	tsr.SetZeros()
	nc := int(pj.RConN[ri])
	st := int(pj.RConIdxSt[ri])
	for ci := 0; ci < nc; ci++ {
		si := pj.RConIdx[st+ci]
		sy := &pj.Syns[st+ci]
		if sy.Pruned != 0 {
			continue
		}
		tsr.Values[si] = sy.Wt
	}
}

// RFSnapshot returns a table of the receptive fields of all receiving units
// on given projection: one row per receiving unit, with the unit index and
// its incoming weights as a sending-sheet shaped tensor
func RFSnapshot(pj *Projection) *etable.Table {
	ssh := pj.Send.Shape()
	nr := pj.Recv.Shape().Len()
	sch := etable.Schema{
		{"Unit", etensor.INT64, nil, nil},
		{"RF", etensor.FLOAT32, ssh.Shp, nil},
	}
	dt := &etable.Table{}
	dt.SetFromSchema(sch, nr)
	tsr := &etensor.Float32{}
	for ri := 0; ri < nr; ri++ {
		pj.RecvWtsTensor(ri, tsr)
		dt.SetCellFloat("Unit", ri, float64(ri))
		dt.SetCellTensor("RF", ri, tsr)
	}
	return dt
}
