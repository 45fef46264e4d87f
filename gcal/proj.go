// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"fmt"
	"io"
	"strconv"

	"github.com/emer/emergent/erand"
	"github.com/emer/emergent/weights"
	"github.com/emer/etable/etensor"
	"github.com/goki/ki/indent"
	"github.com/goki/mat32"
)

// gcal.Projection is a connection field between two sheets, with hebbian
// learning, divisive weight normalization, and structural pruning.
// Synapses are ordered by receiving unit (one-to-one with the RConIdx array).
type Projection struct {
	ProjStru
	Gain     float32         `def:"1" desc:"overall strength multiplier for this projection's net input contribution"`
	WtInit   erand.RndParams `view:"inline" desc:"initial random weight distribution"`
	ScaleSig float32         `def:"0" desc:"sigma of the gaussian distance envelope applied to synapse Scale values, in normalized sheet coordinates -- 0 means a flat envelope (all scales 1)"`
	DoGWts   *etensor.Float32 `view:"-" desc:"fixed center-surround filter tensor (from dog.Filter.ToTensor) -- when set, InitWts sets the weights from this filter (using the receiving sheet's polarity) instead of random values"`
	Learn    LearnParams     `view:"add-fields" desc:"synaptic-level learning parameters"`
	Syns     []Synapse       `desc:"synaptic state values, ordered by receiving unit -- one-to-one with RConIdx array"`
}

func (pj *Projection) Defaults() {
	pj.Gain = 1
	pj.WtInit.Mean = 0.5
	pj.WtInit.Var = 0.25
	pj.WtInit.Dist = erand.Uniform
	pj.ScaleSig = 0
	pj.Learn.Defaults()
}

// UpdateParams updates all params given any changes that might have been
// made to individual values
func (pj *Projection) UpdateParams() {
	pj.Learn.Update()
}

func (pj *Projection) SynVarNames() []string {
	return SynapseVars
}

// SynVarProps returns properties for variables
func (pj *Projection) SynVarProps() map[string]string {
	return SynapseVarProps
}

// SynVals sets values of given variable name for each synapse, using the
// natural (receiver-major) ordering of the synapses, into given float32
// slice (only resized if not big enough).  Returns error on invalid var name.
func (pj *Projection) SynVals(vals *[]float32, varNm string) error {
	vidx, err := SynapseVarByName(varNm)
	if err != nil {
		return err
	}
	ns := len(pj.Syns)
	if *vals == nil || cap(*vals) < ns {
		*vals = make([]float32, ns)
	} else if len(*vals) < ns {
		*vals = (*vals)[0:ns]
	}
	for i := range pj.Syns {
		sy := &pj.Syns[i]
		(*vals)[i] = sy.VarByIndex(vidx)
	}
	return nil
}

// Syn returns the synapse between given send, recv unit indexes
// (1D, flat indexes).  Returns nil if not connected.
func (pj *Projection) Syn(sidx, ridx int) *Synapse {
	nc := int(pj.RConN[ridx])
	st := int(pj.RConIdxSt[ridx])
	for ci := 0; ci < nc; ci++ {
		si := int(pj.RConIdx[st+ci])
		if si != sidx {
			continue
		}
		return &pj.Syns[st+ci]
	}
	return nil
}

// SynVal returns value of given variable name on the synapse between given
// send, recv unit indexes (1D, flat indexes).
// Returns mat32.NaN() for access errors.
func (pj *Projection) SynVal(varNm string, sidx, ridx int) float32 {
	vidx, err := SynapseVarByName(varNm)
	if err != nil {
		return mat32.NaN()
	}
	sy := pj.Syn(sidx, ridx)
	if sy == nil {
		return mat32.NaN()
	}
	return sy.VarByIndex(vidx)
}

// SetSynVal sets value of given variable name on the synapse between given
// send, recv unit indexes (1D, flat indexes).  Returns error for access errors.
func (pj *Projection) SetSynVal(varNm string, sidx, ridx int, val float32) error {
	vidx, err := SynapseVarByName(varNm)
	if err != nil {
		return err
	}
	sy := pj.Syn(sidx, ridx)
	if sy == nil {
		return fmt.Errorf("Projection.SetSynVal: recv unit index %v does not recv from send unit index %v", ridx, sidx)
	}
	sy.SetVarByIndex(vidx, val)
	return nil
}

// Build constructs the full connectivity among the sheets as specified in
// this projection.  Calls ProjStru.BuildStru and then allocates the synaptic
// values in Syns accordingly.
func (pj *Projection) Build() error {
	if err := pj.BuildStru(); err != nil {
		return err
	}
	pj.Syns = make([]Synapse, len(pj.RConIdx))
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init methods

// InitWtsSyn initializes weight values based on WtInit randomness parameters
// for an individual synapse
func (pj *Projection) InitWtsSyn(sy *Synapse) {
	if sy.Scale == 0 {
		sy.Scale = 1
	}
	sy.Wt = float32(pj.WtInit.Gen(-1))
	if sy.Wt < 0 {
		sy.Wt = 0
	}
	if sy.Wt > pj.Learn.WtMax {
		sy.Wt = pj.Learn.WtMax
	}
	sy.DWt = 0
	sy.Pruned = 0
}

// InitWts initializes weight values according to WtInit params, applies the
// gaussian scale envelope if ScaleSig is set, and L1-normalizes each
// receiving unit's weights to Norm.Total for learning projections.
// Projections with a DoGWts filter get their fixed center-surround weights
// instead.
func (pj *Projection) InitWts() {
	if pj.DoGWts != nil {
		for si := range pj.Syns {
			sy := &pj.Syns[si]
			sy.Scale = 1
			sy.DWt = 0
			sy.Pruned = 0
		}
		pj.SetDoGWts(pj.DoGWts, pj.Recv.Pol)
		return
	}
	for si := range pj.Syns {
		sy := &pj.Syns[si]
		pj.InitWtsSyn(sy)
	}
	if pj.ScaleSig > 0 {
		pj.GaussScales(pj.ScaleSig)
	}
	if pj.Learn.Learn {
		rlen := pj.Recv.Shape().Len()
		for ri := 0; ri < rlen; ri++ {
			pj.NormRecv(ri)
		}
	}
}

// SetWtsFunc initializes synaptic Wt value using given function
// based on receiving and sending unit indexes.
func (pj *Projection) SetWtsFunc(wtFun func(si, ri int, send, recv *etensor.Shape) float32) {
	rsh := pj.Recv.Shape()
	rn := rsh.Len()
	ssh := pj.Send.Shape()

	for ri := 0; ri < rn; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		for ci := 0; ci < nc; ci++ {
			si := int(pj.RConIdx[st+ci])
			sy := &pj.Syns[st+ci]
			sy.Wt = wtFun(si, ri, ssh, rsh)
		}
	}
}

// SetScalesFunc initializes synaptic Scale values using given function
// based on receiving and sending unit indexes.
func (pj *Projection) SetScalesFunc(scaleFun func(si, ri int, send, recv *etensor.Shape) float32) {
	rsh := pj.Recv.Shape()
	rn := rsh.Len()
	ssh := pj.Send.Shape()

	for ri := 0; ri < rn; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		for ci := 0; ci < nc; ci++ {
			si := int(pj.RConIdx[st+ci])
			sy := &pj.Syns[st+ci]
			sy.Scale = scaleFun(si, ri, ssh, rsh)
		}
	}
}

// GaussScales sets synapse Scale values to a gaussian envelope of the
// distance between the receiving and sending unit positions, both mapped
// into normalized 0-1 sheet coordinates.  sig is the gaussian sigma in the
// same normalized coordinates.  Connections on the same-sheet wrap-around
// are not special-cased: distance is the direct normalized distance.
func (pj *Projection) GaussScales(sig float32) {
	sig2 := 2 * sig * sig
	pj.SetScalesFunc(func(si, ri int, send, recv *etensor.Shape) float32 {
		ry := float32(ri/recv.Dim(1)) / float32(recv.Dim(0))
		rx := float32(ri%recv.Dim(1)) / float32(recv.Dim(1))
		sy := float32(si/send.Dim(1)) / float32(send.Dim(0))
		sx := float32(si%send.Dim(1)) / float32(send.Dim(1))
		dy := ry - sy
		dx := rx - sx
		return mat32.Exp(-(dx*dx + dy*dy) / sig2)
	})
}

// SetDoGWts sets fixed center-surround weights from the given
// difference-of-gaussian filter tensor (shape: component, Y, X as produced
// by dog.Filter.ToTensor, components ordered On, Off, Net), centered on each
// receiving unit's corresponding position in the sending sheet.  On polarity
// uses on - off (on-center), Off polarity uses off - on (off-center).
// Connections outside the filter radius get zero weight.
func (pj *Projection) SetDoGWts(dogTsr *etensor.Float32, pol Polarity) {
	fsz := dogTsr.Dim(1)
	frad := fsz / 2
	pj.SetWtsFunc(func(si, ri int, send, recv *etensor.Shape) float32 {
		ry := ri / recv.Dim(1)
		rx := ri % recv.Dim(1)
		// recv position mapped proportionally into send coordinates
		cy := (ry * send.Dim(0)) / recv.Dim(0)
		cx := (rx * send.Dim(1)) / recv.Dim(1)
		sy := si / send.Dim(1)
		sx := si % send.Dim(1)
		fy := sy - cy + frad
		fx := sx - cx + frad
		if fy < 0 || fy >= fsz || fx < 0 || fx >= fsz {
			return 0
		}
		on := dogTsr.Value([]int{0, fy, fx})
		off := dogTsr.Value([]int{1, fy, fx})
		if pol == Off {
			return off - on
		}
		return on - off
	})
}

//////////////////////////////////////////////////////////////////////////////////////
//  Act methods

// RecvNetFmActs gathers the net input for each receiving unit from the
// current sending sheet activations, adding Gain * sum(Scale * Wt * act)
// into the unit input accumulator designated by the projection type
// (Aff, LatE, or LatI).  Accumulators must be zeroed by the caller first.
func (pj *Projection) RecvNetFmActs() {
	if pj.IsOff() {
		return
	}
	slay := pj.Send
	rlay := pj.Recv
	for ri := range rlay.Units {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		syns := pj.Syns[st : st+nc]
		rcons := pj.RConIdx[st : st+nc]
		sum := float32(0)
		for ci := range syns {
			sy := &syns[ci]
			if sy.Pruned != 0 {
				continue
			}
			sum += sy.Scale * sy.Wt * slay.Units[rcons[ci]].Act
		}
		net := pj.Gain * sum
		rn := &rlay.Units[ri]
		switch pj.Typ {
		case LatExcProj:
			rn.LatE += net
		case LatInhProj:
			rn.LatI += net
		default:
			rn.Aff += net
		}
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Learn methods

// DWt computes the hebbian weight changes from the current sending and
// receiving activations, accumulating into DWt.  Pruned synapses are skipped.
func (pj *Projection) DWt() {
	if !pj.Learn.Learn || pj.IsOff() {
		return
	}
	slay := pj.Send
	rlay := pj.Recv
	for ri := range rlay.Units {
		ract := rlay.Units[ri].Act
		if ract == 0 {
			continue
		}
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		syns := pj.Syns[st : st+nc]
		rcons := pj.RConIdx[st : st+nc]
		for ci := range syns {
			sy := &syns[ci]
			if sy.Pruned != 0 {
				continue
			}
			sy.DWt += pj.Learn.Dwt(slay.Units[rcons[ci]].Act, ract)
		}
	}
}

// WtFmDWt updates the synaptic weight values from the accumulated
// delta-weight changes, clamps to [0, WtMax], and then L1-renormalizes each
// receiving unit's incoming weights to Norm.Total.  Receiving units with no
// pending weight changes are left untouched.  Returns a NormError if any
// receiving unit's weight sum collapses below Norm.Eps.
func (pj *Projection) WtFmDWt() error {
	if !pj.Learn.Learn || pj.IsOff() {
		return nil
	}
	rlen := pj.Recv.Shape().Len()
	for ri := 0; ri < rlen; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		syns := pj.Syns[st : st+nc]
		chg := false
		for ci := range syns {
			sy := &syns[ci]
			if sy.Pruned != 0 {
				sy.DWt = 0
				continue
			}
			if sy.DWt == 0 {
				continue
			}
			sy.Wt += sy.DWt
			sy.DWt = 0
			chg = true
			if sy.Wt < 0 {
				sy.Wt = 0
			} else if sy.Wt > pj.Learn.WtMax {
				sy.Wt = pj.Learn.WtMax
			}
		}
		if !chg { // weights unchanged -- still normalized, and renormalizing again accumulates float32 roundoff
			continue
		}
		if err := pj.NormRecv(ri); err != nil {
			return err
		}
	}
	return nil
}

// NormRecv L1-normalizes the incoming weights of given receiving unit to
// Norm.Total, excluding pruned synapses.  A unit with all synapses pruned is
// left alone.  Returns a NormError if the weight sum is below Norm.Eps for a
// unit that still has live synapses.
func (pj *Projection) NormRecv(ri int) error {
	nc := int(pj.RConN[ri])
	st := int(pj.RConIdxSt[ri])
	syns := pj.Syns[st : st+nc]
	sum := float32(0)
	live := 0
	for ci := range syns {
		sy := &syns[ci]
		if sy.Pruned != 0 {
			continue
		}
		sum += sy.Wt
		live++
	}
	if live == 0 {
		return nil
	}
	if sum <= pj.Learn.Norm.Eps {
		return &NormError{Proj: pj.Name(), Recv: ri, Sum: sum}
	}
	nrm := pj.Learn.Norm.Total / sum
	for ci := range syns {
		sy := &syns[ci]
		if sy.Pruned != 0 {
			continue
		}
		sy.Wt *= nrm
	}
	return nil
}

// Prune zeros and permanently flags all synapses with weights below
// Prune.Thr, then renormalizes the survivors on each receiving unit.
// Returns the number of synapses pruned in this pass, and a NormError if
// renormalization fails.
func (pj *Projection) Prune() (int, error) {
	if !pj.Learn.Learn || !pj.Learn.Prune.On || pj.IsOff() {
		return 0, nil
	}
	npruned := 0
	rlen := pj.Recv.Shape().Len()
	for ri := 0; ri < rlen; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		syns := pj.Syns[st : st+nc]
		pruned := false
		for ci := range syns {
			sy := &syns[ci]
			if sy.Pruned != 0 {
				continue
			}
			if sy.Wt < pj.Learn.Prune.Thr {
				sy.Wt = 0
				sy.DWt = 0
				sy.Pruned = 1
				npruned++
				pruned = true
			}
		}
		if pruned {
			if err := pj.NormRecv(ri); err != nil {
				return npruned, err
			}
		}
	}
	return npruned, nil
}

// LrateMult multiplies the learning rate by the given factor.
// Useful for implementing learning rate schedules.
func (pj *Projection) LrateMult(mult float32) {
	pj.Learn.Lrate *= mult
}

///////////////////////////////////////////////////////////////////////
//  Weights File

// WriteWtsJSON writes the weights from this projection from the
// receiver-side perspective in a JSON text format.  We build in the
// indentation logic to make it much faster and more efficient.
func (pj *Projection) WriteWtsJSON(w io.Writer, depth int) {
	nr := pj.Recv.Shape().Len()
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"From\": %q,\n", pj.Send.Name())))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"MetaData\": {\n")))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Gain\": \"%g\"\n", pj.Gain)))
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("},\n"))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Rs\": [\n")))
	depth++
	for ri := 0; ri < nr; ri++ {
		nc := int(pj.RConN[ri])
		st := int(pj.RConIdxSt[ri])
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("{\n"))
		depth++
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("\"Ri\": %v,\n", ri)))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte(fmt.Sprintf("\"N\": %v,\n", nc)))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Si\": [ "))
		for ci := 0; ci < nc; ci++ {
			si := pj.RConIdx[st+ci]
			w.Write([]byte(fmt.Sprintf("%v", si)))
			if ci == nc-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("],\n"))
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("\"Wt\": [ "))
		for ci := 0; ci < nc; ci++ {
			sy := &pj.Syns[st+ci]
			w.Write([]byte(strconv.FormatFloat(float64(sy.Wt), 'g', weights.Prec, 32)))
			if ci == nc-1 {
				w.Write([]byte(" "))
			} else {
				w.Write([]byte(", "))
			}
		}
		w.Write([]byte("]\n"))
		depth--
		w.Write(indent.TabBytes(depth))
		if ri == nr-1 {
			w.Write([]byte("}\n"))
		} else {
			w.Write([]byte("},\n"))
		}
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("]\n"))
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}")) // note: leave unterminated as outer loop needs to add , or just \n depending
}

// ReadWtsJSON reads the weights from this projection from the receiver-side
// perspective in a JSON text format.  This is for a set of weights that were
// saved *for one projection only* and is not used for the network-level
// ReadWtsJSON, which reads into a separate structure -- see SetWts method.
func (pj *Projection) ReadWtsJSON(r io.Reader) error {
	pw, err := weights.PrjnReadJSON(r)
	if err != nil {
		return err // note: already logged
	}
	return pj.SetWts(pw)
}

// SetWts sets the weights for this projection from weights.Prjn decoded values
func (pj *Projection) SetWts(pw *weights.Prjn) error {
	if pw.MetaData != nil {
		if gs, ok := pw.MetaData["Gain"]; ok {
			pv, _ := strconv.ParseFloat(gs, 32)
			pj.Gain = float32(pv)
		}
	}
	var err error
	for i := range pw.Rs {
		pr := &pw.Rs[i]
		for si := range pr.Si {
			er := pj.SetSynVal("Wt", pr.Si[si], pr.Ri, pr.Wt[si])
			if er != nil {
				err = er
			}
		}
	}
	return err
}

// WtSumRecv returns the sum of non-pruned weights into given receiving unit
func (pj *Projection) WtSumRecv(ri int) float32 {
	nc := int(pj.RConN[ri])
	st := int(pj.RConIdxSt[ri])
	syns := pj.Syns[st : st+nc]
	sum := float32(0)
	for ci := range syns {
		sy := &syns[ci]
		if sy.Pruned != 0 {
			continue
		}
		sum += sy.Wt
	}
	return sum
}

// NPruned returns the total number of pruned synapses in this projection
func (pj *Projection) NPruned() int {
	n := 0
	for si := range pj.Syns {
		if pj.Syns[si].Pruned != 0 {
			n++
		}
	}
	return n
}
