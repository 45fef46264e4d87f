// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"fmt"
	"io"
	"strconv"

	"github.com/emer/emergent/params"
	"github.com/emer/emergent/weights"
	"github.com/emer/etable/etensor"
	"github.com/emer/etable/minmax"
	"github.com/emer/gcal/gain"
	"github.com/emer/gcal/homeo"
	"github.com/goki/ki/indent"
	"github.com/goki/mat32"
)

// gcal.Sheet implements one sheet of units: retina, LGN, or cortex,
// depending on its SheetType.  All sheets share the same unit and
// projection machinery; the type selects which activation update the
// sheet performs each step.
type Sheet struct {
	SheetStru
	Act    ActParams       `view:"add-fields" desc:"activation parameters: sigmoid, projection gains, settling"`
	Gain   gain.Params     `view:"inline" desc:"contrast gain control parameters, used by LGN sheets"`
	Homeo  homeo.Params    `view:"inline" desc:"homeostatic threshold adaptation parameters, used by cortex sheets"`
	Units  []Unit          `desc:"slice of units for this sheet, flat 1D array in row-major (Y then X) order"`
	ActAvg minmax.AvgMax32 `inactive:"+" view:"inline" desc:"average and maximum activation after the last update"`

	NDiverge  int `inactive:"+" desc:"number of settling passes that diverged and rolled back, across the run"`
	LastCycles int `inactive:"+" desc:"number of settle cycles used on the last step"`

	RawAct   etensor.Float32  `view:"-" desc:"buffer of rectified afferent responses for gain-control pooling"`
	PoolAct  etensor.Float32  `view:"-" desc:"buffer of pooled suppressive-field responses"`
	GainKern *etensor.Float32 `view:"-" desc:"gaussian pooling kernel for gain control, built from Gain params"`
}

func (sh *Sheet) Defaults() {
	sh.Act.Defaults()
	sh.Gain.Defaults()
	sh.Homeo.Defaults()
	for _, pj := range sh.RcvProjs {
		pj.Defaults()
	}
}

// UpdateParams updates all params given any changes that might have been
// made to individual values
func (sh *Sheet) UpdateParams() {
	sh.Act.Update()
	sh.Gain.Update()
	sh.Homeo.Update()
	for _, pj := range sh.RcvProjs {
		pj.UpdateParams()
	}
}

// ApplyParams applies given parameter style Sheet to this sheet and its
// recv projections.  Calls UpdateParams on anything set to ensure derived
// parameters are all updated.
// If setMsg is true, then a message is printed to confirm each parameter
// that is set.  It always prints a message if a parameter fails to be set.
// Returns true if any params were set, and error if there were any errors.
func (sh *Sheet) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	app, err := pars.Apply(sh, setMsg)
	if app {
		sh.UpdateParams()
		applied = true
	}
	if err != nil {
		rerr = err
	}
	for _, pj := range sh.RcvProjs {
		app, err = pars.Apply(pj, setMsg)
		if app {
			pj.UpdateParams()
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

// Build allocates the units from the sheet shape, builds the recv
// projections, and builds the gain-control pooling kernel for LGN sheets
func (sh *Sheet) Build() error {
	nu := sh.Shp.Len()
	sh.Units = make([]Unit, nu)
	for _, pj := range sh.RcvProjs {
		if pj.IsOff() {
			continue
		}
		if err := pj.Build(); err != nil {
			return err
		}
	}
	if sh.Typ == LGN && sh.Gain.On {
		sh.GainKern = gain.Kernel(sh.Gain.Radius, sh.Gain.Sigma)
		sh.RawAct.SetShape(sh.Shp.Shp, nil, []string{"Y", "X"})
		sh.PoolAct.SetShape(sh.Shp.Shp, nil, []string{"Y", "X"})
	}
	return nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init methods

// InitWts initializes the weight values in the network, i.e., resetting
// learning.  Also initializes the slow homeostatic state (running average
// activity and adaptive thresholds) and all activations.
func (sh *Sheet) InitWts() {
	for _, pj := range sh.RcvProjs {
		if pj.IsOff() {
			continue
		}
		pj.InitWts()
	}
	for ui := range sh.Units {
		un := &sh.Units[ui]
		un.Thr = sh.Act.Sig.Thr
		un.AvgAct = sh.Homeo.TargetAct
	}
	sh.NDiverge = 0
	sh.InitActs()
}

// InitActs fully initializes activation state -- not automatically called
func (sh *Sheet) InitActs() {
	for ui := range sh.Units {
		sh.Act.InitActs(&sh.Units[ui])
	}
	sh.ActAvg.Init()
	sh.LastCycles = 0
}

// InitInputs zeroes the per-step input accumulators on all units, prior to
// gathering net input from recv projections
func (sh *Sheet) InitInputs() {
	for ui := range sh.Units {
		un := &sh.Units[ui]
		un.Aff = 0
		un.LatE = 0
		un.LatI = 0
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Act methods

// ApplyExt applies external input pattern to the sheet, clamping values to
// the 0-1 range and setting both Ext and Act directly.  This is the full
// activation update for Retina sheets.  Returns an error if the pattern
// length does not match the sheet.
func (sh *Sheet) ApplyExt(ext etensor.Tensor) error {
	if ext.Len() != len(sh.Units) {
		return fmt.Errorf("gcal.Sheet %v ApplyExt: pattern len %v != sheet units %v", sh.Nm, ext.Len(), len(sh.Units))
	}
	for ui := range sh.Units {
		un := &sh.Units[ui]
		ev := float32(ext.FloatVal1D(ui))
		if ev < 0 {
			ev = 0
		} else if ev > 1 {
			ev = 1
		}
		un.Ext = ev
		un.Act = ev
	}
	sh.AvgMaxAct()
	return nil
}

// AffFmSends gathers afferent net input from all feedforward recv
// projections, after zeroing the input accumulators
func (sh *Sheet) AffFmSends() {
	sh.InitInputs()
	for _, pj := range sh.RcvProjs {
		if pj.Typ != AffProj {
			continue
		}
		pj.RecvNetFmActs()
	}
}

// LatFmActs gathers lateral excitatory and inhibitory net input from
// same-sheet recv projections, from the current sheet activations.
// Afferent input is left in place.
func (sh *Sheet) LatFmActs() {
	for ui := range sh.Units {
		un := &sh.Units[ui]
		un.LatE = 0
		un.LatI = 0
	}
	for _, pj := range sh.RcvProjs {
		if pj.Typ != LatExcProj && pj.Typ != LatInhProj {
			continue
		}
		pj.RecvNetFmActs()
	}
}

// AvgMaxAct computes the average and max activation stats over the sheet
func (sh *Sheet) AvgMaxAct() {
	sh.ActAvg.Init()
	for ui := range sh.Units {
		sh.ActAvg.UpdateVal(sh.Units[ui].Act, int32(ui))
	}
	sh.ActAvg.CalcAvg()
}

//////////////////////////////////////////////////////////////////////////////////////
//  Learn methods

// DWt computes the hebbian weight changes on all learning recv projections
func (sh *Sheet) DWt() {
	for _, pj := range sh.RcvProjs {
		pj.DWt()
	}
}

// WtFmDWt applies accumulated weight changes and renormalizes, on all
// learning recv projections.  Returns the first NormError encountered.
func (sh *Sheet) WtFmDWt() error {
	for _, pj := range sh.RcvProjs {
		if err := pj.WtFmDWt(); err != nil {
			return err
		}
	}
	return nil
}

// HomeoFmActs updates the homeostatic running averages and adaptive
// thresholds from the current settled activations.  Only effective on
// Cortex sheets with Homeo.On.
func (sh *Sheet) HomeoFmActs() {
	if sh.Typ != Cortex || !sh.Homeo.On {
		return
	}
	for ui := range sh.Units {
		un := &sh.Units[ui]
		sh.Homeo.AvgFmAct(&un.AvgAct, un.Act)
		sh.Homeo.ThrFmAvg(&un.Thr, un.AvgAct)
	}
}

// Prune runs a structural pruning pass on all learning recv projections.
// Returns the total number of synapses pruned, and the first NormError
// encountered.
func (sh *Sheet) Prune() (int, error) {
	tot := 0
	for _, pj := range sh.RcvProjs {
		n, err := pj.Prune()
		tot += n
		if err != nil {
			return tot, err
		}
	}
	return tot, nil
}

//////////////////////////////////////////////////////////////////////////////////////
//  Unit access

// UnitVals fills in values of given unit variable name on all units in the
// sheet, into given float32 slice (only resized if not big enough).
// Returns error on invalid var name.
func (sh *Sheet) UnitVals(vals *[]float32, varNm string) error {
	vidx, err := UnitVarByName(varNm)
	if err != nil {
		return err
	}
	nu := len(sh.Units)
	if *vals == nil || cap(*vals) < nu {
		*vals = make([]float32, nu)
	} else if len(*vals) < nu {
		*vals = (*vals)[0:nu]
	}
	for ui := range sh.Units {
		(*vals)[ui] = sh.Units[ui].VarByIndex(vidx)
	}
	return nil
}

// UnitValsTensor fills in values of given unit variable name on all units
// in the sheet, into given tensor, which is reshaped to the sheet shape.
// Returns error on invalid var name.
func (sh *Sheet) UnitValsTensor(tsr *etensor.Float32, varNm string) error {
	vidx, err := UnitVarByName(varNm)
	if err != nil {
		return err
	}
	tsr.SetShape(sh.Shp.Shp, nil, []string{"Y", "X"})
	for ui := range sh.Units {
		tsr.Values[ui] = sh.Units[ui].VarByIndex(vidx)
	}
	return nil
}

// UnitVal returns value of given unit variable name for given unit flat
// index -- returns NaN on invalid var name or index
func (sh *Sheet) UnitVal(varNm string, idx int) float32 {
	if idx < 0 || idx >= len(sh.Units) {
		return mat32.NaN()
	}
	v, err := sh.Units[idx].VarByName(varNm)
	if err != nil {
		return mat32.NaN()
	}
	return v
}

///////////////////////////////////////////////////////////////////////
//  Weights File

// WriteWtsJSON writes the weights from this sheet from the receiver-side
// perspective in a JSON text format.  The adaptive thresholds and running
// average activities are saved along with the weights, as they are part of
// the learned state.
func (sh *Sheet) WriteWtsJSON(w io.Writer, depth int) {
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Layer\": %q,\n", sh.Nm)))
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("\"Units\": {\n"))
	depth++
	sh.writeUnitVarJSON(w, depth, "Thr", true)
	sh.writeUnitVarJSON(w, depth, "AvgAct", false)
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("},\n"))
	w.Write(indent.TabBytes(depth))
	onps := make([]*Projection, 0, len(sh.RcvProjs))
	for _, pj := range sh.RcvProjs {
		if !pj.Off {
			onps = append(onps, pj)
		}
	}
	np := len(onps)
	if np == 0 {
		w.Write([]byte("\"Prjns\": null\n"))
	} else {
		w.Write([]byte("\"Prjns\": [\n"))
		depth++
		for pi, pj := range onps {
			pj.WriteWtsJSON(w, depth) // this leaves prjn unterminated
			if pi == np-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}")) // note: leave unterminated as outer loop needs to add , or just \n depending
}

func (sh *Sheet) writeUnitVarJSON(w io.Writer, depth int, varNm string, comma bool) {
	vidx, _ := UnitVarByName(varNm)
	nu := len(sh.Units)
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("%q: [ ", varNm)))
	for ui := 0; ui < nu; ui++ {
		w.Write([]byte(strconv.FormatFloat(float64(sh.Units[ui].VarByIndex(vidx)), 'g', weights.Prec, 32)))
		if ui == nu-1 {
			w.Write([]byte(" "))
		} else {
			w.Write([]byte(", "))
		}
	}
	if comma {
		w.Write([]byte("],\n"))
	} else {
		w.Write([]byte("]\n"))
	}
}

// ReadWtsJSON reads the weights from this sheet from the receiver-side
// perspective in a JSON text format.  This is for a set of weights that
// were saved *for one sheet only* and is not used for the network-level
// ReadWtsJSON, which reads into a separate structure -- see SetWts method.
func (sh *Sheet) ReadWtsJSON(r io.Reader) error {
	lw, err := weights.LayReadJSON(r)
	if err != nil {
		return err // note: already logged
	}
	return sh.SetWts(lw)
}

// SetWts sets the weights for this sheet from weights.Layer decoded values,
// including the adaptive thresholds and running average activities
func (sh *Sheet) SetWts(lw *weights.Layer) error {
	if sh.Off {
		return nil
	}
	if lw.Units != nil {
		if thrs, ok := lw.Units["Thr"]; ok && len(thrs) == len(sh.Units) {
			for ui := range sh.Units {
				sh.Units[ui].Thr = thrs[ui]
			}
		}
		if avgs, ok := lw.Units["AvgAct"]; ok && len(avgs) == len(sh.Units) {
			for ui := range sh.Units {
				sh.Units[ui].AvgAct = avgs[ui]
			}
		}
	}
	var err error
	if len(lw.Prjns) == len(sh.RcvProjs) { // this is essential if multiple prjns from same sheet
		for pi := range lw.Prjns {
			pw := &lw.Prjns[pi]
			pj := sh.RcvProjs[pi]
			er := pj.SetWts(pw)
			if er != nil {
				err = er
			}
		}
	} else {
		// matching by name
		for pi := range lw.Prjns {
			pw := &lw.Prjns[pi]
			pj := sh.RecvProj(pw.From)
			if pj == nil {
				err = fmt.Errorf("gcal.Sheet %v SetWts: no recv projection from %v", sh.Nm, pw.From)
				continue
			}
			er := pj.SetWts(pw)
			if er != nil {
				err = er
			}
		}
	}
	return err
}
