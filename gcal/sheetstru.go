// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"github.com/emer/etable/etensor"
)

// gcal.SheetStru manages the structural elements of a sheet, common to all
// sheet types.  Sheets are always 2D grids of units.
type SheetStru struct {
	Nm       string        `desc:"name of the sheet -- must be unique within the network, which has a map for quick lookup"`
	Cls      string        `desc:"class is for applying parameter styles, can be space separated multiple tags"`
	Off      bool          `desc:"inactivate this sheet -- allows for easy experimentation"`
	Shp      etensor.Shape `desc:"shape of the sheet -- 2D, row major (Y then X)"`
	Typ      SheetType     `desc:"functional type of sheet -- Retina, LGN, or Cortex -- determines the activation update performed each step, and matches against .Class parameter styles"`
	Pol      Polarity      `desc:"response polarity, for LGN sheets -- On or Off center-surround channel"`
	Idx      int           `desc:"a 0..n-1 index of the position of the sheet within the list of sheets in the network"`
	RcvProjs []*Projection `desc:"list of receiving projections into this sheet from other sheets"`
	SndProjs []*Projection `desc:"list of sending projections from this sheet to other sheets"`
}

// params.Styler interface

func (ss *SheetStru) Name() string      { return ss.Nm }
func (ss *SheetStru) Class() string     { return ss.Typ.String() + " " + ss.Cls }
func (ss *SheetStru) TypeName() string  { return "Sheet" }
func (ss *SheetStru) SetName(nm string) { ss.Nm = nm }
func (ss *SheetStru) SetClass(cls string) { ss.Cls = cls }

func (ss *SheetStru) IsOff() bool        { return ss.Off }
func (ss *SheetStru) SetOff(off bool)    { ss.Off = off }
func (ss *SheetStru) Shape() *etensor.Shape { return &ss.Shp }
func (ss *SheetStru) Type() SheetType    { return ss.Typ }
func (ss *SheetStru) Index() int         { return ss.Idx }
func (ss *SheetStru) SetIndex(idx int)   { ss.Idx = idx }

// NUnits returns the total number of units in the sheet
func (ss *SheetStru) NUnits() int { return ss.Shp.Len() }

// SetShape sets the 2D sheet shape with standard dimension names
func (ss *SheetStru) SetShape(shape []int) {
	ss.Shp.SetShape(shape, nil, []string{"Y", "X"})
}

// Config configures the basic structural properties of the sheet
func (ss *SheetStru) Config(shape []int, typ SheetType) {
	ss.SetShape(shape)
	ss.Typ = typ
}

// RecvProj returns the recv projection from given sending sheet name,
// nil if not found
func (ss *SheetStru) RecvProj(sendNm string) *Projection {
	for _, pj := range ss.RcvProjs {
		if pj.Send.Name() == sendNm {
			return pj
		}
	}
	return nil
}
