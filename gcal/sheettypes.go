// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import "github.com/goki/ki/kit"

// SheetType is the functional type of a sheet, determining which
// activation update it performs each step
type SheetType int

var KiT_SheetType = kit.Enums.AddEnum(SheetTypeN, kit.NotBitFlag, nil)

func (ev SheetType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *SheetType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The sheet types
const (
	// Retina is the input sheet: activation is clamped directly from
	// external input patterns, no settling, no learning
	Retina SheetType = iota

	// LGN is a gain-controlled relay sheet: one feedforward pass through
	// fixed center-surround weights followed by divisive contrast
	// normalization
	LGN

	// Cortex is the self-organizing sheet: iterative settling over lateral
	// connections, hebbian learning, homeostatic threshold adaptation
	Cortex

	SheetTypeN
)

var sheetTypeNames = [...]string{"Retina", "LGN", "Cortex", "SheetTypeN"}

func (ev SheetType) String() string {
	if ev < 0 || ev > SheetTypeN {
		return "SheetType(invalid)"
	}
	return sheetTypeNames[ev]
}

// Polarity is the response polarity of an LGN sheet: On-center sheets
// respond to luminance increments, Off-center to decrements
type Polarity int

var KiT_Polarity = kit.Enums.AddEnum(PolarityN, kit.NotBitFlag, nil)

func (ev Polarity) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *Polarity) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The polarities
const (
	// NoPolarity is for non-LGN sheets
	NoPolarity Polarity = iota

	// On is the on-center / off-surround channel
	On

	// Off is the off-center / on-surround channel
	Off

	PolarityN
)

var polarityNames = [...]string{"NoPolarity", "On", "Off", "PolarityN"}

func (ev Polarity) String() string {
	if ev < 0 || ev > PolarityN {
		return "Polarity(invalid)"
	}
	return polarityNames[ev]
}

// ProjType is the functional type of a projection, determining which unit
// input accumulator it delivers into and its learning defaults
type ProjType int

var KiT_ProjType = kit.Enums.AddEnum(ProjTypeN, kit.NotBitFlag, nil)

func (ev ProjType) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *ProjType) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The projection types
const (
	// AffProj is a feedforward afferent projection, delivering into Aff
	AffProj ProjType = iota

	// LatExcProj is a lateral excitatory projection, delivering into LatE
	LatExcProj

	// LatInhProj is a lateral inhibitory projection, delivering into LatI
	LatInhProj

	ProjTypeN
)

var projTypeNames = [...]string{"Aff", "LatExc", "LatInh", "ProjTypeN"}

func (ev ProjType) String() string {
	if ev < 0 || ev > ProjTypeN {
		return "ProjType(invalid)"
	}
	return projTypeNames[ev]
}
