// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"fmt"
	"reflect"
)

// gcal.Unit holds all of the unit level state variables.
// All variables must be float32 in contiguous order, accessible
// generically by name or index via reflection.
type Unit struct {
	Act     float32 `desc:"current activation value, in the 0-1 range -- the settled firing-rate output of the unit communicated to other units"`
	Ext     float32 `desc:"external input -- drives activation directly for input (retina) sheets"`
	Aff     float32 `desc:"afferent net input gathered from feedforward projections"`
	LatE    float32 `desc:"lateral excitatory net input gathered from same-sheet excitatory projections"`
	LatI    float32 `desc:"lateral inhibitory net input gathered from same-sheet inhibitory projections"`
	Net     float32 `desc:"total integrated net input from the last activation update, after projection gains and threshold subtraction"`
	Thr     float32 `desc:"adaptive activation threshold -- raised or lowered by homeostatic adaptation to keep average activity near target"`
	AvgAct  float32 `desc:"long-run exponential moving average of settled activation, driving homeostatic threshold adaptation"`
	ActDel  float32 `desc:"delta activation: change in Act from one settle cycle to the next -- max abs value over the sheet is the settling convergence measure"`
	ActLast float32 `desc:"activation at the end of the last successfully settled step -- restored as the fallback state when settling diverges"`
}

var UnitVars = []string{"Act", "Ext", "Aff", "LatE", "LatI", "Net", "Thr", "AvgAct", "ActDel", "ActLast"}

var UnitVarsMap map[string]int

var UnitVarProps = map[string]string{
	"ActDel": `auto-scale:"+"`,
}

func init() {
	UnitVarsMap = make(map[string]int, len(UnitVars))
	for i, v := range UnitVars {
		UnitVarsMap[v] = i
	}
}

func (un *Unit) VarNames() []string {
	return UnitVars
}

// UnitVarByName returns the index of the variable in the Unit, or error
func UnitVarByName(varNm string) (int, error) {
	i, ok := UnitVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Unit VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in UnitVars list)
func (un *Unit) VarByIndex(idx int) float32 {
	v := reflect.ValueOf(*un)
	return v.Field(idx).Interface().(float32)
}

// VarByName returns variable by name, or error
func (un *Unit) VarByName(varNm string) (float32, error) {
	i, err := UnitVarByName(varNm)
	if err != nil {
		return 0, err
	}
	return un.VarByIndex(i), nil
}

func (un *Unit) SetVarByIndex(idx int, val float32) {
	v := reflect.ValueOf(un)
	v.Elem().Field(idx).SetFloat(float64(val))
}

// SetVarByName sets unit variable to given value
func (un *Unit) SetVarByName(varNm string, val float32) error {
	i, err := UnitVarByName(varNm)
	if err != nil {
		return err
	}
	un.SetVarByIndex(i, val)
	return nil
}
