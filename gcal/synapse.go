// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"fmt"
	"reflect"
)

// gcal.Synapse holds state for the synaptic connection between units
type Synapse struct {
	Wt     float32 `desc:"synaptic weight value -- non-negative, clamped to Learn.WtMax, and L1-normalized with the other weights converging on the same receiving unit"`
	DWt    float32 `desc:"pending change in synaptic weight from hebbian learning, applied and renormalized at WtFmDWt"`
	Scale  float32 `desc:"fixed topographic scaling factor for this connection -- effective transmission is Scale * Wt -- set from the projection's gaussian distance envelope, defaults to 1"`
	Pruned float32 `desc:"1 if this synapse has been pruned by structural plasticity, else 0 -- pruned synapses have zero weight and never transmit or learn again"`
}

var SynapseVars = []string{"Wt", "DWt", "Scale", "Pruned"}

var SynapseVarProps = map[string]string{
	"DWt": `auto-scale:"+"`,
}

var SynapseVarsMap map[string]int

func init() {
	SynapseVarsMap = make(map[string]int, len(SynapseVars))
	for i, v := range SynapseVars {
		SynapseVarsMap[v] = i
	}
}

func (sy *Synapse) VarNames() []string {
	return SynapseVars
}

// SynapseVarByName returns the index of the variable in the Synapse, or error
func SynapseVarByName(varNm string) (int, error) {
	i, ok := SynapseVarsMap[varNm]
	if !ok {
		return 0, fmt.Errorf("Synapse VarByName: variable name: %v not valid", varNm)
	}
	return i, nil
}

// VarByIndex returns variable using index (0 = first variable in SynapseVars list)
func (sy *Synapse) VarByIndex(idx int) float32 {
	v := reflect.ValueOf(*sy)
	return v.Field(idx).Interface().(float32)
}

// VarByName returns variable by name, or error
func (sy *Synapse) VarByName(varNm string) (float32, error) {
	i, err := SynapseVarByName(varNm)
	if err != nil {
		return 0, err
	}
	return sy.VarByIndex(i), nil
}

func (sy *Synapse) SetVarByIndex(idx int, val float32) {
	v := reflect.ValueOf(sy)
	v.Elem().Field(idx).SetFloat(float64(val))
}

// SetVarByName sets synapse variable to given value
func (sy *Synapse) SetVarByName(varNm string, val float32) error {
	i, err := SynapseVarByName(varNm)
	if err != nil {
		return err
	}
	sy.SetVarByIndex(i, val)
	return nil
}
