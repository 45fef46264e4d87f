// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import "github.com/goki/ki/kit"

// gcal.Clock contains the timing state and parameters for running the model.
// One step = one input pattern presentation, including the full settling
// process of the cortical sheet.
type Clock struct {
	Step          int     `desc:"step counter within the current epoch: one input presentation with full settling"`
	StepTot       int     `desc:"total step counter across epochs -- drives the learning, homeostasis, and pruning intervals"`
	Epoch         int     `desc:"epoch counter: StepsPerEpoch steps"`
	Time          float32 `desc:"accumulated amount of simulation time, in model time units"`
	TimePerStep   float32 `def:"1" desc:"amount of simulation time per step"`
	StepsPerEpoch int     `def:"1000" desc:"number of steps per epoch"`
}

// NewClock returns a new Clock with default parameters
func NewClock() *Clock {
	ck := &Clock{}
	ck.Defaults()
	return ck
}

func (ck *Clock) Defaults() {
	ck.TimePerStep = 1
	ck.StepsPerEpoch = 1000
}

// Reset resets the counters all back to zero
func (ck *Clock) Reset() {
	ck.Step = 0
	ck.StepTot = 0
	ck.Epoch = 0
	ck.Time = 0
}

// StepInc increments the step counters and advances time, rolling over into
// a new epoch at StepsPerEpoch.  Returns true if a new epoch started.
func (ck *Clock) StepInc() bool {
	ck.Step++
	ck.StepTot++
	ck.Time += ck.TimePerStep
	if ck.Step >= ck.StepsPerEpoch {
		ck.Step = 0
		ck.Epoch++
		return true
	}
	return false
}

// RunState is the state of the scheduler's run state machine
type RunState int

var KiT_RunState = kit.Enums.AddEnum(RunStateN, kit.NotBitFlag, nil)

func (ev RunState) MarshalJSON() ([]byte, error)  { return kit.EnumMarshalJSON(ev) }
func (ev *RunState) UnmarshalJSON(b []byte) error { return kit.EnumUnmarshalJSON(ev, b) }

// The run states
const (
	// Uninitialized is the initial state: the scheduler has a network but
	// Init has not been called
	Uninitialized RunState = iota

	// Built means Init has completed: weights initialized, environment
	// reset, clock at zero, ready to step
	Built

	// Running means the scheduler is inside a multi-step Run call
	Running

	// Stepped is the settled state after a successful step: all sheet
	// activations reflect the last input presentation
	Stepped

	// Terminated means the run completed normally
	Terminated

	// Aborted means a fatal run-time error (weight normalization failure)
	// stopped the run -- state was dumped for inspection
	Aborted

	RunStateN
)

var runStateNames = [...]string{"Uninitialized", "Built", "Running", "Stepped", "Terminated", "Aborted", "RunStateN"}

func (ev RunState) String() string {
	if ev < 0 || ev > RunStateN {
		return "RunState(invalid)"
	}
	return runStateNames[ev]
}
