// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/emer/emergent/env"
	"github.com/emer/etable/etable"
)

// gcal.Scheduler drives the model as an explicit state machine: it owns the
// network, the input environment, and the clock, and runs the per-step
// pipeline of input presentation, feedforward LGN passes, cortical settling,
// and the periodic learning, homeostasis, and pruning updates.
//
// Everything runs on the calling goroutine in fixed index order, so a given
// random seed and configuration always produces bit-identical activation and
// weight trajectories.
type Scheduler struct {
	Net        *Network `desc:"the network being run"`
	Env        env.Env  `desc:"the input pattern environment -- its Retina state element provides the pattern each step"`
	Clock      Clock    `desc:"step, epoch, and time counters"`
	State      RunState `inactive:"+" desc:"current state of the run state machine"`
	LearnEvery int      `def:"1" desc:"interval in steps between hebbian learning passes"`
	HomeoEvery int      `def:"16" desc:"interval in steps between homeostatic threshold adaptation passes"`
	PruneEvery int      `def:"1000" desc:"interval in steps between structural pruning passes"`
	RndSeed    int64    `desc:"the random seed last passed to Init"`
	DumpPrefix string   `desc:"path prefix for the state dump files written when a run aborts on a fatal error -- empty means no dump"`
	InputName  string   `def:"Retina" desc:"name of the environment state element holding the input pattern"`
}

// NewScheduler returns a new scheduler for given network and environment,
// with default parameters
func NewScheduler(net *Network, ev env.Env) *Scheduler {
	sc := &Scheduler{Net: net, Env: ev}
	sc.Defaults()
	return sc
}

func (sc *Scheduler) Defaults() {
	sc.Clock.Defaults()
	sc.LearnEvery = 1
	sc.HomeoEvery = 16
	sc.PruneEvery = 1000
	sc.InputName = "Retina"
	sc.State = Uninitialized
}

// Init initializes the run: seeds the global random source, resets the
// environment and clock, and initializes the network weights.  The network
// must have been built first -- stepping an unbuilt network is a
// configuration error.
func (sc *Scheduler) Init(seed int64) error {
	if sc.Net == nil || !sc.Net.Built {
		return &ConfigError{Item: "Scheduler", Msg: "network is nil or not built"}
	}
	if sc.Env == nil {
		return &ConfigError{Item: "Scheduler", Msg: "environment is nil"}
	}
	if err := sc.Env.Validate(); err != nil {
		return &ConfigError{Item: "Scheduler", Msg: "environment: " + err.Error()}
	}
	sc.RndSeed = seed
	rand.Seed(seed)
	sc.Env.Init(0)
	sc.Net.InitWts()
	sc.Clock.Reset()
	sc.State = Built
	return nil
}

// Step runs one full step: generate the next input pattern, present it to
// the retina, run the LGN feedforward passes and the cortical settling, and
// apply the periodic learning, homeostasis, and pruning updates.  On a
// fatal normalization error the run is aborted: state is dumped (if
// DumpPrefix is set) and the error returned.
func (sc *Scheduler) Step() error {
	switch sc.State {
	case Built, Stepped, Running:
	default:
		return &ConfigError{Item: "Scheduler", Msg: fmt.Sprintf("cannot step from state %v", sc.State)}
	}

	sc.Env.Step()
	pat := sc.Env.State(sc.InputName)
	if pat == nil {
		return &ConfigError{Item: "Scheduler", Msg: fmt.Sprintf("environment has no state element %q", sc.InputName)}
	}

	// activation phases, in feedforward sheet order
	for _, sh := range sc.Net.Sheets {
		if sh.IsOff() {
			continue
		}
		switch sh.Typ {
		case Retina:
			if err := sh.ApplyExt(pat); err != nil {
				return err
			}
		case LGN:
			sh.FFStep()
		case Cortex:
			sh.Settle()
		}
	}

	sc.Clock.StepInc()
	stepN := sc.Clock.StepTot // 1-based after increment

	if sc.LearnEvery > 0 && stepN%sc.LearnEvery == 0 {
		for _, sh := range sc.Net.Sheets {
			if sh.IsOff() {
				continue
			}
			sh.DWt()
		}
		for _, sh := range sc.Net.Sheets {
			if sh.IsOff() {
				continue
			}
			if err := sh.WtFmDWt(); err != nil {
				return sc.abort(err)
			}
		}
	}

	if sc.HomeoEvery > 0 && stepN%sc.HomeoEvery == 0 {
		for _, sh := range sc.Net.Sheets {
			if sh.IsOff() {
				continue
			}
			sh.HomeoFmActs()
		}
	}

	if sc.PruneEvery > 0 && stepN%sc.PruneEvery == 0 {
		for _, sh := range sc.Net.Sheets {
			if sh.IsOff() {
				continue
			}
			if _, err := sh.Prune(); err != nil {
				return sc.abort(err)
			}
		}
	}

	if sc.State != Running {
		sc.State = Stepped
	}
	return nil
}

// Run runs n steps, stopping and returning the error if any step fails
// fatally.  The state is Running during the loop and Stepped after return,
// except on a fatal abort which sets Aborted.
func (sc *Scheduler) Run(n int) error {
	switch sc.State {
	case Built, Stepped:
	default:
		return &ConfigError{Item: "Scheduler", Msg: fmt.Sprintf("cannot run from state %v", sc.State)}
	}
	sc.State = Running
	for i := 0; i < n; i++ {
		if err := sc.Step(); err != nil {
			if sc.State == Running { // non-fatal error -- fatal aborts set Aborted
				sc.State = Stepped
			}
			return err
		}
	}
	sc.State = Stepped
	return nil
}

// Terminate marks the run as completed normally.  Further stepping requires
// a new Init.
func (sc *Scheduler) Terminate() {
	sc.State = Terminated
}

// abort marks the run as fatally failed, dumps the full network state for
// inspection (weights plus activation snapshot) if DumpPrefix is set, and
// returns the error
func (sc *Scheduler) abort(err error) error {
	sc.State = Aborted
	log.Printf("gcal.Scheduler aborting run at step %v: %v\n", sc.Clock.StepTot, err)
	if sc.DumpPrefix != "" {
		wfn := sc.DumpPrefix + "_abort_wts.wts.gz"
		if werr := sc.Net.SaveWtsJSON(wfn); werr != nil {
			log.Printf("gcal.Scheduler state dump failed: %v\n", werr)
		}
		afn := sc.DumpPrefix + "_abort_acts.csv"
		atbl := ActSnapshot(sc.Net)
		fp, ferr := os.Create(afn)
		if ferr != nil {
			log.Printf("gcal.Scheduler state dump failed: %v\n", ferr)
		} else {
			atbl.WriteCSV(fp, etable.Comma, etable.Headers)
			fp.Close()
		}
	}
	return err
}
