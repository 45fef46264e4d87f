// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package patterns provides input pattern environments for training
// orientation-map models: randomly placed oriented gaussian blobs, and
// patches sampled from natural images.
package patterns

import (
	"fmt"
	"math/rand"

	"github.com/emer/emergent/env"
	"github.com/emer/etable/etensor"
	"github.com/goki/mat32"
)

// GaussEnv generates retinal input patterns composed of elongated gaussian
// blobs at random positions and orientations, the standard training diet
// for orientation-map models.  Each Step draws a fresh pattern; overlapping
// blobs combine by max so values stay in the 0-1 range.
type GaussEnv struct {
	Nm      string          `desc:"name of this environment"`
	Dsc     string          `desc:"description of this environment"`
	Size    int             `desc:"side length of the square retinal pattern"`
	NPer    int             `def:"2" desc:"number of gaussian blobs per pattern"`
	SigmaU  float32         `def:"2.25" desc:"gaussian width along the orientation axis, in retinal units"`
	SigmaV  float32         `def:"0.75" desc:"gaussian width across the orientation axis, in retinal units"`
	FixOri  float32         `def:"-1" desc:"fixed orientation in radians for all blobs -- negative means a new random orientation per blob"`
	Oris    []float32       `inactive:"+" desc:"orientations of the blobs in the current pattern"`
	Pattern etensor.Float32 `desc:"current retinal input pattern"`
	Run     env.Ctr         `view:"inline" desc:"current run of model as provided during Init"`
	Epoch   env.Ctr         `view:"inline" desc:"number of times through Trial.Max patterns"`
	Trial   env.Ctr         `view:"inline" desc:"trial is the step counter within epoch"`
}

func (ev *GaussEnv) Name() string { return ev.Nm }
func (ev *GaussEnv) Desc() string { return ev.Dsc }

func (ev *GaussEnv) Defaults() {
	ev.NPer = 2
	ev.SigmaU = 2.25
	ev.SigmaV = 0.75
	ev.FixOri = -1
}

// SetSize sets the pattern size and allocates the pattern tensor
func (ev *GaussEnv) SetSize(sz int) {
	ev.Size = sz
	ev.Pattern.SetShape([]int{sz, sz}, nil, []string{"Y", "X"})
}

func (ev *GaussEnv) Validate() error {
	if ev.Size <= 0 {
		return fmt.Errorf("GaussEnv: %v Size == 0 -- must set with SetSize call", ev.Nm)
	}
	if ev.NPer <= 0 {
		return fmt.Errorf("GaussEnv: %v NPer == 0", ev.Nm)
	}
	return nil
}

func (ev *GaussEnv) Counters() []env.TimeScales {
	return []env.TimeScales{env.Run, env.Epoch, env.Trial}
}

func (ev *GaussEnv) States() env.Elements {
	els := env.Elements{
		{"Retina", []int{ev.Size, ev.Size}, []string{"Y", "X"}},
	}
	return els
}

func (ev *GaussEnv) State(element string) etensor.Tensor {
	switch element {
	case "Retina":
		return &ev.Pattern
	}
	return nil
}

func (ev *GaussEnv) Actions() env.Elements {
	return nil
}

// String returns the current state as a string
func (ev *GaussEnv) String() string {
	return fmt.Sprintf("gauss_%d_oris_%v", ev.Trial.Cur, ev.Oris)
}

func (ev *GaussEnv) Init(run int) {
	ev.Run.Scale = env.Run
	ev.Epoch.Scale = env.Epoch
	ev.Trial.Scale = env.Trial
	ev.Run.Init()
	ev.Epoch.Init()
	ev.Trial.Init()
	ev.Run.Cur = run
	ev.Trial.Cur = -1 // init state -- key so that first Step() = 0
	if ev.Oris == nil {
		ev.Oris = make([]float32, ev.NPer)
	}
}

// DrawPattern draws a fresh pattern of NPer oriented gaussian blobs at
// random positions, recording the orientations in Oris
func (ev *GaussEnv) DrawPattern() {
	ev.Pattern.SetZeros()
	if len(ev.Oris) != ev.NPer {
		ev.Oris = make([]float32, ev.NPer)
	}
	for bi := 0; bi < ev.NPer; bi++ {
		cy := rand.Float32() * float32(ev.Size)
		cx := rand.Float32() * float32(ev.Size)
		ori := ev.FixOri
		if ori < 0 {
			ori = rand.Float32() * mat32.Pi
		}
		ev.Oris[bi] = ori
		ev.DrawGauss(cy, cx, ori)
	}
}

// DrawGauss max-combines one oriented gaussian blob at given center and
// orientation into the current pattern
func (ev *GaussEnv) DrawGauss(cy, cx, ori float32) {
	sin := mat32.Sin(ori)
	cos := mat32.Cos(ori)
	us2 := 2 * ev.SigmaU * ev.SigmaU
	vs2 := 2 * ev.SigmaV * ev.SigmaV
	for y := 0; y < ev.Size; y++ {
		for x := 0; x < ev.Size; x++ {
			dy := float32(y) - cy
			dx := float32(x) - cx
			u := dx*cos + dy*sin
			v := -dx*sin + dy*cos
			val := mat32.Exp(-(u*u/us2 + v*v/vs2))
			i := y*ev.Size + x
			if val > ev.Pattern.Values[i] {
				ev.Pattern.Values[i] = val
			}
		}
	}
}

func (ev *GaussEnv) Step() bool {
	ev.Epoch.Same() // good idea to just reset all non-inner-most counters at start
	ev.DrawPattern()
	if ev.Trial.Incr() {
		ev.Epoch.Incr()
	}
	return true
}

func (ev *GaussEnv) Action(element string, input etensor.Tensor) {
	// nop
}

func (ev *GaussEnv) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
	switch scale {
	case env.Run:
		return ev.Run.Query()
	case env.Epoch:
		return ev.Epoch.Query()
	case env.Trial:
		return ev.Trial.Query()
	}
	return -1, -1, false
}

// Compile-time check that implements Env interface
var _ env.Env = (*GaussEnv)(nil)
