// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package patterns

import (
	"fmt"
	"image"
	"log"
	"math/rand"
	"os"

	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/clone"
	"github.com/emer/emergent/env"
	"github.com/emer/etable/etensor"
	"github.com/emer/vision/vfilter"
	"github.com/emer/vision/vxform"
)

// ImgEnv presents greyscale patches sampled at random positions from a list
// of natural images, with random rotation and scaling transforms, as retinal
// input patterns.  Images are preloaded for speed.
type ImgEnv struct {
	Nm         string          `desc:"name of this environment"`
	Dsc        string          `desc:"description of this environment"`
	Size       int             `desc:"side length of the square retinal pattern"`
	ImageFiles []string        `desc:"paths to images"`
	Images     []*image.RGBA   `view:"-" desc:"images (preload for speed)"`
	CurImg     int             `inactive:"+" desc:"current image index"`
	XFormRand  vxform.Rand     `desc:"random transform parameters"`
	XForm      vxform.XForm    `desc:"current -- prev transforms"`
	ImgTsr     etensor.Float32 `view:"-" desc:"greyscale buffer for the transformed patch"`
	Pattern    etensor.Float32 `desc:"current retinal input pattern"`
	Run        env.Ctr         `view:"inline" desc:"current run of model as provided during Init"`
	Epoch      env.Ctr         `view:"inline" desc:"number of times through Trial.Max patterns"`
	Trial      env.Ctr         `view:"inline" desc:"trial is the step counter within epoch"`
}

func (ev *ImgEnv) Name() string { return ev.Nm }
func (ev *ImgEnv) Desc() string { return ev.Dsc }

func (ev *ImgEnv) Defaults() {
	ev.XFormRand.TransX.Set(0, 0) // translation happens in random patch selection
	ev.XFormRand.TransY.Set(0, 0)
	ev.XFormRand.Scale.Set(0.5, 1)
	ev.XFormRand.Rot.Set(-90, 90)
}

// SetSize sets the pattern size and allocates the pattern tensor
func (ev *ImgEnv) SetSize(sz int) {
	ev.Size = sz
	ev.Pattern.SetShape([]int{sz, sz}, nil, []string{"Y", "X"})
}

func (ev *ImgEnv) Validate() error {
	if ev.Size <= 0 {
		return fmt.Errorf("ImgEnv: %v Size == 0 -- must set with SetSize call", ev.Nm)
	}
	if len(ev.Images) == 0 {
		return fmt.Errorf("ImgEnv: %v no images loaded -- must call OpenImages", ev.Nm)
	}
	psz := 2 * ev.Size
	for i, img := range ev.Images {
		isz := img.Bounds().Size()
		if isz.X <= psz || isz.Y <= psz {
			return fmt.Errorf("ImgEnv: %v image %v is %v -- must exceed %v x %v", ev.Nm, ev.ImageFiles[i], isz, psz, psz)
		}
	}
	return nil
}

func (ev *ImgEnv) Counters() []env.TimeScales {
	return []env.TimeScales{env.Run, env.Epoch, env.Trial}
}

func (ev *ImgEnv) States() env.Elements {
	els := env.Elements{
		{"Retina", []int{ev.Size, ev.Size}, []string{"Y", "X"}},
	}
	return els
}

func (ev *ImgEnv) State(element string) etensor.Tensor {
	switch element {
	case "Retina":
		return &ev.Pattern
	}
	return nil
}

func (ev *ImgEnv) Actions() env.Elements {
	return nil
}

// String returns the current state as a string
func (ev *ImgEnv) String() string {
	cfn := ev.ImageFiles[ev.CurImg]
	return fmt.Sprintf("Img: %s, %s", cfn, ev.XForm.String())
}

func (ev *ImgEnv) Init(run int) {
	ev.Run.Scale = env.Run
	ev.Epoch.Scale = env.Epoch
	ev.Trial.Scale = env.Trial
	ev.Run.Init()
	ev.Epoch.Init()
	ev.Trial.Init()
	ev.Run.Cur = run
	ev.Trial.Cur = -1 // init state -- key so that first Step() = 0
}

func (ev *ImgEnv) Step() bool {
	ev.Epoch.Same() // good idea to just reset all non-inner-most counters at start
	ev.CurImg = rand.Intn(len(ev.Images))
	ev.FilterImg()
	if ev.Trial.Incr() {
		ev.Epoch.Incr()
	}
	return true
}

// FilterImg extracts a random patch from the current image using new random
// xforms and fills in the retinal pattern
func (ev *ImgEnv) FilterImg() {
	ev.XFormRand.Gen(&ev.XForm)
	oimg := ev.Images[ev.CurImg]
	// extract a sub-image of 2x the final patch size, which greatly speeds up
	// the xform processes relative to working on the entire original image
	psz := 2 * ev.Size
	ibd := oimg.Bounds()
	isz := ibd.Size()
	var st image.Point
	st.X = ibd.Min.X + rand.Intn(isz.X-psz)
	st.Y = ibd.Min.Y + rand.Intn(isz.Y-psz)
	ed := st.Add(image.Point{psz, psz})
	simg := oimg.SubImage(image.Rectangle{Min: st, Max: ed})
	img := ev.XForm.Image(simg)
	vfilter.RGBToGrey(img, &ev.ImgTsr, 0, false) // pad for filt, bot zero
	ev.PatchFmGrey()
}

// PatchFmGrey copies the central Size x Size window of the greyscale buffer
// into the retinal pattern, normalized so the maximum value is 1
func (ev *ImgEnv) PatchFmGrey() {
	gy := ev.ImgTsr.Dim(0)
	gx := ev.ImgTsr.Dim(1)
	oy := (gy - ev.Size) / 2
	ox := (gx - ev.Size) / 2
	if oy < 0 {
		oy = 0
	}
	if ox < 0 {
		ox = 0
	}
	mx := float32(0)
	for y := 0; y < ev.Size; y++ {
		for x := 0; x < ev.Size; x++ {
			v := float32(0)
			if oy+y < gy && ox+x < gx {
				v = ev.ImgTsr.Value([]int{oy + y, ox + x})
			}
			if v < 0 {
				v = 0
			}
			if v > mx {
				mx = v
			}
			ev.Pattern.Values[y*ev.Size+x] = v
		}
	}
	if mx > 0 {
		nrm := 1 / mx
		for i := range ev.Pattern.Values {
			ev.Pattern.Values[i] *= nrm
		}
	}
}

// OpenImages opens all the images
func (ev *ImgEnv) OpenImages() error {
	nimg := len(ev.ImageFiles)
	if len(ev.Images) != nimg {
		ev.Images = make([]*image.RGBA, nimg)
	}
	var lsterr error
	for i, fn := range ev.ImageFiles {
		fp, err := os.Open(fn)
		if err != nil {
			log.Println(err)
			lsterr = err
			continue
		}
		img, _, err := image.Decode(fp)
		fp.Close()
		if err != nil {
			log.Println(err)
			lsterr = err
			continue
		}
		if rg, ok := img.(*image.RGBA); ok {
			ev.Images[i] = rg
		} else {
			ev.Images[i] = clone.AsRGBA(img)
		}
	}
	return lsterr
}

func (ev *ImgEnv) Action(element string, input etensor.Tensor) {
	// nop
}

func (ev *ImgEnv) Counter(scale env.TimeScales) (cur, prv int, chg bool) {
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
var _ env.Env = (*ImgEnv)(nil)
