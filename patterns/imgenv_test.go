// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package patterns

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/emer/emergent/env"
	"github.com/goki/mat32"
)

// gradImg makes a greyscale diagonal gradient image of given size
func gradImg(sz int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, sz, sz))
	for y := 0; y < sz; y++ {
		for x := 0; x < sz; x++ {
			g := uint8((x + y) * 255 / (2 * (sz - 1)))
			img.Set(x, y, color.RGBA{g, g, g, 255})
		}
	}
	return img
}

func TestImgEnvValidate(t *testing.T) {
	ev := &ImgEnv{Nm: "TestImg"}
	ev.Defaults()
	ev.SetSize(8)
	if err := ev.Validate(); err == nil {
		t.Errorf("no images should fail validation\n")
	}
	ev.ImageFiles = []string{"grad16"}
	ev.Images = []*image.RGBA{gradImg(16)} // not larger than 2 * Size
	if err := ev.Validate(); err == nil {
		t.Errorf("too-small image should fail validation\n")
	}
	ev.ImageFiles = []string{"grad64"}
	ev.Images = []*image.RGBA{gradImg(64)}
	if err := ev.Validate(); err != nil {
		t.Error(err)
	}
}

func TestImgEnvStep(t *testing.T) {
	ev := &ImgEnv{Nm: "TestImg"}
	ev.Defaults()
	ev.SetSize(8)
	ev.ImageFiles = []string{"grad64"}
	ev.Images = []*image.RGBA{gradImg(64)}
	if err := ev.Validate(); err != nil {
		t.Fatal(err)
	}
	ev.Init(0)

	rand.Seed(12)
	for si := 0; si < 5; si++ {
		ev.Step()
		mx := float32(0)
		for _, v := range ev.Pattern.Values {
			if v < 0 || v > 1+1.0e-6 {
				t.Errorf("pattern value %v out of 0-1 range\n", v)
			}
			if v > mx {
				mx = v
			}
		}
		if mat32.Abs(mx-1) > 1.0e-6 {
			t.Errorf("pattern max = %v, want 1\n", mx)
		}
	}
	cur, _, _ := ev.Counter(env.Trial)
	if cur != 4 {
		t.Errorf("trial counter = %v, want 4\n", cur)
	}
}

func TestImgEnvPatch(t *testing.T) {
	ev := &ImgEnv{Nm: "TestImg"}
	ev.Defaults()
	ev.SetSize(8)

	// 16x16 grey buffer: central window is rows / cols 4-11
	ev.ImgTsr.SetShape([]int{16, 16}, nil, []string{"Y", "X"})
	for i := range ev.ImgTsr.Values {
		ev.ImgTsr.Values[i] = 0.25
	}
	ev.ImgTsr.Set([]int{8, 8}, 0.5)
	ev.ImgTsr.Set([]int{4, 4}, -1) // negative grey values are clamped

	ev.PatchFmGrey()
	ctr := ev.Pattern.Value([]int{4, 4})
	if mat32.Abs(ctr-1) > 1.0e-6 {
		t.Errorf("peak value = %v, want 1 after normalization\n", ctr)
	}
	rest := ev.Pattern.Value([]int{2, 3})
	if mat32.Abs(rest-0.5) > 1.0e-6 {
		t.Errorf("background value = %v, want 0.5 after normalization\n", rest)
	}
	neg := ev.Pattern.Value([]int{0, 0})
	if neg != 0 {
		t.Errorf("negative grey value = %v, want clamped to 0\n", neg)
	}
}
