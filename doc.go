// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package gcal is the overall repository for the GCAL (gain-control, adaptive,
laterally-connected) model of cortical map self-organization, implemented in
the Go language (golang).

This top-level of the repository has no functional code -- everything is
organized into the following sub-repositories:

* gcal: the core implementation: sheets (retina, LGN on / off, cortex),
receiver-owned connection-field projections with Hebbian learning and
divisive weight normalization, the settling dynamics of the cortical sheet,
and the scheduler that drives the train loop as an explicit state machine.

* plsig: the piecewise-linear sigmoid activation function used by all
model units.

* gain: divisive contrast gain-control normalization used by the LGN sheets.

* homeo: homeostatic adaptation of unit thresholds toward a target average
activity level.

* patterns: input pattern environments (oriented gaussians, natural image
patches) implementing the emergent env.Env interface.

* examples: these compile into runnable programs.  examples/gcal builds the
standard GCAL orientation-map model with default parameters, trains it, and
saves logs and weight snapshots.
*/
package gcal
