// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import "fmt"

// ConfigError is a build-time configuration error: an invalid sheet,
// projection, or scheduler setup detected during validation, before any
// simulation state is exposed.  ConfigErrors are fatal: the network or
// scheduler must be reconfigured and rebuilt.
type ConfigError struct {
	Item string `desc:"name of the sheet, projection, or component with the invalid configuration"`
	Msg  string `desc:"description of the problem"`
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("gcal config error: %v: %v", e.Item, e.Msg)
}

// NormError is a run-time weight normalization failure: a receiving unit's
// incoming weight sum collapsed below the minimum valid denominator, so the
// divisive normalization is no longer well-defined.  NormErrors are fatal:
// the scheduler aborts the run and dumps state for inspection.
type NormError struct {
	Proj string  `desc:"name of the projection where normalization failed"`
	Recv int     `desc:"flat index of the receiving unit"`
	Sum  float32 `desc:"the collapsed weight sum"`
}

func (e *NormError) Error() string {
	return fmt.Sprintf("gcal normalization error: projection %v recv unit %v weight sum %g below minimum", e.Proj, e.Recv, e.Sum)
}
