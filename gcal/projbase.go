// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"errors"
	"log"

	"github.com/emer/emergent/prjn"
	"github.com/emer/etable/minmax"
)

// gcal.ProjStru contains the basic structural information for a projection
// (connection field) of synaptic connections between two sheets.  All
// connectivity state is owned by the receiving side: synapses are stored in
// one list ordered by receiving unit, because every learning, normalization,
// and pruning operation in gcal runs over a receiving unit's incoming
// connections as a group.
type ProjStru struct {
	Off   bool         `desc:"inactivate this projection -- allows for easy experimentation"`
	Cls   string       `desc:"class is for applying parameter styles, can be space separated multiple tags"`
	Notes string       `desc:"can record notes about this projection here"`
	Send  *Sheet       `desc:"sending sheet for this projection"`
	Recv  *Sheet       `desc:"receiving sheet for this projection"`
	Pat   prjn.Pattern `desc:"pattern of connectivity"`
	Typ   ProjType     `desc:"functional type of projection -- Aff, LatExc, or LatInh -- determines which unit input accumulator it delivers into, and matches against .Class parameter styles"`

	RConN       []int32         `view:"-" desc:"number of connections for each unit in the receiving sheet, as a flat list"`
	RConNAvgMax minmax.AvgMax32 `inactive:"+" view:"inline" desc:"average and maximum number of connections per receiving unit"`
	RConIdxSt   []int32         `view:"-" desc:"starting index into RConIdx (and Syns) for each unit in the receiving sheet -- incremented by RConN"`
	RConIdx     []int32         `view:"-" desc:"index of the sending unit for each connection, ordered by receiving unit as the outer loop, then by sending unit within that"`
}

// params.Styler interface

func (ps *ProjStru) Name() string {
	return ps.Send.Name() + "To" + ps.Recv.Name()
}
func (ps *ProjStru) Class() string       { return ps.Typ.String() + " " + ps.Cls }
func (ps *ProjStru) TypeName() string    { return "Proj" }
func (ps *ProjStru) SetClass(cls string) { ps.Cls = cls }
func (ps *ProjStru) Label() string       { return ps.Name() }

func (ps *ProjStru) IsOff() bool {
	return ps.Off || ps.Recv.IsOff() || ps.Send.IsOff()
}
func (ps *ProjStru) SetOff(off bool) { ps.Off = off }

func (ps *ProjStru) RecvSheet() *Sheet   { return ps.Recv }
func (ps *ProjStru) SendSheet() *Sheet   { return ps.Send }
func (ps *ProjStru) Pattern() prjn.Pattern { return ps.Pat }
func (ps *ProjStru) Type() ProjType      { return ps.Typ }

// Connect sets the connectivity between two sheets and the pattern to use
func (ps *ProjStru) Connect(slay, rlay *Sheet, pat prjn.Pattern, typ ProjType) {
	ps.Send = slay
	ps.Recv = rlay
	ps.Pat = pat
	ps.Typ = typ
}

// Validate tests for non-nil settings for the projection -- returns error
// message or nil if no problems (and logs them if logmsg = true)
func (ps *ProjStru) Validate(logmsg bool) error {
	emsg := ""
	if ps.Pat == nil {
		emsg += "Pat is nil; "
	}
	if ps.Recv == nil {
		emsg += "Recv is nil; "
	}
	if ps.Send == nil {
		emsg += "Send is nil; "
	}
	if emsg != "" {
		err := errors.New(emsg)
		if logmsg {
			log.Println(emsg)
		}
		return err
	}
	return nil
}

// BuildStru constructs the full connectivity among the sheets as specified
// in this projection.  Calls Validate and returns error if invalid.
// Pat.Connect is called to get the pattern of the connection, and the
// receiver-ordered connection indexes are then configured from that pattern.
func (ps *ProjStru) BuildStru() error {
	if ps.Off {
		return nil
	}
	err := ps.Validate(true)
	if err != nil {
		return err
	}
	ssh := ps.Send.Shape()
	rsh := ps.Recv.Shape()
	_, recvn, cons := ps.Pat.Connect(ssh, rsh, ps.Recv == ps.Send)
	slen := ssh.Len()
	rlen := rsh.Len()

	ps.RConN = make([]int32, rlen)
	ps.RConIdxSt = make([]int32, rlen)
	rnv := recvn.Values
	tconr := int32(0)
	ps.RConNAvgMax.Init()
	for ri := 0; ri < rlen; ri++ {
		nv := rnv[ri]
		ps.RConN[ri] = nv
		ps.RConIdxSt[ri] = tconr
		tconr += nv
		ps.RConNAvgMax.UpdateVal(float32(nv), int32(ri))
	}
	ps.RConNAvgMax.CalcAvg()
	if tconr == 0 {
		err = errors.New(ps.String() + " no connections produced by pattern")
		log.Println(err)
		return err
	}
	ps.RConIdx = make([]int32, tconr)

	cbits := cons.Values
	for ri := 0; ri < rlen; ri++ {
		rbi := ri * slen // recv bit index
		rtcn := ps.RConN[ri]
		rst := ps.RConIdxSt[ri]
		rci := int32(0)
		for si := 0; si < slen; si++ {
			if !cbits.Index(rbi + si) { // no connection
				continue
			}
			if rci >= rtcn {
				log.Printf("%v programmer error: recv target total con number: %v exceeded at recv idx: %v, send idx: %v\n", ps.String(), rtcn, ri, si)
				break
			}
			ps.RConIdx[rst+rci] = int32(si)
			rci++
		}
	}
	return nil
}

// String satisfies fmt.Stringer for projection
func (ps *ProjStru) String() string {
	str := ""
	if ps.Recv == nil {
		str += "recv=nil; "
	} else {
		str += ps.Recv.Name() + " <- "
	}
	if ps.Send == nil {
		str += "send=nil"
	} else {
		str += ps.Send.Name()
	}
	if ps.Pat == nil {
		str += " Pat=nil"
	} else {
		str += " Pat=" + ps.Pat.Name()
	}
	return str
}
