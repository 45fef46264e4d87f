// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gcal

import (
	"compress/gzip"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unsafe"

	"github.com/c2h5oh/datasize"
	"github.com/emer/emergent/params"
	"github.com/emer/emergent/prjn"
	"github.com/emer/emergent/weights"
	"github.com/goki/ki/indent"
)

// gcal.Network owns the sheets and projections of a model and coordinates
// building, initialization, and weight I/O.  There is no process-wide
// registry: every sheet and projection belongs to exactly one Network, and
// all wiring is explicit through AddSheet / ConnectSheets calls before Build.
type Network struct {
	Nm       string            `desc:"overall name of network -- helps discriminate if there are multiple"`
	Sheets   []*Sheet          `desc:"list of sheets, in the order added"`
	ShtMap   map[string]*Sheet `view:"-" desc:"map of name to sheets -- sheet names must be unique"`
	WtsFile  string            `desc:"filename of last weights file loaded or saved"`
	MetaData map[string]string `desc:"optional metadata that is saved in network weights files -- e.g., can indicate number of steps that were trained, or any other information about this network that would be useful to save"`
	Built    bool              `inactive:"+" desc:"true after Build has completed successfully"`
}

// NewNetwork returns a new network with the given name
func NewNetwork(name string) *Network {
	return &Network{Nm: name, ShtMap: make(map[string]*Sheet)}
}

func (nt *Network) Name() string  { return nt.Nm }
func (nt *Network) Label() string { return nt.Nm }
func (nt *Network) NSheets() int  { return len(nt.Sheets) }

// SheetByName returns a sheet by looking it up by name in the sheet map
// (nil if not found)
func (nt *Network) SheetByName(name string) *Sheet {
	if nt.ShtMap == nil || len(nt.ShtMap) != len(nt.Sheets) {
		nt.MakeShtMap()
	}
	return nt.ShtMap[name]
}

// SheetByNameTry returns a sheet by looking it up by name -- emits a log
// error message if sheet is not found
func (nt *Network) SheetByNameTry(name string) (*Sheet, error) {
	sh := nt.SheetByName(name)
	if sh == nil {
		err := fmt.Errorf("Sheet named: %v not found in Network: %v", name, nt.Nm)
		log.Println(err)
		return nil, err
	}
	return sh, nil
}

// MakeShtMap updates sheet map based on current sheets
func (nt *Network) MakeShtMap() {
	nt.ShtMap = make(map[string]*Sheet, len(nt.Sheets))
	for _, sh := range nt.Sheets {
		nt.ShtMap[sh.Name()] = sh
	}
}

// AddSheet2D adds a new 2D sheet of given name, Y x X size, and type.
// Sheet defaults are set.
func (nt *Network) AddSheet2D(name string, shapeY, shapeX int, typ SheetType) *Sheet {
	sh := &Sheet{}
	sh.Nm = name
	sh.Config([]int{shapeY, shapeX}, typ)
	sh.Defaults()
	nt.Sheets = append(nt.Sheets, sh)
	if nt.ShtMap == nil {
		nt.ShtMap = make(map[string]*Sheet)
	}
	nt.ShtMap[name] = sh
	return sh
}

// ConnectSheets establishes a projection between two sheets, referenced by
// pointer, with given connectivity pattern and type.  Does not yet actually
// connect the units within the sheets -- that requires Build.
func (nt *Network) ConnectSheets(send, recv *Sheet, pat prjn.Pattern, typ ProjType) *Projection {
	pj := &Projection{}
	pj.Defaults()
	pj.Connect(send, recv, pat, typ)
	recv.RcvProjs = append(recv.RcvProjs, pj)
	send.SndProjs = append(send.SndProjs, pj)
	return pj
}

// ConnectSheetNames establishes a projection between two sheets, referenced
// by name, with given connectivity pattern and type
func (nt *Network) ConnectSheetNames(send, recv string, pat prjn.Pattern, typ ProjType) (ssh, rsh *Sheet, pj *Projection, err error) {
	ssh, err = nt.SheetByNameTry(send)
	if err != nil {
		return
	}
	rsh, err = nt.SheetByNameTry(recv)
	if err != nil {
		return
	}
	pj = nt.ConnectSheets(ssh, rsh, pat, typ)
	return
}

// LateralConnectSheet establishes a self-projection within given sheet,
// with given connectivity pattern and type
func (nt *Network) LateralConnectSheet(sh *Sheet, pat prjn.Pattern, typ ProjType) *Projection {
	return nt.ConnectSheets(sh, sh, pat, typ)
}

// Validate checks the network configuration: sheet names, shapes, and
// projection wiring.  Returns a ConfigError describing the first problem
// found, or nil.  Called by Build before any allocation.
func (nt *Network) Validate() error {
	names := make(map[string]bool, len(nt.Sheets))
	for _, sh := range nt.Sheets {
		if sh.Nm == "" {
			return &ConfigError{Item: nt.Nm, Msg: "sheet with empty name"}
		}
		if names[sh.Nm] {
			return &ConfigError{Item: sh.Nm, Msg: "duplicate sheet name"}
		}
		names[sh.Nm] = true
		if sh.Shp.NumDims() != 2 {
			return &ConfigError{Item: sh.Nm, Msg: fmt.Sprintf("sheet shape must be 2D, got %vD", sh.Shp.NumDims())}
		}
		if sh.Shp.Len() == 0 {
			return &ConfigError{Item: sh.Nm, Msg: "sheet has zero units"}
		}
		for _, pj := range sh.RcvProjs {
			if err := pj.Validate(false); err != nil {
				return &ConfigError{Item: pj.String(), Msg: err.Error()}
			}
			if cp, ok := pj.Pat.(*prjn.Circle); ok {
				ssh := pj.Send.Shape()
				smin := ssh.Dim(0)
				if ssh.Dim(1) < smin {
					smin = ssh.Dim(1)
				}
				if !cp.Wrap && cp.Radius > smin {
					return &ConfigError{Item: pj.Name(), Msg: fmt.Sprintf("circle radius %v exceeds sending sheet min dimension %v", cp.Radius, smin)}
				}
			}
		}
	}
	return nil
}

// Build constructs the sheet and projection state based on the sheet shapes
// and patterns of interconnectivity, after validating the configuration
func (nt *Network) Build() error {
	if err := nt.Validate(); err != nil {
		log.Println(err)
		return err
	}
	for si, sh := range nt.Sheets {
		sh.SetIndex(si)
		if sh.IsOff() {
			continue
		}
		if err := sh.Build(); err != nil {
			return err
		}
	}
	nt.Built = true
	return nil
}

// Defaults sets all the default parameters for all sheets and projections
func (nt *Network) Defaults() {
	for _, sh := range nt.Sheets {
		sh.Defaults()
	}
}

// UpdateParams updates all the derived parameters if any have changed, for
// all sheets and projections
func (nt *Network) UpdateParams() {
	for _, sh := range nt.Sheets {
		sh.UpdateParams()
	}
}

// ApplyParams applies given parameter style Sheet to sheets and projections
// in this network.  Calls UpdateParams to ensure derived parameters are all
// updated.  If setMsg is true, then a message is printed to confirm each
// parameter that is set.  It always prints a message if a parameter fails
// to be set.  Returns true if any params were set, and error if there were
// any errors.
func (nt *Network) ApplyParams(pars *params.Sheet, setMsg bool) (bool, error) {
	applied := false
	var rerr error
	for _, sh := range nt.Sheets {
		app, err := sh.ApplyParams(pars, setMsg)
		if app {
			applied = true
		}
		if err != nil {
			rerr = err
		}
	}
	return applied, rerr
}

//////////////////////////////////////////////////////////////////////////////////////
//  Init methods

// InitWts initializes synaptic weights and all learning state in all sheets
// in the network, scheduled by the sheet order so results are deterministic
// for a given random seed
func (nt *Network) InitWts() {
	for _, sh := range nt.Sheets {
		if sh.IsOff() {
			continue
		}
		sh.InitWts()
	}
}

// InitActs fully initializes activation state in all sheets
func (nt *Network) InitActs() {
	for _, sh := range nt.Sheets {
		if sh.IsOff() {
			continue
		}
		sh.InitActs()
	}
}

//////////////////////////////////////////////////////////////////////////////////////
//  Weights File

// SaveWtsJSON saves network weights (and any other state that adapts with
// learning) to a JSON-formatted file.  If filename has .gz extension, then
// file is gzip compressed.
func (nt *Network) SaveWtsJSON(filename string) error {
	fp, err := os.Create(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr := gzip.NewWriter(fp)
		defer gzr.Close()
		nt.WriteWtsJSON(gzr)
	} else {
		nt.WriteWtsJSON(fp)
	}
	nt.WtsFile = filename
	return nil
}

// OpenWtsJSON opens network weights (and any other state that adapts with
// learning) from a JSON-formatted file.  If filename has .gz extension,
// then file is gzip uncompressed.
func (nt *Network) OpenWtsJSON(filename string) error {
	fp, err := os.Open(filename)
	defer fp.Close()
	if err != nil {
		log.Println(err)
		return err
	}
	ext := filepath.Ext(filename)
	if ext == ".gz" {
		gzr, err := gzip.NewReader(fp)
		defer gzr.Close()
		if err != nil {
			log.Println(err)
			return err
		}
		return nt.ReadWtsJSON(gzr)
	}
	return nt.ReadWtsJSON(fp)
}

// WriteWtsJSON writes the weights from this network from the receiver-side
// perspective in a JSON text format.  We build in the indentation logic to
// make it much faster and more efficient.
func (nt *Network) WriteWtsJSON(w io.Writer) {
	depth := 0
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("{\n"))
	depth++
	w.Write(indent.TabBytes(depth))
	w.Write([]byte(fmt.Sprintf("\"Network\": %q,\n", nt.Nm))) // note: can't use \n in `` so need "
	w.Write(indent.TabBytes(depth))
	onshs := make([]*Sheet, 0, len(nt.Sheets))
	for _, sh := range nt.Sheets {
		if !sh.IsOff() {
			onshs = append(onshs, sh)
		}
	}
	ns := len(onshs)
	if ns == 0 {
		w.Write([]byte("\"Layers\": null\n"))
	} else {
		w.Write([]byte("\"Layers\": [\n"))
		depth++
		for si, sh := range onshs {
			sh.WriteWtsJSON(w, depth)
			if si == ns-1 {
				w.Write([]byte("\n"))
			} else {
				w.Write([]byte(",\n"))
			}
		}
		depth--
		w.Write(indent.TabBytes(depth))
		w.Write([]byte("]\n"))
	}
	depth--
	w.Write(indent.TabBytes(depth))
	w.Write([]byte("}\n"))
}

// ReadWtsJSON reads network weights from the receiver-side perspective in a
// JSON text format.  Reads entire file into a temporary weights.Weights
// structure that is then passed to Sheets etc using SetWts method.
func (nt *Network) ReadWtsJSON(r io.Reader) error {
	nw, err := weights.NetReadJSON(r)
	if err != nil {
		return err // note: already logged
	}
	err = nt.SetWts(nw)
	if err != nil {
		log.Println(err)
	}
	return err
}

// SetWts sets the weights for this network from weights.Network decoded values
func (nt *Network) SetWts(nw *weights.Network) error {
	var err error
	if nw.Network != "" {
		nt.Nm = nw.Network
	}
	if nw.MetaData != nil {
		if nt.MetaData == nil {
			nt.MetaData = nw.MetaData
		} else {
			for mk, mv := range nw.MetaData {
				nt.MetaData[mk] = mv
			}
		}
	}
	for li := range nw.Layers {
		lw := &nw.Layers[li]
		sh, er := nt.SheetByNameTry(lw.Layer)
		if er != nil {
			err = er
			continue
		}
		sh.SetWts(lw)
	}
	return err
}

//////////////////////////////////////////////////////////////////////////////////////
//  Misc Reports

// SizeReport returns a string reporting the size of each sheet and
// projection in the network, and total memory footprint
func (nt *Network) SizeReport() string {
	var b strings.Builder
	unit := 0
	unitMem := 0
	syn := 0
	synMem := 0
	for _, sh := range nt.Sheets {
		nu := len(sh.Units)
		umem := nu * int(unsafe.Sizeof(Unit{}))
		unit += nu
		unitMem += umem
		fmt.Fprintf(&b, "%14s:\t Units: %d\t UnitMem: %v \t Recvs From:\n", sh.Nm, nu, (datasize.ByteSize)(umem).HumanReadable())
		for _, pj := range sh.RcvProjs {
			ns := len(pj.Syns)
			syn += ns
			pmem := ns * int(unsafe.Sizeof(Synapse{}))
			synMem += pmem
			fmt.Fprintf(&b, "\t%14s:\t Syns: %d\t SynMem: %v\n", pj.Send.Name(), ns, (datasize.ByteSize)(pmem).HumanReadable())
		}
	}
	fmt.Fprintf(&b, "\n\n%14s:\t Units: %d\t UnitMem: %v \t Syns: %d \t SynMem: %v\n", nt.Nm, unit, (datasize.ByteSize)(unitMem).HumanReadable(), syn, (datasize.ByteSize)(synMem).HumanReadable())
	return b.String()
}

// UnitVarNames returns a list of unit variable names available on the units
// in this network
func (nt *Network) UnitVarNames() []string {
	return UnitVars
}

// SynVarNames returns the names of all the variables on the synapses in
// this network
func (nt *Network) SynVarNames() []string {
	return SynapseVars
}
