// seehuhn.de/go/iccmgr - manage ICC colour profiles for an imaging pipeline
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package iccmgr

import (
	"io/fs"
	"sync"
	"sync/atomic"
	"testing/fstest"

	"seehuhn.de/go/iccmgr/cms"
)

// makeProfile returns an encoded profile with the given data colour space.
// Colorant names, if given, are stored in a colorant table.
func makeProfile(space cms.ColorSpace, colorants ...string) []byte {
	p := &cms.Profile{
		Class:      cms.OutputDeviceProfile,
		ColorSpace: space,
		PCS:        cms.PCSLabSpace,
		TagData: map[cms.TagType][]byte{
			cms.ProfileDescription: cms.EncodeDesc(space.String()),
		},
	}
	if space == cms.RGBSpace || space == cms.GraySpace {
		p.Class = cms.DisplayDeviceProfile
		p.PCS = cms.PCSXYZSpace
	}
	if colorants != nil {
		p.TagData[cms.ColorantTable] = cms.EncodeColorantTable(colorants)
	}
	return p.Encode()
}

// testFS returns a resource root with the built-in profile names, made from
// synthetic profiles.
func testFS() fstest.MapFS {
	return fstest.MapFS{
		"default_gray.icc": {Data: makeProfile(cms.GraySpace)},
		"default_rgb.icc":  {Data: makeProfile(cms.RGBSpace)},
		"default_cmyk.icc": {Data: makeProfile(cms.CMYKSpace)},
		"lab.icc":          {Data: makeProfile(cms.CIELabSpace)},
		"ps_gray.icc":      {Data: makeProfile(cms.GraySpace)},
		"ps_rgb.icc":       {Data: makeProfile(cms.RGBSpace)},
		"ps_cmyk.icc":      {Data: makeProfile(cms.CMYKSpace)},
	}
}

// countingFS counts the files opened through it.
type countingFS struct {
	fs.FS

	mu    sync.Mutex
	opens map[string]int
}

func newCountingFS(fsys fs.FS) *countingFS {
	return &countingFS{FS: fsys, opens: make(map[string]int)}
}

func (c *countingFS) Open(name string) (fs.File, error) {
	f, err := c.FS.Open(name)
	if err == nil {
		c.mu.Lock()
		c.opens[name]++
		c.mu.Unlock()
	}
	return f, err
}

func (c *countingFS) count(name string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens[name]
}

// countingEngine wraps the built-in engine and counts open and closed
// handles.
type countingEngine struct {
	opened atomic.Int32
	closed atomic.Int32
}

func (e *countingEngine) Open(buf []byte) (Handle, error) {
	h, err := cmsEngine{}.Open(buf)
	if err != nil {
		return nil, err
	}
	e.opened.Add(1)
	return &countingHandle{Handle: h, e: e}, nil
}

type countingHandle struct {
	Handle
	e *countingEngine
}

func (h *countingHandle) Close() error {
	h.e.closed.Add(1)
	return h.Handle.Close()
}
