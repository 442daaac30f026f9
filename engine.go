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

import "seehuhn.de/go/iccmgr/cms"

// Engine parses ICC profile data into handles.
//
// The engine must not keep references to buf beyond the lifetime of the
// returned handle, and must not modify buf.
type Engine interface {
	Open(buf []byte) (Handle, error)
}

// Handle gives access to the properties of a parsed profile.
type Handle interface {
	InputChannels() int
	OutputChannels() int
	ColorSpace() cms.ColorSpace
	NumColorants() int
	Colorant(i int) string
	Close() error
}

// cmsEngine adapts [cms.Engine] to the Engine interface.
type cmsEngine struct {
	cms.Engine
}

func (e cmsEngine) Open(buf []byte) (Handle, error) {
	h, err := e.Engine.Open(buf)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// NameList is an ordered list of colorant names, as embedded in a DeviceN
// profile.
type NameList struct {
	names []string
}

// NewNameList returns a name list holding a copy of names.
func NewNameList(names []string) *NameList {
	return &NameList{names: append([]string(nil), names...)}
}

// Len returns the number of names in the list.
func (l *NameList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.names)
}

// Name returns the i-th name.
func (l *NameList) Name(i int) string {
	return l.names[i]
}

// Names returns a copy of the names in the list.
func (l *NameList) Names() []string {
	if l == nil {
		return nil
	}
	return append([]string(nil), l.names...)
}

func colorantNames(h Handle) *NameList {
	n := h.NumColorants()
	names := make([]string, n)
	for i := range names {
		names[i] = h.Colorant(i)
	}
	return &NameList{names: names}
}
