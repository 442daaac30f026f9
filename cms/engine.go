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

package cms

import "sync/atomic"

// Engine opens profile buffers.  The zero value is ready to use and safe
// for concurrent use.
type Engine struct{}

// Open decodes the profile in buf and returns a handle for it.
// The buffer must not be modified while the handle is open.
func (Engine) Open(buf []byte) (*Handle, error) {
	p, err := Decode(buf)
	if err != nil {
		return nil, err
	}
	colorants, err := p.Colorants()
	if err != nil {
		return nil, err
	}
	h := &Handle{
		profile:   p,
		colorants: colorants,
	}
	return h, nil
}

// Handle gives access to the properties of an opened profile.
// All methods are safe for concurrent use.
type Handle struct {
	profile   *Profile
	colorants []string
	closed    atomic.Bool
}

// Profile returns the decoded profile.
func (h *Handle) Profile() *Profile {
	return h.profile
}

// InputChannels returns the number of channels on the data side.
func (h *Handle) InputChannels() int {
	return h.profile.ColorSpace.NumComponents()
}

// OutputChannels returns the number of channels on the PCS side.
// For device links this is the number of output device channels.
func (h *Handle) OutputChannels() int {
	return h.profile.PCS.NumComponents()
}

// ColorSpace returns the data colour space of the profile.
func (h *Handle) ColorSpace() ColorSpace {
	return h.profile.ColorSpace
}

// Class returns the profile class.
func (h *Handle) Class() ProfileClass {
	return h.profile.Class
}

// NumColorants returns the number of entries in the colorant table.
func (h *Handle) NumColorants() int {
	return len(h.colorants)
}

// Colorant returns the name of colorant i.
func (h *Handle) Colorant(i int) string {
	return h.colorants[i]
}

// Close releases the handle.  Closing a handle more than once is harmless.
func (h *Handle) Close() error {
	h.closed.Store(true)
	return nil
}

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool {
	return h.closed.Load()
}
