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

// MatchDefault checks whether b is byte-identical to one of the default
// profiles of the manager.  If b has no role yet and its hash equals the
// hash of a default profile, b is given the corresponding embedded role.
// The hash of b is computed if needed.
func (m *Manager) MatchDefault(b *Blob) {
	hash := b.Hash()
	if b.Role() != NoRole {
		return
	}

	m.mu.Lock()
	defaults := m.defaults
	for _, d := range defaults {
		if d != nil {
			d.Retain()
		}
	}
	m.mu.Unlock()
	defer func() {
		for _, d := range defaults {
			if d != nil {
				d.Release()
			}
		}
	}()

	for i, d := range defaults {
		if d == nil || d == b {
			continue
		}
		if d.Hash() == hash {
			b.SetRole(EmbeddedGray + Role(i))
			return
		}
	}
}

// DefaultFamily returns the colour space family a writer can use instead
// of embedding the profile b.  FamilyICCBased means that the profile must
// be embedded.
func DefaultFamily(b *Blob) Family {
	switch b.Role() {
	case DefaultGray, EmbeddedGray:
		return FamilyDeviceGray
	case DefaultRGB, EmbeddedRGB:
		return FamilyDeviceRGB
	case DefaultCMYK, EmbeddedCMYK:
		return FamilyDeviceCMYK
	case DefaultLab, EmbeddedLab:
		return FamilyLab
	case CIEA:
		return FamilyCIEA
	case CIEABC:
		return FamilyCIEABC
	case CIEDEF:
		return FamilyCIEDEF
	case CIEDEFG:
		return FamilyCIEDEFG
	}
	return FamilyICCBased
}

// ProfileForFamily returns the profile used for colours in the given
// family, or nil if the family has no profile of its own.  The caller must
// release the result.
func (m *Manager) ProfileForFamily(f Family) *Blob {
	switch f {
	case FamilyDeviceGray:
		return m.Acquire(DefaultGray)
	case FamilyDeviceRGB, FamilyCIEDEF:
		return m.Acquire(DefaultRGB)
	case FamilyDeviceCMYK, FamilyCIEDEFG:
		return m.Acquire(DefaultCMYK)
	case FamilyLab:
		return m.Acquire(DefaultLab)
	}
	return nil
}
