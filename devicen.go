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
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// MatchDeviceN matches the colorants of a DeviceN colour space against the
// colorant names embedded in a DeviceN profile.
//
// The profile must have exactly len(names) input channels.  Each document
// colorant is assigned the first unused profile colorant whose name starts
// with the document colorant's name.  On success, perm[j] is the profile
// channel for document colorant j and needed reports whether perm differs
// from the identity.
//
// The permutation is also recorded on the blob.  Since DeviceN colour spaces
// which list the same colorants in different orders share one blob, a later
// match overwrites the permutation stored by an earlier one.  Callers must
// use the returned permutation, or read [Blob.Permutation] immediately after
// the match.
func MatchDeviceN(b *Blob, names []string) (perm []int, needed, ok bool) {
	n := len(names)
	if n == 0 {
		return nil, false, false
	}

	spot := b.SpotNames()
	if spot == nil {
		h, err := b.EnsureHandle()
		if err != nil {
			return nil, false, false
		}
		spot = colorantNames(h)
	}
	if in, _ := b.Channels(); in != n {
		return nil, false, false
	}

	used := bitset.New(uint(spot.Len()))
	perm = make([]int, n)
	for j, name := range names {
		found := false
		for i := 0; i < spot.Len(); i++ {
			if used.Test(uint(i)) || !strings.HasPrefix(spot.Name(i), name) {
				continue
			}
			used.Set(uint(i))
			perm[j] = i
			found = true
			break
		}
		if !found {
			return nil, false, false
		}
		if perm[j] != j {
			needed = true
		}
	}

	b.mu.Lock()
	b.permutation = append(b.permutation[:0], perm...)
	b.permuteNeeded = needed
	b.mu.Unlock()

	return perm, needed, true
}

// FindDeviceN returns the first DeviceN profile of the manager whose
// colorants match names, together with the channel permutation.
// Candidates which cannot be loaded are skipped.  On success the caller
// owns a reference to the returned blob and must release it.
func (m *Manager) FindDeviceN(names []string) (*Blob, []int, bool) {
	var found *Blob
	var perm []int
	for _, b := range m.acquireDeviceN() {
		if found == nil {
			if p, _, ok := MatchDeviceN(b, names); ok {
				found, perm = b, p
				continue
			}
		}
		b.Release()
	}
	if found == nil {
		return nil, nil, false
	}
	return found, perm, true
}
