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
	"fmt"
	"sync"
	"sync/atomic"

	"seehuhn.de/go/iccmgr/cms"
	"seehuhn.de/go/iccmgr/resource"
)

// DeviceSlot selects one of the profiles of an output device.
type DeviceSlot int

// These are the device profile slots.  The first four slots carry a
// rendering intent each.
const (
	SlotDefault DeviceSlot = iota
	SlotGraphic
	SlotImage
	SlotText
	SlotProof
	SlotLink
	SlotOutputIntent

	numIntentSlots = SlotProof
)

func (s DeviceSlot) String() string {
	switch s {
	case SlotDefault:
		return "default"
	case SlotGraphic:
		return "graphic"
	case SlotImage:
		return "image"
	case SlotText:
		return "text"
	case SlotProof:
		return "proof"
	case SlotLink:
		return "link"
	case SlotOutputIntent:
		return "output intent"
	default:
		return fmt.Sprintf("DeviceSlot(%d)", int(s))
	}
}

// DeviceProfiles holds the profiles of an output device.
//
// The set is reference counted, since copies of a device may share it.
// When the last reference is released, all profiles are released.
type DeviceProfiles struct {
	refs atomic.Int32

	mu       sync.Mutex
	profiles [SlotOutputIntent + 1]*Blob
	intents  [numIntentSlots]cms.RenderingIntent

	// GrayToK maps device gray to pure black ink.
	GrayToK bool

	// FastColor uses device colour arithmetic instead of ICC transforms.
	FastColor bool

	// SupportsDeviceN tells whether the device can render DeviceN colours
	// natively.
	SupportsDeviceN bool
}

// NewDeviceProfiles returns an empty profile set with a reference count of
// one.  All intents are Perceptual.
func NewDeviceProfiles() *DeviceProfiles {
	d := &DeviceProfiles{GrayToK: true}
	d.refs.Store(1)
	return d
}

// Retain adds a reference to the profile set.
func (d *DeviceProfiles) Retain() {
	d.refs.Add(1)
}

// Release drops a reference.  When the last reference is dropped, the
// profiles are released.
func (d *DeviceProfiles) Release() {
	for {
		n := d.refs.Load()
		if n <= 0 {
			return
		}
		if d.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				d.free()
			}
			return
		}
	}
}

func (d *DeviceProfiles) free() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, b := range d.profiles {
		if b != nil {
			b.Release()
			d.profiles[i] = nil
		}
	}
}

// defaultDeviceProfile returns the profile name used for a device with the
// given number of colour components.
func defaultDeviceProfile(numComponents int) string {
	switch numComponents {
	case 1:
		return resource.DefaultGray
	case 3:
		return resource.DefaultRGB
	default:
		return resource.DefaultCMYK
	}
}

// Init loads the named profile into a slot.
//
// If name is empty, a built-in profile is chosen from numComponents.  If the
// slot already holds a profile of the same name, or an output intent
// profile, nothing is changed.
func (d *DeviceProfiles) Init(m *Manager, slot DeviceSlot, name string, numComponents int) error {
	if slot < 0 || slot > SlotOutputIntent {
		return fmt.Errorf("iccmgr: invalid device slot %d", slot)
	}
	if name == "" {
		name = defaultDeviceProfile(numComponents)
	}

	d.mu.Lock()
	cur := d.profiles[slot]
	d.mu.Unlock()
	if cur != nil && (cur.Name() == name || cur.Name() == OutputIntentName) {
		return nil
	}

	b, err := m.LoadDeviceProfile(name)
	if err != nil {
		return err
	}
	err = d.Set(slot, b)
	b.Release()
	return err
}

// Set installs b in a slot.  The profile set takes its own reference to b.
func (d *DeviceProfiles) Set(slot DeviceSlot, b *Blob) error {
	if slot < 0 || slot > SlotOutputIntent {
		return fmt.Errorf("iccmgr: invalid device slot %d", slot)
	}
	if b != nil {
		b.Retain()
	}
	d.mu.Lock()
	old := d.profiles[slot]
	d.profiles[slot] = b
	d.mu.Unlock()
	if old != nil {
		old.Release()
	}
	return nil
}

// Profile returns the profile in a slot, or nil.
func (d *DeviceProfiles) Profile(slot DeviceSlot) *Blob {
	if slot < 0 || slot > SlotOutputIntent {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.profiles[slot]
}

// SetIntent sets the rendering intent of one of the first four slots.
func (d *DeviceProfiles) SetIntent(slot DeviceSlot, intent cms.RenderingIntent) {
	if slot < 0 || slot >= numIntentSlots {
		return
	}
	d.mu.Lock()
	d.intents[slot] = intent
	d.mu.Unlock()
}

// Extract returns the profile and intent for painting objects of the given
// class.  If no profile is set for the class, the default slot is used.
func (d *DeviceProfiles) Extract(obj ObjectClass) (*Blob, cms.RenderingIntent) {
	slot := SlotDefault
	switch obj {
	case ObjectPath:
		slot = SlotGraphic
	case ObjectImage:
		slot = SlotImage
	case ObjectText:
		slot = SlotText
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.profiles[slot] == nil {
		slot = SlotDefault
	}
	return d.profiles[slot], d.intents[slot]
}

// LoadDeviceProfile loads an output device profile.  Unlike the session
// defaults, device profiles are materialized and hashed straight away.
// Profiles loaded from the built-in default names get the matching default
// role.  The caller owns the returned reference.
func (m *Manager) LoadDeviceProfile(name string) (*Blob, error) {
	b, err := m.OpenProfile(name)
	if err != nil {
		return nil, err
	}

	in, _ := b.Channels()
	switch {
	case in == 1 && name == resource.DefaultGray:
		b.SetRole(DefaultGray)
	case in == 3 && name == resource.DefaultRGB:
		b.SetRole(DefaultRGB)
	case in == 4 && name == resource.DefaultCMYK:
		b.SetRole(DefaultCMYK)
	}
	m.logger.Debug("device profile loaded", "name", name, "components", in)
	return b, nil
}
