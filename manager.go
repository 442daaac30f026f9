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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"sync"

	"seehuhn.de/go/iccmgr/cms"
	"seehuhn.de/go/iccmgr/resource"
)

// OutputIntentName is the name given to profiles taken from a document's
// output intent.  A role holding such a profile is never replaced.
const OutputIntentName = "OIProfile"

// defaultName returns the built-in profile name for a default role.
func defaultName(r Role) string {
	switch r {
	case DefaultGray:
		return resource.DefaultGray
	case DefaultRGB:
		return resource.DefaultRGB
	case DefaultCMYK:
		return resource.DefaultCMYK
	case DefaultLab:
		return resource.DefaultLab
	}
	return ""
}

// Options configure a [Manager].  The zero value is ready to use.
type Options struct {
	// Engine parses profiles.  If this is nil, [cms.Engine] is used.
	Engine Engine

	// Dir is the profile directory, searched first.
	Dir string

	// Fallback is the resource root, searched last.  If this is nil,
	// the built-in profiles of package resource are used.
	Fallback fs.FS

	// Logger receives debug and warning messages.  If this is nil,
	// nothing is logged.
	Logger *slog.Logger
}

// A Manager holds the colour profiles of an imaging session.
//
// The manager owns one reference to each profile it holds.  Callers which
// keep a profile obtained from the manager beyond the lifetime of the
// manager must call [Blob.Retain].
type Manager struct {
	engine Engine
	logger *slog.Logger

	mu       sync.Mutex
	search   searchPath
	defaults [4]*Blob // indexed by role - DefaultGray
	deviceN  []*Blob
	named    *Blob

	srcTags    *SourceTags
	srcTagName string

	softMask [3]*Blob
	swapped  bool

	overrideInternal bool
	overrideIntent   bool
	closed           bool
}

// NewManager creates a new manager.  No profiles are loaded.
func NewManager(opt *Options) *Manager {
	if opt == nil {
		opt = &Options{}
	}
	m := &Manager{
		engine: opt.Engine,
		logger: opt.Logger,
		search: searchPath{dir: opt.Dir, fallback: opt.Fallback},
	}
	if m.engine == nil {
		m.engine = cmsEngine{}
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if m.search.fallback == nil {
		m.search.fallback = resource.FS
	}
	return m
}

// loadProfile reads a profile through the search path.
// The caller must hold m.mu.
func (m *Manager) loadProfile(name string, role Role) (*Blob, error) {
	data, where, err := m.search.read(name)
	if err != nil {
		var rErr *ResolutionError
		if errors.As(err, &rErr) {
			m.logger.Warn("profile not found", "name", name, "tried", rErr.Tried)
		}
		return nil, err
	}

	if role == NamedColor && !cms.HasSignature(data) {
		m.logger.Debug("named colour data is not an ICC profile", "name", name, "size", len(data))
		b := newRawBlob(data, name)
		b.role = NamedColor
		return b, nil
	}
	if len(data) < cms.HeaderSize {
		return nil, &LoadError{Name: name, Err: errShortProfile}
	}

	m.logger.Debug("profile loaded", "name", name, "path", where, "size", len(data))
	b := newBlob(data, name, m.engine)
	b.role = role
	return b, nil
}

func (m *Manager) slot(role Role) **Blob {
	switch role {
	case DefaultGray, DefaultRGB, DefaultCMYK, DefaultLab:
		return &m.defaults[role-DefaultGray]
	case NamedColor:
		return &m.named
	}
	return nil
}

// SetProfile loads the named profile and installs it for the given role.
//
// For the DeviceN role the profile is appended to the list of DeviceN
// profiles, unless a profile of that name is already present.  For the
// other roles the current profile is replaced, unless it has the same name
// or is an output intent profile.  The previous profile is only released
// once the new one has been loaded.
//
// While soft-mask profiles are swapped in, SetProfile does nothing.
func (m *Manager) SetProfile(role Role, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setProfile(role, name)
}

func (m *Manager) setProfile(role Role, name string) error {
	if m.closed {
		return errClosed
	}
	if m.swapped {
		m.logger.Debug("soft mask active, profile not changed", "role", role, "name", name)
		return nil
	}

	if role == DeviceN {
		return m.addDeviceN(name)
	}

	slot := m.slot(role)
	if slot == nil {
		return fmt.Errorf("iccmgr: cannot set a profile for role %s", role)
	}
	if cur := *slot; cur != nil {
		if cur.Name() == name || cur.Name() == OutputIntentName {
			return nil
		}
	}

	b, err := m.loadProfile(name, role)
	if err != nil {
		return err
	}
	if n, space := role.channels(); n > 0 {
		b.setRanges(space, n)
	}
	if old := *slot; old != nil {
		old.Release()
	}
	*slot = b
	m.logger.Debug("profile installed", "role", role, "name", name)
	return nil
}

func (m *Manager) addDeviceN(name string) error {
	for _, b := range m.deviceN {
		if b.Name() == name {
			return nil
		}
	}

	b, err := m.loadProfile(name, DeviceN)
	if err != nil {
		return err
	}
	h, err := b.EnsureHandle()
	if err != nil {
		b.Release()
		return err
	}
	spot := colorantNames(h)
	in, _ := b.Channels()

	b.mu.Lock()
	b.spotNames = spot
	b.ranges = defaultRanges(NChannel, in)
	b.mu.Unlock()

	m.deviceN = append(m.deviceN, b)
	m.logger.Debug("DeviceN profile added", "name", name, "colorants", spot.names)
	return nil
}

// Profile returns the profile installed for a role, or nil.  For the
// DeviceN role the first DeviceN profile is returned.
//
// The result is borrowed from the manager and stays valid only until the
// role is changed.  Code which may run concurrently with [Manager.SetProfile]
// must use [Manager.Acquire] instead.
func (m *Manager) Profile(role Role) *Blob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.profile(role)
}

// Acquire returns the profile installed for a role with an added
// reference, or nil.  The caller must release the result.
func (m *Manager) Acquire(role Role) *Blob {
	m.mu.Lock()
	defer m.mu.Unlock()
	b := m.profile(role)
	if b != nil {
		b.Retain()
	}
	return b
}

// profile returns the profile for a role.  The caller must hold m.mu.
func (m *Manager) profile(role Role) *Blob {
	if role == DeviceN {
		if len(m.deviceN) == 0 {
			return nil
		}
		return m.deviceN[0]
	}
	if slot := m.slot(role); slot != nil {
		return *slot
	}
	return nil
}

// DeviceNProfiles returns the DeviceN profiles in the order they were
// added.  Like [Manager.Profile], the result is borrowed.
func (m *Manager) DeviceNProfiles() []*Blob {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Blob(nil), m.deviceN...)
}

// acquireDeviceN returns the DeviceN profiles, each with an added
// reference.
func (m *Manager) acquireDeviceN() []*Blob {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := append([]*Blob(nil), m.deviceN...)
	for _, b := range res {
		b.Retain()
	}
	return res
}

// InitDefaults installs the built-in profiles for all default roles which
// do not yet hold a profile.
func (m *Manager) InitDefaults() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for role := DefaultGray; role <= DefaultLab; role++ {
		if *m.slot(role) != nil {
			continue
		}
		if err := m.setProfile(role, defaultName(role)); err != nil {
			return err
		}
	}
	return nil
}

// DefaultProfile returns the profile for a default role, ready for use.
// See [Manager.InitializeDefaultProfile].  The caller owns the returned
// reference and must release it.
func (m *Manager) DefaultProfile(role Role) (*Blob, error) {
	if !role.isDefault() {
		return nil, fmt.Errorf("iccmgr: %s is not a default role", role)
	}
	b := m.Acquire(role)
	if b == nil {
		return nil, &ResolutionError{Name: defaultName(role)}
	}
	if err := m.InitializeDefaultProfile(b); err != nil {
		b.Release()
		return nil, err
	}
	return b, nil
}

// InitializeDefaultProfile completes the delayed initialization of a
// default profile.  The engine handle is created and the hash is computed.
// An error is returned if the colour space of the profile does not match
// its role.
func (m *Manager) InitializeDefaultProfile(b *Blob) error {
	role := b.Role()
	if !role.isDefault() {
		return fmt.Errorf("iccmgr: profile %q has role %s, not a default role", b.Name(), role)
	}
	if _, err := b.EnsureHandle(); err != nil {
		return err
	}
	b.Hash()

	n, want := role.channels()
	if got := b.DataSpace(); got != want {
		return &ConsistencyError{Name: b.Name(), Role: role, Space: got}
	}
	b.setRanges(want, n)
	return nil
}

var errClosed = errors.New("iccmgr: manager is closed")

var softMaskNames = [3]string{
	resource.SoftMaskGray,
	resource.SoftMaskRGB,
	resource.SoftMaskCMYK,
}

// InitializeSoftMaskProfiles loads the Gray, RGB and CMYK profiles used
// while rendering soft masks.  Either all three profiles are installed, or
// none of them.
func (m *Manager) InitializeSoftMaskProfiles() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initSoftMask()
}

func (m *Manager) initSoftMask() error {
	if m.closed {
		return errClosed
	}
	if m.softMask[0] != nil {
		return nil
	}

	var res [3]*Blob
	for i, name := range softMaskNames {
		role := DefaultGray + Role(i)
		b, err := m.loadProfile(name, role)
		if err != nil {
			for _, b := range res[:i] {
				b.Release()
			}
			var lErr *LoadError
			if !errors.As(err, &lErr) {
				err = &LoadError{Name: name, Err: err}
			}
			return err
		}
		n, space := role.channels()
		b.setRanges(space, n)
		res[i] = b
	}
	m.softMask = res
	return nil
}

// SoftMaskProfile returns the soft-mask profile for DefaultGray,
// DefaultRGB or DefaultCMYK, or nil.  Like [Manager.Profile], the result
// is borrowed.
func (m *Manager) SoftMaskProfile(role Role) *Blob {
	if role < DefaultGray || role > DefaultCMYK {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.swapped {
		return m.defaults[role-DefaultGray]
	}
	return m.softMask[role-DefaultGray]
}

// BeginSoftMask swaps the soft-mask profiles into the Gray, RGB and CMYK
// default roles.  The soft-mask profiles are loaded if needed.
func (m *Manager) BeginSoftMask() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.swapped {
		return nil
	}
	if err := m.initSoftMask(); err != nil {
		return err
	}
	m.swapDefaults()
	m.swapped = true
	m.logger.Debug("soft-mask profiles swapped in")
	return nil
}

// EndSoftMask restores the default profiles replaced by
// [Manager.BeginSoftMask].
func (m *Manager) EndSoftMask() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.swapped {
		return
	}
	m.swapDefaults()
	m.swapped = false
	m.logger.Debug("soft-mask profiles swapped out")
}

func (m *Manager) swapDefaults() {
	for i := range m.softMask {
		m.defaults[i], m.softMask[i] = m.softMask[i], m.defaults[i]
	}
}

// Swapped reports whether the soft-mask profiles are currently swapped in.
func (m *Manager) Swapped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.swapped
}

// OpenProfile loads a profile which is not held by the manager.  The
// handle and the hash are computed before the blob is returned.
// The caller owns the returned reference.
func (m *Manager) OpenProfile(name string) (*Blob, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, errClosed
	}
	b, err := m.loadProfile(name, NoRole)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if _, err := b.EnsureHandle(); err != nil {
		b.Release()
		return nil, err
	}
	b.Hash()
	return b, nil
}

// SetOverrideInternal sets whether the profiles of the session override
// profiles embedded in documents.
func (m *Manager) SetOverrideInternal(override bool) {
	m.mu.Lock()
	m.overrideInternal = override
	m.mu.Unlock()
}

func (m *Manager) OverrideInternal() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overrideInternal
}

// SetOverrideIntent sets whether the rendering intent of the session
// overrides intents given in documents.
func (m *Manager) SetOverrideIntent(override bool) {
	m.mu.Lock()
	m.overrideIntent = override
	m.mu.Unlock()
}

func (m *Manager) OverrideIntent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overrideIntent
}

// Close releases all profiles held by the manager.
// Calling Close more than once has no effect.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true

	for i, b := range m.defaults {
		if b != nil {
			b.Release()
			m.defaults[i] = nil
		}
	}
	for i, b := range m.softMask {
		if b != nil {
			b.Release()
			m.softMask[i] = nil
		}
	}
	for _, b := range m.deviceN {
		b.Release()
	}
	m.deviceN = nil
	if m.named != nil {
		m.named.Release()
		m.named = nil
	}
	if m.srcTags != nil {
		m.srcTags.Release()
		m.srcTags = nil
	}
	return nil
}
