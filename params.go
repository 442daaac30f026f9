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
	"strings"
)

// Param identifies a string-valued setting of a [Manager].
type Param int

// These are the parameters of a manager.
const (
	ParamDefaultGray Param = iota
	ParamDefaultRGB
	ParamDefaultCMYK
	ParamLab
	ParamDeviceN
	ParamNamed
	ParamSourceTags
	ParamDirectory
)

var paramNames = [...]string{
	ParamDefaultGray: "DefaultGrayProfile",
	ParamDefaultRGB:  "DefaultRGBProfile",
	ParamDefaultCMYK: "DefaultCMYKProfile",
	ParamLab:         "LabProfile",
	ParamDeviceN:     "DeviceNProfile",
	ParamNamed:       "NamedProfile",
	ParamSourceTags:  "SourceTagProfile",
	ParamDirectory:   "ProfileDirectory",
}

func (p Param) String() string {
	if p >= 0 && int(p) < len(paramNames) {
		return paramNames[p]
	}
	return fmt.Sprintf("Param(%d)", int(p))
}

// ParseParam returns the parameter with the given name.
func ParseParam(name string) (Param, error) {
	for p, s := range paramNames {
		if strings.EqualFold(s, name) {
			return Param(p), nil
		}
	}
	return 0, fmt.Errorf("iccmgr: unknown parameter %q", name)
}

func (p Param) role() Role {
	switch p {
	case ParamDefaultGray:
		return DefaultGray
	case ParamDefaultRGB:
		return DefaultRGB
	case ParamDefaultCMYK:
		return DefaultCMYK
	case ParamLab:
		return DefaultLab
	case ParamNamed:
		return NamedColor
	}
	return NoRole
}

// Param returns the current value of a parameter.  For unset default
// roles, the name of the built-in profile is returned.
func (m *Manager) Param(p Param) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch p {
	case ParamDefaultGray, ParamDefaultRGB, ParamDefaultCMYK, ParamLab:
		role := p.role()
		if b := *m.slot(role); b != nil {
			return b.Name(), nil
		}
		return defaultName(role), nil
	case ParamNamed:
		if m.named != nil {
			return m.named.Name(), nil
		}
		return "", nil
	case ParamDeviceN:
		if len(m.deviceN) > 0 {
			return m.deviceN[0].Name(), nil
		}
		return "", nil
	case ParamSourceTags:
		return m.srcTagName, nil
	case ParamDirectory:
		return m.search.dir, nil
	}
	return "", fmt.Errorf("iccmgr: unknown parameter %s", p)
}

// SetParam changes a parameter.  Setting a parameter to the empty string
// has no effect.
//
// For ParamDeviceN the value is a list of profile names, separated by
// commas or semicolons.
func (m *Manager) SetParam(p Param, value string) error {
	if value == "" {
		return nil
	}

	switch p {
	case ParamDefaultGray, ParamDefaultRGB, ParamDefaultCMYK, ParamLab, ParamNamed:
		return m.SetProfile(p.role(), value)
	case ParamDeviceN:
		for _, name := range splitNames(value) {
			if err := m.SetProfile(DeviceN, name); err != nil {
				return err
			}
		}
		return nil
	case ParamSourceTags:
		return m.SetSourceTags(value)
	case ParamDirectory:
		m.mu.Lock()
		m.search.dir = value
		m.mu.Unlock()
		return nil
	}
	return fmt.Errorf("iccmgr: unknown parameter %s", p)
}

// splitNames splits a list of names at commas and semicolons.  Spaces
// around each name are removed and empty names are dropped.
func splitNames(list string) []string {
	fields := strings.FieldsFunc(list, func(r rune) bool {
		return r == ',' || r == ';'
	})
	res := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, " ")
		if f != "" {
			res = append(res, f)
		}
	}
	return res
}
