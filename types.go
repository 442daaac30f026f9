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

	"seehuhn.de/go/iccmgr/cms"
)

// DataSpace is the native colour space of a profile.
type DataSpace int

// These are the supported data colour spaces.
const (
	Undefined DataSpace = iota
	Gray
	RGB
	CMYK
	Lab
	CIEXYZ
	NChannel
	Named
)

func (s DataSpace) String() string {
	switch s {
	case Gray:
		return "Gray"
	case RGB:
		return "RGB"
	case CMYK:
		return "CMYK"
	case Lab:
		return "Lab"
	case CIEXYZ:
		return "CIEXYZ"
	case NChannel:
		return "NChannel"
	case Named:
		return "Named"
	case Undefined:
		return "Undefined"
	default:
		return fmt.Sprintf("DataSpace(%d)", int(s))
	}
}

func dataSpaceOf(s cms.ColorSpace) DataSpace {
	switch {
	case s == cms.GraySpace:
		return Gray
	case s == cms.RGBSpace:
		return RGB
	case s == cms.CMYKSpace:
		return CMYK
	case s == cms.CIELabSpace:
		return Lab
	case s == cms.CIEXYZSpace:
		return CIEXYZ
	case s.IsNChannel():
		return NChannel
	}
	return Undefined
}

// Role tells which canonical profile a blob stands in for.
//
// Writers use the role to emit a device colour space instead of embedding a
// profile that the reader already knows.
type Role int

// These are the roles a blob can have.
const (
	NoRole Role = iota
	DefaultGray
	DefaultRGB
	DefaultCMYK
	DefaultLab
	NamedColor
	DeviceN
	CIEA
	CIEABC
	CIEDEF
	CIEDEFG
	EmbeddedGray
	EmbeddedRGB
	EmbeddedCMYK
	EmbeddedLab
)

var roleNames = [...]string{
	NoRole:       "none",
	DefaultGray:  "default Gray",
	DefaultRGB:   "default RGB",
	DefaultCMYK:  "default CMYK",
	DefaultLab:   "Lab",
	NamedColor:   "named colour",
	DeviceN:      "DeviceN",
	CIEA:         "CIE-A",
	CIEABC:       "CIE-ABC",
	CIEDEF:       "CIE-DEF",
	CIEDEFG:      "CIE-DEFG",
	EmbeddedGray: "embedded Gray",
	EmbeddedRGB:  "embedded RGB",
	EmbeddedCMYK: "embedded CMYK",
	EmbeddedLab:  "embedded Lab",
}

func (r Role) String() string {
	if r >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// isDefault reports whether r is one of the four roles held by the manager
// as session defaults.
func (r Role) isDefault() bool {
	return r >= DefaultGray && r <= DefaultLab
}

// channels gives the number of colour components expected for a profile in
// the given role, and its data space.
func (r Role) channels() (int, DataSpace) {
	switch r {
	case DefaultGray, EmbeddedGray:
		return 1, Gray
	case DefaultRGB, EmbeddedRGB:
		return 3, RGB
	case DefaultCMYK, EmbeddedCMYK:
		return 4, CMYK
	case DefaultLab, EmbeddedLab:
		return 3, Lab
	}
	return 0, Undefined
}

// Family is a colour space family of the page description.
type Family int

// These are the colour space families known to the manager.
const (
	FamilyICCBased Family = iota
	FamilyDeviceGray
	FamilyDeviceRGB
	FamilyDeviceCMYK
	FamilyLab
	FamilyCIEA
	FamilyCIEABC
	FamilyCIEDEF
	FamilyCIEDEFG
	FamilySeparation
	FamilyDeviceN
	FamilyIndexed
	FamilyPattern
)

func (f Family) String() string {
	switch f {
	case FamilyICCBased:
		return "ICCBased"
	case FamilyDeviceGray:
		return "DeviceGray"
	case FamilyDeviceRGB:
		return "DeviceRGB"
	case FamilyDeviceCMYK:
		return "DeviceCMYK"
	case FamilyLab:
		return "Lab"
	case FamilyCIEA:
		return "CIEBasedA"
	case FamilyCIEABC:
		return "CIEBasedABC"
	case FamilyCIEDEF:
		return "CIEBasedDEF"
	case FamilyCIEDEFG:
		return "CIEBasedDEFG"
	case FamilySeparation:
		return "Separation"
	case FamilyDeviceN:
		return "DeviceN"
	case FamilyIndexed:
		return "Indexed"
	case FamilyPattern:
		return "Pattern"
	default:
		return fmt.Sprintf("Family(%d)", int(f))
	}
}

// ObjectClass is the kind of mark being painted.
type ObjectClass int

// These are the object classes distinguished by source tags and device
// profiles.
const (
	ObjectUnknown ObjectClass = iota
	ObjectUntouched
	ObjectPath
	ObjectImage
	ObjectText
)

func (c ObjectClass) String() string {
	switch c {
	case ObjectUnknown:
		return "unknown"
	case ObjectUntouched:
		return "untouched"
	case ObjectPath:
		return "path"
	case ObjectImage:
		return "image"
	case ObjectText:
		return "text"
	default:
		return fmt.Sprintf("ObjectClass(%d)", int(c))
	}
}

// Range is the valid interval for one colour component.
type Range struct {
	Min, Max float64
}

// defaultRanges returns the canonical component ranges for a profile with
// n components.  Lab uses L in [0, 100] and a, b in [-128, 127], all other
// spaces use [0, 1].
func defaultRanges(space DataSpace, n int) []Range {
	if space == Lab {
		return []Range{{0, 100}, {-128, 127}, {-128, 127}}
	}
	res := make([]Range, n)
	for i := range res {
		res[i] = Range{0, 1}
	}
	return res
}
