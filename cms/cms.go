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

// Package cms is the colour management back end used by the profile manager.
//
// The package decodes just enough of an ICC profile to answer the questions
// the manager asks: how many channels go in and out, which colour space the
// device side uses, and which colorant names a DeviceN profile declares.
// Colorimetric transforms are out of scope.
//
// Profiles are decoded with [Decode] and written with [Profile.Encode]:
//
//	p, err := cms.Decode(data)
//	if err != nil {
//	    // handle error
//	}
//	names, err := p.Colorants()
//
// The manager itself talks to the package through [Engine], which turns a
// profile buffer into a [Handle].
package cms

import (
	"fmt"
	"time"
)

// Profile is a decoded ICC profile header together with the raw tag data.
type Profile struct {
	PreferredCMMType   uint32
	Version            Version
	Class              ProfileClass
	ColorSpace         ColorSpace // data colour space (e.g. RGBSpace, CMYKSpace)
	PCS                ColorSpace // PCSXYZSpace or PCSLabSpace; output space for device links
	CreationDate       time.Time
	PrimaryPlatform    uint32
	Flags              uint32
	DeviceManufacturer uint32
	DeviceModel        uint32
	DeviceAttributes   uint64
	RenderingIntent    RenderingIntent
	Creator            uint32

	// Size is the profile size declared in the first four header bytes.
	// It is informational only; see [DeclaredSize].
	Size uint32

	// CheckSum indicates whether the embedded profile ID is valid.
	CheckSum CheckSum

	// TagData maps tag signatures to their raw binary data.
	TagData map[TagType][]byte
}

// Version is a version of the ICC profile format.
type Version uint32

// Some well-known versions of the ICC profile format.
const (
	Version2_1_0 Version = 0x0210_0000
	Version2_4_0 Version = 0x0240_0000
	Version4_2_0 Version = 0x0420_0000
	Version4_4_0 Version = 0x0440_0000

	currentVersion = Version4_4_0
)

func (v Version) String() string {
	major := int(v >> 24)
	minor := int(v >> 20 & 0xF)
	bugfix := int(v >> 16 & 0xF)
	return fmt.Sprintf("%d.%d.%d", major, minor, bugfix)
}

// ProfileClass is the ICC profile or device class.
type ProfileClass uint32

// Profile classes defined in the ICC specification.
const (
	InputDeviceProfile   ProfileClass = 0x73636E72 // "scnr"
	DisplayDeviceProfile ProfileClass = 0x6D6E7472 // "mntr"
	OutputDeviceProfile  ProfileClass = 0x70727472 // "prtr"
	DeviceLinkProfile    ProfileClass = 0x6C696E6B // "link"
	ColorSpaceProfile    ProfileClass = 0x73706163 // "spac"
	AbstractProfile      ProfileClass = 0x61627374 // "abst"
	NamedColorProfile    ProfileClass = 0x6E6D636C // "nmcl"
)

func (c ProfileClass) String() string {
	switch c {
	case InputDeviceProfile:
		return "Input Device Profile"
	case DisplayDeviceProfile:
		return "Display Device Profile"
	case OutputDeviceProfile:
		return "Output Device Profile"
	case DeviceLinkProfile:
		return "DeviceLink Profile"
	case ColorSpaceProfile:
		return "ColorSpace Profile"
	case AbstractProfile:
		return "Abstract Profile"
	case NamedColorProfile:
		return "Named Color Profile"
	default:
		return fmt.Sprintf("ProfileClass(0x%08X)", uint32(c))
	}
}

// RenderingIntent specifies how colours outside the destination gamut are handled.
type RenderingIntent uint32

// Standard ICC rendering intents.
const (
	Perceptual           RenderingIntent = 0
	RelativeColorimetric RenderingIntent = 1
	Saturation           RenderingIntent = 2
	AbsoluteColorimetric RenderingIntent = 3
)

func (ri RenderingIntent) String() string {
	switch ri {
	case Perceptual:
		return "Perceptual"
	case RelativeColorimetric:
		return "Relative Colorimetric"
	case Saturation:
		return "Saturation"
	case AbsoluteColorimetric:
		return "Absolute Colorimetric"
	default:
		return fmt.Sprintf("RenderingIntent(%d)", ri)
	}
}

// ColorSpace identifies a colour space in an ICC profile.
type ColorSpace uint32

// Colour spaces used by the profile manager.  The generic n-colour spaces
// "2CLR" to "FCLR" are recognised by [ColorSpace.NumComponents] without
// being listed here.
const (
	CIEXYZSpace ColorSpace = 0x58595A20 // "XYZ "
	CIELabSpace ColorSpace = 0x4C616220 // "Lab "
	RGBSpace    ColorSpace = 0x52474220 // "RGB "
	GraySpace   ColorSpace = 0x47524159 // "GRAY"
	CMYKSpace   ColorSpace = 0x434D594B // "CMYK"
	CMYSpace    ColorSpace = 0x434D5920 // "CMY "

	PCSXYZSpace = CIEXYZSpace
	PCSLabSpace = CIELabSpace
)

// NChannel returns the generic n-colour space signature ("2CLR" to "FCLR")
// for n between 2 and 15.  For other n the result is 0.
func NChannel(n int) ColorSpace {
	if n < 2 || n > 15 {
		return 0
	}
	digit := "0123456789ABCDEF"[n]
	return ColorSpace(uint32(digit)<<24 | 0x434C52)
}

// IsNChannel reports whether s is one of the generic n-colour spaces.
func (s ColorSpace) IsNChannel() bool {
	return s.nChannels() > 0
}

func (s ColorSpace) nChannels() int {
	if s&0xFFFFFF != 0x434C52 { // "?CLR"
		return 0
	}
	c := byte(s >> 24)
	switch {
	case c >= '2' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return 0
}

// NumComponents returns the number of colour components in the colour space,
// or 0 if the colour space is not known.
func (s ColorSpace) NumComponents() int {
	switch s {
	case GraySpace:
		return 1
	case CIEXYZSpace, CIELabSpace, RGBSpace, CMYSpace:
		return 3
	case CMYKSpace:
		return 4
	}
	return s.nChannels()
}

func (s ColorSpace) String() string {
	switch s {
	case CIEXYZSpace:
		return "CIEXYZ"
	case CIELabSpace:
		return "CIELAB"
	case GraySpace:
		return "Gray"
	}
	bb := []byte{byte(s >> 24), byte(s >> 16), byte(s >> 8), byte(s)}
	for _, c := range bb {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("ColorSpace(0x%08X)", uint32(s))
		}
	}
	return string(trimSpace(bb))
}

func trimSpace(b []byte) []byte {
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return b
}

// CheckSum contains information about the Profile ID field.
type CheckSum int

// Possible values of the CheckSum field.
const (
	CheckSumMissing CheckSum = iota
	CheckSumValid
	CheckSumInvalid
)

func (c CheckSum) String() string {
	switch c {
	case CheckSumValid:
		return "Valid"
	case CheckSumInvalid:
		return "Invalid"
	default:
		return "Missing"
	}
}

// HeaderSize is the length of the fixed ICC profile header.
const HeaderSize = 128

// DeclaredSize returns the profile size stored in the first four bytes of
// an ICC buffer, or 0 if the buffer is too short.
//
// Loaders should not trust this value; truncated and padded files are common.
func DeclaredSize(buf []byte) uint32 {
	if len(buf) < 4 {
		return 0
	}
	return getUint32(buf, 0)
}

// HasSignature reports whether buf is long enough to hold an ICC header and
// carries the "acsp" file signature.
func HasSignature(buf []byte) bool {
	return len(buf) >= HeaderSize && string(buf[36:40]) == "acsp"
}
