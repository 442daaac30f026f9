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

import (
	"errors"
	"fmt"
	"unicode/utf16"
)

// The TagType identifies a tag in an ICC profile.
type TagType uint32

// Tag signatures understood by this package.
const (
	ProfileDescription TagType = 0x64657363 // "desc"
	Copyright          TagType = 0x63707274 // "cprt"
	ColorantTable      TagType = 0x636C7274 // "clrt"
	ColorantTableOut   TagType = 0x636C6F74 // "clot"
	MediaWhitePoint    TagType = 0x77747074 // "wtpt"
)

func (t TagType) String() string {
	switch t {
	case ProfileDescription:
		return "Profile Description"
	case Copyright:
		return "Copyright"
	case ColorantTable:
		return "Colorant Table"
	case ColorantTableOut:
		return "Colorant Table Out"
	case MediaWhitePoint:
		return "Media White Point"
	}
	bb := []byte{byte(t >> 24), byte(t >> 16), byte(t >> 8), byte(t)}
	for _, c := range bb {
		if c < 0x20 || c > 0x7E {
			return fmt.Sprintf("0x%08X", uint32(t))
		}
	}
	return fmt.Sprintf("%q", string(bb))
}

// Description returns the profile description, or "" if the profile has no
// readable description tag.
func (p *Profile) Description() string {
	tag, ok := p.TagData[ProfileDescription]
	if !ok {
		return ""
	}
	if s, err := decodeDesc(tag); err == nil {
		return s
	}
	if val, err := decodeMLUC(tag); err == nil && len(val) > 0 {
		return val[0].Value
	}
	return ""
}

// Copyright returns the copyright notice of the profile.
func (p *Profile) Copyright() (MultiLocalizedUnicode, error) {
	tag, ok := p.TagData[Copyright]
	if !ok {
		return nil, errMissingTag
	}
	val, err := decodeMLUC(tag)
	if err != errUnexpectedType {
		return val, err
	}

	s, err := decodeText(tag)
	if err != nil {
		return nil, err
	}
	return MultiLocalizedUnicode{{Language: "en", Country: "US", Value: s}}, nil
}

// Colorants returns the colorant names of the profile's colorant table, in
// table order.  Profiles without a colorant table give a nil slice and no
// error.
func (p *Profile) Colorants() ([]string, error) {
	tag, ok := p.TagData[ColorantTable]
	if !ok {
		return nil, nil
	}
	return decodeColorantTable(tag)
}

// colorantNameSize is the fixed width of a colorant name in a clrt tag,
// including the terminating NUL.
const colorantNameSize = 32

func decodeColorantTable(data []byte) ([]string, error) {
	err := checkType("clrt", data)
	if err != nil {
		return nil, err
	}
	if len(data) < 12 {
		return nil, errInvalidTagData
	}
	n := getUint32(data, 8)
	const entrySize = colorantNameSize + 6
	if uint64(len(data)) < 12+uint64(n)*entrySize {
		return nil, errInvalidTagData
	}
	names := make([]string, n)
	for i := range names {
		start := 12 + i*entrySize
		raw := data[start : start+colorantNameSize]
		end := 0
		for end < len(raw) && raw[end] != 0 {
			end++
		}
		names[i] = string(raw[:end])
	}
	return names, nil
}

// EncodeColorantTable returns clrt tag data listing the given colorant
// names.  Names longer than 31 bytes are truncated and the PCS values are
// left at zero.
func EncodeColorantTable(names []string) []byte {
	const entrySize = colorantNameSize + 6
	data := make([]byte, 12+len(names)*entrySize)
	copy(data, "clrt")
	putUint32(data, 8, uint32(len(names)))
	for i, name := range names {
		if len(name) > colorantNameSize-1 {
			name = name[:colorantNameSize-1]
		}
		copy(data[12+i*entrySize:], name)
	}
	return data
}

// EncodeText returns textType tag data holding s.
func EncodeText(s string) []byte {
	data := make([]byte, 8+len(s)+1)
	copy(data, "text")
	copy(data[8:], s)
	return data
}

// EncodeDesc returns textDescriptionType tag data holding the ASCII string s.
func EncodeDesc(s string) []byte {
	// ASCII part, then empty Unicode and ScriptCode parts
	data := make([]byte, 12+len(s)+1+8+3+67)
	copy(data, "desc")
	putUint32(data, 8, uint32(len(s)+1))
	copy(data[12:], s)
	return data
}

func decodeText(data []byte) (string, error) {
	err := checkType("text", data)
	if err != nil {
		return "", err
	}

	if len(data) < 8 {
		return "", errInvalidTagData
	}
	start := 8
	end := len(data)
	for end-1 > start && data[end-1] == 0 {
		end--
	}
	if end > start && data[end-1] == 0 {
		end--
	}
	return string(data[start:end]), nil
}

func decodeDesc(data []byte) (string, error) {
	err := checkType("desc", data)
	if err != nil {
		return "", err
	}
	if len(data) < 12 {
		return "", errInvalidTagData
	}
	n := getUint32(data, 8)
	if uint64(len(data)) < 12+uint64(n) {
		return "", errInvalidTagData
	}
	s := data[12 : 12+n]
	for len(s) > 0 && s[len(s)-1] == 0 {
		s = s[:len(s)-1]
	}
	return string(s), nil
}

// MultiLocalizedUnicode represents a localized Unicode string.
type MultiLocalizedUnicode []LocalizedUnicode

// LocalizedUnicode represents a language-country pair.
type LocalizedUnicode struct {
	Language string
	Country  string
	Value    string
}

func decodeMLUC(data []byte) (MultiLocalizedUnicode, error) {
	err := checkType("mluc", data)
	if err != nil {
		return nil, err
	}

	if len(data) < 12 {
		return nil, errInvalidTagData
	}
	n := getUint32(data, 8)

	if n == 0 || uint64(len(data)) < 16+12*uint64(n) {
		return nil, errInvalidTagData
	}
	res := make(MultiLocalizedUnicode, n)
	for i := range res {
		language := string(data[16+12*i : 16+12*i+2])
		country := string(data[16+12*i+2 : 16+12*i+4])
		length := getUint32(data, 16+12*i+4)
		offset := getUint32(data, 16+12*i+8)

		start := uint64(offset)
		end := start + uint64(length)
		if end > uint64(len(data)) || length&1 != 0 {
			return nil, errInvalidTagData
		}

		d16 := make([]uint16, length/2)
		for j := range d16 {
			d16[j] = uint16(data[start+2*uint64(j)])<<8 | uint16(data[start+2*uint64(j)+1])
		}
		res[i] = LocalizedUnicode{
			Language: language,
			Country:  country,
			Value:    string(utf16.Decode(d16)),
		}
	}
	return res, nil
}

func checkType(typeID string, data []byte) error {
	for i := 0; i < len(typeID); i++ {
		if i >= len(data) || data[i] != typeID[i] {
			return errUnexpectedType
		}
	}
	return nil
}

var (
	errMissingTag     = errors.New("missing tag")
	errUnexpectedType = errors.New("unexpected tag data type")
	errInvalidTagData = errors.New("invalid tag data")
)
