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
	"bytes"
	"crypto/md5"
	"fmt"
	"time"
)

// Decode decodes an ICC profile from the given data.
//
// Unlike a loader that takes over the buffer, Decode never modifies data.
// The returned TagData slices alias data, so the caller must keep the
// buffer unchanged for as long as the profile is in use.
func Decode(data []byte) (*Profile, error) {
	if len(data) < HeaderSize+4 {
		return nil, invalidProfile(0, "profile is too short")
	}
	if string(data[36:40]) != "acsp" {
		return nil, invalidProfile(36, "missing 'acsp' signature")
	}

	numTags := getUint32(data, HeaderSize)
	maxNumTags := uint((len(data) - HeaderSize - 4) / 12)
	if uint(numTags) > maxNumTags {
		return nil, invalidProfile(HeaderSize, "too many tags")
	}

	p := &Profile{
		Size:               getUint32(data, 0),
		PreferredCMMType:   getUint32(data, 4),
		Version:            Version(getUint32(data, 8)),
		Class:              ProfileClass(getUint32(data, 12)),
		ColorSpace:         ColorSpace(getUint32(data, 16)),
		PCS:                ColorSpace(getUint32(data, 20)),
		CreationDate:       getDateTime(data, 24),
		PrimaryPlatform:    getUint32(data, 40),
		Flags:              getUint32(data, 44),
		DeviceManufacturer: getUint32(data, 48),
		DeviceModel:        getUint32(data, 52),
		DeviceAttributes:   getUint64(data, 56),
		RenderingIntent:    RenderingIntent(getUint32(data, 64)),
		Creator:            getUint32(data, 80),

		TagData: make(map[TagType][]byte),
	}

	if !isZero(data[84:100]) {
		if bytes.Equal(profileID(data), data[84:100]) {
			p.CheckSum = CheckSumValid
		} else {
			p.CheckSum = CheckSumInvalid
		}
	}

	minTagOffset := int64(HeaderSize+4) + int64(numTags)*12
	for i := 0; i < int(numTags); i++ {
		offset := HeaderSize + 4 + i*12
		tagType := TagType(getUint32(data, offset))
		tagOffset := getUint32(data, offset+4)
		tagSize := getUint32(data, offset+8)
		if tagSize < 4 {
			return nil, invalidProfile(offset+8, "tag is too small")
		}

		start := int64(tagOffset)
		end := start + int64(tagSize)
		if start < minTagOffset || end > int64(len(data)) {
			return nil, invalidProfile(offset, "tag is out of bounds")
		}
		p.TagData[tagType] = data[start:end:end]
	}

	if p.Version == 0 {
		p.Version = currentVersion
	}

	return p, nil
}

// profileID computes the MD5 profile ID of an encoded profile.
// The flags, rendering intent and profile ID header fields count as zero.
func profileID(data []byte) []byte {
	h := md5.New()
	var zero [16]byte
	h.Write(data[:44])
	h.Write(zero[:4])
	h.Write(data[48:64])
	h.Write(zero[:4])
	h.Write(data[68:84])
	h.Write(zero[:16])
	h.Write(data[100:])
	return h.Sum(nil)
}

func isZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}
	return true
}

func getUint16(data []byte, offset int) uint16 {
	return uint16(data[offset])<<8 | uint16(data[offset+1])
}

func getUint32(data []byte, offset int) uint32 {
	return uint32(data[offset])<<24 | uint32(data[offset+1])<<16 | uint32(data[offset+2])<<8 | uint32(data[offset+3])
}

func getUint64(data []byte, offset int) uint64 {
	return uint64(getUint32(data, offset))<<32 | uint64(getUint32(data, offset+4))
}

func getDateTime(data []byte, offset int) time.Time {
	year := int(getUint16(data, offset))
	month := int(getUint16(data, offset+2))
	day := int(getUint16(data, offset+4))
	hour := int(getUint16(data, offset+6))
	minute := int(getUint16(data, offset+8))
	second := int(getUint16(data, offset+10))
	if year < 1970 || year > 3000 ||
		month < 1 || month > 12 ||
		day < 1 || day > 31 ||
		hour > 23 || minute > 59 || second > 61 {
		return time.Time{}
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}

// InvalidProfileError indicates that an ICC profile contains invalid binary
// data and cannot be decoded.
type InvalidProfileError struct {
	Offset int
	Reason string
}

func invalidProfile(offset int, reason string) error {
	return &InvalidProfileError{Offset: offset, Reason: reason}
}

func (e *InvalidProfileError) Error() string {
	return fmt.Sprintf("cms: invalid profile (byte %d): %s", e.Offset, e.Reason)
}
