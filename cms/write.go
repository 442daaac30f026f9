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
	"sort"
	"time"
)

// Encode converts the profile to binary form.
//
// For version 4 profiles the profile ID is filled in.  The Size and
// CheckSum fields are ignored; the size header is set to the encoded length.
func (p *Profile) Encode() []byte {
	version := p.Version
	if version == 0 {
		version = currentVersion
	}

	// arrange tags in order of increasing length and merge duplicates
	type tagInfo struct {
		tagType   TagType
		data      []byte
		start     uint32
		duplicate bool
	}
	tags := make([]tagInfo, 0, len(p.TagData))
	for tagType, data := range p.TagData {
		tags = append(tags, tagInfo{tagType: tagType, data: data})
	}
	sort.Slice(tags, func(i, j int) bool {
		if len(tags[i].data) != len(tags[j].data) {
			return len(tags[i].data) < len(tags[j].data)
		}
		if c := bytes.Compare(tags[i].data, tags[j].data); c != 0 {
			return c < 0
		}
		return tags[i].tagType < tags[j].tagType
	})
	pos := HeaderSize + 4 + len(tags)*12
	for i := range tags {
		if i > 0 && bytes.Equal(tags[i].data, tags[i-1].data) {
			tags[i].start = tags[i-1].start
			tags[i].duplicate = true
		} else {
			tags[i].start = uint32(pos)
			pos += (len(tags[i].data) + 3) &^ 3
		}
	}

	buf := make([]byte, pos)
	putUint32(buf, 0, uint32(pos))
	putUint32(buf, 4, p.PreferredCMMType)
	putUint32(buf, 8, uint32(version))
	putUint32(buf, 12, uint32(p.Class))
	putUint32(buf, 16, uint32(p.ColorSpace))
	putUint32(buf, 20, uint32(p.PCS))
	putDateTime(buf, 24, p.CreationDate)
	putUint32(buf, 36, 0x61637370) // "acsp"
	putUint32(buf, 40, p.PrimaryPlatform)
	putUint32(buf, 48, p.DeviceManufacturer)
	putUint32(buf, 52, p.DeviceModel)
	putUint64(buf, 56, p.DeviceAttributes)
	copy(buf[68:], d50)
	putUint32(buf, 80, p.Creator)

	putUint32(buf, HeaderSize, uint32(len(tags)))
	tagTable := HeaderSize + 4
	for i, tag := range tags {
		putUint32(buf, tagTable+i*12, uint32(tag.tagType))
		putUint32(buf, tagTable+i*12+4, tag.start)
		putUint32(buf, tagTable+i*12+8, uint32(len(tag.data)))
		if !tag.duplicate {
			copy(buf[tag.start:], tag.data)
		}
	}

	putUint32(buf, 44, p.Flags)
	putUint32(buf, 64, uint32(p.RenderingIntent))
	if version >= 0x0400_0000 {
		copy(buf[84:], profileID(buf))
	}

	return buf
}

// This is the value for the "PCS illuminant" header field (Bytes 68 to 79).
var d50 = []byte{
	0x00, 0x00, 0xf6, 0xd6, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0xd3, 0x2d,
}

func putUint16(data []byte, offset int, value uint16) {
	data[offset] = byte(value >> 8)
	data[offset+1] = byte(value)
}

func putUint32(data []byte, offset int, value uint32) {
	data[offset] = byte(value >> 24)
	data[offset+1] = byte(value >> 16)
	data[offset+2] = byte(value >> 8)
	data[offset+3] = byte(value)
}

func putUint64(data []byte, offset int, value uint64) {
	putUint32(data, offset, uint32(value>>32))
	putUint32(data, offset+4, uint32(value))
}

func putDateTime(data []byte, offset int, t time.Time) {
	if t.IsZero() {
		return
	}
	putUint16(data, offset, uint16(t.Year()))
	putUint16(data, offset+2, uint16(t.Month()))
	putUint16(data, offset+4, uint16(t.Day()))
	putUint16(data, offset+6, uint16(t.Hour()))
	putUint16(data, offset+8, uint16(t.Minute()))
	putUint16(data, offset+10, uint16(t.Second()))
}
