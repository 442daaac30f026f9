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

// Package clist stores ICC profiles in a command list and reads them back.
//
// A command list holds each distinct profile once, as a chunk made of a
// fixed-size header and the raw profile data.  A table at the end of the
// file maps profile hashes to chunk positions.  Devices which play back a
// command list look up profiles by hash, so that a profile which is already
// embedded in the list is not read again.
//
// File layout, all integers big-endian:
//
//	chunk*    header (20 bytes) followed by the profile data
//	table     count entries: hash (8), offset (8), size (4)
//	trailer   count (4), table offset (8), "ICCL"
package clist

import (
	"encoding/binary"
	"errors"
	"fmt"

	"seehuhn.de/go/iccmgr"
)

var (
	// ErrNotFound is returned when a hash is not in the profile table.
	ErrNotFound = errors.New("clist: profile not found")

	// ErrCorrupt is returned when stored data is malformed.
	ErrCorrupt = errors.New("clist: corrupt profile data")
)

// Entry locates a stored profile.  Size includes the chunk header.
type Entry struct {
	Hash   uint64
	Offset int64
	Size   int64
}

// Table is the table of contents of a command list.
type Table []Entry

// Search returns the entry for the given hash.
//
// Tables hold one entry per distinct profile of a job, which are few, so
// the table is scanned linearly.
func (t Table) Search(hash uint64) (Entry, bool) {
	for _, e := range t {
		if e.Hash == hash {
			return e, true
		}
	}
	return Entry{}, false
}

const (
	headerSize  = 20
	entrySize   = 20
	trailerSize = 16
	magic       = "ICCL"
)

// serialHeader is the stored form of the metadata of a blob.
type serialHeader struct {
	BufferSize uint32
	Space      uint16
	Role       uint16
	Flags      uint16
	NumIn      uint8
	NumOut     uint8
	Hash       uint64
}

const (
	flagHashValid = 1 << iota
	flagLab
)

func headerFromInfo(info iccmgr.Info) (serialHeader, error) {
	if info.Size < 0 || int64(info.Size) > 1<<32-1 {
		return serialHeader{}, fmt.Errorf("clist: profile of %d bytes is too large", info.Size)
	}
	h := serialHeader{
		BufferSize: uint32(info.Size),
		Space:      uint16(info.Space),
		Role:       uint16(info.Role),
		NumIn:      uint8(info.NumIn),
		NumOut:     uint8(info.NumOut),
		Hash:       info.Hash,
	}
	if info.HashValid {
		h.Flags |= flagHashValid
	}
	if info.IsLab {
		h.Flags |= flagLab
	}
	return h, nil
}

func (h serialHeader) info() iccmgr.Info {
	return iccmgr.Info{
		Size:      int(h.BufferSize),
		Space:     iccmgr.DataSpace(h.Space),
		Role:      iccmgr.Role(h.Role),
		HashValid: h.Flags&flagHashValid != 0,
		IsLab:     h.Flags&flagLab != 0,
		NumIn:     int(h.NumIn),
		NumOut:    int(h.NumOut),
		Hash:      h.Hash,
	}
}

func (h serialHeader) encode() []byte {
	buf := make([]byte, headerSize)
	binary.BigEndian.PutUint32(buf[0:], h.BufferSize)
	binary.BigEndian.PutUint16(buf[4:], h.Space)
	binary.BigEndian.PutUint16(buf[6:], h.Role)
	binary.BigEndian.PutUint16(buf[8:], h.Flags)
	buf[10] = h.NumIn
	buf[11] = h.NumOut
	binary.BigEndian.PutUint64(buf[12:], h.Hash)
	return buf
}

func decodeHeader(buf []byte) (serialHeader, error) {
	if len(buf) < headerSize {
		return serialHeader{}, ErrCorrupt
	}
	return serialHeader{
		BufferSize: binary.BigEndian.Uint32(buf[0:]),
		Space:      binary.BigEndian.Uint16(buf[4:]),
		Role:       binary.BigEndian.Uint16(buf[6:]),
		Flags:      binary.BigEndian.Uint16(buf[8:]),
		NumIn:      buf[10],
		NumOut:     buf[11],
		Hash:       binary.BigEndian.Uint64(buf[12:]),
	}, nil
}
