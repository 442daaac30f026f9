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

package clist

import (
	"encoding/binary"
	"fmt"
	"io"

	"seehuhn.de/go/iccmgr"
)

// Store gives access to the profile section of a command list.
type Store interface {
	// ReadProfileTable reads the table of contents.
	ReadProfileTable() (Table, error)

	// ReadChunk reads size bytes starting at offset.
	ReadChunk(offset, size int64) ([]byte, error)
}

// NewStore returns a Store for a command list of the given size.
func NewStore(r io.ReaderAt, size int64) Store {
	return &fileStore{r: r, size: size}
}

type fileStore struct {
	r    io.ReaderAt
	size int64
}

func (s *fileStore) ReadProfileTable() (Table, error) {
	if s.size < trailerSize {
		return nil, fmt.Errorf("%w: file too short", ErrCorrupt)
	}
	tr, err := s.ReadChunk(s.size-trailerSize, trailerSize)
	if err != nil {
		return nil, err
	}
	if string(tr[12:16]) != magic {
		return nil, fmt.Errorf("%w: missing trailer", ErrCorrupt)
	}
	count := int64(binary.BigEndian.Uint32(tr[0:]))
	tableOffset := int64(binary.BigEndian.Uint64(tr[4:]))
	tableEnd := s.size - trailerSize
	if tableOffset < 0 || tableOffset > tableEnd || count > (tableEnd-tableOffset)/entrySize {
		return nil, fmt.Errorf("%w: invalid table position", ErrCorrupt)
	}

	data, err := s.ReadChunk(tableOffset, count*entrySize)
	if err != nil {
		return nil, err
	}
	table := make(Table, count)
	for i := range table {
		e := data[i*entrySize:]
		table[i] = Entry{
			Hash:   binary.BigEndian.Uint64(e[0:]),
			Offset: int64(binary.BigEndian.Uint64(e[8:])),
			Size:   int64(binary.BigEndian.Uint32(e[16:])),
		}
		if table[i].Offset < 0 || table[i].Offset+table[i].Size > tableOffset {
			return nil, fmt.Errorf("%w: entry %d out of range", ErrCorrupt, i)
		}
	}
	return table, nil
}

func (s *fileStore) ReadChunk(offset, size int64) ([]byte, error) {
	if offset < 0 || size < 0 || offset > s.size || size > s.size-offset {
		return nil, fmt.Errorf("%w: chunk out of range", ErrCorrupt)
	}
	buf := make([]byte, size)
	_, err := s.r.ReadAt(buf, offset)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf, nil
}

// Writer writes the profile section of a command list.
// Each distinct profile is stored once.
type Writer struct {
	w     io.Writer
	pos   int64
	table Table
}

// NewWriter returns a Writer which writes to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// AddProfile stores a profile, unless a profile with the same hash has
// already been stored.  It returns the table entry of the profile.
func (w *Writer) AddProfile(b *iccmgr.Blob) (Entry, error) {
	hash := b.Hash()
	if e, ok := w.table.Search(hash); ok {
		return e, nil
	}
	if _, err := b.EnsureHandle(); err != nil && b.DataSpace() != iccmgr.Named {
		return Entry{}, err
	}

	h, err := headerFromInfo(b.Info())
	if err != nil {
		return Entry{}, err
	}
	if _, err := w.w.Write(h.encode()); err != nil {
		return Entry{}, err
	}
	if _, err := w.w.Write(b.Bytes()); err != nil {
		return Entry{}, err
	}

	e := Entry{Hash: hash, Offset: w.pos, Size: headerSize + int64(b.Len())}
	w.pos += e.Size
	w.table = append(w.table, e)
	return e, nil
}

// Table returns the entries written so far.
func (w *Writer) Table() Table {
	return append(Table(nil), w.table...)
}

// Close writes the table and the trailer.  Close does not close the
// underlying writer.
func (w *Writer) Close() error {
	buf := make([]byte, len(w.table)*entrySize+trailerSize)
	for i, e := range w.table {
		p := buf[i*entrySize:]
		binary.BigEndian.PutUint64(p[0:], e.Hash)
		binary.BigEndian.PutUint64(p[8:], uint64(e.Offset))
		binary.BigEndian.PutUint32(p[16:], uint32(e.Size))
	}
	tr := buf[len(w.table)*entrySize:]
	binary.BigEndian.PutUint32(tr[0:], uint32(len(w.table)))
	binary.BigEndian.PutUint64(tr[4:], uint64(w.pos))
	copy(tr[12:], magic)

	_, err := w.w.Write(buf)
	return err
}
