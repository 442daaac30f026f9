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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/iccmgr"
	"seehuhn.de/go/iccmgr/cms"
)

func TestTableSearch(t *testing.T) {
	const h1, h2, h3 = 0x1111, 0x2222, 0x3333
	table := Table{{h1, 0, 100}, {h2, 100, 50}}

	e, ok := table.Search(h2)
	require.True(t, ok)
	assert.Equal(t, Entry{Hash: h2, Offset: 100, Size: 50}, e)

	_, ok = table.Search(h3)
	assert.False(t, ok, "found absent hash")
	_, ok = Table(nil).Search(h1)
	assert.False(t, ok, "found hash in empty table")
}

func TestHeaderRoundTrip(t *testing.T) {
	info := iccmgr.Info{
		Size:      1234,
		Space:     iccmgr.Lab,
		Role:      iccmgr.DefaultLab,
		HashValid: true,
		IsLab:     true,
		NumIn:     3,
		NumOut:    3,
		Hash:      0x0123456789ABCDEF,
	}
	h, err := headerFromInfo(info)
	require.NoError(t, err)
	buf := h.encode()
	require.Len(t, buf, headerSize)
	h2, err := decodeHeader(buf)
	require.NoError(t, err)
	assert.Equal(t, info, h2.info())
}

func newBlob(t *testing.T, space cms.ColorSpace, name string) *iccmgr.Blob {
	t.Helper()
	p := &cms.Profile{
		Class:      cms.OutputDeviceProfile,
		ColorSpace: space,
		PCS:        cms.PCSLabSpace,
		TagData: map[cms.TagType][]byte{
			cms.ProfileDescription: cms.EncodeDesc(name),
		},
	}
	b, err := iccmgr.NewBlob(p.Encode(), name, nil)
	require.NoError(t, err)
	return b
}

func writeList(t *testing.T, blobs ...*iccmgr.Blob) ([]byte, Table) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := NewWriter(buf)
	for _, b := range blobs {
		_, err := w.AddProfile(b)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes(), w.Table()
}

func TestWriteRead(t *testing.T) {
	gray := newBlob(t, cms.GraySpace, "gray")
	cmyk := newBlob(t, cms.CMYKSpace, "cmyk")
	data, written := writeList(t, gray, cmyk, gray)
	require.Len(t, written, 2)

	store := NewStore(bytes.NewReader(data), int64(len(data)))
	table, err := store.ReadProfileTable()
	require.NoError(t, err)
	require.Equal(t, written, table)
	assert.Equal(t, int64(0), table[0].Offset)
	assert.Equal(t, int64(headerSize+gray.Len()), table[1].Offset)

	r, err := NewReader(store, nil)
	require.NoError(t, err)
	defer r.Close()

	b, err := r.Profile(cmyk.Hash())
	require.NoError(t, err)
	defer b.Release()
	assert.Equal(t, cmyk.Bytes(), b.Bytes())
	assert.Equal(t, cmyk.Hash(), b.Hash())
	assert.Equal(t, iccmgr.CMYK, b.DataSpace())
	in, out := b.Channels()
	assert.Equal(t, 4, in)
	assert.Equal(t, 3, out)
	h, err := b.EnsureHandle()
	require.NoError(t, err)
	assert.Equal(t, cms.CMYKSpace, h.ColorSpace())

	again, err := r.Profile(cmyk.Hash())
	require.NoError(t, err)
	assert.Same(t, b, again)
	again.Release()

	_, err = r.Profile(0xDEADBEEF)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadSerial(t *testing.T) {
	gray := newBlob(t, cms.GraySpace, "gray")
	gray.SetRole(iccmgr.DefaultGray)
	data, _ := writeList(t, gray)

	r, err := NewReader(NewStore(bytes.NewReader(data), int64(len(data))), nil)
	require.NoError(t, err)
	defer r.Close()

	b, err := r.ReadSerial(gray.Hash())
	require.NoError(t, err)
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, iccmgr.DefaultGray, b.Role())
	assert.Equal(t, iccmgr.Gray, b.DataSpace())
	assert.Equal(t, gray.Hash(), b.Hash())
	_, err = b.EnsureHandle()
	assert.Error(t, err)

	_, err = r.ReadSerial(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCacheEviction(t *testing.T) {
	gray := newBlob(t, cms.GraySpace, "gray")
	rgb := newBlob(t, cms.RGBSpace, "rgb")
	data, _ := writeList(t, gray, rgb)

	r, err := NewReader(NewStore(bytes.NewReader(data), int64(len(data))), &ReaderOptions{CacheSize: 1})
	require.NoError(t, err)

	a, err := r.Profile(gray.Hash())
	require.NoError(t, err)
	assert.Equal(t, 2, a.RefCount())

	b, err := r.Profile(rgb.Hash())
	require.NoError(t, err)
	assert.Equal(t, 1, a.RefCount())
	assert.Equal(t, 2, b.RefCount())

	require.NoError(t, r.Close())
	assert.Equal(t, 1, b.RefCount())
	a.Release()
	b.Release()
	assert.Equal(t, 0, a.RefCount())
	assert.Equal(t, 0, b.RefCount())
}

func TestCorrupt(t *testing.T) {
	data, _ := writeList(t, newBlob(t, cms.GraySpace, "gray"))

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"no trailer", data[:len(data)-1]},
		{"bad table offset", func() []byte {
			d := bytes.Clone(data)
			d[len(d)-8] = 0xFF
			return d
		}()},
	}
	for _, tt := range tests {
		store := NewStore(bytes.NewReader(tt.data), int64(len(tt.data)))
		_, err := store.ReadProfileTable()
		assert.ErrorIs(t, err, ErrCorrupt, tt.name)
	}
}
