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
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestDateTime(t *testing.T) {
	in := []byte{
		byte(2020 >> 8), byte(2020 & 0xFF),
		0, 1,
		0, 2,
		0, 4,
		0, 5,
		0, 6,
	}
	want := "2020-01-02 04:05:06 +0000 UTC"
	got := getDateTime(in, 0).String()
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDecodeShort(t *testing.T) {
	_, err := Decode(make([]byte, HeaderSize))
	if _, ok := err.(*InvalidProfileError); !ok {
		t.Fatalf("got %v, want *InvalidProfileError", err)
	}
}

func TestDecodeSignature(t *testing.T) {
	p := &Profile{Class: DisplayDeviceProfile, ColorSpace: RGBSpace, PCS: PCSXYZSpace}
	data := p.Encode()
	data[36] = 'x'
	_, err := Decode(data)
	e, ok := err.(*InvalidProfileError)
	if !ok || e.Offset != 36 {
		t.Fatalf("got %v, want signature error", err)
	}
}

// The profile ID check must not touch the caller's buffer.
func TestDecodeDoesNotModify(t *testing.T) {
	p := &Profile{
		Version:         Version4_2_0,
		Class:           OutputDeviceProfile,
		ColorSpace:      CMYKSpace,
		PCS:             PCSLabSpace,
		Flags:           3,
		RenderingIntent: Saturation,
		TagData: map[TagType][]byte{
			ProfileDescription: EncodeDesc("test"),
		},
	}
	data := p.Encode()
	orig := bytes.Clone(data)

	q, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, orig) {
		t.Error("Decode modified its input")
	}
	if q.CheckSum != CheckSumValid {
		t.Errorf("checksum = %s, want Valid", q.CheckSum)
	}
	if q.Flags != 3 || q.RenderingIntent != Saturation {
		t.Errorf("flags/intent = %d/%s, want 3/Saturation", q.Flags, q.RenderingIntent)
	}
	if q.Size != uint32(len(data)) || DeclaredSize(data) != uint32(len(data)) {
		t.Errorf("declared size = %d, want %d", q.Size, len(data))
	}

	data[200%len(data)] ^= 0xFF
	q, err = Decode(data)
	if err == nil && q.CheckSum != CheckSumInvalid {
		t.Errorf("checksum = %s after corruption, want Invalid", q.CheckSum)
	}
}

func TestRoundTrip(t *testing.T) {
	p := &Profile{
		Version:      Version2_1_0,
		Class:        OutputDeviceProfile,
		ColorSpace:   NChannel(6),
		PCS:          PCSLabSpace,
		CreationDate: time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		TagData: map[TagType][]byte{
			ProfileDescription: EncodeDesc("hexachrome"),
			Copyright:          EncodeText("public domain"),
			ColorantTable:      EncodeColorantTable([]string{"Cyan", "Magenta", "Yellow", "Black", "Orange", "Green"}),
		},
	}
	q, err := Decode(p.Encode())
	if err != nil {
		t.Fatal(err)
	}
	q.Size = 0
	if d := cmp.Diff(p, q); d != "" {
		t.Errorf("round trip (-want +got):\n%s", d)
	}
}

func FuzzDecode(f *testing.F) {
	p := &Profile{
		TagData:      make(map[TagType][]byte),
		CreationDate: time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	f.Add(p.Encode())
	p.TagData[ColorantTable] = EncodeColorantTable([]string{"Orange"})
	f.Add(p.Encode())
	f.Fuzz(func(t *testing.T, a []byte) {
		p, err := Decode(a)
		if err != nil {
			return
		}
		q, err := Decode(p.Encode())
		if err != nil {
			t.Fatalf("re-decoding failed: %v", err)
		}

		p.Size, q.Size = 0, 0
		p.CheckSum, q.CheckSum = CheckSumMissing, CheckSumMissing
		p.Flags, q.Flags = 0, 0
		p.RenderingIntent, q.RenderingIntent = 0, 0
		if d := cmp.Diff(p.TagData, q.TagData); d != "" {
			t.Fatalf("tag data differs:\n%s", d)
		}
	})
}
