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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestColorantTable(t *testing.T) {
	long := strings.Repeat("x", 40)
	tests := []struct {
		in   []string
		want []string
	}{
		{nil, []string{}},
		{[]string{"Cyan", "Magenta"}, []string{"Cyan", "Magenta"}},
		{[]string{long}, []string{long[:31]}},
	}
	for _, tt := range tests {
		got, err := decodeColorantTable(EncodeColorantTable(tt.in))
		if err != nil {
			t.Errorf("%q: %v", tt.in, err)
			continue
		}
		if d := cmp.Diff(tt.want, got); d != "" {
			t.Errorf("%q: (-want +got):\n%s", tt.in, d)
		}
	}
}

func TestColorantTableTruncated(t *testing.T) {
	data := EncodeColorantTable([]string{"Cyan", "Magenta"})
	_, err := decodeColorantTable(data[:len(data)-1])
	if err != errInvalidTagData {
		t.Errorf("got %v, want %v", err, errInvalidTagData)
	}
}

func TestDescription(t *testing.T) {
	p := &Profile{TagData: map[TagType][]byte{ProfileDescription: EncodeDesc("sGray")}}
	if got := p.Description(); got != "sGray" {
		t.Errorf("got %q, want %q", got, "sGray")
	}
	p = &Profile{TagData: map[TagType][]byte{}}
	if got := p.Description(); got != "" {
		t.Errorf("got %q, want empty description", got)
	}
}

func TestCopyrightText(t *testing.T) {
	p := &Profile{TagData: map[TagType][]byte{Copyright: EncodeText("no rights reserved")}}
	got, err := p.Copyright()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Value != "no rights reserved" {
		t.Errorf("got %v", got)
	}
}

func TestTagTypeString(t *testing.T) {
	if s := TagType(0x41324230).String(); s != `"A2B0"` {
		t.Errorf("got %s", s)
	}
	if s := TagType(1).String(); s != "0x00000001" {
		t.Errorf("got %s", s)
	}
}
