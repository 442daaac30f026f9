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

package resource

import (
	"io/fs"
	"testing"

	"seehuhn.de/go/iccmgr/cms"
)

func TestBuiltin(t *testing.T) {
	tests := []struct {
		name  string
		space cms.ColorSpace
	}{
		{DefaultGray, cms.GraySpace},
		{DefaultRGB, cms.RGBSpace},
		{DefaultCMYK, cms.CMYKSpace},
		{DefaultLab, cms.CIELabSpace},
		{SoftMaskGray, cms.GraySpace},
		{SoftMaskRGB, cms.RGBSpace},
		{SoftMaskCMYK, cms.CMYKSpace},
	}
	for _, tt := range tests {
		data, err := fs.ReadFile(FS, tt.name)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if cms.DeclaredSize(data) != uint32(len(data)) {
			t.Errorf("%s: declared size %d, file size %d", tt.name, cms.DeclaredSize(data), len(data))
		}
		p, err := cms.Decode(data)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if p.ColorSpace != tt.space {
			t.Errorf("%s: colour space %s, want %s", tt.name, p.ColorSpace, tt.space)
		}
		if p.CheckSum != cms.CheckSumValid {
			t.Errorf("%s: checksum %s", tt.name, p.CheckSum)
		}
		if p.Description() == "" {
			t.Errorf("%s: missing description", tt.name)
		}
	}
}
