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

// Package resource holds the built-in ICC profiles.
//
// The profiles are used as the last entry of the profile search path, so
// that a manager can always find its default and soft-mask profiles even
// when no profile directory is configured.
package resource

import (
	"embed"
	"io/fs"
)

//go:embed iccprofiles/*.icc
var files embed.FS

// FS is the resource root.  Profile names are looked up relative to it.
var FS fs.FS

func init() {
	sub, err := fs.Sub(files, "iccprofiles")
	if err != nil {
		panic(err)
	}
	FS = sub
}

// Names of the built-in default profiles.
const (
	DefaultGray = "default_gray.icc"
	DefaultRGB  = "default_rgb.icc"
	DefaultCMYK = "default_cmyk.icc"
	DefaultLab  = "lab.icc"
)

// Names of the built-in soft-mask profiles.
const (
	SoftMaskGray = "ps_gray.icc"
	SoftMaskRGB  = "ps_rgb.icc"
	SoftMaskCMYK = "ps_cmyk.icc"
)
