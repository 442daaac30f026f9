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

// Package iccmgr manages the ICC colour profiles of an imaging session.
//
// A [Manager] holds the default Gray, RGB, CMYK and Lab profiles, a list of
// DeviceN profiles, an optional named colour table, the soft-mask profiles
// and the source tag configuration which routes colours of different kinds
// of objects to different profiles.  Output devices keep their own profiles
// in a [DeviceProfiles] set.
//
// Profile data is held in reference counted [Blob] values.  Blobs are
// identified by a hash of their content, which allows to recognize the
// default profiles when they are embedded in a document, and to find
// profiles stored in a command list (see package clist).
//
// Profile names are resolved using a search path: the profile directory,
// the name as given, and a resource root with built-in profiles.
package iccmgr
