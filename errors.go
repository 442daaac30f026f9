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

package iccmgr

import (
	"fmt"
	"strings"
)

// LoadError indicates that a profile file was found but could not be read,
// or that it is too short to hold an ICC header.
type LoadError struct {
	Name string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("iccmgr: cannot load profile %q: %v", e.Name, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ResolutionError indicates that a profile name could not be resolved to a
// usable profile.  Either none of the search path candidates exists, or
// Err gives the reason why the profile found could not be used.
type ResolutionError struct {
	Name  string
	Tried []string
	Err   error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("iccmgr: profile %q cannot be used: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("iccmgr: profile %q not found (tried %s)",
		e.Name, strings.Join(e.Tried, ", "))
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// FormatError indicates a malformed source tag configuration.
type FormatError struct {
	Name   string
	Token  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("iccmgr: %s: %s %q", e.Name, e.Reason, e.Token)
}

// ConsistencyError indicates that the colour space of a default profile does
// not match the role the profile was installed for.
type ConsistencyError struct {
	Name  string
	Role  Role
	Space DataSpace
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("iccmgr: profile %q has colour space %s, not valid for %s",
		e.Name, e.Space, e.Role)
}

// AllocationError indicates that a buffer or structure could not be
// allocated because its size is out of range.
type AllocationError struct {
	Name  string
	Size  int64
	Limit int64
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("iccmgr: %s: cannot allocate %d bytes (limit %d)",
		e.Name, e.Size, e.Limit)
}
