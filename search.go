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
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// searchPath locates profile files.  Candidates are tried in order: the
// profile directory joined with the name, the name as given, and the name
// inside the fallback resource root.
type searchPath struct {
	dir      string
	fallback fs.FS
}

// open returns the first candidate file which can be opened.
func (p searchPath) open(name string) (fs.File, string, error) {
	if name == "" {
		return nil, "", &ResolutionError{Name: name}
	}

	var tried []string
	if p.dir != "" {
		fname := filepath.Join(p.dir, name)
		tried = append(tried, fname)
		if f, ok := openFile(osOpen, fname); ok {
			return f, fname, nil
		}
	}

	tried = append(tried, name)
	if f, ok := openFile(osOpen, name); ok {
		return f, name, nil
	}

	if p.fallback != nil {
		fname := path.Clean(strings.TrimPrefix(filepath.ToSlash(name), "/"))
		if fs.ValidPath(fname) {
			tried = append(tried, "resource:"+fname)
			if f, ok := openFile(p.fallback.Open, fname); ok {
				return f, "resource:" + fname, nil
			}
		}
	}

	return nil, "", &ResolutionError{Name: name, Tried: tried}
}

// openFile opens a candidate.  Directories and files which cannot be
// opened do not count as found.
func openFile(open func(string) (fs.File, error), name string) (fs.File, bool) {
	f, err := open(name)
	if err != nil {
		return nil, false
	}
	fi, err := f.Stat()
	if err != nil || fi.IsDir() {
		f.Close()
		return nil, false
	}
	return f, true
}

func osOpen(name string) (fs.File, error) {
	return os.Open(name)
}

// read resolves name and reads the whole file.
func (p searchPath) read(name string) ([]byte, string, error) {
	f, where, err := p.open(name)
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, where, &LoadError{Name: name, Err: err}
	}
	if fi.IsDir() {
		return nil, where, &LoadError{Name: name, Err: errIsDir}
	}
	buf, err := readBuffer(f, name, fi.Size())
	if err != nil {
		return nil, where, err
	}
	return buf, where, nil
}

var errIsDir = errors.New("is a directory")
