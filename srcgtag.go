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
	"strconv"
	"strings"

	"seehuhn.de/go/iccmgr/cms"
)

// maxSourceTagSize is the largest source tag file accepted.
const maxSourceTagSize = (int64(numSourceTagKeys) + 1) * 4096

// sourceTagDelims separates the tokens of a source tag file.
const sourceTagDelims = "\t,\x1a\n\r"

type sourceTagKey int

const (
	keyColorTune sourceTagKey = iota
	keyGraphicCMYK
	keyImageCMYK
	keyTextCMYK
	keyGraphicRGB
	keyImageRGB
	keyTextRGB
	numSourceTagKeys
)

// sourceTagKeys holds the keys in normalized form, see normalizeKey.
var sourceTagKeys = [numSourceTagKeys]string{
	keyColorTune:   "COLORTUNE",
	keyGraphicCMYK: "GRAPHICCMYK",
	keyImageCMYK:   "IMAGECMYK",
	keyTextCMYK:    "TEXTCMYK",
	keyGraphicRGB:  "GRAPHICRGB",
	keyImageRGB:    "IMAGERGB",
	keyTextRGB:     "TEXTRGB",
}

func normalizeKey(tok string) string {
	return strings.ToUpper(strings.ReplaceAll(tok, "_", ""))
}

func lookupKey(tok string) (sourceTagKey, bool) {
	tok = normalizeKey(tok)
	for k, key := range sourceTagKeys {
		if strings.HasPrefix(tok, key) {
			return sourceTagKey(k), true
		}
	}
	return 0, false
}

// tokenizer splits its input at sourceTagDelims.  Empty tokens are
// skipped.  The input is not modified.
type tokenizer struct {
	data string
	pos  int
}

func (t *tokenizer) next() (string, bool) {
	for t.pos < len(t.data) && strings.IndexByte(sourceTagDelims, t.data[t.pos]) >= 0 {
		t.pos++
	}
	if t.pos >= len(t.data) {
		return "", false
	}
	start := t.pos
	for t.pos < len(t.data) && strings.IndexByte(sourceTagDelims, t.data[t.pos]) < 0 {
		t.pos++
	}
	return t.data[start:t.pos], true
}

// SourceBinding is the profile and rendering intent configured for one
// combination of object class and source colour space.
type SourceBinding struct {
	Profile  *Blob
	Intent   cms.RenderingIntent
	Override bool
}

// SourceTags routes source colours to profiles, depending on the kind of
// object being painted.
//
// A SourceTags value is immutable once it has been parsed.
type SourceTags struct {
	colorTune *Blob
	rgb       [3]SourceBinding // indexed by object class - ObjectPath
	cmyk      [3]SourceBinding
}

// ParseSourceTags parses a source tag configuration.
//
// The configuration is a sequence of entries, each consisting of a key, a
// profile name and (except for ColorTune) an integer rendering intent.  The
// keys are ColorTune, Graphic_CMYK, Image_CMYK, Text_CMYK, Graphic_RGB,
// Image_RGB and Text_RGB; case and underscores in keys are ignored.
// Profiles are loaded using load.  On error, all profiles loaded so far are
// released.  The name is only used in error messages.
func ParseSourceTags(data []byte, name string, load func(string) (*Blob, error)) (*SourceTags, error) {
	t := &SourceTags{}
	if err := t.parse(string(data), name, load); err != nil {
		t.Release()
		return nil, err
	}
	return t, nil
}

func (t *SourceTags) parse(data, name string, load func(string) (*Blob, error)) error {
	tok := &tokenizer{data: data}
	for {
		keyTok, ok := tok.next()
		if !ok {
			return nil
		}
		key, ok := lookupKey(keyTok)
		if !ok {
			return &FormatError{Name: name, Token: keyTok, Reason: "unknown key"}
		}

		fname, ok := tok.next()
		if !ok {
			return &FormatError{Name: name, Token: keyTok, Reason: "missing profile name after"}
		}
		b, err := load(fname)
		if err != nil {
			var rErr *ResolutionError
			if !errors.As(err, &rErr) {
				err = &ResolutionError{Name: fname, Err: err}
			}
			return err
		}

		if key == keyColorTune {
			if t.colorTune != nil {
				t.colorTune.Release()
			}
			t.colorTune = b
			continue
		}

		var dest *SourceBinding
		switch key {
		case keyGraphicCMYK, keyImageCMYK, keyTextCMYK:
			dest = &t.cmyk[key-keyGraphicCMYK]
		default:
			dest = &t.rgb[key-keyGraphicRGB]
		}
		if dest.Profile != nil {
			dest.Profile.Release()
		}
		dest.Profile = b

		intentTok, ok := tok.next()
		if !ok {
			return &FormatError{Name: name, Token: fname, Reason: "missing rendering intent after"}
		}
		intent, err := strconv.ParseUint(intentTok, 10, 31)
		if err != nil {
			return &FormatError{Name: name, Token: intentTok, Reason: "invalid rendering intent"}
		}
		dest.Intent = cms.RenderingIntent(intent)
		dest.Override = true
	}
}

// Resolve returns the binding for the given source colour space and object
// class.  If nothing is configured, the result has a nil profile and the
// Perceptual intent.
func (t *SourceTags) Resolve(space DataSpace, obj ObjectClass) SourceBinding {
	if t == nil || obj < ObjectPath || obj > ObjectText {
		return SourceBinding{}
	}
	switch space {
	case RGB:
		return t.rgb[obj-ObjectPath]
	case CMYK:
		return t.cmyk[obj-ObjectPath]
	}
	return SourceBinding{}
}

// ColorTune returns the colour correction profile, or nil.
func (t *SourceTags) ColorTune() *Blob {
	if t == nil {
		return nil
	}
	return t.colorTune
}

// Release drops the references to all profiles held by t.
func (t *SourceTags) Release() {
	if t.colorTune != nil {
		t.colorTune.Release()
		t.colorTune = nil
	}
	for i := range t.rgb {
		if p := t.rgb[i].Profile; p != nil {
			p.Release()
		}
		if p := t.cmyk[i].Profile; p != nil {
			p.Release()
		}
	}
	t.rgb = [3]SourceBinding{}
	t.cmyk = [3]SourceBinding{}
}

// SetSourceTags reads a source tag configuration from the named file and
// installs it.  Profiles named in the file are found using the profile
// search path.  If source tags are already installed, SetSourceTags does
// nothing.
func (m *Manager) SetSourceTags(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errClosed
	}
	if m.srcTags != nil {
		return nil
	}

	f, where, err := m.search.open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return &LoadError{Name: name, Err: err}
	}
	if fi.Size() > maxSourceTagSize {
		return &AllocationError{Name: name, Size: fi.Size(), Limit: maxSourceTagSize}
	}
	data, err := readBuffer(f, name, fi.Size())
	if err != nil {
		return err
	}

	t, err := ParseSourceTags(data, name, func(fname string) (*Blob, error) {
		b, err := m.loadProfile(fname, NoRole)
		if err != nil {
			return nil, err
		}
		if _, err := b.EnsureHandle(); err != nil {
			b.Release()
			return nil, err
		}
		b.Hash()
		return b, nil
	})
	if err != nil {
		m.logger.Warn("source tags not installed", "name", name, "error", err)
		return err
	}
	m.srcTags = t
	m.srcTagName = name
	m.logger.Debug("source tags installed", "name", name, "path", where)
	return nil
}

// SourceProfile returns the source tag binding for the given colour space
// and object class.
func (m *Manager) SourceProfile(space DataSpace, obj ObjectClass) SourceBinding {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.srcTags.Resolve(space, obj)
}

// SourceTags returns the installed source tags, or nil.
func (m *Manager) SourceTags() *SourceTags {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.srcTags
}
