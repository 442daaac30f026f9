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
	"crypto/md5"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"seehuhn.de/go/iccmgr/cms"
)

// maxProfileSize is the largest profile buffer a blob will allocate.
const maxProfileSize = math.MaxInt32

type handleState int

const (
	unresolved handleState = iota
	materialized
	failed
)

// A Blob holds the raw data of an ICC profile together with metadata
// derived from it.
//
// Blobs are reference counted.  A new blob has a reference count of one;
// owners which share a blob call [Blob.Retain] and [Blob.Release].  When the
// last reference is released, the engine handle is closed and the buffer is
// dropped.
//
// The buffer of a blob never changes after the blob has been created.  The
// engine handle is created on first use, see [Blob.EnsureHandle].
type Blob struct {
	buf    []byte
	name   string
	engine Engine

	refs atomic.Int32

	mu            sync.Mutex
	state         handleState
	handle        Handle
	err           error
	hash          uint64
	hashValid     bool
	numIn         int
	numOut        int
	space         DataSpace
	role          Role
	isLab         bool
	ranges        []Range
	spotNames     *NameList
	permutation   []int
	permuteNeeded bool
}

// NewBlob creates a blob holding a copy of data.
// If eng is nil, the built-in [cms.Engine] is used.
func NewBlob(data []byte, name string, eng Engine) (*Blob, error) {
	if len(data) < cms.HeaderSize {
		return nil, &LoadError{Name: name, Err: errShortProfile}
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return newBlob(buf, name, eng), nil
}

// ReadBlob reads a profile of the given size from r.
//
// The size is the measured length of the stream.  The size declared in the
// profile header is not used.
func ReadBlob(r io.Reader, name string, size int64, eng Engine) (*Blob, error) {
	buf, err := readBuffer(r, name, size)
	if err != nil {
		return nil, err
	}
	if len(buf) < cms.HeaderSize {
		return nil, &LoadError{Name: name, Err: errShortProfile}
	}
	return newBlob(buf, name, eng), nil
}

func readBuffer(r io.Reader, name string, size int64) ([]byte, error) {
	if size < 0 || size > maxProfileSize {
		return nil, &AllocationError{Name: name, Size: size, Limit: maxProfileSize}
	}
	buf := make([]byte, size)
	n, err := io.ReadFull(r, buf)
	if err != nil {
		return nil, &LoadError{Name: name, Err: fmt.Errorf("read %d of %d bytes: %w", n, size, err)}
	}
	return buf, nil
}

func newBlob(buf []byte, name string, eng Engine) *Blob {
	if eng == nil {
		eng = cmsEngine{}
	}
	b := &Blob{
		buf:    buf,
		name:   name,
		engine: eng,
	}
	b.refs.Store(1)
	return b
}

// newRawBlob wraps data which is not an ICC profile.  This is used for
// named colour tables.  The blob never gets an engine handle.
func newRawBlob(data []byte, name string) *Blob {
	b := newBlob(data, name, nil)
	b.state = failed
	b.err = &LoadError{Name: name, Err: errNotICC}
	b.space = Named
	return b
}

// Info is the metadata of a blob which can be stored without the profile
// data.
type Info struct {
	Size      int
	Space     DataSpace
	Role      Role
	HashValid bool
	IsLab     bool
	NumIn     int
	NumOut    int
	Hash      uint64
}

// Info returns the metadata of the blob.
func (b *Blob) Info() Info {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Info{
		Size:      len(b.buf),
		Space:     b.space,
		Role:      b.role,
		HashValid: b.hashValid,
		IsLab:     b.isLab,
		NumIn:     b.numIn,
		NumOut:    b.numOut,
		Hash:      b.hash,
	}
}

// NewBlobFromInfo creates a blob from stored metadata.
//
// If data is nil, the blob only carries the metadata and cannot be
// materialized.  Otherwise data must be the profile the metadata was taken
// from; the blob takes ownership of data.
func NewBlobFromInfo(info Info, data []byte, eng Engine) *Blob {
	b := newBlob(data, "", eng)
	b.space = info.Space
	b.role = info.Role
	b.isLab = info.IsLab
	b.numIn = info.NumIn
	b.numOut = info.NumOut
	b.hash = info.Hash
	b.hashValid = info.HashValid
	b.ranges = defaultRanges(info.Space, info.NumIn)
	return b
}

// Name returns the name the blob was loaded from.
func (b *Blob) Name() string {
	return b.name
}

// Len returns the size of the profile data in bytes.
func (b *Blob) Len() int {
	return len(b.buf)
}

// Bytes returns the profile data.  The caller must not modify the result.
func (b *Blob) Bytes() []byte {
	return b.buf
}

// DeclaredSize returns the profile size declared in the header.
// This value is informational only.
func (b *Blob) DeclaredSize() uint32 {
	return cms.DeclaredSize(b.buf)
}

// Hash returns a 64-bit content hash of the profile data.
// The hash is computed on first use.
func (b *Blob) Hash() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.hashValid {
		b.hash = contentHash(b.buf)
		b.hashValid = true
	}
	return b.hash
}

func contentHash(buf []byte) uint64 {
	sum := md5.Sum(buf)
	return binary.BigEndian.Uint64(sum[:8]) ^ binary.BigEndian.Uint64(sum[8:])
}

// EnsureHandle returns the engine handle of the blob, creating it if
// needed.  On success, the channel counts and the data space of the blob are
// set from the handle.
//
// EnsureHandle is safe for concurrent use.  If several goroutines race to
// create the handle, one of the handles is kept and the others are closed.
// A failure is remembered and returned by all later calls.
func (b *Blob) EnsureHandle() (Handle, error) {
	b.mu.Lock()
	switch b.state {
	case materialized:
		h := b.handle
		b.mu.Unlock()
		return h, nil
	case failed:
		err := b.err
		b.mu.Unlock()
		return nil, err
	}
	buf := b.buf
	b.mu.Unlock()

	if len(buf) == 0 {
		return nil, &LoadError{Name: b.name, Err: errNoData}
	}
	h, err := b.engine.Open(buf)

	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case materialized:
		if h != nil {
			h.Close()
		}
		return b.handle, nil
	case failed:
		if h != nil {
			h.Close()
		}
		return nil, b.err
	}
	if b.buf == nil {
		// released while the engine was running
		if h != nil {
			h.Close()
		}
		return nil, &LoadError{Name: b.name, Err: errNoData}
	}
	if err != nil {
		b.state = failed
		b.err = &LoadError{Name: b.name, Err: err}
		return nil, b.err
	}
	b.state = materialized
	b.handle = h
	b.numIn = h.InputChannels()
	b.numOut = h.OutputChannels()
	b.space = dataSpaceOf(h.ColorSpace())
	if b.space == Lab {
		b.isLab = true
	}
	if b.ranges == nil {
		b.ranges = defaultRanges(b.space, b.numIn)
	}
	return h, nil
}

// Retain adds a reference to the blob.
func (b *Blob) Retain() {
	b.refs.Add(1)
}

// Release drops a reference to the blob.  When the last reference is
// dropped, the resources of the blob are freed.  Releasing a blob which has
// already been freed has no effect.
func (b *Blob) Release() {
	for {
		n := b.refs.Load()
		if n <= 0 {
			return
		}
		if b.refs.CompareAndSwap(n, n-1) {
			if n == 1 {
				b.free()
			}
			return
		}
	}
}

// Adjust changes the reference count by delta.
func (b *Blob) Adjust(delta int) {
	for ; delta > 0; delta-- {
		b.Retain()
	}
	for ; delta < 0; delta++ {
		b.Release()
	}
}

// RefCount returns the current reference count.
func (b *Blob) RefCount() int {
	return int(b.refs.Load())
}

func (b *Blob) free() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.handle != nil {
		b.handle.Close()
		b.handle = nil
	}
	b.buf = nil
	b.spotNames = nil
	b.permutation = nil
	b.state = failed
	b.err = &LoadError{Name: b.name, Err: errReleased}
}

// Role returns the canonical role of the blob.
func (b *Blob) Role() Role {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.role
}

// SetRole changes the canonical role of the blob.
func (b *Blob) SetRole(r Role) {
	b.mu.Lock()
	b.role = r
	b.mu.Unlock()
}

// DataSpace returns the native colour space of the profile.
// This is Undefined until the handle has been created.
func (b *Blob) DataSpace() DataSpace {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.space
}

// Channels returns the number of input and output channels.
// Both are zero until the handle has been created.
func (b *Blob) Channels() (in, out int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.numIn, b.numOut
}

// IsLab reports whether the blob is a Lab profile.
func (b *Blob) IsLab() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isLab
}

// Ranges returns the valid range of each input component.
func (b *Blob) Ranges() []Range {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Range(nil), b.ranges...)
}

func (b *Blob) setRanges(space DataSpace, n int) {
	b.mu.Lock()
	b.ranges = defaultRanges(space, n)
	if space == Lab {
		b.isLab = true
	}
	b.mu.Unlock()
}

// SpotNames returns the colorant names of a DeviceN profile, or nil.
func (b *Blob) SpotNames() *NameList {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.spotNames
}

// Permutation returns the channel permutation recorded by the last
// successful DeviceN match against this blob.  Entry j gives the profile
// channel for document colorant j.
func (b *Blob) Permutation() (perm []int, needed bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.permutation...), b.permuteNeeded
}

var (
	errShortProfile = errors.New("profile is shorter than the ICC header")
	errNotICC       = errors.New("not an ICC profile")
	errNoData       = errors.New("no profile data")
	errReleased     = errors.New("profile has been released")
)
