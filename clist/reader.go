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
	"fmt"
	"io"
	"log/slog"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"seehuhn.de/go/iccmgr"
)

// ReaderOptions configure a [Reader].  The zero value is ready to use.
type ReaderOptions struct {
	// Engine is used for the blobs read from the command list.
	Engine iccmgr.Engine

	// CacheSize is the number of profiles kept in memory.
	// The default is 16.
	CacheSize int

	// Logger receives debug messages.  If this is nil, nothing is logged.
	Logger *slog.Logger
}

// Reader reads profiles from a command list.  The table of contents is read
// on first use.  Recently read profiles are cached.
type Reader struct {
	store  Store
	engine iccmgr.Engine
	logger *slog.Logger

	mu       sync.Mutex
	table    Table
	tableErr error
	loaded   bool
	cache    *lru.Cache[uint64, *iccmgr.Blob]
}

// NewReader returns a Reader for the profiles in store.
func NewReader(store Store, opt *ReaderOptions) (*Reader, error) {
	if opt == nil {
		opt = &ReaderOptions{}
	}
	size := opt.CacheSize
	if size <= 0 {
		size = 16
	}
	logger := opt.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cache, err := lru.NewWithEvict(size, func(hash uint64, b *iccmgr.Blob) {
		logger.Debug("profile evicted", "hash", fmt.Sprintf("%016x", hash))
		b.Release()
	})
	if err != nil {
		return nil, err
	}
	r := &Reader{
		store:  store,
		engine: opt.Engine,
		logger: logger,
		cache:  cache,
	}
	return r, nil
}

// Table returns the table of contents of the command list.
func (r *Reader) Table() (Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readTable()
}

func (r *Reader) readTable() (Table, error) {
	if !r.loaded {
		r.table, r.tableErr = r.store.ReadProfileTable()
		r.loaded = true
	}
	return r.table, r.tableErr
}

func (r *Reader) lookup(hash uint64) (Entry, error) {
	table, err := r.readTable()
	if err != nil {
		return Entry{}, err
	}
	e, ok := table.Search(hash)
	if !ok {
		return Entry{}, ErrNotFound
	}
	if e.Size < headerSize {
		return Entry{}, fmt.Errorf("%w: entry %016x too small", ErrCorrupt, hash)
	}
	return e, nil
}

// ReadSerial returns the stored metadata of a profile.  The returned blob
// has no profile data.  The caller owns the returned reference.
func (r *Reader) ReadSerial(hash uint64) (*iccmgr.Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, err := r.lookup(hash)
	if err != nil {
		return nil, err
	}
	buf, err := r.store.ReadChunk(e.Offset, headerSize)
	if err != nil {
		return nil, err
	}
	h, err := decodeHeader(buf)
	if err != nil {
		return nil, err
	}
	return iccmgr.NewBlobFromInfo(h.info(), nil, r.engine), nil
}

// Profile returns the profile with the given hash.  The caller owns the
// returned reference and must release it when done.
func (r *Reader) Profile(hash uint64) (*iccmgr.Blob, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.cache.Get(hash); ok {
		b.Retain()
		return b, nil
	}

	e, err := r.lookup(hash)
	if err != nil {
		return nil, err
	}
	chunk, err := r.store.ReadChunk(e.Offset, e.Size)
	if err != nil {
		return nil, err
	}
	h, err := decodeHeader(chunk)
	if err != nil {
		return nil, err
	}
	if int64(h.BufferSize) != e.Size-headerSize {
		return nil, fmt.Errorf("%w: size mismatch for %016x", ErrCorrupt, hash)
	}

	b := iccmgr.NewBlobFromInfo(h.info(), chunk[headerSize:], r.engine)
	r.logger.Debug("profile read", "hash", fmt.Sprintf("%016x", hash), "size", h.BufferSize)
	b.Retain()
	r.cache.Add(hash, b)
	return b, nil
}

// Close drops the references held by the cache.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache.Purge()
	return nil
}
