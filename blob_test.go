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
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/iccmgr/cms"
)

func mustBlob(t *testing.T, data []byte, name string, eng Engine) *Blob {
	t.Helper()
	b, err := NewBlob(data, name, eng)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestHashDeterministic(t *testing.T) {
	data := makeProfile(cms.RGBSpace)
	a := mustBlob(t, data, "a", nil)
	b := mustBlob(t, data, "b", nil)

	if a.Hash() != a.Hash() {
		t.Error("hash changed between calls")
	}
	if a.Hash() != b.Hash() {
		t.Errorf("got %016x and %016x for the same data", a.Hash(), b.Hash())
	}

	other := bytes.Clone(data)
	other[len(other)-1] ^= 1
	c := mustBlob(t, other, "c", nil)
	if a.Hash() == c.Hash() {
		t.Error("different data gave the same hash")
	}
}

func TestNewBlobCopies(t *testing.T) {
	data := makeProfile(cms.GraySpace)
	b := mustBlob(t, data, "gray", nil)
	h := b.Hash()
	data[len(data)-1] ^= 0xFF
	if got := contentHash(b.Bytes()); got != h {
		t.Errorf("blob data changed with the input: got %016x, want %016x", got, h)
	}
	if got, want := b.DeclaredSize(), uint32(len(data)); got != want {
		t.Errorf("declared size = %d, want %d", got, want)
	}
}

func TestNewBlobShort(t *testing.T) {
	_, err := NewBlob(make([]byte, cms.HeaderSize-1), "short", nil)
	var lErr *LoadError
	if !errors.As(err, &lErr) {
		t.Fatalf("got %v, want *LoadError", err)
	}
	if lErr.Name != "short" {
		t.Errorf("name = %q, want short", lErr.Name)
	}
}

func TestReadBlob(t *testing.T) {
	data := makeProfile(cms.CMYKSpace)

	b, err := ReadBlob(bytes.NewReader(data), "cmyk", int64(len(data)), nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b.Bytes(), data) {
		t.Error("data differs")
	}

	// a stream shorter than announced
	_, err = ReadBlob(bytes.NewReader(data[:100]), "cmyk", int64(len(data)), nil)
	var lErr *LoadError
	if !errors.As(err, &lErr) {
		t.Errorf("short stream: got %v, want *LoadError", err)
	}

	_, err = ReadBlob(bytes.NewReader(data), "huge", 1<<40, nil)
	var aErr *AllocationError
	if !errors.As(err, &aErr) {
		t.Errorf("huge size: got %v, want *AllocationError", err)
	}
}

func TestRetainRelease(t *testing.T) {
	eng := &countingEngine{}
	b := mustBlob(t, makeProfile(cms.RGBSpace), "rgb", eng)
	h, err := b.EnsureHandle()
	if err != nil {
		t.Fatal(err)
	}

	b.Retain()
	b.Release()
	if n := b.RefCount(); n != 1 {
		t.Errorf("refcount = %d, want 1", n)
	}
	if b.Bytes() == nil || b.Name() != "rgb" {
		t.Error("blob freed too early")
	}
	h2, err := b.EnsureHandle()
	if err != nil {
		t.Fatal(err)
	}
	if h2 != h {
		t.Error("handle changed")
	}
	if n := eng.closed.Load(); n != 0 {
		t.Errorf("%d handles closed, want 0", n)
	}

	b.Release()
	if n := b.RefCount(); n != 0 {
		t.Errorf("refcount = %d, want 0", n)
	}
	if b.Bytes() != nil {
		t.Error("buffer not dropped")
	}
	if n := eng.closed.Load(); n != 1 {
		t.Errorf("%d handles closed, want 1", n)
	}

	// releasing a freed blob does nothing
	b.Release()
	if n := b.RefCount(); n != 0 {
		t.Errorf("refcount = %d, want 0", n)
	}
	if n := eng.closed.Load(); n != 1 {
		t.Errorf("%d handles closed, want 1", n)
	}
	if _, err := b.EnsureHandle(); err == nil {
		t.Error("freed blob gave a handle")
	}
}

func TestAdjust(t *testing.T) {
	b := mustBlob(t, makeProfile(cms.RGBSpace), "rgb", nil)
	for _, step := range []struct{ delta, want int }{{3, 4}, {-2, 2}, {-5, 0}} {
		b.Adjust(step.delta)
		if n := b.RefCount(); n != step.want {
			t.Errorf("after Adjust(%d): refcount = %d, want %d", step.delta, n, step.want)
		}
	}
}

func TestEnsureHandleConcurrent(t *testing.T) {
	eng := &countingEngine{}
	b := mustBlob(t, makeProfile(cms.CMYKSpace), "cmyk", eng)

	const n = 16
	handles := make([]Handle, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := b.EnsureHandle()
			if err == nil {
				handles[i] = h
			}
			b.Hash()
		}()
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if handles[i] == nil || handles[i] != handles[0] {
			t.Fatalf("handle %d differs", i)
		}
	}
	// duplicates from lost races are closed
	if opened, closed := eng.opened.Load(), eng.closed.Load(); closed != opened-1 {
		t.Errorf("%d handles opened, %d closed", opened, closed)
	}

	in, out := b.Channels()
	if in != 4 || out != 3 {
		t.Errorf("channels = %d->%d, want 4->3", in, out)
	}
	if s := b.DataSpace(); s != CMYK {
		t.Errorf("data space = %s, want CMYK", s)
	}
}

func TestEnsureHandleFailure(t *testing.T) {
	data := makeProfile(cms.RGBSpace)
	data[36] = 'X' // break the signature
	b := mustBlob(t, data, "broken", nil)

	_, err1 := b.EnsureHandle()
	_, err2 := b.EnsureHandle()
	var lErr *LoadError
	if !errors.As(err1, &lErr) {
		t.Fatalf("got %v, want *LoadError", err1)
	}
	if lErr.Name != "broken" {
		t.Errorf("name = %q, want broken", lErr.Name)
	}
	var pErr *cms.InvalidProfileError
	if !errors.As(err1, &pErr) {
		t.Errorf("cause %v is not *cms.InvalidProfileError", err1)
	}
	if err1 != err2 {
		t.Errorf("second call gave %v, want %v", err2, err1)
	}
}

func TestLabRanges(t *testing.T) {
	b := mustBlob(t, makeProfile(cms.CIELabSpace), "lab", nil)
	if _, err := b.EnsureHandle(); err != nil {
		t.Fatal(err)
	}
	if !b.IsLab() {
		t.Error("not marked as Lab")
	}
	want := []Range{{0, 100}, {-128, 127}, {-128, 127}}
	if d := cmp.Diff(want, b.Ranges()); d != "" {
		t.Errorf("ranges (-want +got):\n%s", d)
	}
}

func TestBlobInfo(t *testing.T) {
	b := mustBlob(t, makeProfile(cms.GraySpace), "gray", nil)
	if _, err := b.EnsureHandle(); err != nil {
		t.Fatal(err)
	}
	b.SetRole(DefaultGray)

	info := b.Info()
	want := Info{
		Size:      b.Len(),
		Space:     Gray,
		Role:      DefaultGray,
		HashValid: true,
		NumIn:     1,
		NumOut:    3,
		Hash:      b.Hash(),
	}
	info = b.Info()
	if d := cmp.Diff(want, info); d != "" {
		t.Errorf("info (-want +got):\n%s", d)
	}

	c := NewBlobFromInfo(info, nil, nil)
	if c.Hash() != info.Hash {
		t.Errorf("hash = %016x, want %016x", c.Hash(), info.Hash)
	}
	if r := c.Role(); r != DefaultGray {
		t.Errorf("role = %s, want %s", r, DefaultGray)
	}
	if d := cmp.Diff([]Range{{0, 1}}, c.Ranges()); d != "" {
		t.Errorf("ranges (-want +got):\n%s", d)
	}
	if _, err := c.EnsureHandle(); err == nil {
		t.Error("blob without data gave a handle")
	}
}
