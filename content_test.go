// Copyright 2024 The YUFS Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package yufs

import (
	"bytes"
	"testing"
)

func TestWriteThenReadRoundTrip(t *testing.T) {
	c := NewCore()
	f, _ := c.Create(RootID, "f", 0644)
	n, err := c.Write(f.ID, 0, []byte("hello world"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != 11 {
		t.Fatalf("Write returned %d, want 11", n)
	}
	buf := make([]byte, 11)
	n, err = c.Read(f.ID, 0, buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(buf[:n]) != "hello world" {
		t.Fatalf("Read = %q", buf[:n])
	}
	st, _ := c.Getattr(f.ID)
	if st.Size != 11 {
		t.Fatalf("Size = %d, want 11", st.Size)
	}
}

func TestWritePastEndZeroFillsGap(t *testing.T) {
	c := NewCore()
	f, _ := c.Create(RootID, "f", 0644)
	c.Write(f.ID, 0, []byte("ab"))
	c.Write(f.ID, 5, []byte("cd"))

	buf := make([]byte, 7)
	n, _ := c.Read(f.ID, 0, buf)
	want := []byte{'a', 'b', 0, 0, 0, 'c', 'd'}
	if !bytes.Equal(buf[:n], want) {
		t.Fatalf("Read = %v, want %v", buf[:n], want)
	}
}

func TestWriteExactlyAtEndNoZeroFill(t *testing.T) {
	c := NewCore()
	f, _ := c.Create(RootID, "f", 0644)
	c.Write(f.ID, 0, []byte("ab"))
	c.Write(f.ID, 2, []byte("cd"))

	buf := make([]byte, 4)
	n, _ := c.Read(f.ID, 0, buf)
	if string(buf[:n]) != "abcd" {
		t.Fatalf("Read = %q, want abcd", buf[:n])
	}
}

func TestReadAtOrPastEndReturnsZero(t *testing.T) {
	c := NewCore()
	f, _ := c.Create(RootID, "f", 0644)
	c.Write(f.ID, 0, []byte("ab"))

	buf := make([]byte, 4)
	n, err := c.Read(f.ID, 2, buf)
	if err != nil || n != 0 {
		t.Fatalf("Read(at end) = (%d, %v), want (0, nil)", n, err)
	}
	n, err = c.Read(f.ID, 100, buf)
	if err != nil || n != 0 {
		t.Fatalf("Read(past end) = (%d, %v), want (0, nil)", n, err)
	}
}

func TestReadWriteOnDirectoryRejected(t *testing.T) {
	c := NewCore()
	dir, _ := c.Mkdir(RootID, "d", 0755)
	if _, err := c.Read(dir.ID, 0, make([]byte, 1)); err != EISDIR {
		t.Fatalf("Read(dir) = %v, want EISDIR", err)
	}
	if _, err := c.Write(dir.ID, 0, []byte("x")); err != EISDIR {
		t.Fatalf("Write(dir) = %v, want EISDIR", err)
	}
}

func TestTruncateGrow(t *testing.T) {
	c := NewCore()
	f, _ := c.Create(RootID, "f", 0644)
	c.Write(f.ID, 0, []byte("hel"))

	if err := c.Truncate(f.ID, 6); err != nil {
		t.Fatalf("Truncate(grow): %v", err)
	}
	st, _ := c.Getattr(f.ID)
	if st.Size != 6 {
		t.Fatalf("Size after grow = %d, want 6", st.Size)
	}
	buf := make([]byte, 6)
	n, _ := c.Read(f.ID, 0, buf)
	want := []byte{'h', 'e', 'l', 0, 0, 0}
	if !bytes.Equal(buf[:n], want) {
		t.Fatalf("Read after grow = %v, want %v", buf[:n], want)
	}
}

func TestTruncateShrinkRejected(t *testing.T) {
	c := NewCore()
	f, _ := c.Create(RootID, "f", 0644)
	c.Write(f.ID, 0, []byte("hello"))

	if err := c.Truncate(f.ID, 3); err != EINVAL {
		t.Fatalf("Truncate(shrink) = %v, want EINVAL", err)
	}
	st, _ := c.Getattr(f.ID)
	if st.Size != 5 {
		t.Fatalf("Size after rejected shrink = %d, want unchanged 5", st.Size)
	}
}
