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

import "testing"

func TestNewCoreHasRoot(t *testing.T) {
	c := NewCore()
	st, err := c.Getattr(RootID)
	if err != nil {
		t.Fatalf("Getattr(root): %v", err)
	}
	if !isDir(st.Mode) {
		t.Fatalf("root mode %o is not a directory", st.Mode)
	}
}

func TestCreatePermissionBitsPreserved(t *testing.T) {
	c := NewCore()
	f, err := c.Create(RootID, "a.txt", 0640)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if f.Mode&0777 != 0640 {
		t.Fatalf("Create mode = %o, want perm bits 0640", f.Mode)
	}
	if !isFile(f.Mode) {
		t.Fatalf("Create mode %o is not a regular file", f.Mode)
	}

	d, err := c.Mkdir(RootID, "sub", 0750)
	if err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if d.Mode&0777 != 0750 {
		t.Fatalf("Mkdir mode = %o, want perm bits 0750", d.Mode)
	}
	if !isDir(d.Mode) {
		t.Fatalf("Mkdir mode %o is not a directory", d.Mode)
	}
}

func TestCreateLookup(t *testing.T) {
	c := NewCore()
	st, err := c.Create(RootID, "a.txt", 0644)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	id, err := c.Lookup(RootID, "a.txt")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if id != st.ID {
		t.Fatalf("Lookup returned %d, want %d", id, st.ID)
	}
}

func TestLookupMissing(t *testing.T) {
	c := NewCore()
	if _, err := c.Lookup(RootID, "nope"); err != ENOENT {
		t.Fatalf("Lookup(missing) = %v, want ENOENT", err)
	}
}

func TestMkdirAndNestedCreate(t *testing.T) {
	c := NewCore()
	dir, err := c.Mkdir(RootID, "sub", 0755)
	if err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	if _, err := c.Create(dir.ID, "leaf.txt", 0644); err != nil {
		t.Fatalf("Create in subdir: %v", err)
	}
	id, err := c.Lookup(dir.ID, "leaf.txt")
	if err != nil {
		t.Fatalf("Lookup in subdir: %v", err)
	}
	if id == 0 {
		t.Fatalf("Lookup returned zero id")
	}
}

func TestCreateUnderNonDirectory(t *testing.T) {
	c := NewCore()
	f, err := c.Create(RootID, "notadir", 0644)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := c.Create(f.ID, "child", 0644); err != ENOTDIR {
		t.Fatalf("Create under file = %v, want ENOTDIR", err)
	}
}

func TestDuplicateNamesShadowMostRecent(t *testing.T) {
	c := NewCore()
	first, _ := c.Create(RootID, "dup", 0644)
	second, _ := c.Create(RootID, "dup", 0644)
	id, err := c.Lookup(RootID, "dup")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if id != second.ID {
		t.Fatalf("Lookup(dup) = %d, want most recent %d (first was %d)", id, second.ID, first.ID)
	}
}

func TestNameTooLong(t *testing.T) {
	c := NewCore()
	name := make([]byte, maxNameLen+1)
	for i := range name {
		name[i] = 'x'
	}
	if _, err := c.Create(RootID, string(name), 0644); err != EINVAL {
		t.Fatalf("Create(overlong name) = %v, want EINVAL", err)
	}
}

func TestEmptyNameRejected(t *testing.T) {
	c := NewCore()
	if _, err := c.Create(RootID, "", 0644); err != EINVAL {
		t.Fatalf("Create(\"\") = %v, want EINVAL", err)
	}
}

func TestLinkSharesContent(t *testing.T) {
	c := NewCore()
	f, _ := c.Create(RootID, "orig", 0644)
	if _, err := c.Write(f.ID, 0, []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := c.Link(RootID, "alias", f.ID); err != nil {
		t.Fatalf("Link: %v", err)
	}
	aliasID, err := c.Lookup(RootID, "alias")
	if err != nil {
		t.Fatalf("Lookup(alias): %v", err)
	}
	buf := make([]byte, 5)
	n, err := c.Read(aliasID, 0, buf)
	if err != nil {
		t.Fatalf("Read(alias): %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("Read(alias) = %q, want hello", buf[:n])
	}
}

func TestLinkDirectoryRejected(t *testing.T) {
	c := NewCore()
	dir, _ := c.Mkdir(RootID, "d", 0755)
	if _, err := c.Link(RootID, "alias", dir.ID); err != EINVAL {
		t.Fatalf("Link(directory) = %v, want EINVAL", err)
	}
}

func TestUnlinkRemovesNameAndFreesLastLink(t *testing.T) {
	c := NewCore()
	f, _ := c.Create(RootID, "gone", 0644)
	if err := c.Unlink(RootID, "gone"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if _, err := c.Lookup(RootID, "gone"); err != ENOENT {
		t.Fatalf("Lookup after unlink = %v, want ENOENT", err)
	}
	if _, err := c.Getattr(f.ID); err != ENOENT {
		t.Fatalf("Getattr after last unlink = %v, want ENOENT", err)
	}
}

func TestUnlinkKeepsInodeAliveWhileOtherLinksRemain(t *testing.T) {
	c := NewCore()
	f, _ := c.Create(RootID, "keep", 0644)
	c.Link(RootID, "keep2", f.ID)
	if err := c.Unlink(RootID, "keep"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}
	if _, err := c.Getattr(f.ID); err != nil {
		t.Fatalf("Getattr after partial unlink: %v", err)
	}
}

func TestUnlinkDirectoryRejected(t *testing.T) {
	c := NewCore()
	c.Mkdir(RootID, "d", 0755)
	if err := c.Unlink(RootID, "d"); err != EISDIR {
		t.Fatalf("Unlink(directory) = %v, want EISDIR", err)
	}
}

func TestRmdirEmpty(t *testing.T) {
	c := NewCore()
	dir, _ := c.Mkdir(RootID, "d", 0755)
	if err := c.Rmdir(RootID, "d"); err != nil {
		t.Fatalf("Rmdir: %v", err)
	}
	if _, err := c.Getattr(dir.ID); err != ENOENT {
		t.Fatalf("Getattr after rmdir = %v, want ENOENT", err)
	}
}

func TestRmdirNonEmptyRejected(t *testing.T) {
	c := NewCore()
	c.Mkdir(RootID, "d", 0755)
	dirID, _ := c.Lookup(RootID, "d")
	c.Create(dirID, "child", 0644)
	if err := c.Rmdir(RootID, "d"); err != ENOTEMPTY {
		t.Fatalf("Rmdir(non-empty) = %v, want ENOTEMPTY", err)
	}
}

func TestRmdirOnFileRejected(t *testing.T) {
	c := NewCore()
	c.Create(RootID, "f", 0644)
	if err := c.Rmdir(RootID, "f"); err != ENOTDIR {
		t.Fatalf("Rmdir(file) = %v, want ENOTDIR", err)
	}
}

func TestInodeTableExhaustion(t *testing.T) {
	c := NewCore()
	var lastErr error
	created := 0
	for i := 0; i < MaxFiles+10; i++ {
		name := string(rune('a'+i%26)) + string(rune('0'+i/26))
		if _, err := c.Create(RootID, name, 0644); err != nil {
			lastErr = err
			break
		}
		created++
	}
	if lastErr != ENOSPC {
		t.Fatalf("exhaustion error = %v, want ENOSPC", lastErr)
	}
	// ids span [1, MaxFiles), i.e. MaxFiles-1 slots, and root itself
	// occupies one of them, so at most MaxFiles-2 further creates.
	if created > MaxFiles-2 {
		t.Fatalf("created %d inodes before ENOSPC, want <= %d", created, MaxFiles-2)
	}
}
