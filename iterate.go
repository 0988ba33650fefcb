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

import "fmt"

// DirEntry is one row produced by Iterate: a name, the inode it names,
// and a mode. For "." and ".." the mode is just IFDIR; for a real child it
// is that inode's full stored mode (file-type and permission bits).
type DirEntry struct {
	Name  string
	Inode uint32
	Mode  uint32
}

// Iterate returns the directory entries of dir starting at offset,
// following the reference core's cursor protocol: offset 0 yields the
// synthetic "." entry, offset 1 yields the synthetic ".." entry, and
// offsets from 2 onward walk the real children chain in attach order
// (most recently created first). Offset is not a byte position; it is a
// plain entry count, and so is the returned next-offset the caller should
// pass back in to resume — the same contract a directory-cursor resumable
// readdir needs, host-side buffering aside.
//
// Iterate returns at most one entry per call, matching the reference
// implementation's sequential (not else-if) checks on offset: a host
// wanting a full listing calls it repeatedly until ok is false.
func (c *Core) Iterate(dir uint32, offset uint64) (entry DirEntry, next uint64, ok bool, err error) {
	self, err := c.getDir(dir)
	if err != nil {
		return DirEntry{}, 0, false, err
	}

	if offset == 0 {
		return DirEntry{Name: ".", Inode: self.id, Mode: IFDIR}, 1, true, nil
	}
	if offset == 1 {
		parentDentry := c.dentries.get(self.dentry)
		parent := c.inodes.get(parentDentry.parent)
		if parent == nil {
			parent = self
		}
		return DirEntry{Name: "..", Inode: parent.id, Mode: IFDIR}, 2, true, nil
	}

	skip := offset - 2
	id := c.dentries.firstChild(self)
	for i := uint64(0); i < skip && id != noDentry; i++ {
		if i >= MaxFiles {
			return DirEntry{}, 0, false, fmt.Errorf("iterate dir %d: children chain longer than %d entries: %w", dir, MaxFiles, EIO)
		}
		id = c.dentries.get(id).next
	}
	if id == noDentry {
		return DirEntry{}, offset, false, nil
	}
	d := c.dentries.get(id)
	child := c.inodes.get(d.inode)
	var mode uint32
	if child != nil {
		mode = child.mode
	}
	return DirEntry{Name: d.nameString(), Inode: d.inode, Mode: mode}, offset + 1, true, nil
}
