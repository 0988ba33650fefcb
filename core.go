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

// Core is the namespace engine: an inode table plus a dentry tree rooted
// at RootID. Core is NOT safe for concurrent use — unlike the teacher
// library's per-struct invariant-checked mutex, Core carries no lock of
// its own. Every operation below assumes the filesystem tree it touches
// cannot change underneath it, so a host that serves more than one
// caller at a time (yufsfuse, remote) must serialize calls into a given
// Core itself, with a mutex or equivalent.
type Core struct {
	inodes  inodeTable
	dentries *dentryArena
}

// NewCore builds an empty filesystem containing only the root directory.
// The root inode is allocated through the ordinary linear-scan allocator
// (so it lands in slot 1, like any other inode) and then relabeled to
// RootID, matching the bootstrap sequence of the reference implementation:
// the allocator has no special case for "the first inode", the relabel
// does.
func NewCore() *Core {
	c := &Core{dentries: newDentryArena()}

	root := c.inodes.allocate(IFDIR)
	c.inodes.slots[root.id] = nil
	root.id = RootID
	c.inodes.slots[RootID] = root

	rootDentry := c.dentries.new("/", RootID, RootID)
	root.dentry = rootDentry
	d := c.dentries.get(rootDentry)
	d.parent = RootID

	return c
}

// Destroy releases every resource held by c. After Destroy, c must not be
// used again.
func (c *Core) Destroy() {
	c.inodes = inodeTable{}
	c.dentries = nil
}

// getDir returns the inode for id if it exists and is a directory, else
// nil and the appropriate errno.
func (c *Core) getDir(id uint32) (*inode, error) {
	in := c.inodes.get(id)
	if in == nil {
		return nil, ENOENT
	}
	if !isDir(in.mode) {
		return nil, ENOTDIR
	}
	return in, nil
}

func validName(name string) error {
	if len(name) == 0 || len(name) > maxNameLen {
		return EINVAL
	}
	return nil
}

// Getattr returns a point-in-time Stat for id.
func (c *Core) Getattr(id uint32) (Stat, error) {
	in := c.inodes.get(id)
	if in == nil {
		return Stat{}, ENOENT
	}
	return Stat{ID: in.id, Mode: in.mode, Size: in.size}, nil
}
