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

// Lookup resolves name within directory parent, returning the child's id.
func (c *Core) Lookup(parent uint32, name string) (uint32, error) {
	dir, err := c.getDir(parent)
	if err != nil {
		return 0, err
	}
	id := c.dentries.findChild(dir, name)
	if id == noDentry {
		return 0, ENOENT
	}
	return c.dentries.get(id).inode, nil
}

// create is the shared body of Create and Mkdir: allocate an inode of the
// given mode, attach a dentry named name under parent, and return the new
// inode. Duplicate names are permitted — a second create with the same
// name simply shadows the first in lookup and iteration order, matching
// the reference core's unconditional attach_dentry.
func (c *Core) create(parent uint32, name string, mode uint32) (*inode, error) {
	if err := validName(name); err != nil {
		return nil, err
	}
	dir, err := c.getDir(parent)
	if err != nil {
		return nil, err
	}

	in := c.inodes.allocate(mode)
	if in == nil {
		return nil, ENOSPC
	}

	id := c.dentries.new(name, parent, in.id)
	c.dentries.attach(dir, id)

	if isDir(mode) {
		in.dentry = id
	}
	return in, nil
}

// Create makes a new, empty regular file named name under parent. mode
// carries the caller-supplied permission bits; any file-type bits in it
// are cleared and IFREG is set in their place.
func (c *Core) Create(parent uint32, name string, mode uint32) (Stat, error) {
	in, err := c.create(parent, name, (mode&^ModeTypeMask)|IFREG)
	if err != nil {
		return Stat{}, err
	}
	return Stat{ID: in.id, Mode: in.mode, Size: in.size}, nil
}

// Mkdir makes a new, empty directory named name under parent. mode
// carries the caller-supplied permission bits; any file-type bits in it
// are cleared and IFDIR is set in their place.
func (c *Core) Mkdir(parent uint32, name string, mode uint32) (Stat, error) {
	in, err := c.create(parent, name, (mode&^ModeTypeMask)|IFDIR)
	if err != nil {
		return Stat{}, err
	}
	return Stat{ID: in.id, Mode: in.mode, Size: in.size}, nil
}

// Link attaches a new name for an existing regular file under parent,
// incrementing its link count. Linking a directory is rejected: the
// reference core only ever attaches one dentry per directory inode (the
// one created alongside it by Mkdir), so a second name for a directory
// would break the "primary dentry is the directory's own listing slot"
// invariant the rest of the package relies on.
func (c *Core) Link(parent uint32, name string, target uint32) (Stat, error) {
	if err := validName(name); err != nil {
		return Stat{}, err
	}
	dir, err := c.getDir(parent)
	if err != nil {
		return Stat{}, err
	}
	in := c.inodes.get(target)
	if in == nil {
		return Stat{}, ENOENT
	}
	if isDir(in.mode) {
		return Stat{}, EINVAL
	}

	id := c.dentries.new(name, parent, in.id)
	c.dentries.attach(dir, id)
	in.nlink++

	return Stat{ID: in.id, Mode: in.mode, Size: in.size}, nil
}

// Unlink removes name from parent. If the removed dentry was the last
// link to a regular file, the file's inode and content are freed.
// Removing a directory's name this way is rejected with EISDIR; use
// Rmdir instead.
func (c *Core) Unlink(parent uint32, name string) error {
	dir, err := c.getDir(parent)
	if err != nil {
		return err
	}
	id := c.dentries.findChild(dir, name)
	if id == noDentry {
		return ENOENT
	}
	d := c.dentries.get(id)
	in := c.inodes.get(d.inode)
	if in != nil && isDir(in.mode) {
		return EISDIR
	}

	c.dentries.detach(dir, id)
	if in != nil {
		in.nlink--
		if in.nlink <= 0 {
			c.inodes.free(in.id)
		}
	}
	return nil
}

// Rmdir removes the empty directory named name from parent.
func (c *Core) Rmdir(parent uint32, name string) error {
	dir, err := c.getDir(parent)
	if err != nil {
		return err
	}
	id := c.dentries.findChild(dir, name)
	if id == noDentry {
		return ENOENT
	}
	d := c.dentries.get(id)
	target := c.inodes.get(d.inode)
	if target == nil {
		return ENOENT
	}
	if !isDir(target.mode) {
		return ENOTDIR
	}
	if c.dentries.firstChild(target) != noDentry {
		return ENOTEMPTY
	}

	c.dentries.detach(dir, id)
	c.inodes.free(target.id)
	return nil
}
