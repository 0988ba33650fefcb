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

// dentryID indexes into a dentryArena. 0 is reserved to mean "no dentry".
type dentryID uint32

const noDentry dentryID = 0

// dentry names one child of a directory. A directory's own primary
// dentry — the one record that sits in ITS parent's children chain — is
// also the anchor of the directory's own children, via child. There is
// no separate "children head" stored on the inode: the listing slot a
// directory occupies in its parent IS the structure that owns its
// contents. This mirrors the single-object design of the reference
// implementation, where attaching or detaching a directory automatically
// carries its own subtree with it.
type dentry struct {
	name   [MaxNameSize]byte
	nlen   int
	inode  uint32
	parent uint32

	// Sibling list of parent's children, head-insertion order.
	next dentryID
	prev dentryID

	// child is the head of this dentry's own children chain, meaningful
	// only when inode names a directory.
	child dentryID
}

func (d *dentry) nameString() string {
	return string(d.name[:d.nlen])
}

// dentryArena is a dense, append-only store of dentry records indexed by
// dentryID. Freed slots are not reused; the arena only grows, which keeps
// iteration order and id stability simple at the cost of unbounded (but
// small, bounded by MaxFiles lifetime churn) growth.
type dentryArena struct {
	entries []dentry // entries[0] unused, sentinel
}

func newDentryArena() *dentryArena {
	return &dentryArena{entries: make([]dentry, 1)}
}

func (a *dentryArena) get(id dentryID) *dentry {
	if id == noDentry || int(id) >= len(a.entries) {
		return nil
	}
	return &a.entries[id]
}

// new allocates a dentry record for name under the given parent inode id,
// pointing at childInode, and returns its id. It does not link the dentry
// into any sibling list; call attach for that.
func (a *dentryArena) new(name string, parent, childInode uint32) dentryID {
	d := dentry{parent: parent, inode: childInode, next: noDentry, prev: noDentry, child: noDentry}
	d.nlen = copy(d.name[:], name)
	a.entries = append(a.entries, d)
	return dentryID(len(a.entries) - 1)
}

// attach head-inserts dentry id into dir's children chain. dir's own
// children are anchored on dir's primary dentry (dir.dentry), not on dir
// itself, so that a directory's contents move with it as a unit.
func (a *dentryArena) attach(dir *inode, id dentryID) {
	anchor := a.get(dir.dentry)
	d := a.get(id)
	head := anchor.child
	d.next = head
	d.prev = noDentry
	if head != noDentry {
		a.get(head).prev = id
	}
	anchor.child = id
}

// detach unlinks dentry id from dir's children chain. It does not free
// the dentry record itself (the arena never reuses slots), only its
// linkage.
func (a *dentryArena) detach(dir *inode, id dentryID) {
	anchor := a.get(dir.dentry)
	d := a.get(id)
	if d.prev != noDentry {
		a.get(d.prev).next = d.next
	} else {
		anchor.child = d.next
	}
	if d.next != noDentry {
		a.get(d.next).prev = d.prev
	}
	d.next, d.prev = noDentry, noDentry
}

// findChild walks dir's children chain looking for name, returning
// noDentry if absent. Duplicate names are permitted by the core (see
// Core.create); findChild always returns the most recently attached
// match, since attach head-inserts.
func (a *dentryArena) findChild(dir *inode, name string) dentryID {
	anchor := a.get(dir.dentry)
	for id := anchor.child; id != noDentry; {
		d := a.get(id)
		if d.nameString() == name {
			return id
		}
		id = d.next
	}
	return noDentry
}

// firstChild returns the head of dir's children chain, or noDentry if
// dir has no children.
func (a *dentryArena) firstChild(dir *inode) dentryID {
	return a.get(dir.dentry).child
}
