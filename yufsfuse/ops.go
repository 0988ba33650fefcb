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

package yufsfuse

import (
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"

	"github.com/tinunadno/yufs"
)

func (fs *FileSystem) Init(op *fuseops.InitOp) {
	op.Respond(nil)
}

func (fs *FileSystem) LookUpInode(op *fuseops.LookUpInodeOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var err error
	defer fs.track("lookup", &err)()

	id, err := fs.core.Lookup(uint32(op.Parent), op.Name)
	if err != nil {
		op.Respond(toErrno(err))
		return
	}
	st, err := fs.core.Getattr(id)
	if err != nil {
		op.Respond(toErrno(err))
		return
	}

	op.Entry = fs.entry(st)
	fs.lookupCounts[op.Entry.Child]++
	op.Respond(nil)
}

func (fs *FileSystem) GetInodeAttributes(op *fuseops.GetInodeAttributesOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	st, err := fs.core.Getattr(uint32(op.Inode))
	if err != nil {
		op.Respond(toErrno(err))
		return
	}
	op.Attributes = fs.attributes(st)
	op.AttributesExpiration = fs.clock.Now().Add(cacheTTL)
	op.Respond(nil)
}

// SetInodeAttributes only honors a size change (truncate); anything else
// the kernel asks to set (mode, timestamps, ownership) is accepted and
// echoed back unchanged, matching the core's non-goal of not enforcing
// permissions or timestamps.
func (fs *FileSystem) SetInodeAttributes(op *fuseops.SetInodeAttributesOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if op.Size != nil {
		if err := fs.core.Truncate(uint32(op.Inode), *op.Size); err != nil {
			op.Respond(toErrno(err))
			return
		}
	}

	st, err := fs.core.Getattr(uint32(op.Inode))
	if err != nil {
		op.Respond(toErrno(err))
		return
	}
	op.Attributes = fs.attributes(st)
	op.AttributesExpiration = fs.clock.Now().Add(cacheTTL)
	op.Respond(nil)
}

// ForgetInode decrements the kernel's lookup count for an inode. It never
// asks the core to forget anything the core doesn't already know how to
// forget on its own (via Unlink/Rmdir's link-count bookkeeping); it only
// tracks how many outstanding kernel references exist, for diagnostics
// and so a future evict-on-zero policy has somewhere to hook in.
func (fs *FileSystem) ForgetInode(op *fuseops.ForgetInodeOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if n := fs.lookupCounts[op.ID]; n <= uint64(op.N) {
		delete(fs.lookupCounts, op.ID)
	} else {
		fs.lookupCounts[op.ID] = n - uint64(op.N)
	}
	op.Respond(nil)
}

func (fs *FileSystem) MkDir(op *fuseops.MkDirOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var err error
	defer fs.track("mkdir", &err)()

	st, err := fs.core.Mkdir(uint32(op.Parent), op.Name, uint32(op.Mode.Perm()))
	if err != nil {
		op.Respond(toErrno(err))
		return
	}
	op.Entry = fs.entry(st)
	fs.lookupCounts[op.Entry.Child]++
	op.Respond(nil)
}

func (fs *FileSystem) CreateFile(op *fuseops.CreateFileOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var err error
	defer fs.track("create", &err)()

	st, err := fs.core.Create(uint32(op.Parent), op.Name, uint32(op.Mode.Perm()))
	if err != nil {
		op.Respond(toErrno(err))
		return
	}
	op.Entry = fs.entry(st)
	op.Handle = fuseops.HandleID(st.ID)
	fs.lookupCounts[op.Entry.Child]++
	op.Respond(nil)
}

func (fs *FileSystem) CreateSymlink(op *fuseops.CreateSymlinkOp) {
	op.Respond(yufs.EINVAL)
}

func (fs *FileSystem) CreateLink(op *fuseops.CreateLinkOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	st, err := fs.core.Link(uint32(op.Parent), op.Name, uint32(op.Target))
	if err != nil {
		op.Respond(toErrno(err))
		return
	}
	op.Entry = fs.entry(st)
	fs.lookupCounts[op.Entry.Child]++
	op.Respond(nil)
}

func (fs *FileSystem) RmDir(op *fuseops.RmDirOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var err error
	defer fs.track("rmdir", &err)()

	err = fs.core.Rmdir(uint32(op.Parent), op.Name)
	op.Respond(toErrno(err))
}

func (fs *FileSystem) Unlink(op *fuseops.UnlinkOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var err error
	defer fs.track("unlink", &err)()

	err = fs.core.Unlink(uint32(op.Parent), op.Name)
	op.Respond(toErrno(err))
}

func (fs *FileSystem) OpenDir(op *fuseops.OpenDirOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.core.Getattr(uint32(op.Inode)); err != nil {
		op.Respond(toErrno(err))
		return
	}
	op.Handle = fuseops.HandleID(op.Inode)
	op.Respond(nil)
}

func (fs *FileSystem) ReadDir(op *fuseops.ReadDirOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var n int
	offset := uint64(op.Offset)
	for {
		e, next, ok, err := fs.core.Iterate(uint32(op.Inode), offset)
		if err != nil {
			op.Respond(toErrno(err))
			return
		}
		if !ok {
			break
		}

		de := fuseops.Dirent{
			Offset: fuseops.DirOffset(next),
			Inode:  fuseops.InodeID(e.Inode),
			Name:   e.Name,
			Type:   direntType(e.Mode),
		}
		written := fuseutil.WriteDirent(op.Dst[n:], de)
		if written == 0 {
			break
		}
		n += written
		offset = next
	}
	op.BytesRead = n
	op.Respond(nil)
}

func direntType(mode uint32) fuseops.DirentType {
	if mode&yufs.ModeTypeMask == yufs.IFDIR {
		return fuseops.DT_Dir
	}
	return fuseops.DT_File
}

func (fs *FileSystem) ReleaseDirHandle(op *fuseops.ReleaseDirHandleOp) {
	op.Respond(nil)
}

func (fs *FileSystem) OpenFile(op *fuseops.OpenFileOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, err := fs.core.Getattr(uint32(op.Inode)); err != nil {
		op.Respond(toErrno(err))
		return
	}
	op.Handle = fuseops.HandleID(op.Inode)
	op.Respond(nil)
}

func (fs *FileSystem) ReadFile(op *fuseops.ReadFileOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var err error
	defer fs.track("read", &err)()

	var n int
	n, err = fs.core.Read(uint32(op.Inode), uint64(op.Offset), op.Dst)
	op.BytesRead = n
	op.Respond(toErrno(err))
}

func (fs *FileSystem) WriteFile(op *fuseops.WriteFileOp) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var err error
	defer fs.track("write", &err)()

	_, err = fs.core.Write(uint32(op.Inode), uint64(op.Offset), op.Data)
	op.Respond(toErrno(err))
}

func (fs *FileSystem) SyncFile(op *fuseops.SyncFileOp) {
	op.Respond(nil)
}

func (fs *FileSystem) FlushFile(op *fuseops.FlushFileOp) {
	op.Respond(nil)
}

func (fs *FileSystem) ReleaseFileHandle(op *fuseops.ReleaseFileHandleOp) {
	op.Respond(nil)
}
