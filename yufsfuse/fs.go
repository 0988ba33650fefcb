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

// Package yufsfuse adapts a yufs.Core to a mountable FUSE file system. It
// owns every FUSE-protocol concern a Core knows nothing about: timestamps,
// lookup-count bookkeeping, handle ids, and translating Core's errno
// values into the errors fuseops expects.
package yufsfuse

import (
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"
	"github.com/jacobsa/syncutil"
	"github.com/jacobsa/timeutil"

	"github.com/tinunadno/yufs"
)

// How long the kernel may cache attributes and directory entries before
// asking again. The core never spontaneously mutates an inode out from
// under a caller that isn't itself, so a generous value is safe.
const cacheTTL = time.Minute

// FileSystem implements fuseutil.FileSystem on top of a yufs.Core. It
// holds the mutex the Core itself deliberately omits (see yufs.Core's
// doc comment): every method takes fs.mu before touching the Core.
type FileSystem struct {
	mu syncutil.InvariantMutex

	// GUARDED_BY(mu)
	core *yufs.Core

	// GUARDED_BY(mu)
	lookupCounts map[fuseops.InodeID]uint64

	clock   timeutil.Clock
	logger  *slog.Logger
	metrics *Metrics
}

// New builds a FileSystem backed by a fresh, empty yufs.Core. metrics may
// be nil, in which case operations go unrecorded.
func New(logger *slog.Logger, metrics *Metrics) *FileSystem {
	if logger == nil {
		logger = slog.Default()
	}
	fs := &FileSystem{
		core:         yufs.NewCore(),
		lookupCounts: make(map[fuseops.InodeID]uint64),
		clock:        timeutil.RealClock(),
		logger:       logger,
		metrics:      metrics,
	}
	fs.mu = syncutil.NewInvariantMutex(fs.checkInvariants)
	return fs
}

// track records metrics for a single operation, if fs.metrics is set. Use
// as: defer fs.track("lookup", &err)()
func (fs *FileSystem) track(op string, err *error) func() {
	start := fs.clock.Now()
	return func() {
		if fs.metrics != nil {
			fs.metrics.observe(op, *err, fs.clock.Now().Sub(start).Seconds())
		}
	}
}

func (fs *FileSystem) checkInvariants() {
	if fs.lookupCounts == nil {
		panic("lookupCounts is nil")
	}
}

func (fs *FileSystem) attributes(st yufs.Stat) fuseops.InodeAttributes {
	now := fs.clock.Now()
	mode := os.FileMode(st.Mode & 0777)
	if st.Mode&yufs.ModeTypeMask == yufs.IFDIR {
		mode |= os.ModeDir
	}
	nlink := uint32(1)
	return fuseops.InodeAttributes{
		Size:   st.Size,
		Nlink:  nlink,
		Mode:   mode,
		Atime:  now,
		Mtime:  now,
		Ctime:  now,
		Crtime: now,
	}
}

func (fs *FileSystem) entry(st yufs.Stat) fuseops.ChildInodeEntry {
	now := fs.clock.Now()
	return fuseops.ChildInodeEntry{
		Child:                fuseops.InodeID(st.ID),
		Attributes:           fs.attributes(st),
		AttributesExpiration: now.Add(cacheTTL),
		EntryExpiration:      now.Add(cacheTTL),
	}
}

// toErrno narrows a yufs error (already a unix.Errno, see yufs/errors.go)
// into whatever fuseops expects, which is simply the error itself:
// fuseops.Op.Respond accepts any error and lets the kernel driver
// underneath extract an errno from it the same way it does for ordinary
// unix.Errno values returned by this adapter.
func toErrno(err error) error { return err }
