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

import "golang.org/x/sys/unix"

// Error kinds returned by Core operations. These are plain unix.Errno
// values rather than a parallel error type, the same approach the FUSE
// layer above us takes when it maps kernel errno constants (cf.
// jacobsa/fuse/fuseops/common_op.go's own use of golang.org/x/sys/unix):
// callers can compare with == or errors.Is and hosts that speak errno
// natively don't need a translation table.
const (
	ENOENT    = unix.ENOENT
	ENOTDIR   = unix.ENOTDIR
	EISDIR    = unix.EISDIR
	ENOTEMPTY = unix.ENOTEMPTY
	ENOSPC    = unix.ENOSPC
	EINVAL    = unix.EINVAL
	EIO       = unix.EIO
)
