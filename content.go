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

// getFile returns the inode for id if it exists and is a regular file.
func (c *Core) getFile(id uint32) (*inode, error) {
	in := c.inodes.get(id)
	if in == nil {
		return nil, ENOENT
	}
	if isDir(in.mode) {
		return nil, EISDIR
	}
	return in, nil
}

// Read copies up to len(buf) bytes starting at offset from id's content
// into buf and returns the number of bytes copied. Reading at or past the
// end of the file returns 0 bytes and no error, the ordinary end-of-file
// signal.
func (c *Core) Read(id uint32, offset uint64, buf []byte) (int, error) {
	in, err := c.getFile(id)
	if err != nil {
		return 0, err
	}
	if offset >= in.size {
		return 0, nil
	}
	n := copy(buf, in.content[offset:])
	return n, nil
}

// Write copies data into id's content at offset, growing the buffer as
// needed. Writing past the current end zero-fills the gap, matching the
// reference core's sparse-fill semantics: a write at offset strictly
// greater than the current size first extends content with zero bytes up
// to offset, then appends data. A write that lands exactly at the
// current end (offset == size) needs no zero-fill at all.
func (c *Core) Write(id uint32, offset uint64, data []byte) (int, error) {
	in, err := c.getFile(id)
	if err != nil {
		return 0, err
	}
	if len(data) == 0 {
		return 0, nil
	}

	end := offset + uint64(len(data))
	if end > uint64(cap(in.content)) {
		grown := make([]byte, len(in.content), end)
		copy(grown, in.content)
		in.content = grown
	}

	if offset > uint64(len(in.content)) {
		gap := make([]byte, offset-uint64(len(in.content)))
		in.content = append(in.content, gap...)
	}

	if end > uint64(len(in.content)) {
		in.content = in.content[:end]
	}

	n := copy(in.content[offset:end], data)
	in.size = uint64(len(in.content))
	return n, nil
}

// Truncate grows id's content to size, zero-filling the newly exposed
// bytes. Truncation below the current size is out of scope (see the
// package-level design notes' non-goals) and rejected with EINVAL rather
// than silently discarding data.
func (c *Core) Truncate(id uint32, size uint64) error {
	in, err := c.getFile(id)
	if err != nil {
		return err
	}
	switch {
	case size == in.size:
		return nil
	case size < in.size:
		return EINVAL
	default:
		grown := make([]byte, size)
		copy(grown, in.content)
		in.content = grown
	}
	in.size = size
	return nil
}
