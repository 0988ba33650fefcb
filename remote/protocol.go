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

// Package remote implements the optional remote backend described in
// spec.md §6: the same operation surface as yufs.Core (Lookup, Create,
// Mkdir, Link, Unlink, Rmdir, Getattr, Read, Write, Iterate), reached
// over HTTP instead of a direct function call. The wire shape — a
// caller-supplied opaque token as the first argument, stringified form
// fields, percent-encoded write payloads, and small fixed-layout binary
// responses — is taken directly from the original implementation's
// __WEB_VERSION__ transport (vtfs_http_call).
package remote

import (
	"encoding/binary"
	"io"

	"github.com/tinunadno/yufs"
)

// Operation path segments, one per yufs.Core method.
const (
	opLookup  = "lookup"
	opCreate  = "create"
	opMkdir   = "mkdir"
	opLink    = "link"
	opUnlink  = "unlink"
	opRmdir   = "rmdir"
	opGetattr = "getattr"
	opRead    = "read"
	opWrite   = "write"
	opIterate = "iterate"
)

// Form field names used across requests.
const (
	fieldToken  = "token"
	fieldParent = "parent"
	fieldName   = "name"
	fieldMode   = "mode"
	fieldTarget = "target"
	fieldInode  = "inode"
	fieldOffset = "offset"
	fieldSize   = "size"
	fieldData   = "data"
)

// statRecord is the fixed-layout binary encoding of a yufs.Stat used on
// the wire, mirroring the original's flat struct response for getattr,
// create, mkdir, and link.
type statRecord struct {
	ID   uint32
	Mode uint32
	Size uint64
}

const statRecordSize = 4 + 4 + 8

func encodeStat(st yufs.Stat, w io.Writer) error {
	return binary.Write(w, binary.BigEndian, statRecord{ID: st.ID, Mode: st.Mode, Size: st.Size})
}

func decodeStat(r io.Reader) (yufs.Stat, error) {
	var rec statRecord
	if err := binary.Read(r, binary.BigEndian, &rec); err != nil {
		return yufs.Stat{}, err
	}
	return yufs.Stat{ID: rec.ID, Mode: rec.Mode, Size: rec.Size}, nil
}

// dirEntryRecord is the fixed-layout header preceding a variable-length
// name in an iterate response; Name follows immediately after, NameLen
// bytes long, with no padding (the original protocol has no alignment
// requirement the way the FUSE kernel ABI does).
type dirEntryRecord struct {
	Inode   uint32
	Mode    uint32
	Next    uint64
	NameLen uint32
}

const dirEntryRecordSize = 4 + 4 + 8 + 4
