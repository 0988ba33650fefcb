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

package remote

import (
	"encoding/binary"
	"net/http"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	"github.com/tinunadno/yufs"
)

// Authenticator validates the opaque token threaded through every
// request and returns an error if the caller should be rejected. A nil
// Authenticator accepts every token, matching the original's RAM-version
// builds that run without any access control.
type Authenticator func(token string) error

// Server exposes a yufs.Core over HTTP using the wire shape described in
// protocol.go. Core is not safe for concurrent use (see yufs.Core's doc
// comment), so Server serializes every request behind a single mutex,
// the same responsibility yufsfuse.FileSystem takes on for the FUSE
// adapter.
type Server struct {
	mu   sync.Mutex
	core *yufs.Core
	auth Authenticator
}

// NewServer wraps core for HTTP access. auth may be nil.
func NewServer(core *yufs.Core, auth Authenticator) *Server {
	return &Server{core: core, auth: auth}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/"+opLookup, s.handleLookup)
	mux.HandleFunc("/"+opGetattr, s.handleGetattr)
	mux.HandleFunc("/"+opCreate, s.handleCreate)
	mux.HandleFunc("/"+opMkdir, s.handleMkdir)
	mux.HandleFunc("/"+opLink, s.handleLink)
	mux.HandleFunc("/"+opUnlink, s.handleUnlink)
	mux.HandleFunc("/"+opRmdir, s.handleRmdir)
	mux.HandleFunc("/"+opRead, s.handleRead)
	mux.HandleFunc("/"+opWrite, s.handleWrite)
	mux.HandleFunc("/"+opIterate, s.handleIterate)
	return mux
}

func (s *Server) authorize(r *http.Request) error {
	if s.auth == nil {
		return nil
	}
	return s.auth(r.FormValue(fieldToken))
}

func writeErr(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusBadRequest)
}

func formUint32(r *http.Request, field string) (uint32, error) {
	v, err := strconv.ParseUint(r.FormValue(field), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "parse field %s", field)
	}
	return uint32(v), nil
}

func formUint64(r *http.Request, field string) (uint64, error) {
	v, err := strconv.ParseUint(r.FormValue(field), 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse field %s", field)
	}
	return v, nil
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		writeErr(w, err)
		return
	}
	parent, err := formUint32(r, fieldParent)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.mu.Lock()
	id, err := s.core.Lookup(parent, r.FormValue(fieldName))
	var st yufs.Stat
	if err == nil {
		st, err = s.core.Getattr(id)
	}
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	encodeStat(st, w)
}

func (s *Server) handleGetattr(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		writeErr(w, err)
		return
	}
	id, err := formUint32(r, fieldInode)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.mu.Lock()
	st, err := s.core.Getattr(id)
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	encodeStat(st, w)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	s.handleCreateLike(w, r, s.core.Create)
}

func (s *Server) handleMkdir(w http.ResponseWriter, r *http.Request) {
	s.handleCreateLike(w, r, s.core.Mkdir)
}

func (s *Server) handleCreateLike(w http.ResponseWriter, r *http.Request, op func(uint32, string, uint32) (yufs.Stat, error)) {
	if err := s.authorize(r); err != nil {
		writeErr(w, err)
		return
	}
	parent, err := formUint32(r, fieldParent)
	if err != nil {
		writeErr(w, err)
		return
	}
	mode, err := formUint32(r, fieldMode)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.mu.Lock()
	st, err := op(parent, r.FormValue(fieldName), mode)
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	encodeStat(st, w)
}

func (s *Server) handleLink(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		writeErr(w, err)
		return
	}
	parent, err := formUint32(r, fieldParent)
	if err != nil {
		writeErr(w, err)
		return
	}
	target, err := formUint32(r, fieldTarget)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.mu.Lock()
	st, err := s.core.Link(parent, r.FormValue(fieldName), target)
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	encodeStat(st, w)
}

func (s *Server) handleUnlink(w http.ResponseWriter, r *http.Request) {
	s.handleRemoveLike(w, r, s.core.Unlink)
}

func (s *Server) handleRmdir(w http.ResponseWriter, r *http.Request) {
	s.handleRemoveLike(w, r, s.core.Rmdir)
}

func (s *Server) handleRemoveLike(w http.ResponseWriter, r *http.Request, op func(uint32, string) error) {
	if err := s.authorize(r); err != nil {
		writeErr(w, err)
		return
	}
	parent, err := formUint32(r, fieldParent)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.mu.Lock()
	err = op(parent, r.FormValue(fieldName))
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		writeErr(w, err)
		return
	}
	id, err := formUint32(r, fieldInode)
	if err != nil {
		writeErr(w, err)
		return
	}
	offset, err := formUint64(r, fieldOffset)
	if err != nil {
		writeErr(w, err)
		return
	}
	size, err := strconv.Atoi(r.FormValue(fieldSize))
	if err != nil {
		writeErr(w, err)
		return
	}

	buf := make([]byte, size)
	s.mu.Lock()
	n, err := s.core.Read(id, offset, buf)
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Write(buf[:n])
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		writeErr(w, err)
		return
	}
	id, err := formUint32(r, fieldInode)
	if err != nil {
		writeErr(w, err)
		return
	}
	offset, err := formUint64(r, fieldOffset)
	if err != nil {
		writeErr(w, err)
		return
	}
	data, err := decodeWritePayload(r.FormValue(fieldData))
	if err != nil {
		writeErr(w, err)
		return
	}

	s.mu.Lock()
	n, err := s.core.Write(id, offset, data)
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Write([]byte(strconv.Itoa(n)))
}

func (s *Server) handleIterate(w http.ResponseWriter, r *http.Request) {
	if err := s.authorize(r); err != nil {
		writeErr(w, err)
		return
	}
	id, err := formUint32(r, fieldInode)
	if err != nil {
		writeErr(w, err)
		return
	}
	offset, err := formUint64(r, fieldOffset)
	if err != nil {
		writeErr(w, err)
		return
	}

	s.mu.Lock()
	e, next, ok, err := s.core.Iterate(id, offset)
	s.mu.Unlock()
	if err != nil {
		writeErr(w, err)
		return
	}
	if !ok {
		return
	}

	rec := dirEntryRecord{Inode: e.Inode, Mode: e.Mode, Next: next, NameLen: uint32(len(e.Name))}
	binary.Write(w, binary.BigEndian, rec)
	w.Write([]byte(e.Name))
}

// decodeWritePayload reverses encodeWritePayload's percent-escaping.
func decodeWritePayload(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' {
			if i+2 >= len(s) {
				return nil, errors.New("truncated percent-escape in write payload")
			}
			v, err := strconv.ParseUint(s[i+1:i+3], 16, 8)
			if err != nil {
				return nil, errors.Wrap(err, "invalid percent-escape in write payload")
			}
			out = append(out, byte(v))
			i += 2
			continue
		}
		out = append(out, s[i])
	}
	return out, nil
}
