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
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"github.com/tinunadno/yufs"
)

// Client speaks the remote yufs protocol against a single base URL, with
// an opaque token threaded through every call the way the original
// vtfs_http_call does.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// NewClient builds a Client with a sensible default http.Client.
func NewClient(baseURL, token string) *Client {
	return &Client{BaseURL: baseURL, Token: token, HTTP: http.DefaultClient}
}

func (c *Client) call(op string, form url.Values) (*http.Response, error) {
	form.Set(fieldToken, c.Token)
	resp, err := c.HTTP.PostForm(c.BaseURL+"/"+op, form)
	if err != nil {
		return nil, errors.Wrapf(err, "remote call %s", op)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.Errorf("remote call %s: status %d: %s", op, resp.StatusCode, body)
	}
	return resp, nil
}

func (c *Client) Lookup(parent uint32, name string) (uint32, error) {
	resp, err := c.call(opLookup, url.Values{
		fieldParent: {strconv.FormatUint(uint64(parent), 10)},
		fieldName:   {name},
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	st, err := decodeStat(resp.Body)
	if err != nil {
		return 0, errors.Wrap(err, "decode lookup response")
	}
	return st.ID, nil
}

func (c *Client) Getattr(id uint32) (yufs.Stat, error) {
	resp, err := c.call(opGetattr, url.Values{
		fieldInode: {strconv.FormatUint(uint64(id), 10)},
	})
	if err != nil {
		return yufs.Stat{}, err
	}
	defer resp.Body.Close()
	st, err := decodeStat(resp.Body)
	if err != nil {
		return yufs.Stat{}, errors.Wrap(err, "decode getattr response")
	}
	return st, nil
}

func (c *Client) Create(parent uint32, name string, mode uint32) (yufs.Stat, error) {
	return c.createLike(opCreate, parent, name, mode)
}

func (c *Client) Mkdir(parent uint32, name string, mode uint32) (yufs.Stat, error) {
	return c.createLike(opMkdir, parent, name, mode)
}

func (c *Client) createLike(op string, parent uint32, name string, mode uint32) (yufs.Stat, error) {
	resp, err := c.call(op, url.Values{
		fieldParent: {strconv.FormatUint(uint64(parent), 10)},
		fieldName:   {name},
		fieldMode:   {strconv.FormatUint(uint64(mode), 10)},
	})
	if err != nil {
		return yufs.Stat{}, err
	}
	defer resp.Body.Close()
	st, err := decodeStat(resp.Body)
	if err != nil {
		return yufs.Stat{}, errors.Wrapf(err, "decode %s response", op)
	}
	return st, nil
}

func (c *Client) Link(parent uint32, name string, target uint32) (yufs.Stat, error) {
	resp, err := c.call(opLink, url.Values{
		fieldParent: {strconv.FormatUint(uint64(parent), 10)},
		fieldName:   {name},
		fieldTarget: {strconv.FormatUint(uint64(target), 10)},
	})
	if err != nil {
		return yufs.Stat{}, err
	}
	defer resp.Body.Close()
	st, err := decodeStat(resp.Body)
	if err != nil {
		return yufs.Stat{}, errors.Wrap(err, "decode link response")
	}
	return st, nil
}

func (c *Client) Unlink(parent uint32, name string) error {
	resp, err := c.call(opUnlink, url.Values{
		fieldParent: {strconv.FormatUint(uint64(parent), 10)},
		fieldName:   {name},
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (c *Client) Rmdir(parent uint32, name string) error {
	resp, err := c.call(opRmdir, url.Values{
		fieldParent: {strconv.FormatUint(uint64(parent), 10)},
		fieldName:   {name},
	})
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// Read fetches up to len(buf) bytes starting at offset and copies them
// into buf, returning the number of bytes copied.
func (c *Client) Read(id uint32, offset uint64, buf []byte) (int, error) {
	resp, err := c.call(opRead, url.Values{
		fieldInode:  {strconv.FormatUint(uint64(id), 10)},
		fieldOffset: {strconv.FormatUint(offset, 10)},
		fieldSize:   {strconv.Itoa(len(buf))},
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	n, err := io.ReadFull(resp.Body, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return n, errors.Wrap(err, "read remote response body")
	}
	return n, nil
}

// Write percent-encodes non-printable bytes in data before placing them
// in the form body, exactly as the original's write path does for bytes
// that would otherwise corrupt the request's line-oriented wire format.
func (c *Client) Write(id uint32, offset uint64, data []byte) (int, error) {
	resp, err := c.call(opWrite, url.Values{
		fieldInode:  {strconv.FormatUint(uint64(id), 10)},
		fieldOffset: {strconv.FormatUint(offset, 10)},
		fieldData:   {encodeWritePayload(data)},
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, errors.Wrap(err, "read write response body")
	}
	n, err := strconv.Atoi(string(bytes.TrimSpace(body)))
	if err != nil {
		return 0, errors.Wrap(err, "parse write response")
	}
	return n, nil
}

// Iterate fetches a single directory entry at offset, mirroring
// yufs.Core.Iterate's one-entry-per-call contract.
func (c *Client) Iterate(dir uint32, offset uint64) (yufs.DirEntry, uint64, bool, error) {
	resp, err := c.call(opIterate, url.Values{
		fieldInode:  {strconv.FormatUint(uint64(dir), 10)},
		fieldOffset: {strconv.FormatUint(offset, 10)},
	})
	if err != nil {
		return yufs.DirEntry{}, 0, false, err
	}
	defer resp.Body.Close()

	var rec dirEntryRecord
	if err := binary.Read(resp.Body, binary.BigEndian, &rec); err != nil {
		if err == io.EOF {
			return yufs.DirEntry{}, offset, false, nil
		}
		return yufs.DirEntry{}, 0, false, errors.Wrap(err, "decode iterate response")
	}
	name := make([]byte, rec.NameLen)
	if _, err := io.ReadFull(resp.Body, name); err != nil {
		return yufs.DirEntry{}, 0, false, errors.Wrap(err, "read iterate entry name")
	}
	return yufs.DirEntry{Name: string(name), Inode: rec.Inode, Mode: rec.Mode}, rec.Next, true, nil
}

// encodeWritePayload percent-encodes bytes outside the printable ASCII
// range, matching the hex-escaping the original __WEB_VERSION__ write
// path applies before handing a buffer to its HTTP form encoder.
func encodeWritePayload(data []byte) string {
	var b bytes.Buffer
	for _, c := range data {
		if c < 0x20 || c > 0x7e || c == '%' {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
