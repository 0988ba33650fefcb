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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWritePayloadRoundTrip(t *testing.T) {
	cases := [][]byte{
		[]byte("hello world"),
		{0x00, 0x01, 0x02, 0xff},
		[]byte("100%"),
		{},
	}
	for _, data := range cases {
		encoded := encodeWritePayload(data)
		decoded, err := decodeWritePayload(encoded)
		require.NoError(t, err)
		assert.Equal(t, data, decoded)
	}
}

func TestDecodeWritePayloadRejectsTruncatedEscape(t *testing.T) {
	_, err := decodeWritePayload("abc%4")
	assert.Error(t, err)
}
