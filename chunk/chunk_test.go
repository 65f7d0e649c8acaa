// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chunk_test

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/haadb/chunk"
	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/record"
)

func TestSplitCount(t *testing.T) {
	tests := []struct {
		length int
		limit  int
		count  int
	}{
		{0, 3584, 1},
		{1, 3584, 1},
		{11, 3584, 1},
		{3584, 3584, 1},
		{3585, 3584, 2},
		{7168, 3584, 2},
		{7169, 3584, 3},
		{10, 3, 4},
		{9, 3, 3},
	}

	for i, item := range tests {
		payload := bytes.Repeat([]byte{'a'}, item.length)
		chunks, err := chunk.Split(payload, item.limit)
		require.Nil(t, err, "%d: split error", i)
		assert.Equal(t, item.count, len(chunks), "%d: wrong count", i)

		for j, c := range chunks {
			assert.True(t, len(c) <= item.limit, "%d: chunk %d too long: %d", i, j, len(c))
		}
		assert.Equal(t, string(payload), strings.Join(chunks, ""), "%d: join mismatch", i)
	}
}

func TestSplitKeepsRunes(t *testing.T) {
	payload := []byte(strings.Repeat("héllo wörld ", 50))
	chunks, err := chunk.Split(payload, 7)
	require.Nil(t, err, "split error")

	for i, c := range chunks {
		assert.True(t, len(c) <= 7, "chunk %d too long", i)
		assert.True(t, utf8.ValidString(c), "chunk %d splits a rune: %q", i, c)
	}
	assert.Equal(t, string(payload), strings.Join(chunks, ""), "join mismatch")
}

func TestSplitInvalidLimit(t *testing.T) {
	_, err := chunk.Split([]byte("abc"), 0)
	assert.Equal(t, fault.InvalidChunkLimit, err, "accepted zero limit")
}

func TestRecords(t *testing.T) {
	single := chunk.Records(1650000000, record.DTypeText, []string{"hello world"})
	require.Equal(t, 1, len(single), "wrong count")
	assert.Nil(t, single[0].Batch, "single chunk has batch")
	assert.Equal(t, "hello world", single[0].Data, "wrong data")

	multiple := chunk.Records(1650000001, record.DTypeDict, []string{"7b", "22", "7d"})
	require.Equal(t, 3, len(multiple), "wrong count")
	for i, r := range multiple {
		assert.Equal(t, int64(1650000001), r.Timestamp, "%d: timestamps differ", i)
		assert.Equal(t, []int{i + 1, 3}, r.Batch, "%d: wrong batch", i)
		assert.Equal(t, record.DTypeDict, r.DType, "%d: wrong dtype", i)
	}
}
