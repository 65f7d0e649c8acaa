// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/record"
)

func TestMarshalSingle(t *testing.T) {
	r := record.New(1650000000, 1, 1, record.DTypeText, "hello world")
	buffer, err := r.Marshal()
	require.Nil(t, err, "marshal")
	assert.Equal(t, `{"haadb":"1.0.0","timestamp":1650000000,"dtype":"str","data":"hello world"}`, string(buffer), "wrong JSON")

	i, n, err := r.Index()
	require.Nil(t, err, "index")
	assert.Equal(t, 1, i, "wrong index")
	assert.Equal(t, 1, n, "wrong count")
}

func TestMarshalBatch(t *testing.T) {
	r := record.New(1650000000, 2, 3, record.DTypeDict, "7b7d")
	buffer, err := r.Marshal()
	require.Nil(t, err, "marshal")
	assert.Equal(t, `{"haadb":"1.0.0","timestamp":1650000000,"batch":[2,3],"dtype":"dict","data":"7b7d"}`, string(buffer), "wrong JSON")

	back, err := record.Parse(buffer)
	require.Nil(t, err, "parse")
	assert.Equal(t, r, back, "round trip")
}

func TestParseForeign(t *testing.T) {
	_, err := record.Parse([]byte(`{"app":"other","timestamp":1}`))
	assert.Equal(t, fault.NotProtocolRecord, err, "foreign record accepted")

	_, err = record.Parse([]byte(`not json`))
	assert.True(t, fault.IsErrFormat(err), "bad JSON: %v", err)

	_, err = record.Parse([]byte(`["haadb"]`))
	assert.True(t, fault.IsErrFormat(err), "array: %v", err)
}

func TestIndexOutOfRange(t *testing.T) {
	bad := [][]int{
		{0, 2},
		{3, 2},
		{1},
		{1, 2, 3},
	}
	for i, b := range bad {
		r := &record.Record{Batch: b}
		_, _, err := r.Index()
		assert.Equal(t, fault.BatchOutOfRange, err, "%d: accepted batch %v", i, b)
	}
}
