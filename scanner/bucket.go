// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scanner

import (
	"sort"

	"github.com/bitmark-inc/haadb/record"
)

// Bucket - the chunks of one version seen during a scan
type Bucket struct {
	Timestamp int64
	Count     int
	DType     record.DType
	Chunks    map[int]string
	Sequence  int64 // highest ledger sequence that added a chunk
	Conflicts int   // records that disagreed with the first seen dtype or count
}

// Buckets - versions keyed by timestamp
type Buckets map[int64]*Bucket

// Complete - every declared chunk is present
func (b *Bucket) Complete() bool {
	return len(b.Chunks) == b.Count
}

// Merge - join the chunks present in ascending index order
func (b *Bucket) Merge() []byte {
	indexes := make([]int, 0, len(b.Chunks))
	size := 0
	for i, c := range b.Chunks {
		indexes = append(indexes, i)
		size += len(c)
	}
	sort.Ints(indexes)

	buffer := make([]byte, 0, size)
	for _, i := range indexes {
		buffer = append(buffer, b.Chunks[i]...)
	}
	return buffer
}

// add a record; returns false if it conflicts with the bucket
//
// a later record for an index already present replaces it
func (buckets Buckets) add(r *record.Record, index int, count int, sequence int64) bool {
	b, ok := buckets[r.Timestamp]
	if !ok {
		b = &Bucket{
			Timestamp: r.Timestamp,
			Count:     count,
			DType:     r.DType,
			Chunks:    make(map[int]string),
			Sequence:  sequence,
		}
		buckets[r.Timestamp] = b
	}

	if b.Count != count || b.DType != r.DType {
		b.Conflicts += 1
		return false
	}

	b.Chunks[index] = r.Data
	if sequence > b.Sequence {
		b.Sequence = sequence
	}
	return true
}
