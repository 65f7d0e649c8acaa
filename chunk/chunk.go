// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chunk - split a payload into ledger record sized pieces
package chunk

import (
	"unicode/utf8"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/record"
)

// Split - cut payload into chunks of at most limit bytes
//
// an empty payload still produces a single empty chunk so that the
// write leaves a marker record.  A cut never falls inside a UTF-8
// sequence; for ASCII payloads the count is exactly ceil(len/limit).
func Split(payload []byte, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, fault.InvalidChunkLimit
	}
	if 0 == len(payload) {
		return []string{""}, nil
	}

	chunks := make([]string, 0, (len(payload)+limit-1)/limit)
	for len(payload) > 0 {
		n := limit
		if n >= len(payload) {
			n = len(payload)
		} else {
			n = boundary(payload, n)
		}
		chunks = append(chunks, string(payload[:n]))
		payload = payload[n:]
	}
	return chunks, nil
}

// move a cut back to the start of the rune it would split
//
// if no rune start is found (i.e. not UTF-8) cut at n unchanged
func boundary(payload []byte, n int) int {
	for i := n; i > 0 && n-i < utf8.UTFMax; i -= 1 {
		if utf8.RuneStart(payload[i]) {
			return i
		}
	}
	return n
}

// Records - one record per chunk, all sharing the same timestamp
func Records(timestamp int64, dtype record.DType, chunks []string) []*record.Record {
	count := len(chunks)
	records := make([]*record.Record, count)
	for i, c := range chunks {
		records[i] = record.New(timestamp, i+1, count, dtype, c)
	}
	return records
}
