// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/json"
	"fmt"

	"github.com/bitmark-inc/haadb/fault"
)

// protocol marker and version carried by every record
const (
	ProtocolTag     = "haadb"
	ProtocolVersion = "1.0.0"
)

// Record - the JSON payload of one custom data operation
type Record struct {
	Protocol  string `json:"haadb"`
	Timestamp int64  `json:"timestamp"`
	Batch     []int  `json:"batch,omitempty"`
	DType     DType  `json:"dtype"`
	Data      string `json:"data"`
}

// New - create a record for chunk index of count (1 based)
func New(timestamp int64, index int, count int, dtype DType, data string) *Record {
	r := &Record{
		Protocol:  ProtocolVersion,
		Timestamp: timestamp,
		DType:     dtype,
		Data:      data,
	}
	if count > 1 {
		r.Batch = []int{index, count}
	}
	return r
}

// Index - the batch descriptor, [1,1] when absent
func (r *Record) Index() (int, int, error) {
	if 0 == len(r.Batch) {
		return 1, 1, nil
	}
	if 2 != len(r.Batch) {
		return 0, 0, fault.BatchOutOfRange
	}
	index, count := r.Batch[0], r.Batch[1]
	if index < 1 || index > count {
		return 0, 0, fault.BatchOutOfRange
	}
	return index, count, nil
}

// Marshal - JSON text for the ledger
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Parse - decode a custom data payload
//
// payloads without the protocol marker belong to another application
// and return fault.NotProtocolRecord
func Parse(payload []byte) (*Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); nil != err {
		return nil, fmt.Errorf("%w: %s", fault.InvalidPayload, err)
	}
	if _, ok := fields[ProtocolTag]; !ok {
		return nil, fault.NotProtocolRecord
	}

	r := &Record{}
	if err := json.Unmarshal(payload, r); nil != err {
		return nil, fmt.Errorf("%w: %s", fault.InvalidPayload, err)
	}
	return r, nil
}
