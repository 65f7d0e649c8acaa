// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package haadb

import (
	"context"
	"fmt"

	"github.com/bitmark-inc/haadb/chunk"
	"github.com/bitmark-inc/haadb/encrypt"
	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ledger"
	"github.com/bitmark-inc/haadb/record"
)

// BroadcastArguments - a value to write
type BroadcastArguments struct {
	ContractId    string
	Value         record.Value
	EncryptionKey string // empty for plain text
	Authority     ledger.Authority
}

// BroadcastReply - the committed records of a write
//
// on failure Receipts holds the chunks committed before the error
type BroadcastReply struct {
	Timestamp int64             `json:"timestamp"`
	DType     record.DType      `json:"dtype"`
	Chunks    int               `json:"chunks"`
	Receipts  []*ledger.Receipt `json:"receipts"`
}

// Broadcast - write a value as one or more ledger records
func (db *DB) Broadcast(ctx context.Context, arguments *BroadcastArguments) (*BroadcastReply, error) {
	log := db.log

	if err := ledger.CheckContractId(arguments.ContractId); nil != err {
		return nil, err
	}
	if !arguments.Authority.Valid() {
		return nil, fault.InvalidAuthority
	}

	dtype, payload, err := record.Encode(arguments.Value)
	if nil != err {
		return nil, err
	}

	if "" != arguments.EncryptionKey {
		payload, err = encrypt.Encrypt(arguments.EncryptionKey, payload)
		if nil != err {
			return nil, err
		}
	}

	chunks, err := chunk.Split(payload, db.chunkLimit)
	if nil != err {
		return nil, err
	}

	timestamp := db.clock().Unix()
	records := chunk.Records(timestamp, dtype, chunks)

	reply := &BroadcastReply{
		Timestamp: timestamp,
		DType:     dtype,
		Chunks:    len(records),
		Receipts:  make([]*ledger.Receipt, 0, len(records)),
	}

	log.Infof("broadcast: %q  timestamp: %d  dtype: %s  chunks: %d  authority: %s", arguments.ContractId, timestamp, dtype, len(records), arguments.Authority)

	for i, r := range records {
		buffer, err := r.Marshal()
		if nil != err {
			return reply, err
		}

		receipt, err := db.gateway.Append(ctx, arguments.ContractId, buffer, arguments.Authority)
		if nil != err {
			log.Errorf("broadcast: %q  timestamp: %d  chunk: %d/%d  error: %s", arguments.ContractId, timestamp, i+1, len(records), err)
			return reply, fmt.Errorf("chunk %d of %d: %w", i+1, len(records), err)
		}
		log.Debugf("broadcast: %q  chunk: %d/%d  tx: %s", arguments.ContractId, i+1, len(records), receipt.TxId)

		reply.Receipts = append(reply.Receipts, receipt)
	}

	return reply, nil
}
