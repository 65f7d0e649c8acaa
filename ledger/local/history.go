// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package local

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ledger"
)

// Append - store one custom data operation as the next block
func (l *Ledger) Append(ctx context.Context, contractId string, payload []byte, authority ledger.Authority) (*ledger.Receipt, error) {
	if err := ledger.CheckContractId(contractId); nil != err {
		return nil, err
	}
	active, posting, err := authority.Auths(l.account)
	if nil != err {
		return nil, err
	}
	if err := ctx.Err(); nil != err {
		return nil, err
	}

	l.Lock()
	defer l.Unlock()

	if nil == l.db {
		return nil, fault.NotStarted
	}

	block, err := l.counter(blockKey())
	if nil != err {
		return nil, err
	}
	block += 1

	sequence, err := l.counter(nextKey(l.account))
	if nil != err {
		return nil, err
	}

	entry := ledger.HistoryEntry{
		Sequence:  int64(sequence),
		Block:     block,
		TxId:      uuid.New().String(),
		Timestamp: l.clock().UTC(),
		Operation: ledger.Operation{
			Type:                 ledger.CustomJSON,
			Id:                   contractId,
			JSON:                 string(payload),
			RequiredAuths:        active,
			RequiredPostingAuths: posting,
		},
	}
	buffer, err := json.Marshal(entry)
	if nil != err {
		return nil, err
	}

	batch := new(leveldb.Batch)
	batch.Put(blockKey(), uint64Bytes(block))
	batch.Put(nextKey(l.account), uint64Bytes(sequence+1))
	batch.Put(historyKey(l.account, sequence), buffer)

	if err := l.db.Write(batch, nil); nil != err {
		l.log.Errorf("append: %q  error: %s", contractId, err)
		return nil, err
	}

	l.log.Debugf("append: %q  block: %d  seq: %d  tx: %s", contractId, block, sequence, entry.TxId)

	return &ledger.Receipt{
		TxId:     entry.TxId,
		Block:    block,
		Sequence: entry.Sequence,
	}, nil
}

// History - entries from-limit to from of an account
func (l *Ledger) History(ctx context.Context, account string, from int64, limit int) ([]ledger.HistoryEntry, error) {
	if err := ledger.CheckAccount(account); nil != err {
		return nil, err
	}
	if limit <= 0 || limit > ledger.MaximumPage {
		return nil, fmt.Errorf("%w: history limit: %d", fault.InvalidHistoryLimit, limit)
	}
	if err := ctx.Err(); nil != err {
		return nil, err
	}

	l.Lock()
	defer l.Unlock()

	if nil == l.db {
		return nil, fault.NotStarted
	}

	next, err := l.counter(nextKey(account))
	if nil != err {
		return nil, err
	}
	if 0 == next {
		return []ledger.HistoryEntry{}, nil
	}

	upper := next - 1
	if from >= 0 && uint64(from) < upper {
		upper = uint64(from)
	}
	lower := uint64(0)
	if upper > uint64(limit) {
		lower = upper - uint64(limit)
	}

	r := &util.Range{
		Start: historyKey(account, lower),
		Limit: historyKey(account, upper+1),
	}
	iter := l.db.NewIterator(r, nil)
	defer iter.Release()

	entries := make([]ledger.HistoryEntry, 0, upper-lower+1)
	for iter.Next() {
		var e ledger.HistoryEntry
		if err := json.Unmarshal(iter.Value(), &e); nil != err {
			return nil, fmt.Errorf("%w: history entry: %s", fault.InvalidPayload, err)
		}
		entries = append(entries, e)
	}
	if err := iter.Error(); nil != err {
		return nil, err
	}
	return entries, nil
}

// Each - visit every history entry of an account in sequence order
func (l *Ledger) Each(account string, fn func(*ledger.HistoryEntry) error) error {
	l.Lock()
	defer l.Unlock()

	if nil == l.db {
		return fault.NotStarted
	}

	iter := l.db.NewIterator(util.BytesPrefix(historyPrefixKey(account)), nil)
	defer iter.Release()

	for iter.Next() {
		var e ledger.HistoryEntry
		if err := json.Unmarshal(iter.Value(), &e); nil != err {
			return fmt.Errorf("%w: history entry: %s", fault.InvalidPayload, err)
		}
		if err := fn(&e); nil != err {
			return err
		}
	}
	return iter.Error()
}

// read a counter, absent is zero
func (l *Ledger) counter(key []byte) (uint64, error) {
	value, err := l.db.Get(key, nil)
	if leveldb.ErrNotFound == err {
		return 0, nil
	} else if nil != err {
		return 0, err
	}
	if 8 != len(value) {
		return 0, fmt.Errorf("%w: counter length: %d", fault.InvalidPayload, len(value))
	}
	return binary.BigEndian.Uint64(value), nil
}

func blockKey() []byte {
	return []byte{blockPrefix}
}

func nextKey(account string) []byte {
	return append([]byte{nextPrefix}, account...)
}

func historyPrefixKey(account string) []byte {
	key := make([]byte, 0, len(account)+2)
	key = append(key, historyPrefix)
	key = append(key, account...)
	return append(key, 0x00)
}

func historyKey(account string, sequence uint64) []byte {
	return append(historyPrefixKey(account), uint64Bytes(sequence)...)
}

func uint64Bytes(n uint64) []byte {
	buffer := make([]byte, 8)
	binary.BigEndian.PutUint64(buffer, n)
	return buffer
}
