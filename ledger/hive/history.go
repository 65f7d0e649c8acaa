// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ledger"
)

// one item of get_account_history: [sequence, entry]
type historyItem struct {
	Sequence int64
	Entry    historyEntry
}

type historyEntry struct {
	TrxId     string            `json:"trx_id"`
	Block     uint64            `json:"block"`
	Timestamp string            `json:"timestamp"`
	Op        []json.RawMessage `json:"op"`
}

func (item *historyItem) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); nil != err {
		return err
	}
	if 2 != len(pair) {
		return fault.InvalidPayload
	}
	if err := json.Unmarshal(pair[0], &item.Sequence); nil != err {
		return err
	}
	return json.Unmarshal(pair[1], &item.Entry)
}

// History - one page of account history
func (g *Gateway) History(ctx context.Context, account string, from int64, limit int) ([]ledger.HistoryEntry, error) {
	if err := ledger.CheckAccount(account); nil != err {
		return nil, err
	}
	if limit <= 0 || limit > ledger.MaximumPage {
		return nil, fmt.Errorf("%w: history limit: %d", fault.InvalidHistoryLimit, limit)
	}
	if from >= 0 && from < int64(limit) {
		return nil, fmt.Errorf("%w: history from: %d below limit: %d", fault.InvalidHistoryLimit, from, limit)
	}

	var items []historyItem
	err := g.client.call(ctx, "condenser_api.get_account_history", []interface{}{account, from, limit}, &items)
	if nil != err {
		return nil, err
	}

	entries := make([]ledger.HistoryEntry, 0, len(items))
	for _, item := range items {
		e, err := convert(&item)
		if nil != err {
			g.log.Warnf("history: %s  seq: %d  skip entry: %s", account, item.Sequence, err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func convert(item *historyItem) (ledger.HistoryEntry, error) {
	e := ledger.HistoryEntry{
		Sequence: item.Sequence,
		Block:    item.Entry.Block,
		TxId:     item.Entry.TrxId,
	}

	if "" != item.Entry.Timestamp {
		ts, err := time.Parse(timeLayout, item.Entry.Timestamp)
		if nil != err {
			return e, fmt.Errorf("%w: timestamp: %q", fault.InvalidPayload, item.Entry.Timestamp)
		}
		e.Timestamp = ts.UTC()
	}

	if 2 != len(item.Entry.Op) {
		return e, fmt.Errorf("%w: operation", fault.InvalidPayload)
	}
	if err := json.Unmarshal(item.Entry.Op[0], &e.Operation.Type); nil != err {
		return e, fmt.Errorf("%w: operation type", fault.InvalidPayload)
	}

	if ledger.CustomJSON == e.Operation.Type {
		var body customJSONBody
		if err := json.Unmarshal(item.Entry.Op[1], &body); nil != err {
			return e, fmt.Errorf("%w: custom_json body", fault.InvalidPayload)
		}
		e.Operation.Id = body.Id
		e.Operation.JSON = body.JSON
		e.Operation.RequiredAuths = body.RequiredAuths
		e.Operation.RequiredPostingAuths = body.RequiredPostingAuths
	}
	return e, nil
}
