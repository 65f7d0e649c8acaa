// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"context"
	"time"
)

// CustomJSON - operation type of a custom data record
const CustomJSON = "custom_json"

// Latest - history position of the newest entry
const Latest int64 = -1

// MaximumPage - largest history page a ledger will return
const MaximumPage = 1000

//go:generate mockgen -source gateway.go -destination mocks/gateway.go -package mocks

// Gateway - access to one ledger
type Gateway interface {
	// append one custom data operation signed with the given authority
	Append(ctx context.Context, contractId string, payload []byte, authority Authority) (*Receipt, error)

	// the entries with from-limit ≤ sequence ≤ from in ascending
	// sequence order; from above the newest entry or Latest reads from
	// the newest
	History(ctx context.Context, account string, from int64, limit int) ([]HistoryEntry, error)
}

// Receipt - result of a successful append
type Receipt struct {
	TxId     string `json:"txId"`
	Block    uint64 `json:"block,omitempty"`
	Sequence int64  `json:"sequence,omitempty"`
}

// Operation - one ledger operation
//
// only custom data operations carry Id and JSON
type Operation struct {
	Type                 string   `json:"type"`
	Id                   string   `json:"id,omitempty"`
	JSON                 string   `json:"json,omitempty"`
	RequiredAuths        []string `json:"required_auths,omitempty"`
	RequiredPostingAuths []string `json:"required_posting_auths,omitempty"`
}

// HistoryEntry - an operation at a position in an account history
type HistoryEntry struct {
	Sequence  int64     `json:"sequence"`
	Block     uint64    `json:"block"`
	TxId      string    `json:"txId"`
	Timestamp time.Time `json:"timestamp"`
	Operation Operation `json:"operation"`
}

// IsCustomData - true if the entry is a custom data operation for the contract
func (e *HistoryEntry) IsCustomData(contractId string) bool {
	return CustomJSON == e.Operation.Type && contractId == e.Operation.Id
}
