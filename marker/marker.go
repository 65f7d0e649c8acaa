// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package marker - history positions a later fetch can resume from
package marker

import (
	"context"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ledger"
)

// Minimum - the lowest valid start position
const Minimum = ledger.MaximumPage

// Compute - resume position for a history sequence
//
// rounded down to a page and one page back so that a write in
// progress while the marker was taken is still covered
func Compute(sequence int64) int64 {
	m := (sequence/Minimum)*Minimum - Minimum
	if m < Minimum {
		return Minimum
	}
	return m
}

// ValidateStart - start must be a whole page, not below the minimum
func ValidateStart(start int64) error {
	if start < Minimum || 0 != start%Minimum {
		return fault.InvalidStart
	}
	return nil
}

// Get - the resume position for the current end of an account history
//
// the entry before the newest one is used, or the newest when it is
// the only one
func Get(ctx context.Context, gateway ledger.Gateway, account string) (int64, error) {
	entries, err := gateway.History(ctx, account, ledger.Latest, 2)
	if nil != err {
		return 0, err
	}

	switch n := len(entries); n {
	case 0:
		return Minimum, nil
	case 1:
		return Compute(entries[0].Sequence), nil
	default:
		return Compute(entries[n-2].Sequence), nil
	}
}
