// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package ledger - the contract between the store and a ledger
//
// a ledger appends custom data operations on behalf of one account and
// returns the ordered operation history of any account in pages
package ledger
