// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package haadb - a versioned key-value store on an append-only ledger
//
// a value written under a contract id is encoded, optionally encrypted,
// cut into chunks and appended as custom data records that share one
// timestamp.  Reading scans the account history, regroups the records
// by timestamp and rebuilds every version; the highest timestamp is the
// latest value.
package haadb
