// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package record - values and the records that carry them
//
// A value is one of a closed set of categories, each with a dtype tag
// and a canonical printable text form.  The text is split into chunks
// and each chunk travels in a single ledger record:
//
//   {"haadb": "1.0.0", "timestamp": 1650000000, "batch": [1, 3], "dtype": "dict", "data": "7b22..."}
//
// "batch" is omitted for single chunk writes.
package record
