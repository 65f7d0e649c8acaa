// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package local - a single process ledger kept in LevelDB
//
// database layout:
//
//   0x00 VERSION              4 byte big endian database version
//   B                         8 byte big endian last block number
//   N ‖ account               8 byte big endian next history sequence
//   H ‖ account ‖ 0x00 ‖ seq  JSON history entry, seq 8 byte big endian
//
// every append is one block holding one operation
package local
