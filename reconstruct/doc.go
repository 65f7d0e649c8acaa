// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reconstruct - turn scanned version buckets back into values
//
// each bucket either survives the completeness policy and is merged,
// optionally decrypted and decoded, or it is discarded:
//
//   NotSeen -> PartiallyReceived -> Complete -> Reconstructed
//                                            -> Discarded
//
// a bucket that is incomplete under the strict policy, or whose payload
// cannot be decoded, is discarded and logged
package reconstruct
