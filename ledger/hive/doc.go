// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package hive - ledger gateway to Hive API nodes
//
// history is read with condenser_api.get_account_history and custom
// data is written as a signed custom_json transaction through
// condenser_api.broadcast_transaction_synchronous
package hive
