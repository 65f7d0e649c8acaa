// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// haadb-cli - write and read versioned values on a ledger account
//
// every command except version and generate-key reads a configuration
// file (--config) that selects the ledger and the account; private keys
// are normally supplied through a dotenv file (--env) and os.getenv in
// the configuration.
//
// results are printed as JSON on stdout.
//
//   haadb-cli -c haadb.conf broadcast --contract=settings --type=json --value='{"a":1}'
//   haadb-cli -c haadb.conf fetch --contract=settings
//   haadb-cli -c haadb.conf watch --contract=settings --file=settings.json
package main
