// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package encrypt - optional secret key encryption of payloads
//
// keys and tokens are URL safe base64 text so that an encrypted payload
// can be carried in a record unchanged.  A token is:
//
//   base64( nonce[24] ‖ secretbox(plaintext) )
package encrypt
