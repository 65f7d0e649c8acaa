// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/haadb/chain"
)

func TestValid(t *testing.T) {
	assert.True(t, chain.Valid(chain.Hive), "hive")
	assert.True(t, chain.Valid(chain.Local), "local")
	assert.True(t, chain.Valid(chain.Normalise(" HIVE ")), "normalised")
	assert.False(t, chain.Valid("bitmark"), "unknown chain")
	assert.False(t, chain.Valid(""), "empty chain")
}
