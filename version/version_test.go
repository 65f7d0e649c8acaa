// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/haadb/version"
)

func TestGet(t *testing.T) {
	info := version.Get("zero")
	assert.Equal(t, "1.0", info.Version, "version")
	assert.Equal(t, "zero", info.Build, "build")
	assert.Equal(t, "haadb/1.0.0", info.Protocol, "protocol")
}
