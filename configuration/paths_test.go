// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/data/haadb.leveldb", resolvePath("/data/", "haadb.leveldb"), "relative")
	assert.Equal(t, "/data/log", resolvePath("/data", "./x/../log"), "cleaned")
	assert.Equal(t, "/var/log", resolvePath("/data", "/var//log/"), "absolute kept")
}

func TestIsFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "haadb-paths")
	require.Nil(t, err, "temp dir")
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "haadb.conf")
	assert.False(t, isFile(name), "missing file found")
	require.Nil(t, ioutil.WriteFile(name, []byte("return {}"), 0600), "write")
	assert.True(t, isFile(name), "file not found")
	assert.False(t, isFile(dir), "directory accepted as file")
}
