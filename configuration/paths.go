// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"os"
	"path/filepath"
)

// resolve a configured path against the data directory
//
// absolute paths are only cleaned
func resolvePath(dataDirectory string, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(dataDirectory, name)
}

// true only for an existing non-directory entry
func isFile(name string) bool {
	info, err := os.Stat(name)
	return nil == err && !info.IsDir()
}
