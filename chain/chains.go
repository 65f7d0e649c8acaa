// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chain - names of the supported ledgers
package chain

import (
	"strings"
)

// names of all chains
const (
	Hive  = "hive"
	Local = "local"
)

// Valid - validate a chain name
func Valid(name string) bool {
	switch name {
	case Hive, Local:
		return true
	default:
		return false
	}
}

// Normalise - lower case without surrounding space
func Normalise(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
