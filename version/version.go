// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package version

import (
	"github.com/bitmark-inc/haadb/record"
)

// ensure that git has a tag: "vX.Y" corresponding to major and minor
const (
	Major   = "1"
	Minor   = "0"
	Version = Major + "." + Minor
)

// Info - what a command reports for its version
type Info struct {
	Version  string `json:"version"`
	Build    string `json:"build"`
	Protocol string `json:"protocol"`
}

// Get - build is the linker supplied string, "zero" when not set
func Get(build string) Info {
	return Info{
		Version:  Version,
		Build:    build,
		Protocol: record.ProtocolTag + "/" + record.ProtocolVersion,
	}
}
