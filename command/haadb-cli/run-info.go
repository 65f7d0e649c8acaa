// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/urfave/cli"

	haadbversion "github.com/bitmark-inc/haadb/version"
)

type markerReply struct {
	Account string `json:"account"`
	Chain   string `json:"chain"`
	Start   int64  `json:"start"`
}

func runMarker(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	start, err := m.db.Marker(context.Background())
	if nil != err {
		return err
	}

	return printJson(m.w, markerReply{
		Account: m.config.Account,
		Chain:   m.config.Chain,
		Start:   start,
	})
}

type publicKeysReply struct {
	Account string            `json:"account"`
	Keys    map[string]string `json:"keys"`
}

func runPublicKeys(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	keys := map[string]string{}
	if nil != m.hive {
		keys = m.hive.PublicKeys()
	}

	return printJson(m.w, publicKeysReply{
		Account: m.config.Account,
		Keys:    keys,
	})
}

func haadbVersion() haadbversion.Info {
	return haadbversion.Get(version)
}
