// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/haadb/encrypt"
)

type generateReply struct {
	Key  string        `json:"key"`
	Salt *encrypt.Salt `json:"salt,omitempty"`
}

func runGenerateKey(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	passphrase := c.String("passphrase")
	if "" == passphrase {
		key, err := encrypt.GenerateKey()
		if nil != err {
			return err
		}
		return printJson(m.w, generateReply{Key: key})
	}

	var salt *encrypt.Salt
	var err error
	if s := c.String("salt"); "" != s {
		salt, err = encrypt.SaltFromString(s)
	} else {
		salt, err = encrypt.MakeSalt()
	}
	if nil != err {
		return err
	}

	key, err := encrypt.DeriveKey(passphrase, salt)
	if nil != err {
		return err
	}
	return printJson(m.w, generateReply{Key: key, Salt: salt})
}

func runVersion(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)
	return printJson(m.w, haadbVersion())
}
