// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io/ioutil"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/haadb"
	"github.com/bitmark-inc/haadb/ledger"
)

func runBroadcast(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	contractId, err := checkContract(c)
	if nil != err {
		return err
	}

	value := c.String("value")
	file := c.String("file")

	var data []byte
	switch {
	case "" != value && "" != file:
		return fmt.Errorf("only one of value or file is allowed")
	case "" != file:
		data, err = ioutil.ReadFile(file)
		if nil != err {
			return err
		}
	case c.IsSet("value"):
		data = []byte(value)
	default:
		return fmt.Errorf("value or file is required")
	}

	authority := ledger.Posting
	if c.Bool("active") {
		authority = ledger.Active
	}

	if m.verbose {
		fmt.Fprintf(m.e, "contract: %s\n", contractId)
		fmt.Fprintf(m.e, "type: %s\n", c.String("type"))
		fmt.Fprintf(m.e, "bytes: %d\n", len(data))
		fmt.Fprintf(m.e, "authority: %s\n", authority)
	}

	reply, err := broadcast(context.Background(), m.db, contractId, c.String("type"), data, c.String("key"), authority)
	if nil != reply {
		if e := printJson(m.w, reply); nil != e && nil == err {
			err = e
		}
	}
	return err
}

// shared by broadcast and watch
//
// a partial reply is returned along with a gateway error
func broadcast(ctx context.Context, db *haadb.DB, contractId string, kind string, data []byte, key string, authority ledger.Authority) (*haadb.BroadcastReply, error) {
	v, err := parseValue(kind, data)
	if nil != err {
		return nil, err
	}

	reply, err := db.Broadcast(ctx, &haadb.BroadcastArguments{
		ContractId:    contractId,
		Value:         v,
		EncryptionKey: key,
		Authority:     authority,
	})
	if nil != err && nil != reply && 0 != len(reply.Receipts) {
		fault.Criticalf("contract: %s  timestamp: %d  partial write: %d of %d chunks  error: %s", contractId, reply.Timestamp, len(reply.Receipts), reply.Chunks, err)
	}
	return reply, err
}
