// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/haadb/haadb"
)

type fetchReply struct {
	ContractId string           `json:"contractId"`
	Latest     *haadb.Version   `json:"latest,omitempty"`
	Versions   []*haadb.Version `json:"versions,omitempty"`
}

func runFetch(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	contractId, err := checkContract(c)
	if nil != err {
		return err
	}

	all := c.Bool("all")
	arguments := &haadb.FetchArguments{
		ContractId:    contractId,
		EncryptionKey: c.String("key"),
		Start:         c.Int64("start"),
		Strict:        !c.Bool("lenient"),
		Latest:        !all,
	}

	if m.verbose {
		fmt.Fprintf(m.e, "contract: %s\n", contractId)
		fmt.Fprintf(m.e, "start: %d\n", arguments.Start)
		fmt.Fprintf(m.e, "strict: %t\n", arguments.Strict)
	}

	reply, err := m.db.Fetch(context.Background(), arguments)
	if nil != err {
		return err
	}

	result := fetchReply{
		ContractId: contractId,
		Latest:     reply.Latest,
	}

	// oldest first
	if all {
		result.Versions = make([]*haadb.Version, 0, len(reply.Versions))
		for _, v := range reply.Versions {
			result.Versions = append(result.Versions, v)
		}
		sort.Slice(result.Versions, func(i, j int) bool {
			return result.Versions[i].Timestamp < result.Versions[j].Timestamp
		})
	}

	return printJson(m.w, result)
}
