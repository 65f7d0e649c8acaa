// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"net"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/haadb/chain"
	"github.com/bitmark-inc/haadb/configuration"
	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/haadb"
	"github.com/bitmark-inc/haadb/ledger"
	"github.com/bitmark-inc/haadb/ledger/hive"
	"github.com/bitmark-inc/haadb/ledger/local"
	"github.com/bitmark-inc/haadb/nodes"
	"github.com/bitmark-inc/haadb/scanner"
)

type metadata struct {
	config  *configuration.Configuration
	verbose bool
	log     *logger.L
	db      *haadb.DB
	hive    *hive.Gateway // nil for the local ledger
	local   *local.Ledger // nil for hive
	e       io.Writer
	w       io.Writer
}

// read the configuration and connect to the ledger
func before(c *cli.Context) error {
	e := c.App.ErrWriter
	w := c.App.Writer
	verbose := c.GlobalBool("verbose")

	m := &metadata{
		verbose: verbose,
		e:       e,
		w:       w,
	}
	c.App.Metadata["config"] = m

	// to suppress reading config file if certain commands
	switch c.Args().Get(0) {
	case "", "help", "h", "version", "generate-key":
		return nil
	}

	file := c.GlobalString("config")
	if verbose {
		fmt.Fprintf(e, "reading config file: %s\n", file)
	}

	conf, err := configuration.Get(file, c.GlobalString("env"))
	if nil != err {
		return err
	}
	m.config = conf

	if verbose {
		conf.Logging.Console = true
	}
	if err := logger.Initialise(conf.Logging); nil != err {
		return err
	}
	if err := fault.Initialise(); nil != err {
		return err
	}

	m.log = logger.New("haadb-cli")
	m.log.Infof("haadb-cli version: %s  chain: %s  account: %s", version, conf.Chain, conf.Account)

	gateway, err := openGateway(m)
	if nil != err {
		return err
	}

	m.db, err = haadb.New(haadb.Configuration{
		Account: conf.Account,
		Limit:   conf.Limit,
		Retry:   retryPolicy(conf),
	}, gateway, logger.New("haadb"))
	return err
}

// release the ledger and flush logs
func after(c *cli.Context) error {
	m, ok := c.App.Metadata["config"].(*metadata)
	if !ok || nil == m.config {
		return nil
	}
	var err error
	if nil != m.local {
		err = m.local.Close()
		m.local = nil
	}
	fault.Finalise()
	logger.Finalise()
	return err
}

func openGateway(m *metadata) (ledger.Gateway, error) {
	conf := m.config

	switch conf.Chain {
	case chain.Local:
		l, err := local.Open(logger.New("local"), conf.Database, conf.Account, local.ReadWrite)
		if nil != err {
			return nil, err
		}
		m.local = l
		return l, nil

	case chain.Hive:
		urls, err := nodes.Resolve(logger.New("nodes"), conf.Nodes, conf.NodesDomain, nil)
		if nil != err {
			return nil, err
		}
		g, err := hive.New(logger.New("hive"), hive.Configuration{
			Account:    conf.Account,
			ChainId:    conf.ChainId,
			Nodes:      urls,
			PostingWIF: conf.PostingWIF,
			ActiveWIF:  conf.ActiveWIF,
			Timeout:    conf.TimeoutDuration(),
			Retries:    conf.Retries,
			RateLimit:  conf.RateLimit,
		})
		if nil != err {
			return nil, err
		}
		m.hive = g
		return g, nil

	default:
		return nil, fault.InvalidChain
	}
}

func retryPolicy(conf *configuration.Configuration) scanner.RetryPolicy {
	policy := scanner.RetryPolicy{
		Retries:        conf.HistoryRetries,
		Backoff:        conf.BackoffDuration(),
		MaximumBackoff: scanner.DefaultRetryPolicy.MaximumBackoff,
	}
	if policy.MaximumBackoff < policy.Backoff {
		policy.MaximumBackoff = policy.Backoff
	}
	return policy
}

// the refresher for long running commands, nil when no nodes domain is configured
func nodesRefresher(m *metadata) *nodes.Refresher {
	if nil == m.hive || "" == m.config.NodesDomain {
		return nil
	}
	log := logger.New("nodes")
	return nodes.NewRefresher(log, m.config.NodesDomain, nodes.NewLookuper(log, net.LookupTXT), m.hive.SetNodes)
}
