// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/logger"
	"github.com/urfave/cli"

	"github.com/bitmark-inc/haadb/background"
	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ledger"
	"github.com/bitmark-inc/haadb/watcher"
)

func runWatch(c *cli.Context) error {
	m := c.App.Metadata["config"].(*metadata)

	contractId, err := checkContract(c)
	if nil != err {
		return err
	}

	if err := ledger.CheckContractId(contractId); nil != err {
		return err
	}

	file := c.String("file")
	if "" == file {
		return fmt.Errorf("file is required")
	}

	kind := c.String("type")
	key := c.String("key")
	authority := ledger.Posting
	if c.Bool("active") {
		authority = ledger.Active
	}

	w, err := watcher.New(logger.New("watcher"), file)
	if nil != err {
		return err
	}

	processes := background.Processes{w}
	if r := nodesRefresher(m); nil != r {
		processes = append(processes, r)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := background.Start(processes, nil)
	defer p.Stop()

	m.log.Infof("watching: %s  contract: %s", w.FileName(), contractId)
	if m.verbose {
		fmt.Fprintf(m.e, "watching: %s  (ctrl-c to stop)\n", w.FileName())
	}

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)

	// the current contents are the first version
	send := func() error {
		data, err := ioutil.ReadFile(w.FileName())
		if nil != err {
			m.log.Warnf("read: %s  error: %s", w.FileName(), err)
			return nil
		}
		reply, err := broadcast(ctx, m.db, contractId, kind, data, key, authority)
		if nil != reply {
			_ = printJson(m.w, reply)
		}
		if nil != err {
			m.log.Errorf("broadcast: %s  error: %s", contractId, err)
		}
		return err
	}

	if err := send(); nil != err && !isTransient(err) {
		return stopped(contractId, err)
	}

	for {
		select {
		case sig := <-ch:
			m.log.Infof("received signal: %v", sig)
			return nil

		case <-w.Remove():
			m.log.Warnf("file removed: %s  waiting for it to return", w.FileName())

		case <-w.Change():
			if err := send(); nil != err && !isTransient(err) {
				return stopped(contractId, err)
			}
		}
	}
}

func stopped(contractId string, err error) error {
	fault.Criticalf("watch: %s  stopped: %s", contractId, err)
	return err
}

// failures that a later change of the file may not repeat
func isTransient(err error) bool {
	return fault.IsErrGateway(err) || fault.IsErrInvalid(err) || fault.IsErrFormat(err)
}
