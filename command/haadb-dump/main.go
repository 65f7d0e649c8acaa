// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/haadb/ledger"
	"github.com/bitmark-inc/haadb/ledger/local"
	"github.com/bitmark-inc/haadb/record"
	haadbversion "github.com/bitmark-inc/haadb/version"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// colours
const (
	seqColour   = "\033[1;36m"
	txColour    = "\033[1;33m"
	idColour    = "\033[1;32m"
	dataColour  = "\033[1;34m"
	otherColour = "\033[0;35m"
	endColour   = "\033[0m"
)

var errCountReached = errors.New("count reached")

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "colour", HasArg: getoptions.NO_ARGUMENT, Short: 'g'},
		{Long: "records", HasArg: getoptions.NO_ARGUMENT, Short: 'r'},
		{Long: "file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'f'},
		{Long: "contract", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
		{Long: "count", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'n'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		v := haadbversion.Get(version)
		exitwithstatus.Message("%s: version: %s build: %s", program, v.Version, v.Build)
	}

	if len(options["help"]) > 0 || 1 != len(arguments) || 1 != len(options["file"]) {
		exitwithstatus.Message("usage: %s [--help] [--verbose] [--colour] [--records] [--count=N] [--contract=ID] --file=DATABASE account", program)
	}

	colour := len(options["colour"]) > 0
	records := len(options["records"]) > 0
	verbose := len(options["verbose"]) > 0

	count := 0
	if len(options["count"]) > 0 {
		count, err = strconv.Atoi(options["count"][0])
		if nil != err {
			exitwithstatus.Message("%s: convert count error: %s", program, err)
		}
		if count < 1 {
			exitwithstatus.Message("%s: invalid count: %d", program, count)
		}
	}

	contractId := ""
	if len(options["contract"]) > 0 {
		contractId = options["contract"][0]
		if err := ledger.CheckContractId(contractId); nil != err {
			exitwithstatus.Message("%s: contract: %q error: %s", program, contractId, err)
		}
	}

	filename := options["file"][0]
	account := arguments[0]
	if verbose {
		fmt.Printf("read account: %s from file: %q\n", account, filename)
	}

	logging := logger.Configuration{
		Directory: ".",
		File:      "haadb-dump.log",
		Size:      1048576,
		Count:     10,
		Console:   true,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	if err = logger.Initialise(logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// start of main processing
	l, err := local.Open(logger.New("local"), filename, account, local.ReadOnly)
	if nil != err {
		exitwithstatus.Message("%s: ledger setup failed with error: %s", program, err)
	}
	defer l.Close()

	c1, c2, c3, c4, c5, ce := "", "", "", "", "", ""
	if colour {
		c1, c2, c3, c4, c5, ce = seqColour, txColour, idColour, dataColour, otherColour, endColour
	}

	n := 0
	err = l.Each(account, func(e *ledger.HistoryEntry) error {
		if "" != contractId && !e.IsCustomData(contractId) {
			return nil
		}

		ts := e.Timestamp.UTC().Format(time.RFC3339)
		if ledger.CustomJSON != e.Operation.Type {
			fmt.Printf("%s%6d%s %s %s%s%s %s%s%s\n", c1, e.Sequence, ce, ts, c2, e.TxId, ce, c5, e.Operation.Type, ce)
		} else {
			fmt.Printf("%s%6d%s %s %s%s%s %s%s%s: %s%s%s\n", c1, e.Sequence, ce, ts, c2, e.TxId, ce, c3, e.Operation.Id, ce, c4, e.Operation.JSON, ce)
		}

		if records && ledger.CustomJSON == e.Operation.Type {
			if r, err := record.Parse([]byte(e.Operation.JSON)); nil != err {
				fmt.Printf("       not a record: %s\n", err)
			} else {
				index, total, _ := r.Index()
				fmt.Printf("       timestamp: %d  chunk: %d/%d  dtype: %s  data: %d bytes\n", r.Timestamp, index, total, r.DType, len(r.Data))
			}
		}

		n += 1
		if count > 0 && n >= count {
			return errCountReached
		}
		return nil
	})
	if nil != err && errCountReached != err {
		exitwithstatus.Message("%s: error on read: %s", program, err)
	}

	if verbose {
		fmt.Printf("entries: %d\n", n)
	}
}
