// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/urfave/cli"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	app := cli.NewApp()
	app.Name = "haadb-cli"
	app.Usage = "versioned key-value store on a ledger account"
	app.Version = version
	app.HideVersion = true

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
		cli.StringFlag{
			Name:  "config, c",
			Value: "haadb.conf",
			Usage: " configuration `FILE`",
		},
		cli.StringFlag{
			Name:  "env, e",
			Value: "",
			Usage: " dotenv `FILE` loaded before the configuration [.env beside the configuration]",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "generate-key",
			Usage:     "generate an encryption key, or derive one from a passphrase",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "passphrase, p",
					Value: "",
					Usage: " derive the key from `PASSPHRASE`",
				},
				cli.StringFlag{
					Name:  "salt, s",
					Value: "",
					Usage: " hex `SALT` for the passphrase [new random salt]",
				},
			},
			Action: runGenerateKey,
		},
		{
			Name:   "marker",
			Usage:  "suggested start for a fetch that only covers recent history",
			Action: runMarker,
		},
		{
			Name:      "broadcast",
			Usage:     "write a new version of a value",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "contract, t",
					Value: "",
					Usage: "*contract id `ID`",
				},
				cli.StringFlag{
					Name:  "value, s",
					Value: "",
					Usage: "+value `TEXT`",
				},
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "+read the value from `FILE`",
				},
				cli.StringFlag{
					Name:  "type, y",
					Value: "str",
					Usage: " value `TYPE` [str|int|float|json|object]",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: " encryption `KEY`",
				},
				cli.BoolFlag{
					Name:  "active, a",
					Usage: " sign with the active key instead of the posting key",
				},
			},
			Action: runBroadcast,
		},
		{
			Name:      "fetch",
			Usage:     "read the latest version of a value, or all versions",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "contract, t",
					Value: "",
					Usage: "*contract id `ID`",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: " encryption `KEY`",
				},
				cli.Int64Flag{
					Name:  "start, s",
					Value: 0,
					Usage: " first history position to read `N` (multiple of 1000) [1000]",
				},
				cli.BoolFlag{
					Name:  "all, A",
					Usage: " output every version instead of the latest",
				},
				cli.BoolFlag{
					Name:  "lenient, l",
					Usage: " keep versions with missing chunks",
				},
			},
			Action: runFetch,
		},
		{
			Name:      "watch",
			Usage:     "broadcast a file each time it changes",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "contract, t",
					Value: "",
					Usage: "*contract id `ID`",
				},
				cli.StringFlag{
					Name:  "file, f",
					Value: "",
					Usage: "*`FILE` to watch",
				},
				cli.StringFlag{
					Name:  "type, y",
					Value: "json",
					Usage: " value `TYPE` [str|int|float|json|object]",
				},
				cli.StringFlag{
					Name:  "key, k",
					Value: "",
					Usage: " encryption `KEY`",
				},
				cli.BoolFlag{
					Name:  "active, a",
					Usage: " sign with the active key instead of the posting key",
				},
			},
			Action: runWatch,
		},
		{
			Name:   "public-keys",
			Usage:  "public keys of the configured private keys",
			Action: runPublicKeys,
		},
		{
			Name:  "version",
			Usage: "display haadb-cli version",
			Action: runVersion,
		},
	}

	app.Before = before
	app.After = after

	err := app.Run(os.Args)
	if nil != err {
		exitwithstatus.Message("%s: terminated with error: %s", app.Name, err)
	}
}

// common flag checks
func checkContract(c *cli.Context) (string, error) {
	contractId := c.String("contract")
	if "" == contractId {
		return "", fmt.Errorf("contract id is required")
	}
	return contractId, nil
}
