// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/joho/godotenv"

	"github.com/bitmark-inc/haadb/chain"
	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/haadb"
	"github.com/bitmark-inc/haadb/ledger"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "." // same directory as the configuration file
	defaultDatabase      = "haadb.leveldb"
	defaultEnvFile       = ".env"

	defaultTimeout        = 10  // seconds
	defaultRetries        = 3   // node attempts after the first
	defaultHistoryRetries = 5   // zero retries forever
	defaultHistoryBackoff = 500 // milliseconds
	defaultRateLimit      = 10  // requests per second

	defaultLogDirectory = "log"
	defaultLogFile      = "haadb.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

// Configuration - contents of the configuration file
type Configuration struct {
	DataDirectory  string               `gluamapper:"data_directory" json:"data_directory"`
	Account        string               `gluamapper:"account" json:"account"`
	Chain          string               `gluamapper:"chain" json:"chain"`
	ChainId        string               `gluamapper:"chain_id" json:"chain_id"`
	Nodes          []string             `gluamapper:"nodes" json:"nodes"`
	NodesDomain    string               `gluamapper:"nodes_domain" json:"nodes_domain"`
	PostingWIF     string               `gluamapper:"posting_wif" json:"-"`
	ActiveWIF      string               `gluamapper:"active_wif" json:"-"`
	Limit          int                  `gluamapper:"limit" json:"limit"`
	Timeout        int                  `gluamapper:"timeout" json:"timeout"`
	Retries        int                  `gluamapper:"retries" json:"retries"`
	HistoryRetries int                  `gluamapper:"history_retries" json:"history_retries"`
	HistoryBackoff int                  `gluamapper:"history_backoff" json:"history_backoff"`
	RateLimit      float64              `gluamapper:"rate_limit" json:"rate_limit"`
	Database       string               `gluamapper:"database" json:"database"`
	Logging        logger.Configuration `gluamapper:"logging" json:"logging"`
}

// Get - read decode and verify the configuration
//
// envFile is loaded first when given, otherwise a .env file next to the
// configuration file is loaded if present; variables already set in the
// environment are never overwritten
func Get(configurationFileName string, envFile string) (*Configuration, error) {
	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	if !isFile(configurationFileName) {
		return nil, fmt.Errorf("%w: %s", fault.ConfigurationFileNotFound, configurationFileName)
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	if "" == envFile {
		candidate := filepath.Join(dataDirectory, defaultEnvFile)
		if isFile(candidate) {
			envFile = candidate
		}
	}
	if "" != envFile {
		if err := godotenv.Load(envFile); nil != err {
			return nil, err
		}
	}

	options := &Configuration{
		DataDirectory:  defaultDataDirectory,
		Chain:          chain.Hive,
		Limit:          haadb.DefaultLimit,
		Timeout:        defaultTimeout,
		Retries:        defaultRetries,
		HistoryRetries: defaultHistoryRetries,
		HistoryBackoff: defaultHistoryBackoff,
		RateLimit:      defaultRateLimit,
		Database:       defaultDatabase,

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    make(map[string]string, len(defaultLogLevels)),
		},
	}
	for k, v := range defaultLogLevels {
		options.Logging.Levels[k] = v
	}

	if err := ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	options.Chain = chain.Normalise(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fmt.Errorf("%w: %q", fault.InvalidChain, options.Chain)
	}

	if err := ledger.CheckAccount(options.Account); nil != err {
		return nil, err
	}

	if options.Limit < haadb.MinimumLimit || options.Limit > haadb.MaximumLimit {
		return nil, fault.InvalidLimit
	}
	if options.HistoryRetries < 0 || options.HistoryBackoff < 0 || options.Retries < 0 || options.Timeout <= 0 {
		return nil, fault.InvalidRetryPolicy
	}

	if chain.Hive == options.Chain && 0 == len(options.Nodes) && "" == options.NodesDomain {
		return nil, fault.MissingNodes
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = resolvePath(dataDirectory, options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// fail if the log file is not a simple file name
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("Files: %q is not plain name", options.Logging.File)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	for _, f := range []*string{
		&options.Database,
		&options.Logging.Directory,
	} {
		*f = resolvePath(options.DataDirectory, *f)
	}

	if err := os.MkdirAll(options.Logging.Directory, 0700); nil != err {
		return nil, err
	}

	// done
	return options, nil
}

// TimeoutDuration - per request timeout
func (c *Configuration) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// BackoffDuration - first delay between history page attempts
func (c *Configuration) BackoffDuration() time.Duration {
	return time.Duration(c.HistoryBackoff) * time.Millisecond
}
