// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package haadb

import (
	"context"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/haadb/encrypt"
	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ledger"
	"github.com/bitmark-inc/haadb/marker"
	"github.com/bitmark-inc/haadb/scanner"
)

// limits on the size of the ledger operation
const (
	MinimumLimit = 1024
	MaximumLimit = 4096
	DefaultLimit = MaximumLimit

	// room for the record envelope and the operation wrapper
	Overhead = 512
)

// Configuration - immutable settings of a service instance
type Configuration struct {
	Account string
	Limit   int                 // operation size 1024..4096, zero for the default
	Retry   scanner.RetryPolicy // zero value for scanner.DefaultRetryPolicy
	Clock   func() time.Time    // nil for time.Now
}

// DB - the store for one account
//
// holds no mutable state so it may be shared by several goroutines
type DB struct {
	log        *logger.L
	gateway    ledger.Gateway
	account    string
	chunkLimit int
	clock      func() time.Time
	scanner    *scanner.Scanner
}

// New - validate the configuration and create a store
func New(configuration Configuration, gateway ledger.Gateway, log *logger.L) (*DB, error) {
	if nil == log {
		return nil, fault.InvalidLoggerChannel
	}
	if err := ledger.CheckAccount(configuration.Account); nil != err {
		return nil, err
	}

	limit := configuration.Limit
	if 0 == limit {
		limit = DefaultLimit
	}
	if limit < MinimumLimit || limit > MaximumLimit {
		return nil, fault.InvalidLimit
	}

	retry := configuration.Retry
	if (scanner.RetryPolicy{}) == retry {
		retry = scanner.DefaultRetryPolicy
	}

	s, err := scanner.New(log, gateway, configuration.Account, retry)
	if nil != err {
		return nil, err
	}

	clock := configuration.Clock
	if nil == clock {
		clock = time.Now
	}

	return &DB{
		log:        log,
		gateway:    gateway,
		account:    configuration.Account,
		chunkLimit: limit - Overhead,
		clock:      clock,
		scanner:    s,
	}, nil
}

// ChunkLimit - maximum bytes of payload in one record
func (db *DB) ChunkLimit() int {
	return db.chunkLimit
}

// Marker - a start position covering every write made after this call
func (db *DB) Marker(ctx context.Context) (int64, error) {
	return marker.Get(ctx, db.gateway, db.account)
}

// GenerateKey - a fresh random encryption key
func (db *DB) GenerateKey() (string, error) {
	return encrypt.GenerateKey()
}
