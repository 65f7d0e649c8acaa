// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package haadb

import (
	"context"

	"github.com/bitmark-inc/haadb/ledger"
	"github.com/bitmark-inc/haadb/marker"
	"github.com/bitmark-inc/haadb/reconstruct"
)

// Version - one reconstructed value
type Version = reconstruct.Version

// FetchArguments - what to read
type FetchArguments struct {
	ContractId    string
	EncryptionKey string // empty when the value was written in clear
	Start         int64  // history position to scan from, zero for the default of 1000
	Strict        bool   // discard versions missing any chunk
	Latest        bool   // only the newest version
}

// FetchReply - the versions found
//
// Latest is set when only the newest was requested, otherwise Versions
type FetchReply struct {
	Latest   *Version           `json:"latest,omitempty"`
	Versions map[int64]*Version `json:"versions,omitempty"`
}

// Empty - nothing was found
func (reply *FetchReply) Empty() bool {
	return nil == reply.Latest && 0 == len(reply.Versions)
}

// Fetch - read the versions of a contract
func (db *DB) Fetch(ctx context.Context, arguments *FetchArguments) (*FetchReply, error) {
	log := db.log

	if err := ledger.CheckContractId(arguments.ContractId); nil != err {
		return nil, err
	}

	start := arguments.Start
	if 0 == start {
		start = marker.Minimum
	}
	if err := marker.ValidateStart(start); nil != err {
		return nil, err
	}

	buckets, err := db.scanner.Scan(ctx, arguments.ContractId, start)
	if nil != err {
		return nil, err
	}

	versions := reconstruct.All(log, buckets, reconstruct.Options{
		Strict:        arguments.Strict,
		EncryptionKey: arguments.EncryptionKey,
	})

	log.Infof("fetch: %q  start: %d  buckets: %d  versions: %d", arguments.ContractId, start, len(buckets), len(versions))

	reply := &FetchReply{}
	if arguments.Latest {
		reply.Latest = reconstruct.Latest(versions)
	} else {
		reply.Versions = versions
	}
	return reply, nil
}
