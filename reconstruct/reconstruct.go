// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reconstruct

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/haadb/encrypt"
	"github.com/bitmark-inc/haadb/record"
	"github.com/bitmark-inc/haadb/scanner"
)

// Version - one reconstructed value of a contract
//
// a payload that could not be decrypted is returned as its raw token,
// DType is then str and Decrypted is false
type Version struct {
	Timestamp int64        `json:"timestamp"`
	DType     record.DType `json:"dtype"`
	Value     record.Value `json:"value"`
	Complete  bool         `json:"complete"`
	Decrypted bool         `json:"decrypted"`
	Sequence  int64        `json:"sequence"`
}

// Versions - reconstructed values keyed by timestamp
type Versions map[int64]*Version

// Options - how buckets are treated
type Options struct {
	Strict        bool   // discard buckets missing any chunk
	EncryptionKey string // empty for plain text records
}

// All - reconstruct every surviving bucket
func All(log *logger.L, buckets scanner.Buckets, options Options) Versions {
	versions := make(Versions, len(buckets))

	for timestamp, b := range buckets {
		v := one(log, b, options)
		if nil == v {
			continue
		}
		versions[timestamp] = v
	}

	return versions
}

// Latest - the version with the highest timestamp, nil if there is none
//
// equal timestamps cannot occur inside one map, the sequence decides
// between versions merged from several maps
func Latest(versions Versions) *Version {
	var latest *Version
	for _, v := range versions {
		if nil == latest || newer(v, latest) {
			latest = v
		}
	}
	return latest
}

func newer(a *Version, b *Version) bool {
	if a.Timestamp != b.Timestamp {
		return a.Timestamp > b.Timestamp
	}
	return a.Sequence > b.Sequence
}

func one(log *logger.L, b *scanner.Bucket, options Options) *Version {
	complete := b.Complete()
	if options.Strict && !complete {
		log.Warnf("timestamp: %d  discard incomplete: %d of %d chunks", b.Timestamp, len(b.Chunks), b.Count)
		return nil
	}

	payload := b.Merge()

	v := &Version{
		Timestamp: b.Timestamp,
		DType:     b.DType,
		Complete:  complete,
		Sequence:  b.Sequence,
	}

	if "" != options.EncryptionKey {
		plaintext, err := encrypt.Decrypt(options.EncryptionKey, payload)
		if nil != err {
			log.Debugf("timestamp: %d  not decrypted: %s", b.Timestamp, err)
			v.DType = record.DTypeText
			v.Value = record.Text(payload)
			return v
		}
		payload = plaintext
		v.Decrypted = true
	}

	value, err := record.Decode(b.DType, payload)
	if nil != err {
		log.Warnf("timestamp: %d  discard undecodable %s: %s", b.Timestamp, b.DType, err)
		return nil
	}
	v.Value = value

	return v
}
