// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hive

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/btcsuite/btcd/btcec"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ledger"
)

const (
	// HiveChainId - main net chain id
	HiveChainId = "beeab0de00000000000000000000000000000000000000000000000000000000"

	customJSONOperationId = 18
	expirationDelay       = 60 * time.Second
	timeLayout            = "2006-01-02T15:04:05"
	txIdLength            = 20

	// a deterministic signer gives the same signature for the same
	// digest, so the expiration is moved to change it
	maximumSignAttempts = 1000
)

// Transaction - a single operation transaction
type Transaction struct {
	RefBlockNum    uint16
	RefBlockPrefix uint32
	Expiration     time.Time
	Operation      ledger.Operation
}

// marshalled form for broadcast
type transactionJSON struct {
	RefBlockNum    uint16          `json:"ref_block_num"`
	RefBlockPrefix uint32          `json:"ref_block_prefix"`
	Expiration     string          `json:"expiration"`
	Operations     [][]interface{} `json:"operations"`
	Extensions     []interface{}   `json:"extensions"`
	Signatures     []string        `json:"signatures"`
}

type customJSONBody struct {
	RequiredAuths        []string `json:"required_auths"`
	RequiredPostingAuths []string `json:"required_posting_auths"`
	Id                   string   `json:"id"`
	JSON                 string   `json:"json"`
}

// NewTransaction - reference a recent block and expire shortly after it
func NewTransaction(properties *DynamicGlobalProperties, operation ledger.Operation) (*Transaction, error) {
	blockId, err := hex.DecodeString(properties.HeadBlockId)
	if nil != err || len(blockId) < 8 {
		return nil, fault.InvalidHex
	}
	head, err := time.Parse(timeLayout, properties.Time)
	if nil != err {
		return nil, fault.InvalidPayload
	}

	return &Transaction{
		RefBlockNum:    uint16(properties.HeadBlockNumber & 0xffff),
		RefBlockPrefix: binary.LittleEndian.Uint32(blockId[4:8]),
		Expiration:     head.Add(expirationDelay),
		Operation:      operation,
	}, nil
}

// Serialise - binary form used for the digest and the id
func (tx *Transaction) Serialise() []byte {
	buffer := new(bytes.Buffer)

	var b [8]byte
	binary.LittleEndian.PutUint16(b[:2], tx.RefBlockNum)
	buffer.Write(b[:2])
	binary.LittleEndian.PutUint32(b[:4], tx.RefBlockPrefix)
	buffer.Write(b[:4])
	binary.LittleEndian.PutUint32(b[:4], uint32(tx.Expiration.Unix()))
	buffer.Write(b[:4])

	// one operation
	writeVarint(buffer, 1)
	writeVarint(buffer, customJSONOperationId)
	writeStrings(buffer, tx.Operation.RequiredAuths)
	writeStrings(buffer, tx.Operation.RequiredPostingAuths)
	writeString(buffer, tx.Operation.Id)
	writeString(buffer, tx.Operation.JSON)

	// no extensions
	writeVarint(buffer, 0)

	return buffer.Bytes()
}

// Id - first 20 bytes of SHA256 of the serialised transaction
func (tx *Transaction) Id() string {
	digest := sha256.Sum256(tx.Serialise())
	return hex.EncodeToString(digest[:txIdLength])
}

// Digest - the hash that is signed
func (tx *Transaction) Digest(chainId []byte) []byte {
	h := sha256.New()
	h.Write(chainId)
	h.Write(tx.Serialise())
	return h.Sum(nil)
}

// Sign - compact canonical signature
//
// the expiration is advanced one second at a time until the signature
// is canonical
func (tx *Transaction) Sign(chainId []byte, key *PrivateKey) ([]byte, error) {
	for i := 0; i < maximumSignAttempts; i += 1 {
		signature, err := btcec.SignCompact(btcec.S256(), key.key, tx.Digest(chainId), true)
		if nil != err {
			return nil, err
		}
		if isCanonical(signature) {
			return signature, nil
		}
		tx.Expiration = tx.Expiration.Add(time.Second)
	}
	return nil, fault.NonCanonicalSignature
}

// JSON - broadcast form carrying the signature
func (tx *Transaction) JSON(signature []byte) interface{} {
	auths := tx.Operation.RequiredAuths
	if nil == auths {
		auths = []string{}
	}
	posting := tx.Operation.RequiredPostingAuths
	if nil == posting {
		posting = []string{}
	}
	return &transactionJSON{
		RefBlockNum:    tx.RefBlockNum,
		RefBlockPrefix: tx.RefBlockPrefix,
		Expiration:     tx.Expiration.UTC().Format(timeLayout),
		Operations: [][]interface{}{
			{
				ledger.CustomJSON,
				&customJSONBody{
					RequiredAuths:        auths,
					RequiredPostingAuths: posting,
					Id:                   tx.Operation.Id,
					JSON:                 tx.Operation.JSON,
				},
			},
		},
		Extensions: []interface{}{},
		Signatures: []string{hex.EncodeToString(signature)},
	}
}

// both r and s must be short positive values
func isCanonical(c []byte) bool {
	if 65 != len(c) {
		return false
	}
	return 0 == c[1]&0x80 &&
		!(0 == c[1] && 0 == c[2]&0x80) &&
		0 == c[33]&0x80 &&
		!(0 == c[33] && 0 == c[34]&0x80)
}

func writeVarint(buffer *bytes.Buffer, n uint64) {
	var b [binary.MaxVarintLen64]byte
	l := binary.PutUvarint(b[:], n)
	buffer.Write(b[:l])
}

func writeString(buffer *bytes.Buffer, s string) {
	writeVarint(buffer, uint64(len(s)))
	buffer.WriteString(s)
}

func writeStrings(buffer *bytes.Buffer, list []string) {
	writeVarint(buffer, uint64(len(list)))
	for _, s := range list {
		writeString(buffer, s)
	}
}
