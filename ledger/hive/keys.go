// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hive

import (
	"bytes"
	"crypto/sha256"
	"strings"

	"github.com/btcsuite/btcd/btcec"
	"github.com/mr-tron/base58"
	"golang.org/x/crypto/ripemd160"

	"github.com/bitmark-inc/haadb/fault"
)

const (
	wifVersion      = 0x80
	checksumLength  = 4
	privateKeySize  = 32
	publicKeyPrefix = "STM"
)

// PrivateKey - a signing key decoded from WIF text
type PrivateKey struct {
	key *btcec.PrivateKey
}

// ParseWIF - decode wallet import format text
//
// 0x80 ‖ key ‖ [0x01] ‖ first 4 bytes of double SHA256
func ParseWIF(wif string) (*PrivateKey, error) {
	buffer, err := base58.Decode(strings.TrimSpace(wif))
	if nil != err {
		return nil, fault.InvalidWIF
	}

	n := len(buffer)
	if n != 1+privateKeySize+checksumLength && n != 2+privateKeySize+checksumLength {
		return nil, fault.InvalidWIF
	}
	if wifVersion != buffer[0] {
		return nil, fault.InvalidWIF
	}
	body := buffer[:n-checksumLength]
	if !bytes.Equal(doubleSHA256(body)[:checksumLength], buffer[n-checksumLength:]) {
		return nil, fault.ChecksumMismatch
	}

	key, _ := btcec.PrivKeyFromBytes(btcec.S256(), body[1:1+privateKeySize])
	return &PrivateKey{key: key}, nil
}

// NewPrivateKey - a random key
func NewPrivateKey() (*PrivateKey, error) {
	key, err := btcec.NewPrivateKey(btcec.S256())
	if nil != err {
		return nil, err
	}
	return &PrivateKey{key: key}, nil
}

// WIF - wallet import format text
func (k *PrivateKey) WIF() string {
	body := make([]byte, 0, 1+privateKeySize+checksumLength)
	body = append(body, wifVersion)
	body = append(body, paddedKey(k.key)...)
	body = append(body, doubleSHA256(body)[:checksumLength]...)
	return base58.Encode(body)
}

// PublicKey - the text form of the matching public key
func (k *PrivateKey) PublicKey() string {
	return PublicKeyString(k.key.PubKey())
}

// PublicKeyString - "STM" ‖ base58(compressed key ‖ RIPEMD160 checksum)
func PublicKeyString(key *btcec.PublicKey) string {
	compressed := key.SerializeCompressed()
	return publicKeyPrefix + base58.Encode(append(compressed, ripemd(compressed)[:checksumLength]...))
}

// ParsePublicKey - decode the text form of a public key
func ParsePublicKey(s string) (*btcec.PublicKey, error) {
	if !strings.HasPrefix(s, publicKeyPrefix) {
		return nil, fault.InvalidPublicKey
	}
	buffer, err := base58.Decode(s[len(publicKeyPrefix):])
	if nil != err || btcec.PubKeyBytesLenCompressed+checksumLength != len(buffer) {
		return nil, fault.InvalidPublicKey
	}
	compressed := buffer[:btcec.PubKeyBytesLenCompressed]
	if !bytes.Equal(ripemd(compressed)[:checksumLength], buffer[btcec.PubKeyBytesLenCompressed:]) {
		return nil, fault.ChecksumMismatch
	}
	key, err := btcec.ParsePubKey(compressed, btcec.S256())
	if nil != err {
		return nil, fault.InvalidPublicKey
	}
	return key, nil
}

// D is a big.Int, so short keys lose their leading zeros
func paddedKey(key *btcec.PrivateKey) []byte {
	b := key.D.Bytes()
	padded := make([]byte, privateKeySize)
	copy(padded[privateKeySize-len(b):], b)
	return padded
}

func doubleSHA256(b []byte) []byte {
	first := sha256.Sum256(b)
	second := sha256.Sum256(first[:])
	return second[:]
}

func ripemd(b []byte) []byte {
	h := ripemd160.New()
	h.Write(b)
	return h.Sum(nil)
}
