// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package encrypt

import (
	"crypto/rand"
	"encoding/base64"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/bitmark-inc/haadb/fault"
)

const (
	keySize   = 32
	nonceSize = 24
)

// argon2id parameters for passphrase keys
const (
	argonTime    = 3
	argonMemory  = 1 << 16
	argonThreads = 4
)

var encoding = base64.URLEncoding

// GenerateKey - a new random key as text
func GenerateKey() (string, error) {
	var key [keySize]byte
	if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
		return "", err
	}
	return encoding.EncodeToString(key[:]), nil
}

// DeriveKey - key text from a passphrase and salt
//
// the same passphrase and salt always produce the same key
func DeriveKey(passphrase string, salt *Salt) (string, error) {
	if nil == salt {
		return "", fault.InvalidSalt
	}
	key := argon2.IDKey([]byte(passphrase), salt.Bytes(), argonTime, argonMemory, argonThreads, keySize)
	return encoding.EncodeToString(key), nil
}

// Encrypt - seal plaintext and return the printable token
func Encrypt(keyText string, plaintext []byte) ([]byte, error) {
	key, err := loadKey(keyText)
	if err != nil {
		return nil, err
	}

	// a random 192 bit nonce per message has a negligible chance of repeating
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return nil, fault.EncryptionFailed
	}

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, key)

	token := make([]byte, encoding.EncodedLen(len(sealed)))
	encoding.Encode(token, sealed)
	return token, nil
}

// Decrypt - open a token produced by Encrypt
//
// fails on a bad key, a tampered token or text that was never encrypted
func Decrypt(keyText string, token []byte) ([]byte, error) {
	key, err := loadKey(keyText)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, encoding.DecodedLen(len(token)))
	n, err := encoding.Decode(sealed, token)
	if err != nil {
		return nil, fault.DecryptionFailed
	}
	sealed = sealed[:n]

	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, fault.DecryptionFailed
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, key)
	if !ok {
		return nil, fault.DecryptionFailed
	}
	return plaintext, nil
}

func loadKey(keyText string) (*[keySize]byte, error) {
	buffer, err := encoding.DecodeString(keyText)
	if err != nil || keySize != len(buffer) {
		return nil, fault.InvalidEncryptionKey
	}
	var key [keySize]byte
	copy(key[:], buffer)
	return &key, nil
}
