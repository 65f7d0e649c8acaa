// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reconstruct_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/haadb/chunk"
	"github.com/bitmark-inc/haadb/encrypt"
	"github.com/bitmark-inc/haadb/fixtures"
	"github.com/bitmark-inc/haadb/reconstruct"
	"github.com/bitmark-inc/haadb/record"
	"github.com/bitmark-inc/haadb/scanner"
)

func bucket(timestamp int64, dtype record.DType, payload string, limit int, sequence int64) *scanner.Bucket {
	chunks, _ := chunk.Split([]byte(payload), limit)
	b := &scanner.Bucket{
		Timestamp: timestamp,
		Count:     len(chunks),
		DType:     dtype,
		Chunks:    make(map[int]string),
		Sequence:  sequence,
	}
	for i, c := range chunks {
		b.Chunks[i+1] = c
	}
	return b
}

func TestAllStrictAndLenient(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)

	partial := bucket(20, record.DTypeText, "abcdefghij", 4, 7)
	delete(partial.Chunks, 2)

	buckets := scanner.Buckets{
		10: bucket(10, record.DTypeText, "hello world", 4, 3),
		20: partial,
	}

	strict := reconstruct.All(log, buckets, reconstruct.Options{Strict: true})
	require.Equal(t, 1, len(strict), "partial version survived strict")
	assert.Equal(t, record.Text("hello world"), strict[10].Value, "wrong value")
	assert.True(t, strict[10].Complete, "complete flag")

	lenient := reconstruct.All(log, buckets, reconstruct.Options{Strict: false})
	require.Equal(t, 2, len(lenient), "lenient dropped a version")
	assert.Equal(t, record.Text("abcdij"), lenient[20].Value, "best effort merge")
	assert.False(t, lenient[20].Complete, "complete flag")
}

func TestAllDecodes(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)

	s, err := record.NewStructured(map[string]interface{}{"a": 1})
	require.Nil(t, err, "new structured")
	_, hexed, err := record.Encode(s)
	require.Nil(t, err, "encode")

	buckets := scanner.Buckets{
		1: bucket(1, record.DTypeInteger, "42", 100, 1),
		2: bucket(2, record.DTypeDict, string(hexed), 4, 2),
		3: bucket(3, record.DTypeInteger, "forty two", 100, 3),
		4: bucket(4, record.DType("complex"), "1+2j", 100, 4),
	}

	versions := reconstruct.All(log, buckets, reconstruct.Options{Strict: true})
	require.Equal(t, 2, len(versions), "undecodable versions survived")
	assert.Equal(t, record.Integer(42), versions[1].Value, "integer")
	assert.Equal(t, s, versions[2].Value, "structured")
}

func TestAllLenientPartialStructured(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)

	s, err := record.NewStructured(map[string]interface{}{"name": "haadb", "list": []int{1, 2, 3}})
	require.Nil(t, err, "new structured")
	_, hexed, err := record.Encode(s)
	require.Nil(t, err, "encode")

	partial := bucket(20, record.DTypeDict, string(hexed), 4, 7)
	require.True(t, partial.Count > 2, "too few chunks")
	delete(partial.Chunks, partial.Count)

	buckets := scanner.Buckets{
		10: bucket(10, record.DTypeDict, string(hexed), 4, 3),
		20: partial,
	}

	// a structured value with a gap cannot be decoded so even lenient
	// reconstruction drops it, while complete versions are kept
	lenient := reconstruct.All(log, buckets, reconstruct.Options{Strict: false})
	require.Equal(t, 1, len(lenient), "partial structured version survived")
	assert.Equal(t, s, lenient[10].Value, "complete version")
	_, ok := lenient[20]
	assert.False(t, ok, "partial version present")
}

func TestAllDecrypts(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)

	key, err := encrypt.GenerateKey()
	require.Nil(t, err, "generate key")
	token, err := encrypt.Encrypt(key, []byte("secret value"))
	require.Nil(t, err, "encrypt")

	buckets := scanner.Buckets{
		1: bucket(1, record.DTypeText, string(token), 16, 1),
		2: bucket(2, record.DTypeText, "written in clear", 16, 2),
	}

	versions := reconstruct.All(log, buckets, reconstruct.Options{Strict: true, EncryptionKey: key})
	require.Equal(t, 2, len(versions), "wrong count")

	assert.Equal(t, record.Text("secret value"), versions[1].Value, "decrypted value")
	assert.True(t, versions[1].Decrypted, "decrypted flag")

	assert.Equal(t, record.Text("written in clear"), versions[2].Value, "raw fallback")
	assert.False(t, versions[2].Decrypted, "decrypted flag")

	other, err := encrypt.GenerateKey()
	require.Nil(t, err, "generate key")
	versions = reconstruct.All(log, buckets, reconstruct.Options{Strict: true, EncryptionKey: other})
	assert.Equal(t, record.Text(token), versions[1].Value, "wrong key must return the token")
	assert.Equal(t, record.DTypeText, versions[1].DType, "token dtype")
}

func TestAllUndecryptedIsText(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	log := logger.New(fixtures.LogCategory)

	key, err := encrypt.GenerateKey()
	require.Nil(t, err, "generate key")

	s, err := record.NewStructured([]interface{}{"a", "b"})
	require.Nil(t, err, "new structured")
	_, hexed, err := record.Encode(s)
	require.Nil(t, err, "encode")

	buckets := scanner.Buckets{
		5: bucket(5, record.DTypeList, string(hexed), 100, 5),
	}

	versions := reconstruct.All(log, buckets, reconstruct.Options{Strict: true, EncryptionKey: key})
	require.Equal(t, 1, len(versions), "wrong count")
	assert.Equal(t, record.DTypeText, versions[5].DType, "dtype of raw fallback")
	assert.Equal(t, record.Text(hexed), versions[5].Value, "raw fallback")
	assert.False(t, versions[5].Decrypted, "decrypted flag")
}

func TestLatest(t *testing.T) {
	assert.Nil(t, reconstruct.Latest(reconstruct.Versions{}), "empty versions")

	versions := reconstruct.Versions{
		100: {Timestamp: 100, Value: record.Text("old"), Sequence: 9},
		300: {Timestamp: 300, Value: record.Text("new"), Sequence: 2},
		200: {Timestamp: 200, Value: record.Text("middle"), Sequence: 5},
	}
	latest := reconstruct.Latest(versions)
	require.NotNil(t, latest, "no latest")
	assert.Equal(t, record.Text("new"), latest.Value, "wrong latest")
}
