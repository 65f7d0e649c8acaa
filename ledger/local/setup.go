// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package local

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ledger"
)

const currentDBVersion = 0x100

// key prefixes
const (
	blockPrefix   = 'B'
	nextPrefix    = 'N'
	historyPrefix = 'H'
)

var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

// access modes for Open
const (
	ReadOnly  = true
	ReadWrite = false
)

// Ledger - LevelDB ledger for one signing account
type Ledger struct {
	sync.Mutex

	log     *logger.L
	db      *leveldb.DB
	account string
	clock   func() time.Time
}

// ensure the ledger satisfies the gateway
var _ ledger.Gateway = &Ledger{}

// Open - open or create the database
//
// account is the signer of every append
func Open(log *logger.L, database string, account string, readOnly bool) (*Ledger, error) {
	if err := ledger.CheckAccount(account); nil != err {
		return nil, err
	}

	db, version, err := getDB(database, readOnly)
	if nil != err {
		return nil, err
	}

	if 0 == version && !readOnly {
		err = putVersion(db, currentDBVersion)
		if nil != err {
			db.Close()
			return nil, err
		}
		version = currentDBVersion
	}

	if currentDBVersion != version {
		log.Criticalf("database version: %d  current version: %d", version, currentDBVersion)
		db.Close()
		return nil, fmt.Errorf("%w: %d expected: %d", fault.DatabaseVersionMismatch, version, currentDBVersion)
	}

	log.Infof("opened: %s  account: %s  read only: %t", database, account, readOnly)

	return &Ledger{
		log:     log,
		db:      db,
		account: account,
		clock:   time.Now,
	}, nil
}

// SetClock - replace the time source of appended entries
func (l *Ledger) SetClock(clock func() time.Time) {
	l.Lock()
	l.clock = clock
	l.Unlock()
}

// Close - flush and close the database
func (l *Ledger) Close() error {
	l.Lock()
	defer l.Unlock()

	if nil == l.db {
		return fault.NotStarted
	}
	err := l.db.Close()
	l.db = nil
	return err
}

func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
