// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package scanner - collect the records of a contract from account history
package scanner

import (
	"context"
	"fmt"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ledger"
	"github.com/bitmark-inc/haadb/record"
)

// PageSize - history entries per read
const PageSize = ledger.MaximumPage

// RetryPolicy - how a failing page read is repeated
//
// Retries = 0 repeats forever (until the context ends)
type RetryPolicy struct {
	Retries        int
	Backoff        time.Duration
	MaximumBackoff time.Duration
}

// DefaultRetryPolicy - used when no policy is configured
var DefaultRetryPolicy = RetryPolicy{
	Retries:        5,
	Backoff:        500 * time.Millisecond,
	MaximumBackoff: 8 * time.Second,
}

// Scanner - reads the history of one account
type Scanner struct {
	log     *logger.L
	gateway ledger.Gateway
	account string
	retry   RetryPolicy
}

// New - create a scanner for an account
func New(log *logger.L, gateway ledger.Gateway, account string, retry RetryPolicy) (*Scanner, error) {
	if retry.Retries < 0 || retry.Backoff < 0 || retry.MaximumBackoff < retry.Backoff {
		return nil, fault.InvalidRetryPolicy
	}
	return &Scanner{
		log:     log,
		gateway: gateway,
		account: account,
		retry:   retry,
	}, nil
}

// Scan - group every record of contractId into version buckets
//
// the newest page is read first to find the top of the history, then
// pages from start upwards until past the top
func (s *Scanner) Scan(ctx context.Context, contractId string, start int64) (Buckets, error) {
	log := s.log
	buckets := make(Buckets)

	entries, err := s.page(ctx, ledger.Latest)
	if nil != err {
		return nil, err
	}

	top := int64(PageSize)
	for _, e := range entries {
		if e.Sequence > top {
			top = e.Sequence
		}
	}
	top += PageSize

	s.fold(buckets, contractId, entries)

	log.Debugf("scan: %q  start: %d  top: %d", contractId, start, top)

	for from := start; ; {
		entries, err := s.page(ctx, from)
		if nil != err {
			return nil, err
		}
		s.fold(buckets, contractId, entries)

		from += PageSize
		if from > top {
			break
		}
	}

	log.Infof("scan: %q  versions: %d", contractId, len(buckets))
	return buckets, nil
}

// read one page, repeating on failure
func (s *Scanner) page(ctx context.Context, from int64) ([]ledger.HistoryEntry, error) {
	log := s.log
	delay := s.retry.Backoff

	for attempt := 1; ; attempt += 1 {
		entries, err := s.gateway.History(ctx, s.account, from, PageSize)
		if nil == err {
			log.Debugf("page: %d  entries: %d", from, len(entries))
			return entries, nil
		}

		if nil != ctx.Err() {
			return nil, ctx.Err()
		}
		if fault.IsErrInvalid(err) {
			return nil, err
		}
		if s.retry.Retries > 0 && attempt > s.retry.Retries {
			log.Errorf("page: %d  giving up after %d attempts: %s", from, attempt, err)
			return nil, fmt.Errorf("%w: page %d: %s", fault.HistoryUnavailable, from, err)
		}

		log.Warnf("page: %d  attempt: %d  error: %s", from, attempt, err)

		if err := wait(ctx, delay); nil != err {
			return nil, err
		}
		delay *= 2
		if delay > s.retry.MaximumBackoff {
			delay = s.retry.MaximumBackoff
		}
	}
}

func (s *Scanner) fold(buckets Buckets, contractId string, entries []ledger.HistoryEntry) {
	log := s.log

	for _, e := range entries {
		if !e.IsCustomData(contractId) {
			continue
		}

		r, err := record.Parse([]byte(e.Operation.JSON))
		if fault.NotProtocolRecord == err {
			continue
		}
		if nil != err {
			log.Warnf("seq: %d  skip malformed record: %s", e.Sequence, err)
			continue
		}

		index, count, err := r.Index()
		if nil != err {
			log.Warnf("seq: %d  skip record batch: %v  error: %s", e.Sequence, r.Batch, err)
			continue
		}

		if !buckets.add(r, index, count, e.Sequence) {
			log.Warnf("seq: %d  timestamp: %d  conflicting record: dtype: %s  batch: %d/%d", e.Sequence, r.Timestamp, r.DType, index, count)
			continue
		}
		log.Debugf("seq: %d  timestamp: %d  chunk: %d/%d", e.Sequence, r.Timestamp, index, count)
	}
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
