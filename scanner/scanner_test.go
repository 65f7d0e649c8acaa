// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scanner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/fixtures"
	"github.com/bitmark-inc/haadb/ledger"
	"github.com/bitmark-inc/haadb/ledger/mocks"
	"github.com/bitmark-inc/haadb/record"
	"github.com/bitmark-inc/haadb/scanner"
)

var fastRetry = scanner.RetryPolicy{
	Retries:        3,
	Backoff:        time.Millisecond,
	MaximumBackoff: 4 * time.Millisecond,
}

func custom(sequence int64, contractId string, json string) ledger.HistoryEntry {
	return ledger.HistoryEntry{
		Sequence: sequence,
		Operation: ledger.Operation{
			Type: ledger.CustomJSON,
			Id:   contractId,
			JSON: json,
		},
	}
}

func history() []ledger.HistoryEntry {
	return []ledger.HistoryEntry{
		{Sequence: 0, Operation: ledger.Operation{Type: "vote"}},
		custom(1, fixtures.ContractId, `{"haadb":"1.0.0","timestamp":100,"batch":[2,2],"dtype":"str","data":"world"}`),
		custom(2, "other-contract", `{"haadb":"1.0.0","timestamp":100,"batch":[1,2],"dtype":"str","data":"intruder "}`),
		custom(3, fixtures.ContractId, `{"app":"unrelated","timestamp":100}`),
		custom(4, fixtures.ContractId, `{"haadb":"1.0.0","timestamp":100,"batch":[1,2],"dtype":"str","data":"hello "}`),
		custom(5, fixtures.ContractId, `{"haadb":"1.0.0","timestamp":200,"dtype":"int","data":"42"}`),
		custom(6, fixtures.ContractId, `{"haadb":"1.0.0","timestamp":300,"batch":[1,3],"dtype":"str","data":"part"}`),
		custom(7, fixtures.ContractId, `not json`),
		custom(8, fixtures.ContractId, `{"haadb":"1.0.0","timestamp":300,"batch":[4,3],"dtype":"str","data":"bad"}`),
		custom(9, fixtures.ContractId, `{"haadb":"1.0.0","timestamp":300,"batch":[2,5],"dtype":"str","data":"conflict"}`),
	}
}

func newScanner(t *testing.T, gateway ledger.Gateway, retry scanner.RetryPolicy) *scanner.Scanner {
	s, err := scanner.New(logger.New(fixtures.LogCategory), gateway, fixtures.Account, retry)
	require.Nil(t, err, "new scanner")
	return s
}

func TestScanGroupsRecords(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	g := mocks.NewMockGateway(ctl)
	gomock.InOrder(
		g.EXPECT().History(gomock.Any(), fixtures.Account, ledger.Latest, scanner.PageSize).Return(history(), nil).Times(1),
		g.EXPECT().History(gomock.Any(), fixtures.Account, int64(1000), scanner.PageSize).Return(history(), nil).Times(1),
		g.EXPECT().History(gomock.Any(), fixtures.Account, int64(2000), scanner.PageSize).Return(nil, nil).Times(1),
	)

	buckets, err := newScanner(t, g, fastRetry).Scan(context.Background(), fixtures.ContractId, 1000)
	require.Nil(t, err, "scan")
	require.Equal(t, 3, len(buckets), "wrong version count")

	b := buckets[100]
	require.NotNil(t, b, "missing version 100")
	assert.Equal(t, 2, b.Count, "wrong count")
	assert.Equal(t, record.DTypeText, b.DType, "wrong dtype")
	assert.True(t, b.Complete(), "version 100 incomplete")
	assert.Equal(t, "hello world", string(b.Merge()), "wrong merge")
	assert.Equal(t, int64(4), b.Sequence, "wrong sequence")

	b = buckets[200]
	require.NotNil(t, b, "missing version 200")
	assert.Equal(t, 1, b.Count, "absent batch is not [1,1]")
	assert.Equal(t, map[int]string{1: "42"}, b.Chunks, "wrong chunks")

	b = buckets[300]
	require.NotNil(t, b, "missing version 300")
	assert.False(t, b.Complete(), "partial version complete")
	assert.Equal(t, map[int]string{1: "part"}, b.Chunks, "wrong chunks")
	assert.Equal(t, 2, b.Conflicts, "conflict not counted")
}

func TestScanIsolation(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	g := mocks.NewMockGateway(ctl)
	g.EXPECT().History(gomock.Any(), fixtures.Account, gomock.Any(), scanner.PageSize).Return(history(), nil).AnyTimes()

	buckets, err := newScanner(t, g, fastRetry).Scan(context.Background(), "other-contract", 1000)
	require.Nil(t, err, "scan")
	require.Equal(t, 1, len(buckets), "wrong version count")
	assert.Equal(t, map[int]string{1: "intruder "}, buckets[100].Chunks, "foreign records leaked")
}

func TestScanLaterDuplicateWins(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	page := []ledger.HistoryEntry{
		custom(10, fixtures.ContractId, `{"haadb":"1.0.0","timestamp":5,"dtype":"str","data":"first"}`),
		custom(11, fixtures.ContractId, `{"haadb":"1.0.0","timestamp":5,"dtype":"str","data":"second"}`),
	}

	g := mocks.NewMockGateway(ctl)
	g.EXPECT().History(gomock.Any(), fixtures.Account, ledger.Latest, scanner.PageSize).Return(page, nil).Times(1)
	g.EXPECT().History(gomock.Any(), fixtures.Account, int64(1000), scanner.PageSize).Return(nil, nil).Times(1)
	g.EXPECT().History(gomock.Any(), fixtures.Account, int64(2000), scanner.PageSize).Return(nil, nil).Times(1)

	buckets, err := newScanner(t, g, fastRetry).Scan(context.Background(), fixtures.ContractId, 1000)
	require.Nil(t, err, "scan")
	assert.Equal(t, "second", buckets[5].Chunks[1], "earlier duplicate kept")
}

func TestScanPagesToTop(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	newest := []ledger.HistoryEntry{{Sequence: 4321, Operation: ledger.Operation{Type: "transfer"}}}

	g := mocks.NewMockGateway(ctl)
	gomock.InOrder(
		g.EXPECT().History(gomock.Any(), fixtures.Account, ledger.Latest, scanner.PageSize).Return(newest, nil),
		g.EXPECT().History(gomock.Any(), fixtures.Account, int64(3000), scanner.PageSize).Return(nil, nil),
		g.EXPECT().History(gomock.Any(), fixtures.Account, int64(4000), scanner.PageSize).Return(nil, nil),
		g.EXPECT().History(gomock.Any(), fixtures.Account, int64(5000), scanner.PageSize).Return(nil, nil),
	)

	_, err := newScanner(t, g, fastRetry).Scan(context.Background(), fixtures.ContractId, 3000)
	assert.Nil(t, err, "scan")
}

func TestScanRetriesSamePage(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	failure := errors.New("connection reset")

	g := mocks.NewMockGateway(ctl)
	gomock.InOrder(
		g.EXPECT().History(gomock.Any(), fixtures.Account, ledger.Latest, scanner.PageSize).Return(nil, nil),
		g.EXPECT().History(gomock.Any(), fixtures.Account, int64(1000), scanner.PageSize).Return(nil, failure).Times(2),
		g.EXPECT().History(gomock.Any(), fixtures.Account, int64(1000), scanner.PageSize).Return(history(), nil),
		g.EXPECT().History(gomock.Any(), fixtures.Account, int64(2000), scanner.PageSize).Return(nil, nil),
	)

	buckets, err := newScanner(t, g, fastRetry).Scan(context.Background(), fixtures.ContractId, 1000)
	require.Nil(t, err, "scan")
	assert.Equal(t, 3, len(buckets), "page lost after retry")
}

func TestScanGivesUp(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	g := mocks.NewMockGateway(ctl)
	g.EXPECT().History(gomock.Any(), fixtures.Account, ledger.Latest, scanner.PageSize).Return(nil, errors.New("node down")).Times(fastRetry.Retries + 1)

	_, err := newScanner(t, g, fastRetry).Scan(context.Background(), fixtures.ContractId, 1000)
	assert.True(t, fault.IsErrGateway(err), "wrong error: %v", err)
}

func TestScanDoesNotRetryInvalid(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	g := mocks.NewMockGateway(ctl)
	g.EXPECT().History(gomock.Any(), fixtures.Account, ledger.Latest, scanner.PageSize).Return(nil, fault.InvalidAccount).Times(1)

	_, err := newScanner(t, g, fastRetry).Scan(context.Background(), fixtures.ContractId, 1000)
	assert.Equal(t, fault.InvalidAccount, err, "wrong error")
}

func TestScanUnboundedStopsOnCancel(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	forever := scanner.RetryPolicy{
		Retries:        0,
		Backoff:        time.Millisecond,
		MaximumBackoff: time.Millisecond,
	}

	g := mocks.NewMockGateway(ctl)
	g.EXPECT().History(gomock.Any(), fixtures.Account, ledger.Latest, scanner.PageSize).Return(nil, errors.New("node down")).MinTimes(2)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newScanner(t, g, forever).Scan(ctx, fixtures.ContractId, 1000)
	assert.Equal(t, context.DeadlineExceeded, err, "wrong error")
}

func TestNewRejectsPolicy(t *testing.T) {
	bad := []scanner.RetryPolicy{
		{Retries: -1},
		{Backoff: -time.Second},
		{Backoff: time.Second, MaximumBackoff: time.Millisecond},
	}
	for i, p := range bad {
		_, err := scanner.New(nil, nil, fixtures.Account, p)
		assert.Equal(t, fault.InvalidRetryPolicy, err, "%d: accepted policy", i)
	}
}
