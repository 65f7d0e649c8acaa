// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hive

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/ledger"
)

// defaults for a zero configuration value
const (
	DefaultTimeout   = 10 * time.Second
	DefaultRetries   = 3
	DefaultRateLimit = 10
)

// Configuration - gateway settings
type Configuration struct {
	Account    string
	ChainId    string // hex, empty for HiveChainId
	Nodes      []string
	PostingWIF string
	ActiveWIF  string
	Timeout    time.Duration
	Retries    int
	RateLimit  float64 // requests per second
}

// Gateway - access to Hive through API nodes
type Gateway struct {
	log     *logger.L
	client  *client
	cache   *cache.Cache
	account string
	chainId []byte
	keys    map[ledger.Authority]*PrivateKey
}

// ensure the gateway satisfies the interface
var _ ledger.Gateway = &Gateway{}

// New - create a gateway; keys are optional for read only use
func New(log *logger.L, configuration Configuration) (*Gateway, error) {
	if err := ledger.CheckAccount(configuration.Account); nil != err {
		return nil, err
	}
	if 0 == len(configuration.Nodes) {
		return nil, fault.MissingNodes
	}

	chainIdText := configuration.ChainId
	if "" == chainIdText {
		chainIdText = HiveChainId
	}
	chainId, err := hex.DecodeString(chainIdText)
	if nil != err || 32 != len(chainId) {
		return nil, fault.InvalidChain
	}

	keys := make(map[ledger.Authority]*PrivateKey)
	for authority, wif := range map[ledger.Authority]string{
		ledger.Posting: configuration.PostingWIF,
		ledger.Active:  configuration.ActiveWIF,
	} {
		if "" == wif {
			continue
		}
		key, err := ParseWIF(wif)
		if nil != err {
			return nil, err
		}
		keys[authority] = key
		log.Infof("%s key: %s", authority, key.PublicKey())
	}

	timeout := configuration.Timeout
	if 0 == timeout {
		timeout = DefaultTimeout
	}
	retries := configuration.Retries
	if retries <= 0 {
		retries = DefaultRetries
	}
	perSecond := configuration.RateLimit
	if 0 == perSecond {
		perSecond = DefaultRateLimit
	}

	return &Gateway{
		log:     log,
		client:  newClient(log, configuration.Nodes, timeout, retries, perSecond),
		cache:   newPropertiesCache(),
		account: configuration.Account,
		chainId: chainId,
		keys:    keys,
	}, nil
}

// SetNodes - replace the API node list, e.g. from a DNS refresh
func (g *Gateway) SetNodes(nodes []string) {
	g.client.SetNodes(nodes)
}

// PublicKeys - text form of the configured keys by authority name
func (g *Gateway) PublicKeys() map[string]string {
	result := make(map[string]string, len(g.keys))
	for authority, key := range g.keys {
		result[authority.String()] = key.PublicKey()
	}
	return result
}

type broadcastResult struct {
	Id       string `json:"id"`
	BlockNum uint64 `json:"block_num"`
	TrxNum   int    `json:"trx_num"`
	Expired  bool   `json:"expired"`
}

// Append - sign and broadcast one custom_json operation
func (g *Gateway) Append(ctx context.Context, contractId string, payload []byte, authority ledger.Authority) (*ledger.Receipt, error) {
	log := g.log

	if err := ledger.CheckContractId(contractId); nil != err {
		return nil, err
	}
	active, posting, err := authority.Auths(g.account)
	if nil != err {
		return nil, err
	}
	key, ok := g.keys[authority]
	if !ok {
		return nil, fault.MissingCredential
	}

	properties, err := g.properties(ctx)
	if nil != err {
		return nil, err
	}

	tx, err := NewTransaction(properties, ledger.Operation{
		Type:                 ledger.CustomJSON,
		Id:                   contractId,
		JSON:                 string(payload),
		RequiredAuths:        active,
		RequiredPostingAuths: posting,
	})
	if nil != err {
		return nil, err
	}

	signature, err := tx.Sign(g.chainId, key)
	if nil != err {
		return nil, err
	}

	result := &broadcastResult{}
	err = g.client.call(ctx, "condenser_api.broadcast_transaction_synchronous", []interface{}{tx.JSON(signature)}, result)
	if nil != err {
		return nil, err
	}

	txId := result.Id
	if "" == txId {
		txId = tx.Id()
	}

	log.Infof("append: %q  tx: %s  block: %d", contractId, txId, result.BlockNum)

	return &ledger.Receipt{
		TxId:  txId,
		Block: result.BlockNum,
	}, nil
}
