// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package hive

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	propertiesKey      = "dgp"
	propertiesLifetime = 3 * time.Second
	cacheCleanup       = time.Minute
)

// DynamicGlobalProperties - the fields needed to build a transaction
type DynamicGlobalProperties struct {
	HeadBlockNumber uint32 `json:"head_block_number"`
	HeadBlockId     string `json:"head_block_id"`
	Time            string `json:"time"`
}

func newPropertiesCache() *cache.Cache {
	return cache.New(propertiesLifetime, cacheCleanup)
}

// properties - cached so the chunks of one write share a reference block
func (g *Gateway) properties(ctx context.Context) (*DynamicGlobalProperties, error) {
	if p, ok := g.cache.Get(propertiesKey); ok {
		return p.(*DynamicGlobalProperties), nil
	}

	p := &DynamicGlobalProperties{}
	err := g.client.call(ctx, "condenser_api.get_dynamic_global_properties", []interface{}{}, p)
	if nil != err {
		return nil, err
	}

	g.log.Debugf("head block: %d  id: %s  time: %s", p.HeadBlockNumber, p.HeadBlockId, p.Time)

	g.cache.SetDefault(propertiesKey, p)
	return p, nil
}
