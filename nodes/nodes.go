// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package nodes - the API node list of a ledger
//
// nodes come from the configuration or from DNS TXT records of a
// nodes domain, one node per record:
//
//   hive=v1 url=https://api.example.com
package nodes

import (
	"net"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/haadb/fault"
)

// Static - validate a configured node list
func Static(urls []string) ([]string, error) {
	if 0 == len(urls) {
		return nil, fault.MissingNodes
	}
	result := make([]string, 0, len(urls))
	for _, u := range urls {
		if err := CheckURL(u); nil != err {
			return nil, err
		}
		result = append(result, u)
	}
	return result, nil
}

// Resolve - the configured nodes followed by those of the nodes domain
//
// duplicates are removed, at least one node must remain
func Resolve(log *logger.L, urls []string, domain string, f func(string) ([]string, error)) ([]string, error) {
	result := make([]string, 0, len(urls))
	seen := make(map[string]struct{})

	add := func(list []string) {
		for _, u := range list {
			if _, ok := seen[u]; ok {
				continue
			}
			seen[u] = struct{}{}
			result = append(result, u)
		}
	}

	if 0 != len(urls) {
		static, err := Static(urls)
		if nil != err {
			return nil, err
		}
		add(static)
	}

	if "" != domain {
		if nil == f {
			f = net.LookupTXT
		}
		found, err := NewLookuper(log, f).Lookup(domain)
		if nil != err && 0 == len(result) {
			return nil, err
		}
		add(found)
	}

	if 0 == len(result) {
		return nil, fault.MissingNodes
	}
	return result, nil
}
