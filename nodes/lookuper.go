// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nodes

import (
	"strings"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/haadb/fault"
)

// Lookuper - interface to lookup DNS record
type Lookuper interface {
	Lookup(string) ([]string, error)
}

type lookuper struct {
	log *logger.L
	f   func(string) ([]string, error)
}

// NewLookuper - new Lookuper interface
func NewLookuper(log *logger.L, f func(string) ([]string, error)) Lookuper {
	return &lookuper{
		log: log,
		f:   f,
	}
}

// Lookup - query DNS TXT records and return the node URLs
func (l *lookuper) Lookup(domainName string) ([]string, error) {
	log := l.log
	if "" == domainName {
		log.Error("invalid node domain")
		return nil, fault.InvalidNodeDomain
	}

	txts, err := l.f(domainName)
	if nil != err {
		log.Errorf("lookup TXT record error: %s", err)
		return nil, err
	}

	result := make([]string, 0, len(txts))
	for i, t := range txts {
		t = strings.TrimSpace(t)
		u, err := Parse(t)
		if nil != err {
			log.Debugf("ignore TXT[%d]: %q  error: %s", i, t, err)
			continue
		}
		log.Infof("result[%d]: node: %s", i, u)
		result = append(result, u)
	}

	return result, nil
}
