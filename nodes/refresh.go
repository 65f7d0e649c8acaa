// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nodes

import (
	"net"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/miekg/dns"
)

const (
	timeInterval = 1 * time.Hour // time interval for re-fetching nodes domain
	configFile   = "/etc/resolv.conf"
)

// Refresher - background process that re-reads the nodes domain
type Refresher struct {
	log        *logger.L
	domainName string
	lookuper   Lookuper
	update     func([]string)
	interval   func() time.Duration
}

// NewRefresher - update receives each non-empty node list found
func NewRefresher(log *logger.L, domainName string, lookuper Lookuper, update func([]string)) *Refresher {
	return &Refresher{
		log:        log,
		domainName: domainName,
		lookuper:   lookuper,
		update:     update,
		interval: func() time.Duration {
			return interval(domainName, log)
		},
	}
}

// SetInterval - fixed refresh interval instead of the DNS TTL
func (r *Refresher) SetInterval(d time.Duration) {
	r.interval = func() time.Duration { return d }
}

// Run - background processing interface
func (r *Refresher) Run(_ interface{}, shutdown <-chan struct{}) {
	timer := time.After(r.interval())

loop:
	for {
		select {
		case <-timer:
			timer = time.After(r.interval())
			urls, err := r.lookuper.Lookup(r.domainName)
			if nil != err || 0 == len(urls) {
				continue loop
			}
			r.update(urls)

		case <-shutdown:
			break loop
		}
	}
}

// get interval time from the SOA TTL of the domain
func interval(domain string, log *logger.L) time.Duration {
	t := timeInterval
	var servers []string // dns name server

	// reading default configuration file
	conf, err := dns.ClientConfigFromFile(configFile)
	if nil != err {
		log.Warnf("reading %s error: %s", configFile, err)
		return t
	}

	if 0 == len(conf.Servers) {
		log.Warnf("cannot get dns name server")
		return t
	}

	servers = conf.Servers
	// limit the nameservers to lookup
	if len(servers) > 3 {
		servers = servers[:3]
	}

loop:
	for _, server := range servers {
		s := net.JoinHostPort(server, conf.Port)
		c := dns.Client{}
		msg := dns.Msg{}
		msg.SetQuestion(dns.Fqdn(domain), dns.TypeSOA)

		r, _, err := c.Exchange(&msg, s)
		if nil != err {
			log.Debugf("exchange with dns server %q error: %s", s, err)
			continue loop
		}

		for _, section := range [][]dns.RR{r.Answer, r.Ns, r.Extra} {
			ttl := ttl(section)
			if 0 < ttl {
				log.Infof("got TTL record from server %q value %d", s, ttl)
				ttlSec := time.Duration(ttl) * time.Second
				if timeInterval > ttlSec {
					t = ttlSec
				}
				break loop
			}
		}
	}

	log.Infof("time to re-fetching node domain: %v", t)
	return t
}

// get TTL from the first resource record, preferring SOA
func ttl(rrs []dns.RR) uint32 {
	for _, rr := range rrs {
		if soa, ok := rr.(*dns.SOA); ok {
			return soa.Hdr.Ttl
		}
	}
	if 0 != len(rrs) {
		return rrs[0].Header().Ttl
	}
	return 0
}
