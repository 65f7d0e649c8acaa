// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package nodes

import (
	"net/url"
	"strings"

	"github.com/bitmark-inc/haadb/fault"
)

var supportedTags = map[string]struct{}{
	"hive=v1": {},
}

// Parse - decode a DNS TXT record of the form
//
//   <TAG> url=<API NODE URL>
//
// exactly one url item is required, other items are ignored
func Parse(s string) (string, error) {
	nodeURL := ""
	count := 0

words:
	for i, w := range strings.Split(strings.TrimSpace(s), " ") {
		if 0 == i {
			if _, ok := supportedTags[w]; ok {
				continue words
			}
			return "", fault.InvalidDnsTxtRecord
		}

		// ignore empty
		if "" == w {
			continue words
		}

		n := strings.IndexByte(w, '=')
		if n < 1 || n == len(w)-1 {
			return "", fault.InvalidDnsTxtRecord
		}

		if "url" == w[:n] {
			nodeURL = w[n+1:]
			count += 1
		}
	}

	if 1 != count {
		return "", fault.InvalidDnsTxtRecord
	}
	if err := CheckURL(nodeURL); nil != err {
		return "", err
	}
	return nodeURL, nil
}

// CheckURL - an absolute http or https URL with a host
func CheckURL(s string) error {
	u, err := url.Parse(s)
	if nil != err {
		return fault.InvalidNodeURL
	}
	if ("https" != u.Scheme && "http" != u.Scheme) || "" == u.Host {
		return fault.InvalidNodeURL
	}
	return nil
}
