// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"strings"

	"github.com/bitmark-inc/haadb/fault"
)

// Authority - which credential signs a write
type Authority int

// the two mutually exclusive authorities
const (
	Posting Authority = iota + 1
	Active
)

const (
	maximumContractIdLength = 32
	maximumAccountLength    = 16
	minimumAccountLength    = 3
)

// ParseAuthority - from configuration or command line text
func ParseAuthority(s string) (Authority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "posting":
		return Posting, nil
	case "active":
		return Active, nil
	default:
		return 0, fault.InvalidAuthority
	}
}

// Valid - true for Posting or Active
func (a Authority) Valid() bool {
	return Posting == a || Active == a
}

// String - for the fmt package
func (a Authority) String() string {
	switch a {
	case Posting:
		return "posting"
	case Active:
		return "active"
	default:
		return "invalid"
	}
}

// Auths - split the signer into the active and posting lists of an
// operation; exactly one of them holds the account
func (a Authority) Auths(account string) ([]string, []string, error) {
	switch a {
	case Posting:
		return []string{}, []string{account}, nil
	case Active:
		return []string{account}, []string{}, nil
	default:
		return nil, nil, fault.InvalidAuthority
	}
}

// CheckContractId - 1 to 32 characters of lower case letters, digits,
// dash or underscore
func CheckContractId(contractId string) error {
	if 0 == len(contractId) || len(contractId) > maximumContractIdLength {
		return fault.InvalidContractId
	}
	for _, c := range contractId {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case '-' == c || '_' == c:
		default:
			return fault.InvalidContractId
		}
	}
	return nil
}

// CheckAccount - ledger account names are 3 to 16 characters of lower
// case letters, digits, dash or dot
func CheckAccount(account string) error {
	if len(account) < minimumAccountLength || len(account) > maximumAccountLength {
		return fault.InvalidAccount
	}
	for _, c := range account {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case '-' == c || '.' == c:
		default:
			return fault.InvalidAccount
		}
	}
	return nil
}
