// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/record"
)

// value types accepted on the command line
const (
	typeText    = "str"
	typeInteger = "int"
	typeFloat   = "float"
	typeJSON    = "json"
	typeObject  = "object"
)

// convert command line or file data to a value
//
// json covers dict, list and bool; object stores the bytes unchanged
func parseValue(kind string, data []byte) (record.Value, error) {
	switch strings.ToLower(kind) {
	case typeText:
		return record.Text(data), nil

	case typeInteger:
		i, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
		if nil != err {
			return nil, fault.InvalidValue
		}
		return record.Integer(i), nil

	case typeFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if nil != err {
			return nil, fault.InvalidValue
		}
		return record.Float(f), nil

	case typeJSON:
		if !json.Valid(data) {
			return nil, fault.InvalidPayload
		}
		return record.NewStructured(json.RawMessage(data))

	case typeObject:
		return record.Object(data), nil

	default:
		return nil, fault.InvalidValue
	}
}
