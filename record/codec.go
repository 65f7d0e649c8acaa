// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/bitmark-inc/haadb/fault"
)

// Encode - convert a value to its dtype tag and printable payload
func Encode(value Value) (DType, []byte, error) {
	if nil == value {
		return "", nil, fault.InvalidValue
	}
	dtype := value.DType()
	if !dtype.Valid() {
		return "", nil, fault.InvalidValue
	}

	// the record is JSON text so bytes that are not UTF-8 would not survive
	if t, ok := value.(Text); ok && !utf8.ValidString(string(t)) {
		return "", nil, fault.InvalidValue
	}

	payload, err := value.canonical()
	if nil != err {
		return "", nil, err
	}

	if dtype.IsHex() {
		buffer := make([]byte, hex.EncodedLen(len(payload)))
		hex.Encode(buffer, payload)
		payload = buffer
	}
	return dtype, payload, nil
}

// Decode - rebuild a value from a dtype tag and its payload
func Decode(dtype DType, payload []byte) (Value, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: %q", fault.UnknownDType, dtype)
	}

	if dtype.IsHex() {
		buffer := make([]byte, hex.DecodedLen(len(payload)))
		n, err := hex.Decode(buffer, payload)
		if nil != err {
			return nil, fmt.Errorf("%w: %s", fault.InvalidHex, err)
		}
		payload = buffer[:n]
	}

	switch dtype {
	case DTypeText:
		return Text(payload), nil

	case DTypeInteger:
		i, err := strconv.ParseInt(string(payload), 10, 64)
		if nil != err {
			return nil, fmt.Errorf("%w: integer: %q", fault.InvalidPayload, payload)
		}
		return Integer(i), nil

	case DTypeFloat:
		f, err := strconv.ParseFloat(string(payload), 64)
		if nil != err {
			return nil, fmt.Errorf("%w: float: %q", fault.InvalidPayload, payload)
		}
		return Float(f), nil

	case DTypeObject:
		return Object(payload), nil

	default:
		s, err := parseStructured(payload)
		if nil != err {
			return nil, fmt.Errorf("%w: %s", fault.InvalidPayload, dtype)
		}
		if s.tag != dtype {
			return nil, fmt.Errorf("%w: %s tag holds %s", fault.InvalidPayload, dtype, s.tag)
		}
		return s, nil
	}
}
