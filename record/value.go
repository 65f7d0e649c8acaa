// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

import (
	"bytes"
	"encoding"
	"encoding/json"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/bitmark-inc/haadb/fault"
)

// Value - a storable value
type Value interface {
	DType() DType
	canonical() ([]byte, error)
}

// Text - stored as is
type Text string

// Integer - stored as decimal text
type Integer int64

// Float - stored as shortest decimal text
type Float float64

// Object - opaque bytes, stored as hex
type Object []byte

// Structured - any JSON tree rooted at an object, an array or a
// boolean, stored as hex of the JSON text
//
// Data holds the decoded form: map[string]interface{},
// []interface{}, bool, json.Number, string or nil
type Structured struct {
	tag  DType
	Data interface{}
}

// DType - tag for the value
func (Text) DType() DType    { return DTypeText }
func (Integer) DType() DType { return DTypeInteger }
func (Float) DType() DType   { return DTypeFloat }
func (Object) DType() DType  { return DTypeObject }

// DType - tag depends on the root of the tree
func (s Structured) DType() DType { return s.tag }

func (t Text) canonical() ([]byte, error) {
	return []byte(t), nil
}

func (i Integer) canonical() ([]byte, error) {
	return []byte(strconv.FormatInt(int64(i), 10)), nil
}

// floats are formatted to match the text other writers produce:
// "1.0", "0.25", "1e+16", "inf"
func (f Float) canonical() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte("nan"), nil
	case math.IsInf(v, 1):
		return []byte("inf"), nil
	case math.IsInf(v, -1):
		return []byte("-inf"), nil
	}

	a := math.Abs(v)
	if 0 != a && (a < 1e-4 || a >= 1e16) {
		return []byte(strconv.FormatFloat(v, 'e', -1, 64)), nil
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return []byte(s), nil
}

func (o Object) canonical() ([]byte, error) {
	return []byte(o), nil
}

func (s Structured) canonical() ([]byte, error) {
	return json.Marshal(s.Data)
}

// NewStructured - convert any JSON encodable item into a structured value
//
// the item is normalised through its JSON form so that a decoded value
// compares equal to the one that was written
func NewStructured(item interface{}) (Structured, error) {
	buffer, err := json.Marshal(item)
	if nil != err {
		return Structured{}, fault.InvalidValue
	}
	return parseStructured(buffer)
}

func parseStructured(buffer []byte) (Structured, error) {
	dec := json.NewDecoder(bytes.NewReader(buffer))
	dec.UseNumber()

	var data interface{}
	if err := dec.Decode(&data); nil != err {
		return Structured{}, fault.InvalidPayload
	}

	s := Structured{
		Data: data,
	}
	switch data.(type) {
	case map[string]interface{}:
		s.tag = DTypeDict
	case []interface{}:
		s.tag = DTypeList
	case bool:
		s.tag = DTypeBool
	default:
		return Structured{}, fault.InvalidValue
	}
	return s, nil
}

// ValueOf - classify a native Go item
//
// anything that cannot be represented by one of the categories is
// rejected here rather than inferred later
func ValueOf(item interface{}) (Value, error) {
	switch v := item.(type) {
	case Value:
		return v, nil
	case nil:
		return nil, fault.InvalidValue
	case []byte:
		return Object(v), nil
	case encoding.BinaryMarshaler:
		b, err := v.MarshalBinary()
		if nil != err {
			return nil, err
		}
		return Object(b), nil
	case string:
		return Text(v), nil
	case bool:
		return Structured{tag: DTypeBool, Data: v}, nil
	case json.Number:
		if i, err := v.Int64(); nil == err {
			return Integer(i), nil
		}
		f, err := v.Float64()
		if nil != err {
			return nil, fault.InvalidValue
		}
		return Float(f), nil
	}

	rv := reflect.ValueOf(item)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Integer(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fault.ValueOverflow
		}
		return Integer(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return NewStructured(item)
	case reflect.Ptr:
		if rv.IsNil() {
			return nil, fault.InvalidValue
		}
		return ValueOf(rv.Elem().Interface())
	default:
		return nil, fault.InvalidValue
	}
}

// MarshalJSON - the tree itself
func (s Structured) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Data)
}

// MarshalJSON - non-finite values have no JSON number form and become text
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		s, _ := f.canonical()
		return json.Marshal(string(s))
	}
	return json.Marshal(v)
}
