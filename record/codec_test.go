// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/haadb/fault"
	"github.com/bitmark-inc/haadb/record"
)

func TestEncodePlainCategories(t *testing.T) {
	tests := []struct {
		value   record.Value
		dtype   record.DType
		payload string
	}{
		{record.Text("hello world"), record.DTypeText, "hello world"},
		{record.Text(""), record.DTypeText, ""},
		{record.Integer(42), record.DTypeInteger, "42"},
		{record.Integer(-7), record.DTypeInteger, "-7"},
		{record.Float(1), record.DTypeFloat, "1.0"},
		{record.Float(0.25), record.DTypeFloat, "0.25"},
		{record.Float(123456789), record.DTypeFloat, "123456789.0"},
		{record.Float(1e16), record.DTypeFloat, "1e+16"},
		{record.Float(1.5e-05), record.DTypeFloat, "1.5e-05"},
		{record.Float(math.Inf(-1)), record.DTypeFloat, "-inf"},
	}

	for i, item := range tests {
		dtype, payload, err := record.Encode(item.value)
		require.Nil(t, err, "%d: encode error", i)
		assert.Equal(t, item.dtype, dtype, "%d: wrong dtype", i)
		assert.Equal(t, item.payload, string(payload), "%d: wrong payload", i)

		value, err := record.Decode(dtype, payload)
		require.Nil(t, err, "%d: decode error", i)
		assert.Equal(t, item.value, value, "%d: round trip", i)
	}
}

func TestIntegerIsNotText(t *testing.T) {
	dtype, payload, err := record.Encode(record.Integer(42))
	require.Nil(t, err, "encode error")
	assert.Equal(t, record.DTypeInteger, dtype, "wrong dtype")
	assert.Equal(t, "42", string(payload), "wrong payload")

	value, err := record.Decode(dtype, payload)
	require.Nil(t, err, "decode error")
	assert.Equal(t, record.Integer(42), value, "wrong value")
	assert.NotEqual(t, record.Text("42"), value, "decoded as text")
}

func TestStructuredIsHex(t *testing.T) {
	s, err := record.NewStructured(map[string]interface{}{
		"name":  "alice",
		"tags":  []string{"a", "b"},
		"count": 3,
	})
	require.Nil(t, err, "new structured")
	assert.Equal(t, record.DTypeDict, s.DType(), "wrong dtype")

	dtype, payload, err := record.Encode(s)
	require.Nil(t, err, "encode error")
	assert.Equal(t, record.DTypeDict, dtype, "wrong dtype")
	assert.Equal(t, "7b22636f756e74223a332c226e616d65223a22616c696365222c2274616773223a5b2261222c2262225d7d", string(payload), "payload not hex of canonical JSON")

	value, err := record.Decode(dtype, payload)
	require.Nil(t, err, "decode error")
	assert.Equal(t, s, value, "round trip")

	data := value.(record.Structured).Data.(map[string]interface{})
	assert.Equal(t, json.Number("3"), data["count"], "wrong number")
}

func TestStructuredRoots(t *testing.T) {
	list, err := record.ValueOf([]int{1, 2, 3})
	require.Nil(t, err, "list")
	assert.Equal(t, record.DTypeList, list.DType(), "wrong list dtype")

	flag, err := record.ValueOf(true)
	require.Nil(t, err, "bool")
	assert.Equal(t, record.DTypeBool, flag.DType(), "wrong bool dtype")

	for _, v := range []record.Value{list, flag} {
		dtype, payload, err := record.Encode(v)
		require.Nil(t, err, "encode error")
		back, err := record.Decode(dtype, payload)
		require.Nil(t, err, "decode error")
		assert.Equal(t, v, back, "round trip")
	}
}

func TestObject(t *testing.T) {
	when := time.Date(2022, 4, 1, 12, 0, 0, 0, time.UTC)
	v, err := record.ValueOf(when)
	require.Nil(t, err, "binary marshaler")
	assert.Equal(t, record.DTypeObject, v.DType(), "wrong dtype")

	dtype, payload, err := record.Encode(v)
	require.Nil(t, err, "encode error")

	back, err := record.Decode(dtype, payload)
	require.Nil(t, err, "decode error")

	var restored time.Time
	err = restored.UnmarshalBinary(back.(record.Object))
	require.Nil(t, err, "unmarshal binary")
	assert.True(t, when.Equal(restored), "wrong time")
}

func TestValueOf(t *testing.T) {
	tests := []struct {
		item  interface{}
		value record.Value
	}{
		{"abc", record.Text("abc")},
		{7, record.Integer(7)},
		{uint8(7), record.Integer(7)},
		{int32(-3), record.Integer(-3)},
		{float32(0.5), record.Float(0.5)},
		{2.75, record.Float(2.75)},
		{[]byte{1, 2}, record.Object{1, 2}},
		{json.Number("12"), record.Integer(12)},
		{json.Number("1.5"), record.Float(1.5)},
	}
	for i, item := range tests {
		v, err := record.ValueOf(item.item)
		require.Nil(t, err, "%d: value of", i)
		assert.Equal(t, item.value, v, "%d: wrong value", i)
	}
}

func TestValueOfRejects(t *testing.T) {
	rejects := []interface{}{
		nil,
		make(chan int),
		func() {},
		complex(1, 2),
		uint64(math.MaxUint64),
		(*int)(nil),
	}
	for i, item := range rejects {
		_, err := record.ValueOf(item)
		assert.True(t, fault.IsErrInvalid(err), "%d: expected invalid, got: %v", i, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := record.Decode("tuple", []byte("x"))
	assert.True(t, fault.IsErrFormat(err), "unknown dtype: %v", err)

	_, err = record.Decode(record.DTypeDict, []byte("zz"))
	assert.True(t, fault.IsErrFormat(err), "bad hex: %v", err)

	_, err = record.Decode(record.DTypeInteger, []byte("4.5"))
	assert.True(t, fault.IsErrFormat(err), "bad integer: %v", err)

	_, err = record.Decode(record.DTypeFloat, []byte("abc"))
	assert.True(t, fault.IsErrFormat(err), "bad float: %v", err)

	// hex of "[1]" tagged as a dict
	_, err = record.Decode(record.DTypeDict, []byte("5b315d"))
	assert.True(t, fault.IsErrFormat(err), "mismatched root: %v", err)
}

func TestValueJSON(t *testing.T) {
	s, err := record.NewStructured([]interface{}{1, "two", true})
	require.Nil(t, err, "new structured")

	tests := []struct {
		value    record.Value
		expected string
	}{
		{record.Text("hello"), `"hello"`},
		{record.Integer(42), `42`},
		{record.Float(2.5), `2.5`},
		{record.Float(math.Inf(1)), `"inf"`},
		{s, `[1,"two",true]`},
	}
	for i, item := range tests {
		buffer, err := json.Marshal(item.value)
		require.Nil(t, err, "%d: marshal", i)
		assert.Equal(t, item.expected, string(buffer), "%d: wrong JSON", i)
	}
}

func TestEncodeRejectsInvalidText(t *testing.T) {
	tests := []string{
		"a\xffb",
		"\xc3",
		"\xed\xa0\x80",
	}

	for i, item := range tests {
		_, _, err := record.Encode(record.Text(item))
		assert.Equal(t, fault.InvalidValue, err, "%d: %q encoded", i, item)

		v, err := record.ValueOf(item)
		require.Nil(t, err, "%d: value of", i)
		_, _, err = record.Encode(v)
		assert.Equal(t, fault.InvalidValue, err, "%d: %q encoded from string", i, item)
	}

	// valid multi byte text still round trips
	dtype, payload, err := record.Encode(record.Text("héllo, 世界"))
	require.Nil(t, err, "encode")
	value, err := record.Decode(dtype, payload)
	require.Nil(t, err, "decode")
	assert.Equal(t, record.Text("héllo, 世界"), value, "round trip")
}
