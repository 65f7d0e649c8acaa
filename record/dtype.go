// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package record

// DType - the tag stored with every record of a value
type DType string

// list of valid tags
const (
	DTypeText    DType = "str"
	DTypeInteger DType = "int"
	DTypeFloat   DType = "float"
	DTypeDict    DType = "dict"
	DTypeList    DType = "list"
	DTypeBool    DType = "bool"
	DTypeObject  DType = "object"
)

// Valid - true if the tag is one of the supported set
func (d DType) Valid() bool {
	switch d {
	case DTypeText, DTypeInteger, DTypeFloat, DTypeDict, DTypeList, DTypeBool, DTypeObject:
		return true
	default:
		return false
	}
}

// IsHex - true if the payload of this tag is hex encoded
//
// only the plain text categories are stored directly
func (d DType) IsHex() bool {
	switch d {
	case DTypeText, DTypeInteger, DTypeFloat:
		return false
	default:
		return true
	}
}

// String - for the fmt package
func (d DType) String() string {
	return string(d)
}
