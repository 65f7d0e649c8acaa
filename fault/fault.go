// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2022 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fault

import (
	"errors"
)

// GenericError - error base
type GenericError string

// to allow for different classes of errors
type CryptoError GenericError
type ExistsError GenericError
type FormatError GenericError
type GatewayError GenericError
type InvalidError GenericError
type NotFoundError GenericError
type ProcessError GenericError

// common errors - keep in alphabetic order
var (
	AlreadyInitialised        = ExistsError("already initialised")
	BatchOutOfRange           = FormatError("batch index out of range")
	ChecksumMismatch          = InvalidError("checksum mismatch")
	ConfigurationFileNotFound = NotFoundError("configuration file not found")
	DatabaseVersionMismatch   = ProcessError("database version mismatch")
	DecryptionFailed          = CryptoError("decryption failed")
	EncryptionFailed          = CryptoError("encryption failed")
	FileNotFound              = NotFoundError("file not found")
	HistoryUnavailable        = GatewayError("account history unavailable")
	InvalidAccount            = InvalidError("invalid account name")
	InvalidAuthority          = InvalidError("authority must be posting or active")
	InvalidChain              = InvalidError("invalid chain")
	InvalidChunkLimit         = InvalidError("chunk limit must be positive")
	InvalidContractId         = InvalidError("contract id must be 1 to 32 characters of a-z 0-9 _ -")
	InvalidDnsTxtRecord       = InvalidError("invalid node dns txt record")
	InvalidEncryptionKey      = CryptoError("invalid encryption key")
	InvalidHex                = FormatError("malformed hex payload")
	InvalidHistoryLimit       = InvalidError("history limit must be between 1 and 1000")
	InvalidLimit              = InvalidError("limit must be between 1024 and 4096")
	InvalidLoggerChannel      = InvalidError("invalid logger channel")
	InvalidNodeDomain         = InvalidError("invalid node domain")
	InvalidNodeURL            = InvalidError("invalid node url")
	InvalidPayload            = FormatError("malformed payload")
	InvalidPublicKey          = InvalidError("invalid public key")
	InvalidRetryPolicy        = InvalidError("invalid history retry policy")
	InvalidSalt               = InvalidError("invalid salt")
	InvalidStart              = InvalidError("start must be a multiple of 1000 and at least 1000")
	InvalidStructPointer      = InvalidError("configuration must be a struct pointer")
	InvalidValue              = InvalidError("value type is not supported")
	InvalidWIF                = InvalidError("invalid wif private key")
	MissingCredential         = NotFoundError("no private key for requested authority")
	MissingNodes              = NotFoundError("no ledger nodes configured")
	NonCanonicalSignature     = ProcessError("unable to produce canonical signature")
	NotProtocolRecord         = FormatError("not a haadb record")
	NotStarted                = ProcessError("not started")
	RateLimiting              = GatewayError("rate limiting")
	RequestFailed             = GatewayError("ledger request failed")
	UnknownDType              = FormatError("unknown dtype")
	ValueOverflow             = InvalidError("integer value overflows 64 bits")
)

// the error interface base method
func (e GenericError) Error() string { return string(e) }

// the error interface methods
func (e CryptoError) Error() string   { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e FormatError) Error() string   { return string(e) }
func (e GatewayError) Error() string  { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// determine the class of an error, looking through any wrapping
func IsErrCrypto(e error) bool   { var t CryptoError; return errors.As(e, &t) }
func IsErrExists(e error) bool   { var t ExistsError; return errors.As(e, &t) }
func IsErrFormat(e error) bool   { var t FormatError; return errors.As(e, &t) }
func IsErrGateway(e error) bool  { var t GatewayError; return errors.As(e, &t) }
func IsErrInvalid(e error) bool  { var t InvalidError; return errors.As(e, &t) }
func IsErrNotFound(e error) bool { var t NotFoundError; return errors.As(e, &t) }
func IsErrProcess(e error) bool  { var t ProcessError; return errors.As(e, &t) }
