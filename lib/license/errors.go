// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package license

import (
	"errors"
	"fmt"
)

// Kind classifies a license failure.
type Kind int

const (
	// KindMalformed: invalid Base32/Base64, wrong byte length, bad
	// grouping, undecodable payload.
	KindMalformed Kind = iota + 1

	// KindCrypto: decryption failure or signature mismatch.
	KindCrypto

	// KindRule: product/owner mismatch, expired, version out of range.
	KindRule

	// KindConfig: missing or unusable key material, unsupported
	// scheme, invalid terms at issue time.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindCrypto:
		return "crypto"
	case KindRule:
		return "rule"
	case KindConfig:
		return "config"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// invalidKeyMessage is shared by malformed and crypto failures.
const invalidKeyMessage = "invalid license key"

// Error is the single error type returned across the license API.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "license: " + e.Kind.String() + " failure"
	}
	return "license: " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinel causes. They appear in the wrap chain of an *Error.
var (
	ErrMalformed         = errors.New("malformed license key")
	ErrDecryption        = errors.New("license decryption failed")
	ErrSignatureMismatch = errors.New("license signature mismatch")
	ErrProductMismatch   = errors.New("product mismatch")
	ErrOwnerMismatch     = errors.New("owner mismatch")
	ErrExpired           = errors.New("expired")
	ErrVersionTooLow     = errors.New("version below supported range")
	ErrVersionTooHigh    = errors.New("version above supported range")
	ErrMissingKey        = errors.New("missing key material")
	ErrUnsupportedScheme = errors.New("unsupported licensing scheme")
	ErrInvalidTerms      = errors.New("invalid license terms")
)

// Malformed wraps a decoding failure.
func Malformed(cause error) *Error {
	return &Error{Kind: KindMalformed, Message: invalidKeyMessage, Err: errors.Join(ErrMalformed, cause)}
}

// CryptoFailure wraps a decryption or signature failure. The cause
// should already wrap ErrDecryption or ErrSignatureMismatch.
func CryptoFailure(cause error) *Error {
	return &Error{Kind: KindCrypto, Message: invalidKeyMessage, Err: cause}
}

// RuleViolation wraps a business-rule failure. The cause's text is the
// message, so it should not contain secrets.
func RuleViolation(cause error) *Error {
	return &Error{Kind: KindRule, Message: cause.Error(), Err: cause}
}

// ConfigError wraps a caller mistake detected before any crypto work.
func ConfigError(cause error) *Error {
	return &Error{Kind: KindConfig, Message: cause.Error(), Err: cause}
}

// IsKind reports whether err is (or wraps) an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var licenseError *Error
	return errors.As(err, &licenseError) && licenseError.Kind == k
}

// Wrap returns err unchanged when it is already an *Error, and wraps it
// as a malformed-key failure otherwise. Scheme verifiers call it at
// their boundary so no bare error escapes.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	var licenseError *Error
	if errors.As(err, &licenseError) {
		return err
	}
	return Malformed(err)
}
