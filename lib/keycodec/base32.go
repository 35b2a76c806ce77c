// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keycodec

import (
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
)

// GroupSize is the number of Base32 characters between dashes.
const GroupSize = 8

var (
	// ErrInvalidCharacter reports a character that is neither
	// alphanumeric nor a grouping dash.
	ErrInvalidCharacter = errors.New("keycodec: invalid character in grouped key")

	// ErrNonCanonical reports input whose final character carries
	// nonzero padding bits.
	ErrNonCanonical = errors.New("keycodec: non-canonical encoding")
)

// Group inserts a dash after every size characters of s. A size of zero
// or less returns s unchanged.
func Group(s string, size int) string {
	if size <= 0 || len(s) <= size {
		return s
	}
	var builder strings.Builder
	builder.Grow(len(s) + len(s)/size)
	for start := 0; start < len(s); start += size {
		if start > 0 {
			builder.WriteByte('-')
		}
		builder.WriteString(s[start:min(start+size, len(s))])
	}
	return builder.String()
}

// Ungroup removes grouping dashes. Ungroup(Group(s, n)) == s.
func Ungroup(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// EncodeGrouped encodes data as standard Base32, groups it into blocks
// of GroupSize characters, and strips the trailing padding.
func EncodeGrouped(data []byte) string {
	grouped := Group(base32.StdEncoding.EncodeToString(data), GroupSize)
	return strings.TrimRight(grouped, "=-")
}

// DecodeGrouped reverses EncodeGrouped. Input is case-insensitive and
// dashes may appear anywhere; any other non-alphanumeric character is
// rejected. Missing padding is restored before decoding, and the input
// must be the canonical encoding of the bytes it decodes to.
func DecodeGrouped(s string) ([]byte, error) {
	for index := 0; index < len(s); index++ {
		c := s[index]
		if c == '-' || isAlphanumeric(c) {
			continue
		}
		return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidCharacter, c, index)
	}

	raw := strings.ToUpper(Ungroup(s))
	padded := raw
	if remainder := len(raw) % 8; remainder != 0 {
		padded += strings.Repeat("=", 8-remainder)
	}
	data, err := base32.StdEncoding.DecodeString(padded)
	if err != nil {
		return nil, fmt.Errorf("decoding grouped key: %w", err)
	}
	if canonical := strings.TrimRight(base32.StdEncoding.EncodeToString(data), "="); canonical != raw {
		return nil, fmt.Errorf("decoding grouped key: %w", ErrNonCanonical)
	}
	return data, nil
}

func isAlphanumeric(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}
