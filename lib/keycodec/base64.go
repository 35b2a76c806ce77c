// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keycodec

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// LineWidth is the Base64 line length used for license keys.
const LineWidth = 64

// EncodeWrapped encodes data as standard Base64 split into lines of
// width characters joined by "\n". A width of zero or less disables
// wrapping.
func EncodeWrapped(data []byte, width int) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	if width <= 0 || len(encoded) <= width {
		return encoded
	}
	lines := make([]string, 0, (len(encoded)+width-1)/width)
	for start := 0; start < len(encoded); start += width {
		lines = append(lines, encoded[start:min(start+width, len(encoded))])
	}
	return strings.Join(lines, "\n")
}

// DecodeWrapped decodes Base64 text, ignoring all whitespace so keys
// survive re-wrapping by mail clients and terminals. Padding bits in the
// final character must be zero.
func DecodeWrapped(s string) ([]byte, error) {
	data, err := base64.StdEncoding.Strict().DecodeString(strings.Join(strings.Fields(s), ""))
	if err != nil {
		return nil, fmt.Errorf("decoding wrapped key: %w", err)
	}
	return data, nil
}
