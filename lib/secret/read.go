// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"fmt"
	"io"
	"os"
)

// MaxFileSize bounds how much ReadFile accepts. Private keys in any of
// the supported encodings are a few kilobytes at most.
const MaxFileSize = 1 << 20

// ReadFile reads a secret from path, or from stdin when path is "-",
// into a Buffer. Surrounding whitespace is trimmed. The caller must
// close the returned Buffer.
func ReadFile(path string) (*Buffer, error) {
	if path == "-" {
		return Read(os.Stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// Read reads reader to EOF into a Buffer. Surrounding whitespace is
// trimmed; input that is empty after trimming or larger than
// MaxFileSize is rejected.
func Read(reader io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxFileSize+1))
	defer Zero(data)
	if err != nil {
		return nil, fmt.Errorf("secret: reading: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("secret: input exceeds %d bytes", MaxFileSize)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("secret: input is empty")
	}
	return NewFromBytes(trimmed)
}
