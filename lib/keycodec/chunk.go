// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keycodec

import "fmt"

// Fallback block sizes used when a primitive reports zero. These match
// RSA-2048 with PKCS #1 v1.5 padding and are part of the key format.
const (
	DefaultEncryptBlockSize = 245
	DefaultDecryptBlockSize = 256
)

// Encrypter transforms one plaintext block.
type Encrypter interface {
	// EncryptBlock encrypts at most EncryptBlockSize bytes.
	EncryptBlock(plaintext []byte) ([]byte, error)

	// EncryptBlockSize is the maximum plaintext accepted per block, or
	// zero if the primitive cannot tell.
	EncryptBlockSize() int
}

// Decrypter transforms one ciphertext block.
type Decrypter interface {
	// DecryptBlock decrypts exactly one ciphertext block.
	DecryptBlock(ciphertext []byte) ([]byte, error)

	// DecryptBlockSize is the ciphertext block length, or zero if the
	// primitive cannot tell.
	DecryptBlockSize() int
}

// EncryptChunks splits data into EncryptBlockSize chunks (the last one
// may be short), encrypts each independently, and concatenates the
// results. Empty input produces empty output.
func EncryptChunks(encrypter Encrypter, data []byte) ([]byte, error) {
	size := effectiveBlockSize(encrypter.EncryptBlockSize(), DefaultEncryptBlockSize)

	output := make([]byte, 0, chunkCount(len(data), size)*size)
	for index, start := 0, 0; start < len(data); index, start = index+1, start+size {
		end := min(start+size, len(data))
		block, err := encrypter.EncryptBlock(data[start:end])
		if err != nil {
			return nil, fmt.Errorf("encrypting block %d: %w", index, err)
		}
		output = append(output, block...)
	}
	return output, nil
}

// DecryptChunks is the inverse of EncryptChunks: it splits data into
// DecryptBlockSize chunks and decrypts each.
func DecryptChunks(decrypter Decrypter, data []byte) ([]byte, error) {
	size := effectiveBlockSize(decrypter.DecryptBlockSize(), DefaultDecryptBlockSize)

	output := make([]byte, 0, len(data))
	for index, start := 0, 0; start < len(data); index, start = index+1, start+size {
		end := min(start+size, len(data))
		block, err := decrypter.DecryptBlock(data[start:end])
		if err != nil {
			return nil, fmt.Errorf("decrypting block %d: %w", index, err)
		}
		output = append(output, block...)
	}
	return output, nil
}

func effectiveBlockSize(reported, fallback int) int {
	if reported <= 0 {
		return fallback
	}
	return reported
}

func chunkCount(length, size int) int {
	return (length + size - 1) / size
}
