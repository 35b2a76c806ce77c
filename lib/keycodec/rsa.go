// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keycodec

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"
	"math/big"
)

// pkcs1Overhead is the minimum PKCS #1 v1.5 padding: 00 || BT || PS
// (at least 8 bytes) || 00.
const pkcs1Overhead = 11

// Errors from the RSA block operations.
var (
	ErrBlockSize = errors.New("keycodec: ciphertext block has wrong length")
	ErrPadding   = errors.New("keycodec: invalid PKCS #1 v1.5 block")
)

func modulusSize(key *rsa.PublicKey) int {
	if key == nil || key.N == nil {
		return 0
	}
	return key.Size()
}

// NewPublicEncrypter encrypts blocks to key with PKCS #1 v1.5 (block
// type 2). Only the private key holder can decrypt.
func NewPublicEncrypter(key *rsa.PublicKey) Encrypter {
	return publicEncrypter{key: key}
}

type publicEncrypter struct{ key *rsa.PublicKey }

func (e publicEncrypter) EncryptBlock(plaintext []byte) ([]byte, error) {
	if modulusSize(e.key) == 0 {
		return nil, ErrUnsupportedKey
	}
	return rsa.EncryptPKCS1v15(rand.Reader, e.key, plaintext)
}

func (e publicEncrypter) EncryptBlockSize() int {
	if size := modulusSize(e.key); size > pkcs1Overhead {
		return size - pkcs1Overhead
	}
	return 0
}

// NewPrivateDecrypter reverses NewPublicEncrypter.
func NewPrivateDecrypter(key *rsa.PrivateKey) Decrypter {
	return privateDecrypter{key: key}
}

type privateDecrypter struct{ key *rsa.PrivateKey }

func (d privateDecrypter) DecryptBlock(ciphertext []byte) ([]byte, error) {
	if d.key == nil || modulusSize(&d.key.PublicKey) == 0 {
		return nil, ErrUnsupportedKey
	}
	if len(ciphertext) != d.key.Size() {
		return nil, ErrBlockSize
	}
	return rsa.DecryptPKCS1v15(nil, d.key, ciphertext)
}

func (d privateDecrypter) DecryptBlockSize() int {
	if d.key == nil {
		return 0
	}
	return modulusSize(&d.key.PublicKey)
}

// NewPrivateEncrypter applies the raw private-key operation to PKCS #1
// v1.5 block type 1 padded plaintext, so that anyone holding the public
// key can recover it but only the private key holder can produce it.
func NewPrivateEncrypter(key *rsa.PrivateKey) Encrypter {
	return privateEncrypter{key: key}
}

type privateEncrypter struct{ key *rsa.PrivateKey }

func (e privateEncrypter) EncryptBlock(plaintext []byte) ([]byte, error) {
	if e.key == nil || modulusSize(&e.key.PublicKey) == 0 {
		return nil, ErrUnsupportedKey
	}
	// With a zero hash, SignPKCS1v15 pads the input directly with
	// block type 1 and applies the private exponent.
	return rsa.SignPKCS1v15(nil, e.key, crypto.Hash(0), plaintext)
}

func (e privateEncrypter) EncryptBlockSize() int {
	if e.key == nil {
		return 0
	}
	if size := modulusSize(&e.key.PublicKey); size > pkcs1Overhead {
		return size - pkcs1Overhead
	}
	return 0
}

// NewPublicDecrypter reverses NewPrivateEncrypter.
func NewPublicDecrypter(key *rsa.PublicKey) Decrypter {
	return publicDecrypter{key: key}
}

type publicDecrypter struct{ key *rsa.PublicKey }

func (d publicDecrypter) DecryptBlock(ciphertext []byte) ([]byte, error) {
	size := modulusSize(d.key)
	if size == 0 {
		return nil, ErrUnsupportedKey
	}
	if len(ciphertext) != size {
		return nil, ErrBlockSize
	}

	c := new(big.Int).SetBytes(ciphertext)
	if c.Cmp(d.key.N) >= 0 {
		return nil, fmt.Errorf("%w: value exceeds modulus", ErrPadding)
	}
	m := new(big.Int).Exp(c, big.NewInt(int64(d.key.E)), d.key.N)
	encoded := m.FillBytes(make([]byte, size))

	// 00 || 01 || FF * n (n >= 8) || 00 || message
	if encoded[0] != 0x00 || encoded[1] != 0x01 {
		return nil, fmt.Errorf("%w: wrong block type", ErrPadding)
	}
	index := 2
	for index < size && encoded[index] == 0xff {
		index++
	}
	if index-2 < 8 || index == size || encoded[index] != 0x00 {
		return nil, fmt.Errorf("%w: bad padding string", ErrPadding)
	}
	return encoded[index+1:], nil
}

func (d publicDecrypter) DecryptBlockSize() int {
	return modulusSize(d.key)
}
