// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keycodec

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
)

// Errors from signature operations.
var (
	ErrUnsupportedKey    = errors.New("keycodec: unsupported key type")
	ErrSignatureMismatch = errors.New("keycodec: signature does not match")
)

// Algorithm names a signature algorithm.
type Algorithm string

const (
	Ed25519         Algorithm = "Ed25519"
	RSAPKCS1SHA256  Algorithm = "RSA-PKCS1v15-SHA256"
	ECDSAP256SHA256 Algorithm = "ECDSA-P256-SHA256"
	ECDSAP384SHA384 Algorithm = "ECDSA-P384-SHA384"
	ECDSAP521SHA512 Algorithm = "ECDSA-P521-SHA512"
)

// Signer signs byte strings with one private key.
type Signer interface {
	Sign(data []byte) ([]byte, error)
	Algorithm() Algorithm
}

// Verifier checks signatures made by the matching Signer.
type Verifier interface {
	// Verify returns nil if signature is valid for data, and an error
	// wrapping ErrSignatureMismatch otherwise.
	Verify(data, signature []byte) error
	Algorithm() Algorithm
}

// NewSigner returns the Signer for key. Accepted types are
// ed25519.PrivateKey (value or pointer), *rsa.PrivateKey, and
// *ecdsa.PrivateKey on P-256, P-384, or P-521.
func NewSigner(key crypto.PrivateKey) (Signer, error) {
	switch typed := key.(type) {
	case ed25519.PrivateKey:
		if len(typed) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("%w: Ed25519 private key has %d bytes", ErrUnsupportedKey, len(typed))
		}
		return ed25519Signer{key: typed}, nil
	case *ed25519.PrivateKey:
		if typed == nil {
			return nil, ErrUnsupportedKey
		}
		return NewSigner(*typed)
	case *rsa.PrivateKey:
		if typed == nil {
			return nil, ErrUnsupportedKey
		}
		return rsaSigner{key: typed}, nil
	case *ecdsa.PrivateKey:
		if typed == nil {
			return nil, ErrUnsupportedKey
		}
		algorithm, newHash, err := ecdsaParameters(typed.Curve)
		if err != nil {
			return nil, err
		}
		return ecdsaSigner{key: typed, algorithm: algorithm, newHash: newHash}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}

// NewVerifier returns the Verifier for key. Accepted types mirror
// NewSigner: ed25519.PublicKey, *rsa.PublicKey, *ecdsa.PublicKey.
func NewVerifier(key crypto.PublicKey) (Verifier, error) {
	switch typed := key.(type) {
	case ed25519.PublicKey:
		if len(typed) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("%w: Ed25519 public key has %d bytes", ErrUnsupportedKey, len(typed))
		}
		return ed25519Verifier{key: typed}, nil
	case *ed25519.PublicKey:
		if typed == nil {
			return nil, ErrUnsupportedKey
		}
		return NewVerifier(*typed)
	case *rsa.PublicKey:
		if modulusSize(typed) == 0 {
			return nil, ErrUnsupportedKey
		}
		return rsaVerifier{key: typed}, nil
	case *ecdsa.PublicKey:
		if typed == nil {
			return nil, ErrUnsupportedKey
		}
		algorithm, newHash, err := ecdsaParameters(typed.Curve)
		if err != nil {
			return nil, err
		}
		return ecdsaVerifier{key: typed, algorithm: algorithm, newHash: newHash}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}

// Sign signs data with key in one call.
func Sign(key crypto.PrivateKey, data []byte) ([]byte, error) {
	signer, err := NewSigner(key)
	if err != nil {
		return nil, err
	}
	return signer.Sign(data)
}

// Verify checks signature over data with key in one call.
func Verify(key crypto.PublicKey, data, signature []byte) error {
	verifier, err := NewVerifier(key)
	if err != nil {
		return err
	}
	return verifier.Verify(data, signature)
}

func ecdsaParameters(curve elliptic.Curve) (Algorithm, func() hash.Hash, error) {
	switch curve {
	case elliptic.P256():
		return ECDSAP256SHA256, sha256.New, nil
	case elliptic.P384():
		return ECDSAP384SHA384, sha512.New384, nil
	case elliptic.P521():
		return ECDSAP521SHA512, sha512.New, nil
	default:
		return "", nil, fmt.Errorf("%w: unsupported ECDSA curve", ErrUnsupportedKey)
	}
}

func digest(newHash func() hash.Hash, data []byte) []byte {
	hasher := newHash()
	hasher.Write(data)
	return hasher.Sum(nil)
}

type ed25519Signer struct{ key ed25519.PrivateKey }

func (s ed25519Signer) Sign(data []byte) ([]byte, error) { return ed25519.Sign(s.key, data), nil }
func (ed25519Signer) Algorithm() Algorithm { return Ed25519 }

type ed25519Verifier struct{ key ed25519.PublicKey }

func (v ed25519Verifier) Verify(data, signature []byte) error {
	if !ed25519.Verify(v.key, data, signature) {
		return ErrSignatureMismatch
	}
	return nil
}
func (ed25519Verifier) Algorithm() Algorithm { return Ed25519 }

type rsaSigner struct{ key *rsa.PrivateKey }

func (s rsaSigner) Sign(data []byte) ([]byte, error) {
	return rsa.SignPKCS1v15(nil, s.key, crypto.SHA256, digest(sha256.New, data))
}
func (rsaSigner) Algorithm() Algorithm { return RSAPKCS1SHA256 }

type rsaVerifier struct{ key *rsa.PublicKey }

func (v rsaVerifier) Verify(data, signature []byte) error {
	if err := rsa.VerifyPKCS1v15(v.key, crypto.SHA256, digest(sha256.New, data), signature); err != nil {
		return fmt.Errorf("%w: %w", ErrSignatureMismatch, err)
	}
	return nil
}
func (rsaVerifier) Algorithm() Algorithm { return RSAPKCS1SHA256 }

type ecdsaSigner struct {
	key       *ecdsa.PrivateKey
	algorithm Algorithm
	newHash   func() hash.Hash
}

func (s ecdsaSigner) Sign(data []byte) ([]byte, error) {
	return ecdsa.SignASN1(rand.Reader, s.key, digest(s.newHash, data))
}
func (s ecdsaSigner) Algorithm() Algorithm { return s.algorithm }

type ecdsaVerifier struct {
	key       *ecdsa.PublicKey
	algorithm Algorithm
	newHash   func() hash.Hash
}

func (v ecdsaVerifier) Verify(data, signature []byte) error {
	if !ecdsa.VerifyASN1(v.key, digest(v.newHash, data), signature) {
		return ErrSignatureMismatch
	}
	return nil
}
func (v ecdsaVerifier) Algorithm() Algorithm { return v.algorithm }
