// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keycodec

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base32"
	"fmt"

	"github.com/zeebo/blake3"
)

// fingerprintDomainKey separates key fingerprints from any other
// BLAKE3 use of the same bytes. Changing it changes every fingerprint.
var fingerprintDomainKey = [32]byte{
	'k', 'e', 'y', 'm', 'i', 'n', 't', '.', 'k', 'e', 'y', '.',
	'f', 'i', 'n', 'g', 'e', 'r', 'p', 'r', 'i', 'n', 't', 0,
	0, 0, 0, 0, 0, 0, 0, 0,
}

// fingerprintBytes is the truncated digest length: 15 bytes is exactly
// 24 Base32 characters, three groups, no padding.
const fingerprintBytes = 15

// Fingerprint returns a short stable identifier for a public key, e.g.
// "kf1-ABCDEFGH-IJKLMNOP-QRSTUVWX". RSA, ECDSA, and Ed25519 keys are
// hashed over their PKIX DER encoding; any other key that implements
// fmt.Stringer (age recipients) is hashed over its string form.
func Fingerprint(key crypto.PublicKey) (string, error) {
	material, err := fingerprintMaterial(key)
	if err != nil {
		return "", err
	}

	// NewKeyed only fails for a key that is not 32 bytes.
	hasher, err := blake3.NewKeyed(fingerprintDomainKey[:])
	if err != nil {
		panic("keycodec: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(material)
	sum := hasher.Sum(nil)[:fingerprintBytes]

	return "kf1-" + Group(base32.StdEncoding.EncodeToString(sum), GroupSize), nil
}

func fingerprintMaterial(key crypto.PublicKey) ([]byte, error) {
	switch typed := key.(type) {
	case ed25519.PublicKey, *rsa.PublicKey, *ecdsa.PublicKey:
		der, err := x509.MarshalPKIXPublicKey(typed)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedKey, err)
		}
		return der, nil
	case *ed25519.PublicKey:
		if typed == nil {
			return nil, ErrUnsupportedKey
		}
		return fingerprintMaterial(*typed)
	case fmt.Stringer:
		return []byte(typed.String()), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedKey, key)
	}
}
