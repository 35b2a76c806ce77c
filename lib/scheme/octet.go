// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheme

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bureau-foundation/keymint/lib/keycodec"
	"github.com/bureau-foundation/keymint/lib/license"
)

// octetPrefixSize is the expiry field length. The same number of
// leading signature bytes masks it.
const octetPrefixSize = 4

func createOctet(ctx *license.Context) (string, error) {
	signer, err := derive(ctx, "scheme.octet.signer", ctx.PrivateKey, func() (keycodec.Signer, error) {
		return keycodec.NewSigner(ctx.PrivateKey)
	})
	if err != nil {
		return "", missingKey(Octet, PrivateKeyRole, "a signing", ctx.PrivateKey)
	}

	issued, err := ctx.License()
	if err != nil {
		return "", err
	}
	seconds, err := octetExpiry(issued.Expiration())
	if err != nil {
		return "", license.ConfigError(err)
	}

	facts, err := license.SignedFacts(issued.Product(), issued.Owner(), issued.Expiration())
	if err != nil {
		return "", license.ConfigError(err)
	}
	signature, err := signer.Sign(facts)
	if err != nil {
		return "", license.ConfigError(fmt.Errorf("signing license: %w", err))
	}
	if len(signature) < octetPrefixSize {
		return "", license.ConfigError(fmt.Errorf("%s signature is %d bytes, need at least %d", signer.Algorithm(), len(signature), octetPrefixSize))
	}

	data := make([]byte, octetPrefixSize+len(signature))
	binary.BigEndian.PutUint32(data, seconds)
	copy(data[octetPrefixSize:], signature)
	maskPrefix(data)

	return keycodec.EncodeGrouped(data), nil
}

func verifyOctet(key string, ctx *license.Context) (*license.License, error) {
	verifier, err := derive(ctx, "scheme.octet.verifier", ctx.PublicKey, func() (keycodec.Verifier, error) {
		return keycodec.NewVerifier(ctx.PublicKey)
	})
	if err != nil {
		return nil, missingKey(Octet, PublicKeyRole, "a signature", ctx.PublicKey)
	}

	data, err := keycodec.DecodeGrouped(key)
	if err != nil {
		return nil, license.Malformed(err)
	}
	if len(data) < 2*octetPrefixSize {
		return nil, license.Malformed(fmt.Errorf("key decodes to %d bytes, need at least %d", len(data), 2*octetPrefixSize))
	}
	maskPrefix(data)

	var expiration time.Time
	if seconds := binary.BigEndian.Uint32(data); seconds != 0 {
		expiration = time.Unix(int64(seconds), 0)
	}
	signature := data[octetPrefixSize:]

	// Only the expiry travels in the key; the rest comes from the
	// trusted context and must match what was signed.
	reconstructed, err := license.New(license.Terms{
		Product:    ctx.Product,
		Owner:      ctx.Owner,
		Expiration: expiration,
		MinVersion: ctx.MinVersion,
		MaxVersion: ctx.MaxVersion,
	})
	if err != nil {
		return nil, license.ConfigError(err)
	}

	facts, err := license.SignedFacts(reconstructed.Product(), reconstructed.Owner(), reconstructed.Expiration())
	if err != nil {
		return nil, license.ConfigError(err)
	}
	if err := verifier.Verify(facts, signature); err != nil {
		return nil, license.CryptoFailure(fmt.Errorf("%w: %w", license.ErrSignatureMismatch, err))
	}

	if err := reconstructed.Verify(ctx); err != nil {
		return nil, err
	}
	return reconstructed, nil
}

// maskPrefix XORs the expiry field with the first signature bytes.
// Applying it twice restores the input.
func maskPrefix(data []byte) {
	for index := range octetPrefixSize {
		data[index] ^= data[octetPrefixSize+index]
	}
}

// octetExpiry converts an expiration to the key's seconds field.
func octetExpiry(expiration time.Time) (uint32, error) {
	if expiration.IsZero() {
		return 0, nil
	}
	seconds := expiration.Unix()
	if seconds <= 0 {
		return 0, errors.New("expiration must be at least one second after the Unix epoch")
	}
	if seconds > math.MaxUint32 {
		return 0, fmt.Errorf("expiration %s is beyond the compact key range", expiration.UTC().Format(time.RFC3339))
	}
	return uint32(seconds), nil
}

// DecodeOctetExpiry extracts the expiry from an Octet key without
// checking its signature. The result is untrusted and meant only for
// display; zero means unlimited.
func DecodeOctetExpiry(key string) (time.Time, error) {
	data, err := keycodec.DecodeGrouped(key)
	if err != nil {
		return time.Time{}, license.Malformed(err)
	}
	if len(data) < 2*octetPrefixSize {
		return time.Time{}, license.Malformed(fmt.Errorf("key decodes to %d bytes, need at least %d", len(data), 2*octetPrefixSize))
	}
	maskPrefix(data)
	seconds := binary.BigEndian.Uint32(data)
	if seconds == 0 {
		return time.Time{}, nil
	}
	return time.Unix(int64(seconds), 0).UTC(), nil
}
