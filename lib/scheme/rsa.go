// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheme

import (
	"crypto/rsa"
	"fmt"

	"github.com/bureau-foundation/keymint/lib/keycodec"
	"github.com/bureau-foundation/keymint/lib/license"
)

func createFull(ctx *license.Context) (string, error) {
	publicKey, ok := ctx.PublicKey.(*rsa.PublicKey)
	if !ok || publicKey == nil {
		return "", missingKey(Full, PublicKeyRole, "an RSA", ctx.PublicKey)
	}
	encrypter, err := derive(ctx, "scheme.full.encrypter", ctx.PublicKey, func() (keycodec.Encrypter, error) {
		return keycodec.NewPublicEncrypter(publicKey), nil
	})
	if err != nil {
		return "", err
	}
	return createChunked(ctx, encrypter)
}

func verifyFull(key string, ctx *license.Context) (*license.License, error) {
	privateKey, ok := ctx.PrivateKey.(*rsa.PrivateKey)
	if !ok || privateKey == nil {
		return nil, missingKey(Full, PrivateKeyRole, "an RSA", ctx.PrivateKey)
	}
	decrypter, err := derive(ctx, "scheme.full.decrypter", ctx.PrivateKey, func() (keycodec.Decrypter, error) {
		return keycodec.NewPrivateDecrypter(privateKey), nil
	})
	if err != nil {
		return nil, err
	}
	return verifyChunked(key, ctx, decrypter)
}

func createRSA(ctx *license.Context) (string, error) {
	privateKey, ok := ctx.PrivateKey.(*rsa.PrivateKey)
	if !ok || privateKey == nil {
		return "", missingKey(RSA, PrivateKeyRole, "an RSA", ctx.PrivateKey)
	}
	encrypter, err := derive(ctx, "scheme.rsa.encrypter", ctx.PrivateKey, func() (keycodec.Encrypter, error) {
		return keycodec.NewPrivateEncrypter(privateKey), nil
	})
	if err != nil {
		return "", err
	}
	return createChunked(ctx, encrypter)
}

func verifyRSA(key string, ctx *license.Context) (*license.License, error) {
	publicKey, ok := ctx.PublicKey.(*rsa.PublicKey)
	if !ok || publicKey == nil {
		return nil, missingKey(RSA, PublicKeyRole, "an RSA", ctx.PublicKey)
	}
	decrypter, err := derive(ctx, "scheme.rsa.decrypter", ctx.PublicKey, func() (keycodec.Decrypter, error) {
		return keycodec.NewPublicDecrypter(publicKey), nil
	})
	if err != nil {
		return nil, err
	}
	return verifyChunked(key, ctx, decrypter)
}

// createChunked encodes the context's license, encrypts it block by
// block, and wraps the result as Base64 lines.
func createChunked(ctx *license.Context, encrypter keycodec.Encrypter) (string, error) {
	issued, err := ctx.License()
	if err != nil {
		return "", err
	}
	payload, err := license.Marshal(issued)
	if err != nil {
		return "", license.ConfigError(err)
	}
	ciphertext, err := keycodec.EncryptChunks(encrypter, payload)
	if err != nil {
		return "", license.ConfigError(fmt.Errorf("encrypting license: %w", err))
	}
	return keycodec.EncodeWrapped(ciphertext, keycodec.LineWidth), nil
}

func verifyChunked(key string, ctx *license.Context, decrypter keycodec.Decrypter) (*license.License, error) {
	ciphertext, err := keycodec.DecodeWrapped(key)
	if err != nil {
		return nil, license.Malformed(err)
	}
	if size := decrypter.DecryptBlockSize(); size > 0 && len(ciphertext)%size != 0 {
		return nil, license.Malformed(fmt.Errorf("ciphertext length %d is not a multiple of the %d-byte block", len(ciphertext), size))
	}
	payload, err := keycodec.DecryptChunks(decrypter, ciphertext)
	if err != nil {
		return nil, license.CryptoFailure(fmt.Errorf("%w: %w", license.ErrDecryption, err))
	}
	return decodeAndVerify(payload, ctx)
}

// decodeAndVerify is the common tail of the payload-carrying schemes.
func decodeAndVerify(payload []byte, ctx *license.Context) (*license.License, error) {
	decoded, err := license.Unmarshal(payload)
	if err != nil {
		return nil, license.Malformed(err)
	}
	if err := decoded.Verify(ctx); err != nil {
		return nil, err
	}
	return decoded, nil
}
