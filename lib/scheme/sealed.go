// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheme

import (
	"fmt"

	"filippo.io/age"

	"github.com/bureau-foundation/keymint/lib/keycodec"
	"github.com/bureau-foundation/keymint/lib/license"
	"github.com/bureau-foundation/keymint/lib/sealed"
)

func createSealed(ctx *license.Context) (string, error) {
	recipient, err := derive(ctx, "scheme.sealed.recipient", ctx.PublicKey, func() (age.Recipient, error) {
		return sealed.ParseRecipient(ctx.PublicKey)
	})
	if err != nil {
		return "", missingKey(Sealed, PublicKeyRole, "an age", ctx.PublicKey)
	}

	issued, err := ctx.License()
	if err != nil {
		return "", err
	}
	payload, err := license.Marshal(issued)
	if err != nil {
		return "", license.ConfigError(err)
	}
	ciphertext, err := sealed.Seal(payload, recipient)
	if err != nil {
		return "", license.ConfigError(fmt.Errorf("sealing license: %w", err))
	}
	return keycodec.EncodeWrapped(ciphertext, keycodec.LineWidth), nil
}

func verifySealed(key string, ctx *license.Context) (*license.License, error) {
	identity, err := derive(ctx, "scheme.sealed.identity", ctx.PrivateKey, func() (age.Identity, error) {
		return sealed.ParseIdentity(ctx.PrivateKey)
	})
	if err != nil {
		return nil, missingKey(Sealed, PrivateKeyRole, "an age", ctx.PrivateKey)
	}

	ciphertext, err := keycodec.DecodeWrapped(key)
	if err != nil {
		return nil, license.Malformed(err)
	}
	payload, err := sealed.Open(ciphertext, identity)
	if err != nil {
		return nil, license.CryptoFailure(fmt.Errorf("%w: %w", license.ErrDecryption, err))
	}
	return decodeAndVerify(payload, ctx)
}
