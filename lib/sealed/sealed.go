// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sealed

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"filippo.io/age"

	"github.com/bureau-foundation/keymint/lib/secret"
)

// MaxPlaintextSize bounds how much Open reads from a decrypted stream.
// License payloads are a few hundred bytes.
const MaxPlaintextSize = 64 << 10

// Errors returned by this package.
var (
	ErrNoRecipient     = errors.New("sealed: at least one recipient is required")
	ErrInvalidKey      = errors.New("sealed: unsupported age key")
	ErrPayloadTooLarge = errors.New("sealed: plaintext exceeds size limit")
)

// Seal encrypts plaintext to every recipient.
func Seal(plaintext []byte, recipients ...age.Recipient) ([]byte, error) {
	if len(recipients) == 0 {
		return nil, ErrNoRecipient
	}

	var ciphertext bytes.Buffer
	writer, err := age.Encrypt(&ciphertext, recipients...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := writer.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	return ciphertext.Bytes(), nil
}

// Open decrypts ciphertext with the first matching identity.
func Open(ciphertext []byte, identities ...age.Identity) ([]byte, error) {
	reader, err := age.Decrypt(bytes.NewReader(ciphertext), identities...)
	if err != nil {
		return nil, fmt.Errorf("decrypting: %w", err)
	}

	plaintext, err := io.ReadAll(io.LimitReader(reader, MaxPlaintextSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading decrypted plaintext: %w", err)
	}
	if len(plaintext) > MaxPlaintextSize {
		return nil, ErrPayloadTooLarge
	}
	return plaintext, nil
}

// ParseRecipient converts key into an age recipient. Accepted forms are
// any age.Recipient, an "age1…" string, or a *secret.Buffer holding one.
func ParseRecipient(key any) (age.Recipient, error) {
	switch typed := key.(type) {
	case age.Recipient:
		return typed, nil
	case string:
		recipient, err := age.ParseX25519Recipient(typed)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return recipient, nil
	case *secret.Buffer:
		return ParseRecipient(typed.String())
	default:
		return nil, fmt.Errorf("%w: %T is not an age recipient", ErrInvalidKey, key)
	}
}

// ParseIdentity converts key into an age identity. Accepted forms are
// any age.Identity, an "AGE-SECRET-KEY-1…" string, or a *secret.Buffer
// holding one.
func ParseIdentity(key any) (age.Identity, error) {
	switch typed := key.(type) {
	case age.Identity:
		return typed, nil
	case string:
		identity, err := age.ParseX25519Identity(typed)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return identity, nil
	case *secret.Buffer:
		// The string copy is brief and call-scoped.
		return ParseIdentity(typed.String())
	default:
		return nil, fmt.Errorf("%w: %T is not an age identity", ErrInvalidKey, key)
	}
}
