// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheme

import (
	"crypto/elliptic"
	"testing"
	"time"

	"github.com/bureau-foundation/keymint/lib/license"
	"github.com/bureau-foundation/keymint/lib/testutil"
)

// issued is the creation instant used across scheme tests. Whole
// seconds so that every scheme preserves expirations exactly.
var issued = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fixture describes one scheme with one key type.
type fixture struct {
	name   string
	scheme Scheme

	// Key material for creation, matching verification, and a
	// verification key from an unrelated pair.
	createPrivate, createPublic any
	verifyPrivate, verifyPublic any
	wrongPrivate, wrongPublic   any

	// carriesTerms is false for Octet, whose keys hold only the
	// expiry; bounds and identities come from the verifying context.
	carriesTerms bool
}

func fixtures(t *testing.T) []fixture {
	t.Helper()
	rsaKey := testutil.RSAKey(t)
	otherRSA := testutil.SecondRSAKey(t)
	ed := testutil.Ed25519Key(t)
	otherEd := testutil.SecondEd25519Key(t)
	p256 := testutil.ECDSAKey(t, elliptic.P256())
	p384 := testutil.ECDSAKey(t, elliptic.P384())
	identity := testutil.AgeIdentity(t)
	otherIdentity := testutil.SecondAgeIdentity(t)

	return []fixture{
		{
			name: "full", scheme: Full,
			createPublic: &rsaKey.PublicKey, verifyPrivate: rsaKey, wrongPrivate: otherRSA,
			carriesTerms: true,
		},
		{
			name: "rsa", scheme: RSA,
			createPrivate: rsaKey, verifyPublic: &rsaKey.PublicKey, wrongPublic: &otherRSA.PublicKey,
			carriesTerms: true,
		},
		{
			name: "octet/ed25519", scheme: Octet,
			createPrivate: ed, verifyPublic: ed.Public(), wrongPublic: otherEd.Public(),
		},
		{
			name: "octet/rsa", scheme: Octet,
			createPrivate: rsaKey, verifyPublic: &rsaKey.PublicKey, wrongPublic: &otherRSA.PublicKey,
		},
		{
			name: "octet/p256", scheme: Octet,
			createPrivate: p256, verifyPublic: &p256.PublicKey, wrongPublic: &testutil.ECDSAKey(t, elliptic.P521()).PublicKey,
		},
		{
			name: "sealed", scheme: Sealed,
			createPublic: identity.Recipient(), verifyPrivate: identity, wrongPrivate: otherIdentity,
			carriesTerms: true,
		},
		{
			name: "sealed/text keys", scheme: Sealed,
			createPublic: identity.Recipient().String(), verifyPrivate: identity.String(), wrongPrivate: otherIdentity.String(),
			carriesTerms: true,
		},
		{
			name: "jwt/ed25519", scheme: JWT,
			createPrivate: ed, verifyPublic: ed.Public(), wrongPublic: otherEd.Public(),
			carriesTerms: true,
		},
		{
			name: "jwt/rsa", scheme: JWT,
			createPrivate: rsaKey, verifyPublic: &rsaKey.PublicKey, wrongPublic: &otherRSA.PublicKey,
			carriesTerms: true,
		},
		{
			name: "jwt/p384", scheme: JWT,
			createPrivate: p384, verifyPublic: &p384.PublicKey, wrongPublic: &testutil.ECDSAKey(t, elliptic.P256()).PublicKey,
			carriesTerms: true,
		},
	}
}

// creationContext returns a context for minting terms with f's keys.
func (f fixture) creationContext(terms license.Terms) *license.Context {
	return &license.Context{
		Product:    terms.Product,
		Owner:      terms.Owner,
		Expiration: terms.Expiration,
		MinVersion: terms.MinVersion,
		MaxVersion: terms.MaxVersion,
		Now:        issued,
		PrivateKey: f.createPrivate,
		PublicKey:  f.createPublic,
	}
}

// verificationContext returns a trusted context matching terms, with
// f's verifying keys, evaluated at now.
func (f fixture) verificationContext(terms license.Terms, version string, now time.Time) *license.Context {
	return &license.Context{
		Product:    terms.Product,
		Owner:      terms.Owner,
		MinVersion: terms.MinVersion,
		MaxVersion: terms.MaxVersion,
		Version:    version,
		Now:        now,
		PrivateKey: f.verifyPrivate,
		PublicKey:  f.verifyPublic,
	}
}

func (f fixture) mint(t *testing.T, terms license.Terms) string {
	t.Helper()
	key, err := f.scheme.Create(f.creationContext(terms))
	if err != nil {
		t.Fatalf("%s Create: %v", f.name, err)
	}
	return key
}

// mutate replaces one character near the middle of key with a
// different character from the key's own alphabet.
func mutate(key string) string {
	for index := len(key) / 2; index < len(key); index++ {
		if tampered, ok := substitute(key, index, 'A'); ok {
			return tampered
		}
	}
	return key + "A"
}

// substitute replaces the data character at index with replacement, or
// with 'B' when they already match. Separators and padding are not
// data and report false.
func substitute(key string, index int, replacement byte) (string, bool) {
	switch c := key[index]; {
	case c == '-' || c == '.' || c == '\n' || c == '=':
		return "", false
	case c == replacement:
		replacement = 'B'
		if c == replacement {
			replacement = 'A'
		}
	}
	runes := []byte(key)
	runes[index] = replacement
	return string(runes), true
}

// lastDataIndex returns the index of the final data character of key.
func lastDataIndex(key string) int {
	index := len(key) - 1
	for index > 0 && (key[index] == '=' || key[index] == '\n') {
		index--
	}
	return index
}

// keyAlphabet returns the characters a key of scheme s is written in.
func keyAlphabet(s Scheme) string {
	const upper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	const lower = "abcdefghijklmnopqrstuvwxyz"
	switch s {
	case Octet:
		return upper + "234567"
	case JWT:
		return upper + lower + "0123456789-_"
	default:
		return upper + lower + "0123456789+/"
	}
}
