// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package scheme implements the interchangeable license key encodings.
//
// A [Scheme] is a closed enumeration; [Scheme.Create] and
// [Scheme.Verify] dispatch on it with a switch, and an unknown value
// fails with license.ErrUnsupportedScheme before any key material is
// touched.
//
//	Scheme   Create key   Verify key   Key text
//	Full     PublicKey    PrivateKey   Base64, 64-column lines
//	RSA      PrivateKey   PublicKey    Base64, 64-column lines
//	Octet    PrivateKey   PublicKey    Base32, dash-grouped
//	Sealed   PublicKey    PrivateKey   Base64, 64-column lines
//	JWT      PrivateKey   PublicKey    compact JWS
//
// Full and RSA carry the canonical license payload through chunked RSA
// (see lib/keycodec). Sealed carries the same payload through age.
//
// Octet carries only the expiry and a signature, so its keys are short
// enough to type. The product, owner, and version bounds are not in the
// key; verification reconstructs them from the trusted context and the
// signature check fails if they differ from what was signed. Byte
// layout, before Base32:
//
//	[0:4]  big-endian uint32 expiry in Unix seconds (0 = unlimited),
//	       XORed with bytes [4:8]
//	[4:]   signature over license.SignedFacts(product, owner, expiry)
//
// JWT carries product as the audience, owner as the subject, and the
// version bounds as private claims. The verifying algorithm is fixed by
// the public key type, never by the token header.
//
// Every error leaving Create or Verify is a *license.Error. Malformed
// input and cryptographic failures share one message so the text does
// not reveal which step rejected a forged key.
//
// Parsed encrypters, signers, and age keys are cached in the call's
// license.Context properties and rebuilt if the context's key changes.
package scheme
