// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package license defines the licensable fact set and the business
// rules a decoded license must satisfy.
//
// A [License] is built from [Terms] (product, owner, optional
// expiration, optional version bounds) by [New], which validates them.
// After construction a License never changes. [Marshal] produces its
// canonical byte form; [SignedFacts] produces the reduced form that the
// compact signature scheme signs.
//
// A [Context] carries everything the call site knows: on the issuing
// side, the facts to encode and the issuer's key; on the verifying
// side, the trusted product and owner, the version being checked, the
// current time, and the verifier's key. Verification never takes a
// decoded key's word for its own product or owner: [License.Verify]
// compares them against the Context.
//
// Context.Properties is a typed property bag keyed by (name, type).
// Schemes use it to memoize parsed ciphers and signature verifiers so
// repeated operations with one Context reuse them. A Context is not
// safe for concurrent use.
//
// # Errors
//
// Every failure a caller sees is an [*Error] with a [Kind]:
//
//   - KindMalformed: the key is not a well-formed encoding
//   - KindCrypto: decryption or signature verification failed
//   - KindRule: product, owner, expiration, or version check failed
//   - KindConfig: the caller supplied an unusable context (missing key,
//     unknown scheme) and no cryptographic work was attempted
//
// Malformed and crypto errors share one message, "invalid license
// key", so the text never reveals which decoding step rejected a
// forged key. The specific cause is kept in the wrap chain for logs and
// errors.Is checks.
package license
