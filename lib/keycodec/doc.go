// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package keycodec provides the byte-level primitives license schemes
// are assembled from.
//
// # Chunked RSA
//
// RSA encrypts at most one block per operation, so payloads larger than
// a block are split into ceil(n/b) chunks that are processed
// independently and concatenated (ECB-style chunking, not a stream
// mode). The input block is smaller than the output block: for PKCS #1
// v1.5, a k-byte modulus accepts k-11 plaintext bytes and produces k
// ciphertext bytes.
//
// When an [Encrypter] or [Decrypter] reports a block size of zero, the
// fixed fallbacks [DefaultEncryptBlockSize] (245) and
// [DefaultDecryptBlockSize] (256) apply. Those are the sizes for a
// 2048-bit key and must not change: keys issued with them would no
// longer decode.
//
// Four RSA block operations cover both key-role layouts:
//
//	NewPublicEncrypter  / NewPrivateDecrypter   anyone encrypts, key holder decrypts
//	NewPrivateEncrypter / NewPublicDecrypter    key holder encrypts, anyone recovers
//
// # Signatures
//
// [NewSigner] and [NewVerifier] select the algorithm from the key
// type: Ed25519, RSA PKCS #1 v1.5 over SHA-256, or ECDSA over the hash
// matching the curve size.
//
// # Text encodings
//
// [EncodeGrouped] renders bytes as Base32 in dash-separated groups of
// eight characters with padding stripped, the human-transcribable key
// form. [DecodeGrouped] accepts it case-insensitively. [EncodeWrapped]
// renders Base64 wrapped at a fixed line width.
//
// [Fingerprint] names a public key without revealing it.
package keycodec
