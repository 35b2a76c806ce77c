// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the canonical byte encoding for license
// payloads.
//
// Signature-based schemes sign the encoded bytes of a license on the
// issuing side and re-encode a reconstructed license on the verifying
// side. The two encodings must match byte for byte, so the encoder uses
// CBOR Core Deterministic Encoding (RFC 8949 §4.2): sorted map keys,
// smallest integer encoding, no indefinite-length items. Same logical
// data always produces identical bytes.
//
// The decoder is strict about shape because its input comes from
// untrusted license keys: duplicate map keys, indefinite-length items,
// and deep nesting are rejected, and trailing bytes after the top-level
// item are an error.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// # Struct Tag Rules
//
// Payload types use integer keys (`cbor:"1,keyasint"`) so the wire
// format is compact and field renames never change encoded bytes.
// Payload types never carry `json` tags: the CBOR form is the contract.
package codec
