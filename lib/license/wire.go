// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package license

import (
	"fmt"
	"time"

	"github.com/bureau-foundation/keymint/lib/codec"
)

// payload is the canonical CBOR form of a License. Integer keys keep
// it compact; the numbering is part of the key format and must never
// be reused.
type payload struct {
	Product      string `cbor:"1,keyasint"`
	Owner        string `cbor:"2,keyasint"`
	Expiration   int64  `cbor:"3,keyasint,omitempty"` // Unix milliseconds; 0 = unlimited
	MinVersion   string `cbor:"4,keyasint,omitempty"`
	MinInclusive bool   `cbor:"5,keyasint,omitempty"`
	MaxVersion   string `cbor:"6,keyasint,omitempty"`
	MaxInclusive bool   `cbor:"7,keyasint,omitempty"`
}

func expirationMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// Marshal returns the canonical encoding of l.
func Marshal(l *License) ([]byte, error) {
	data, err := codec.Marshal(payload{
		Product:      l.terms.Product,
		Owner:        l.terms.Owner,
		Expiration:   expirationMillis(l.terms.Expiration),
		MinVersion:   l.terms.MinVersion.Version,
		MinInclusive: l.terms.MinVersion.Inclusive,
		MaxVersion:   l.terms.MaxVersion.Version,
		MaxInclusive: l.terms.MaxVersion.Inclusive,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding license payload: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a canonical encoding and validates the result.
func Unmarshal(data []byte) (*License, error) {
	var decoded payload
	if err := codec.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("decoding license payload: %w", err)
	}

	terms := Terms{
		Product:    decoded.Product,
		Owner:      decoded.Owner,
		MinVersion: Bound{Version: decoded.MinVersion, Inclusive: decoded.MinInclusive},
		MaxVersion: Bound{Version: decoded.MaxVersion, Inclusive: decoded.MaxInclusive},
	}
	if decoded.Expiration != 0 {
		terms.Expiration = time.UnixMilli(decoded.Expiration)
	}
	return New(terms)
}

// SignedFacts returns the canonical encoding of the identity facts
// alone: product, owner, and expiration truncated to whole seconds.
// This is what the compact signature scheme signs, since only the
// expiry travels inside its keys.
func SignedFacts(product, owner string, expiration time.Time) ([]byte, error) {
	var millis int64
	if !expiration.IsZero() {
		millis = expiration.Unix() * 1000
	}
	data, err := codec.Marshal(payload{
		Product:    product,
		Owner:      owner,
		Expiration: millis,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding signed facts: %w", err)
	}
	return data, nil
}
