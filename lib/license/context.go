// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package license

import (
	"crypto"
	"time"

	"github.com/bureau-foundation/keymint/lib/clock"
)

// Context carries the facts and key material for one creation or
// verification call. All fields are optional at the type level; each
// scheme documents which ones it requires.
type Context struct {
	// Product and Owner are the licensed identities. At creation time
	// they are encoded into the key; at verification time they are the
	// trusted values the key must match.
	Product string
	Owner   string

	// Expiration is the expiry to encode at creation time. Zero means
	// unlimited. Ignored during verification.
	Expiration time.Time

	// MinVersion and MaxVersion are the supported range. Schemes that
	// carry the range in the key encode these at creation time; the
	// compact signature scheme, which does not, takes them from the
	// verifying context instead.
	MinVersion Bound
	MaxVersion Bound

	// Version is the product version being checked during
	// verification. Empty means undefined, which fails any minimum
	// bound.
	Version string

	// Now pins the verification time. When zero, CurrentTime reads
	// Clock and stores the result here.
	Now time.Time

	// Clock supplies the current time when Now is zero. Nil means the
	// wall clock.
	Clock clock.Clock

	// PrivateKey and PublicKey are the caller's key material. Which
	// half a scheme uses for creation and for verification depends on
	// the scheme.
	PrivateKey crypto.PrivateKey
	PublicKey  crypto.PublicKey

	// Properties holds extension values and per-context caches.
	Properties Properties
}

// CurrentTime returns c.Now, first filling it from c.Clock when it is
// zero. Repeated checks against one Context therefore agree on "now".
func (c *Context) CurrentTime() time.Time {
	if c.Now.IsZero() {
		c.Now = clock.OrReal(c.Clock).Now()
	}
	return c.Now
}

// Terms returns the creation-side facts held in c.
func (c *Context) Terms() Terms {
	return Terms{
		Product:    c.Product,
		Owner:      c.Owner,
		Expiration: c.Expiration,
		MinVersion: c.MinVersion,
		MaxVersion: c.MaxVersion,
	}
}

// License builds and validates a License from c's creation facts. A
// validation failure is reported as a KindConfig error.
func (c *Context) License() (*License, error) {
	license, err := New(c.Terms())
	if err != nil {
		return nil, ConfigError(err)
	}
	return license, nil
}
