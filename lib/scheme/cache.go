// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheme

import (
	"crypto"
	"reflect"

	"github.com/bureau-foundation/keymint/lib/license"
)

// cached pairs a derived value with the key it was derived from.
type cached[V any] struct {
	source any
	value  V
}

// derive returns build(source), reusing the value stored in ctx under
// name if it was built from the same source key.
func derive[V any](ctx *license.Context, name string, source any, build func() (V, error)) (V, error) {
	key := license.NewKey[cached[V]](name)
	if entry, ok := license.Get(&ctx.Properties, key); ok && sameKey(entry.source, source) {
		return entry.value, nil
	}
	value, err := build()
	if err != nil {
		var zero V
		return zero, err
	}
	license.Set(&ctx.Properties, key, cached[V]{source: source, value: value})
	return value, nil
}

// sameKey compares key material without panicking on uncomparable
// types such as ed25519.PublicKey.
func sameKey(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	switch typed := a.(type) {
	case interface{ Equal(crypto.PublicKey) bool }:
		return typed.Equal(b)
	case interface{ Equal(crypto.PrivateKey) bool }:
		return typed.Equal(b)
	}
	if !reflect.TypeOf(a).Comparable() {
		return false
	}
	return a == b
}
