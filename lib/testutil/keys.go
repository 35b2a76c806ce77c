// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"sync"

	"filippo.io/age"
)

// Fataler is the subset of testing.TB the key helpers need.
type Fataler interface {
	Helper()
	Fatalf(format string, args ...any)
}

type cached[T any] struct {
	once  sync.Once
	value T
	err   error
}

func (c *cached[T]) get(t Fataler, what string, generate func() (T, error)) T {
	t.Helper()
	c.once.Do(func() { c.value, c.err = generate() })
	if c.err != nil {
		t.Fatalf("generating %s: %v", what, c.err)
	}
	return c.value
}

var (
	rsaKeys     [2]cached[*rsa.PrivateKey]
	ed25519Keys [2]cached[ed25519.PrivateKey]
	ageKeys     [2]cached[*age.X25519Identity]

	ecdsaMutex sync.Mutex
	ecdsaKeys  = map[string]*cached[*ecdsa.PrivateKey]{}
)

// RSAKey returns a cached 2048-bit RSA key.
func RSAKey(t Fataler) *rsa.PrivateKey {
	t.Helper()
	return rsaKeys[0].get(t, "RSA key", generateRSA)
}

// SecondRSAKey returns a cached 2048-bit RSA key distinct from RSAKey.
func SecondRSAKey(t Fataler) *rsa.PrivateKey {
	t.Helper()
	return rsaKeys[1].get(t, "second RSA key", generateRSA)
}

// Ed25519Key returns a cached Ed25519 key.
func Ed25519Key(t Fataler) ed25519.PrivateKey {
	t.Helper()
	return ed25519Keys[0].get(t, "Ed25519 key", generateEd25519)
}

// SecondEd25519Key returns a cached Ed25519 key distinct from Ed25519Key.
func SecondEd25519Key(t Fataler) ed25519.PrivateKey {
	t.Helper()
	return ed25519Keys[1].get(t, "second Ed25519 key", generateEd25519)
}

// ECDSAKey returns a cached ECDSA key on curve.
func ECDSAKey(t Fataler, curve elliptic.Curve) *ecdsa.PrivateKey {
	t.Helper()
	name := curve.Params().Name

	ecdsaMutex.Lock()
	entry, ok := ecdsaKeys[name]
	if !ok {
		entry = &cached[*ecdsa.PrivateKey]{}
		ecdsaKeys[name] = entry
	}
	ecdsaMutex.Unlock()

	return entry.get(t, fmt.Sprintf("ECDSA %s key", name), func() (*ecdsa.PrivateKey, error) {
		return ecdsa.GenerateKey(curve, rand.Reader)
	})
}

// AgeIdentity returns a cached age X25519 identity.
func AgeIdentity(t Fataler) *age.X25519Identity {
	t.Helper()
	return ageKeys[0].get(t, "age identity", age.GenerateX25519Identity)
}

// SecondAgeIdentity returns a cached age identity distinct from
// AgeIdentity.
func SecondAgeIdentity(t Fataler) *age.X25519Identity {
	t.Helper()
	return ageKeys[1].get(t, "second age identity", age.GenerateX25519Identity)
}

func generateRSA() (*rsa.PrivateKey, error) {
	return rsa.GenerateKey(rand.Reader, 2048)
}

func generateEd25519() (ed25519.PrivateKey, error) {
	_, private, err := ed25519.GenerateKey(rand.Reader)
	return private, err
}
