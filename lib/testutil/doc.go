// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for keymint packages.
//
// [RSAKey], [Ed25519Key], [ECDSAKey], and [AgeIdentity] return key
// material for scheme and codec tests. Generated keys are cached per
// process because RSA generation dominates test time otherwise; tests
// must treat them as read-only. [SecondRSAKey] and friends return a
// different key of the same type for wrong-key tests.
//
// [WriteFile] places fixture files (PEM keys, request files) in a
// per-test temporary directory.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no keymint-internal dependencies.
package testutil
