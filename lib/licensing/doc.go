// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package licensing is the entry point for issuing and checking
// license keys.
//
// A [Generator] creates keys and a [Manager] verifies them, each bound
// to one [scheme.Scheme] at construction. Both are immutable and safe
// for concurrent use; the per-call state lives in the caller's
// [license.Context].
//
//	generator, err := licensing.NewGenerator(scheme.Octet, licensing.WithLogger(logger))
//	key, err := generator.CreateLicenseKey(&license.Context{
//		Product:    "WidgetPro",
//		Owner:      "Acme",
//		Expiration: time.Now().AddDate(1, 0, 0),
//		PrivateKey: issuerKey,
//	})
//
// Every operation is logged through an injected *slog.Logger (silent by
// default) with the scheme, product, and a fingerprint of the key
// involved. License keys never appear in full in log output; see
// [MaskKey]. Counters and latencies are recorded in [Metrics] when one
// is supplied.
package licensing
