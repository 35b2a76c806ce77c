// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable source of the current time.
//
// License verification compares an expiration against "now". Code that
// needs the current time accepts a Clock instead of calling time.Now
// directly, so tests can pin time with Fake and move it with Advance:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	ctx := &license.Context{Clock: c}
//	c.Advance(72 * time.Hour)
//
// In production, Real() returns the wall clock.
package clock
