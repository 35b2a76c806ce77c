// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides dotted version comparison for license
// version ranges, plus build information for keymint binaries.
//
// # Version comparison
//
// [Compare] orders dotted version strings ("2.0.0", "4.1") segment by
// segment. Numeric segments compare as integers of any length;
// a segment that is not purely numeric on either side falls back to
// lexicographic comparison for that segment only. When one version is
// a prefix of the other, the longer one is greater ("1.1.0" > "1.1").
// The empty string is an undefined version and sorts before every
// defined version.
//
// [IsDotted] checks the stricter syntax required of license bounds:
// one or more digit runs separated by single dots.
//
// # Build information
//
// Four package-level variables are injected at build time via
// -ldflags -X:
//
//   - [GitCommit] -- short git SHA of the build
//   - [GitDirty] -- "true" if there were uncommitted changes
//   - [BuildTime] -- UTC timestamp of the build
//   - [Version] -- semantic version string (set manually for releases)
//
// These default to "unknown" / "0.1.0-dev" when not injected.
package version
