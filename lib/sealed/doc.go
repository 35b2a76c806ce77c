// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sealed provides age encryption for license payloads. It wraps
// filippo.io/age for the two operations the Sealed scheme needs: seal a
// payload to one or more recipients and open it with an identity.
//
// Keys arrive through license.Context as untyped values, so
// [ParseRecipient] and [ParseIdentity] accept the age types directly,
// their text forms ("age1…", "AGE-SECRET-KEY-1…"), or a
// [secret.Buffer] holding the text form.
//
// Output is raw age binary; the scheme owns the text encoding.
package sealed
