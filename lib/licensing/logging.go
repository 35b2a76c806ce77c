// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package licensing

import (
	"crypto"
	"strings"

	"github.com/bureau-foundation/keymint/lib/keycodec"
	"github.com/bureau-foundation/keymint/lib/keyfile"
	"github.com/bureau-foundation/keymint/lib/license"
	"github.com/bureau-foundation/keymint/lib/scheme"
	"github.com/bureau-foundation/keymint/lib/sealed"
)

// maskVisible is how many characters MaskKey keeps at each end.
const maskVisible = 4

// MaskKey shortens a license key for logs, keeping only the first and
// last four characters. Keys too short to mask safely are hidden
// entirely.
func MaskKey(key string) string {
	key = strings.Join(strings.Fields(key), "")
	if len(key) <= 3*maskVisible {
		return "****"
	}
	return key[:maskVisible] + "****" + key[len(key)-maskVisible:]
}

// keyFingerprint identifies the key half role of ctx, or returns "" if
// it is absent or cannot be fingerprinted. Private keys are identified
// by their public half.
func keyFingerprint(ctx *license.Context, role scheme.Role) string {
	var public crypto.PublicKey
	switch role {
	case scheme.PublicKeyRole:
		public = ctx.PublicKey
		if text, ok := public.(string); ok {
			recipient, err := sealed.ParseRecipient(text)
			if err != nil {
				return ""
			}
			public = recipient
		}
	case scheme.PrivateKeyRole:
		private := ctx.PrivateKey
		if text, ok := private.(string); ok {
			identity, err := sealed.ParseIdentity(text)
			if err != nil {
				return ""
			}
			private = identity
		}
		derived, err := keyfile.PublicFromPrivate(private)
		if err != nil {
			return ""
		}
		public = derived
	}
	if public == nil {
		return ""
	}
	fingerprint, err := keycodec.Fingerprint(public)
	if err != nil {
		return ""
	}
	return fingerprint
}
