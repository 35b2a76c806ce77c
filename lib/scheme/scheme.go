// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bureau-foundation/keymint/lib/license"
)

// Scheme selects a license key encoding.
type Scheme int

const (
	// Full encrypts the whole license to an RSA public key.
	Full Scheme = iota + 1

	// RSA encrypts the whole license with an RSA private key, so only
	// the issuer can mint keys and any public key holder can read them.
	RSA

	// Octet signs the license facts and carries only the expiry and
	// the signature, as grouped Base32.
	Octet

	// Sealed encrypts the whole license to an age X25519 recipient.
	Sealed

	// JWT signs the license as a JSON Web Token.
	JWT
)

// Role names which half of a key pair an operation needs.
type Role int

const (
	PublicKeyRole Role = iota + 1
	PrivateKeyRole
)

func (r Role) String() string {
	switch r {
	case PublicKeyRole:
		return "public key"
	case PrivateKeyRole:
		return "private key"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

type definition struct {
	token      string
	name       string
	summary    string
	createRole Role
	verifyRole Role
}

var definitions = map[Scheme]definition{
	Full: {
		token: "FULL_LICENSE", name: "full",
		summary:    "whole license RSA-encrypted to the verifier's public key",
		createRole: PublicKeyRole, verifyRole: PrivateKeyRole,
	},
	RSA: {
		token: "RSA_LICENSE", name: "rsa",
		summary:    "whole license RSA-encrypted with the issuer's private key",
		createRole: PrivateKeyRole, verifyRole: PublicKeyRole,
	},
	Octet: {
		token: "OCTET_LICENSE", name: "octet",
		summary:    "expiry plus signature, grouped Base32 for typing by hand",
		createRole: PrivateKeyRole, verifyRole: PublicKeyRole,
	},
	Sealed: {
		token: "SEALED_LICENSE", name: "sealed",
		summary:    "whole license age-encrypted to an X25519 recipient",
		createRole: PublicKeyRole, verifyRole: PrivateKeyRole,
	},
	JWT: {
		token: "JWT_LICENSE", name: "jwt",
		summary:    "signed JSON Web Token (EdDSA, RS256, or ES256/384/512)",
		createRole: PrivateKeyRole, verifyRole: PublicKeyRole,
	},
}

// All returns every scheme in declaration order.
func All() []Scheme {
	return []Scheme{Full, RSA, Octet, Sealed, JWT}
}

// Parse accepts a scheme token ("OCTET_LICENSE") or short name
// ("octet"), case-insensitively.
func Parse(text string) (Scheme, error) {
	trimmed := strings.TrimSpace(text)
	for _, scheme := range All() {
		definition := definitions[scheme]
		if strings.EqualFold(trimmed, definition.token) || strings.EqualFold(trimmed, definition.name) {
			return scheme, nil
		}
	}
	return 0, license.ConfigError(fmt.Errorf("%w: %q", license.ErrUnsupportedScheme, text))
}

// Valid reports whether s is a defined scheme.
func (s Scheme) Valid() bool {
	_, ok := definitions[s]
	return ok
}

// String returns the scheme token, e.g. "OCTET_LICENSE".
func (s Scheme) String() string {
	if definition, ok := definitions[s]; ok {
		return definition.token
	}
	return fmt.Sprintf("Scheme(%d)", int(s))
}

// Name returns the short lowercase name, e.g. "octet".
func (s Scheme) Name() string {
	if definition, ok := definitions[s]; ok {
		return definition.name
	}
	return fmt.Sprintf("scheme-%d", int(s))
}

// Summary returns a one-line description.
func (s Scheme) Summary() string { return definitions[s].summary }

// CreateRole returns the key half Create reads from the context.
func (s Scheme) CreateRole() Role { return definitions[s].createRole }

// VerifyRole returns the key half Verify reads from the context.
func (s Scheme) VerifyRole() Role { return definitions[s].verifyRole }

// MarshalText encodes s as its token.
func (s Scheme) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, license.ConfigError(fmt.Errorf("%w: %s", license.ErrUnsupportedScheme, s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText accepts anything Parse accepts.
func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Create encodes the license described by ctx as a key string.
func (s Scheme) Create(ctx *license.Context) (string, error) {
	if ctx == nil {
		return "", license.ConfigError(errors.New("creation context is nil"))
	}
	switch s {
	case Full:
		return createFull(ctx)
	case RSA:
		return createRSA(ctx)
	case Octet:
		return createOctet(ctx)
	case Sealed:
		return createSealed(ctx)
	case JWT:
		return createJWT(ctx)
	default:
		return "", license.ConfigError(fmt.Errorf("%w: %s", license.ErrUnsupportedScheme, s))
	}
}

// Verify decodes key, checks its integrity with the context's key
// material, and applies License.Verify against the trusted facts in
// ctx. It returns the License only if every check passes.
func (s Scheme) Verify(key string, ctx *license.Context) (*license.License, error) {
	if ctx == nil {
		return nil, license.ConfigError(errors.New("verification context is nil"))
	}
	if !s.Valid() {
		return nil, license.ConfigError(fmt.Errorf("%w: %s", license.ErrUnsupportedScheme, s))
	}
	if strings.TrimSpace(key) == "" {
		return nil, license.Malformed(errors.New("license key is empty"))
	}

	var (
		result *license.License
		err    error
	)
	switch s {
	case Full:
		result, err = verifyFull(key, ctx)
	case RSA:
		result, err = verifyRSA(key, ctx)
	case Octet:
		result, err = verifyOctet(key, ctx)
	case Sealed:
		result, err = verifySealed(key, ctx)
	case JWT:
		result, err = verifyJWT(key, ctx)
	}
	if err != nil {
		return nil, license.Wrap(err)
	}
	return result, nil
}

// missingKey reports absent or unusable key material for an operation.
func missingKey(s Scheme, role Role, want string, got any) error {
	if got == nil {
		return license.ConfigError(fmt.Errorf("%w: %s requires %s %s", license.ErrMissingKey, s, want, role))
	}
	return license.ConfigError(fmt.Errorf("%w: %s requires %s %s, got %T", license.ErrMissingKey, s, want, role, got))
}
