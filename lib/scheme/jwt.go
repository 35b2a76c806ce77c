// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scheme

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bureau-foundation/keymint/lib/license"
)

// jwtIssuer is the iss claim of every token this package mints.
const jwtIssuer = "keymint"

// licenseClaims is the JWT body. Product is the single audience and
// owner the subject; exp is omitted for unlimited licenses.
type licenseClaims struct {
	jwt.RegisteredClaims
	MinVersion   string `json:"min_version,omitempty"`
	MinInclusive bool   `json:"min_inclusive,omitempty"`
	MaxVersion   string `json:"max_version,omitempty"`
	MaxInclusive bool   `json:"max_inclusive,omitempty"`
}

func createJWT(ctx *license.Context) (string, error) {
	signingKey, method, err := jwtSigningKey(ctx.PrivateKey)
	if err != nil {
		return "", missingKey(JWT, PrivateKeyRole, "an Ed25519, RSA, or ECDSA", ctx.PrivateKey)
	}

	issued, err := ctx.License()
	if err != nil {
		return "", err
	}

	claims := licenseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   jwtIssuer,
			Subject:  issued.Owner(),
			Audience: jwt.ClaimStrings{issued.Product()},
			IssuedAt: jwt.NewNumericDate(ctx.CurrentTime()),
			ID:       uuid.NewString(),
		},
		MinVersion:   issued.MinVersion().Version,
		MinInclusive: issued.MinVersion().Inclusive,
		MaxVersion:   issued.MaxVersion().Version,
		MaxInclusive: issued.MaxVersion().Inclusive,
	}
	if !issued.Unlimited() {
		claims.ExpiresAt = jwt.NewNumericDate(issued.Expiration())
	}

	token, err := jwt.NewWithClaims(method, claims).SignedString(signingKey)
	if err != nil {
		return "", license.ConfigError(fmt.Errorf("signing license token: %w", err))
	}
	return token, nil
}

func verifyJWT(key string, ctx *license.Context) (*license.License, error) {
	verifyingKey, method, err := jwtVerifyingKey(ctx.PublicKey)
	if err != nil {
		return nil, missingKey(JWT, PublicKeyRole, "an Ed25519, RSA, or ECDSA", ctx.PublicKey)
	}

	parser, err := derive(ctx, "scheme.jwt.parser", ctx.PublicKey, func() (*jwt.Parser, error) {
		// Expiry is a license rule judged against the context clock,
		// so the library's own time checks are disabled.
		return jwt.NewParser(
			jwt.WithValidMethods([]string{method.Alg()}),
			jwt.WithStrictDecoding(),
			jwt.WithoutClaimsValidation(),
		), nil
	})
	if err != nil {
		return nil, err
	}

	var claims licenseClaims
	_, err = parser.ParseWithClaims(key, &claims, func(*jwt.Token) (any, error) {
		return verifyingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, license.Malformed(err)
		}
		return nil, license.CryptoFailure(fmt.Errorf("%w: %w", license.ErrSignatureMismatch, err))
	}
	if claims.Issuer != jwtIssuer {
		return nil, license.Malformed(fmt.Errorf("token issuer %q is not %q", claims.Issuer, jwtIssuer))
	}
	if len(claims.Audience) != 1 {
		return nil, license.Malformed(fmt.Errorf("token has %d audiences, want exactly one", len(claims.Audience)))
	}

	terms := license.Terms{
		Product:    claims.Audience[0],
		Owner:      claims.Subject,
		MinVersion: license.Bound{Version: claims.MinVersion, Inclusive: claims.MinInclusive},
		MaxVersion: license.Bound{Version: claims.MaxVersion, Inclusive: claims.MaxInclusive},
	}
	if claims.ExpiresAt != nil {
		terms.Expiration = claims.ExpiresAt.Time
	}
	decoded, err := license.New(terms)
	if err != nil {
		return nil, license.Malformed(err)
	}
	if err := decoded.Verify(ctx); err != nil {
		return nil, err
	}
	return decoded, nil
}

// jwtSigningKey normalizes key and selects the signing method its
// type dictates.
func jwtSigningKey(key crypto.PrivateKey) (crypto.PrivateKey, jwt.SigningMethod, error) {
	switch typed := key.(type) {
	case ed25519.PrivateKey:
		if len(typed) == ed25519.PrivateKeySize {
			return typed, jwt.SigningMethodEdDSA, nil
		}
	case *ed25519.PrivateKey:
		if typed != nil {
			return jwtSigningKey(*typed)
		}
	case *rsa.PrivateKey:
		if typed != nil {
			return typed, jwt.SigningMethodRS256, nil
		}
	case *ecdsa.PrivateKey:
		if typed != nil {
			method, err := ecdsaMethod(typed.Curve)
			return typed, method, err
		}
	}
	return nil, nil, fmt.Errorf("unsupported JWT signing key %T", key)
}

// jwtVerifyingKey is the public-key counterpart of jwtSigningKey.
func jwtVerifyingKey(key crypto.PublicKey) (crypto.PublicKey, jwt.SigningMethod, error) {
	switch typed := key.(type) {
	case ed25519.PublicKey:
		if len(typed) == ed25519.PublicKeySize {
			return typed, jwt.SigningMethodEdDSA, nil
		}
	case *ed25519.PublicKey:
		if typed != nil {
			return jwtVerifyingKey(*typed)
		}
	case *rsa.PublicKey:
		if typed != nil && typed.N != nil {
			return typed, jwt.SigningMethodRS256, nil
		}
	case *ecdsa.PublicKey:
		if typed != nil {
			method, err := ecdsaMethod(typed.Curve)
			return typed, method, err
		}
	}
	return nil, nil, fmt.Errorf("unsupported JWT verifying key %T", key)
}

func ecdsaMethod(curve elliptic.Curve) (jwt.SigningMethod, error) {
	switch curve {
	case elliptic.P256():
		return jwt.SigningMethodES256, nil
	case elliptic.P384():
		return jwt.SigningMethodES384, nil
	case elliptic.P521():
		return jwt.SigningMethodES512, nil
	default:
		return nil, errors.New("unsupported ECDSA curve for JWT")
	}
}
