// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyfile

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"

	"filippo.io/age"
	"golang.org/x/crypto/ssh"

	"github.com/bureau-foundation/keymint/lib/secret"
)

// Errors returned by the parsers.
var (
	ErrUnknownFormat = errors.New("keyfile: unrecognized key format")
	ErrEncrypted     = errors.New("keyfile: passphrase-protected keys are not supported")
	ErrUnsupported   = errors.New("keyfile: unsupported key algorithm")
)

const (
	agePrivatePrefix = "AGE-SECRET-KEY-1"
	agePublicPrefix  = "age1"
)

// ParsePrivateKey decodes a private key in any supported format.
func ParsePrivateKey(data []byte) (crypto.PrivateKey, error) {
	trimmed := bytes.TrimSpace(data)
	if bytes.Contains(trimmed, []byte(agePrivatePrefix)) && !bytes.HasPrefix(trimmed, []byte("-----")) {
		return parseAgeIdentity(trimmed)
	}

	block, _ := pem.Decode(trimmed)
	if block == nil {
		return nil, ErrUnknownFormat
	}
	if strings.Contains(block.Headers["Proc-Type"], "ENCRYPTED") {
		return nil, ErrEncrypted
	}

	var (
		key any
		err error
	)
	switch block.Type {
	case "PRIVATE KEY":
		key, err = x509.ParsePKCS8PrivateKey(block.Bytes)
	case "RSA PRIVATE KEY":
		key, err = x509.ParsePKCS1PrivateKey(block.Bytes)
	case "EC PRIVATE KEY":
		key, err = x509.ParseECPrivateKey(block.Bytes)
	case "OPENSSH PRIVATE KEY":
		key, err = ssh.ParseRawPrivateKey(trimmed)
		var passphraseMissing *ssh.PassphraseMissingError
		if errors.As(err, &passphraseMissing) {
			return nil, ErrEncrypted
		}
	case "ENCRYPTED PRIVATE KEY":
		return nil, ErrEncrypted
	default:
		return nil, fmt.Errorf("%w: PEM block %q", ErrUnknownFormat, block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", block.Type, err)
	}
	return normalizePrivate(key)
}

// ParsePublicKey decodes a public key in any supported format.
func ParsePublicKey(data []byte) (crypto.PublicKey, error) {
	trimmed := bytes.TrimSpace(data)
	if line := firstKeyLine(trimmed); strings.HasPrefix(line, agePublicPrefix) {
		recipient, err := age.ParseX25519Recipient(line)
		if err != nil {
			return nil, fmt.Errorf("parsing age recipient: %w", err)
		}
		return recipient, nil
	}

	if !bytes.HasPrefix(trimmed, []byte("-----")) {
		return parseAuthorizedKey(trimmed)
	}

	block, _ := pem.Decode(trimmed)
	if block == nil {
		return nil, ErrUnknownFormat
	}
	var (
		key any
		err error
	)
	switch block.Type {
	case "PUBLIC KEY":
		key, err = x509.ParsePKIXPublicKey(block.Bytes)
	case "RSA PUBLIC KEY":
		key, err = x509.ParsePKCS1PublicKey(block.Bytes)
	case "CERTIFICATE":
		var certificate *x509.Certificate
		certificate, err = x509.ParseCertificate(block.Bytes)
		if err == nil {
			key = certificate.PublicKey
		}
	default:
		return nil, fmt.Errorf("%w: PEM block %q", ErrUnknownFormat, block.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", block.Type, err)
	}
	return normalizePublic(key)
}

// LoadPrivateKey reads and parses a private key file. A path of "-"
// reads stdin.
func LoadPrivateKey(path string) (crypto.PrivateKey, error) {
	buffer, err := secret.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading private key %s: %w", path, err)
	}
	defer buffer.Close()

	key, err := ParsePrivateKey(buffer.Bytes())
	if err != nil {
		return nil, fmt.Errorf("private key %s: %w", path, err)
	}
	return key, nil
}

// LoadPublicKey reads and parses a public key file.
func LoadPublicKey(path string) (crypto.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	key, err := ParsePublicKey(data)
	if err != nil {
		return nil, fmt.Errorf("public key %s: %w", path, err)
	}
	return key, nil
}

// PublicFromPrivate returns the public half of a private key returned
// by ParsePrivateKey.
func PublicFromPrivate(key crypto.PrivateKey) (crypto.PublicKey, error) {
	switch typed := key.(type) {
	case *age.X25519Identity:
		return typed.Recipient(), nil
	case *ed25519.PrivateKey:
		return typed.Public(), nil
	case crypto.Signer:
		return typed.Public(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, key)
	}
}

// Describe names a key's algorithm for display, e.g. "RSA-3072".
func Describe(key any) string {
	switch typed := key.(type) {
	case *rsa.PrivateKey:
		return fmt.Sprintf("RSA-%d", typed.N.BitLen())
	case *rsa.PublicKey:
		return fmt.Sprintf("RSA-%d", typed.N.BitLen())
	case *ecdsa.PrivateKey:
		return "ECDSA " + typed.Curve.Params().Name
	case *ecdsa.PublicKey:
		return "ECDSA " + typed.Curve.Params().Name
	case ed25519.PrivateKey, ed25519.PublicKey:
		return "Ed25519"
	case *age.X25519Identity, *age.X25519Recipient:
		return "age X25519"
	default:
		return fmt.Sprintf("%T", key)
	}
}

func parseAgeIdentity(data []byte) (crypto.PrivateKey, error) {
	identities, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing age identity: %w", err)
	}
	if len(identities) != 1 {
		return nil, fmt.Errorf("age identity file holds %d identities, want exactly one", len(identities))
	}
	identity, ok := identities[0].(*age.X25519Identity)
	if !ok {
		return nil, fmt.Errorf("%w: age identity %T", ErrUnsupported, identities[0])
	}
	return identity, nil
}

func parseAuthorizedKey(data []byte) (crypto.PublicKey, error) {
	parsed, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnknownFormat, err)
	}
	cryptoKey, ok := parsed.(ssh.CryptoPublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: SSH key type %s", ErrUnsupported, parsed.Type())
	}
	return normalizePublic(cryptoKey.CryptoPublicKey())
}

// firstKeyLine returns the first line that is not blank or a comment.
func firstKeyLine(data []byte) string {
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return ""
}

func normalizePrivate(key any) (crypto.PrivateKey, error) {
	switch typed := key.(type) {
	case *rsa.PrivateKey:
		return typed, nil
	case *ecdsa.PrivateKey:
		return typed, nil
	case ed25519.PrivateKey:
		return typed, nil
	case *ed25519.PrivateKey:
		return *typed, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, key)
	}
}

func normalizePublic(key any) (crypto.PublicKey, error) {
	switch typed := key.(type) {
	case *rsa.PublicKey:
		return typed, nil
	case *ecdsa.PublicKey:
		return typed, nil
	case ed25519.PublicKey:
		return typed, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, key)
	}
}
