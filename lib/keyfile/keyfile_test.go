// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keyfile

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	x509pkix "crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"filippo.io/age"
	"golang.org/x/crypto/ssh"

	"github.com/bureau-foundation/keymint/lib/testutil"
)

func encodePEM(t *testing.T, blockType string, der []byte) []byte {
	t.Helper()
	return pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
}

func pkcs8(t *testing.T, key crypto.PrivateKey) []byte {
	t.Helper()
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("MarshalPKCS8PrivateKey: %v", err)
	}
	return encodePEM(t, "PRIVATE KEY", der)
}

func pkix(t *testing.T, key crypto.PublicKey) []byte {
	t.Helper()
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		t.Fatalf("MarshalPKIXPublicKey: %v", err)
	}
	return encodePEM(t, "PUBLIC KEY", der)
}

func openSSH(t *testing.T, key crypto.PrivateKey) []byte {
	t.Helper()
	block, err := ssh.MarshalPrivateKey(key, "test key")
	if err != nil {
		t.Fatalf("MarshalPrivateKey: %v", err)
	}
	return pem.EncodeToMemory(block)
}

func authorizedKey(t *testing.T, key crypto.PublicKey) []byte {
	t.Helper()
	sshKey, err := ssh.NewPublicKey(key)
	if err != nil {
		t.Fatalf("NewPublicKey: %v", err)
	}
	return ssh.MarshalAuthorizedKey(sshKey)
}

func withComment(line []byte, comment string) []byte {
	return []byte(strings.TrimSpace(string(line)) + " " + comment + "\n")
}

type equaler interface {
	Equal(crypto.PrivateKey) bool
}

func TestParsePrivateKeyFormats(t *testing.T) {
	rsaKey := testutil.RSAKey(t)
	ecKey := testutil.ECDSAKey(t, elliptic.P256())
	edKey := testutil.Ed25519Key(t)

	ecDER, err := x509.MarshalECPrivateKey(ecKey)
	if err != nil {
		t.Fatalf("MarshalECPrivateKey: %v", err)
	}

	tests := []struct {
		name string
		data []byte
		want crypto.PrivateKey
	}{
		{"pkcs8 rsa", pkcs8(t, rsaKey), rsaKey},
		{"pkcs8 ecdsa", pkcs8(t, ecKey), ecKey},
		{"pkcs8 ed25519", pkcs8(t, edKey), edKey},
		{"pkcs1 rsa", encodePEM(t, "RSA PRIVATE KEY", x509.MarshalPKCS1PrivateKey(rsaKey)), rsaKey},
		{"sec1 ecdsa", encodePEM(t, "EC PRIVATE KEY", ecDER), ecKey},
		{"openssh ed25519", openSSH(t, edKey), edKey},
		{"openssh rsa", openSSH(t, rsaKey), rsaKey},
		{"surrounding whitespace", append(append([]byte("\n\n"), pkcs8(t, edKey)...), "\n\n"...), edKey},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key, err := ParsePrivateKey(test.data)
			if err != nil {
				t.Fatalf("ParsePrivateKey: %v", err)
			}
			if !test.want.(equaler).Equal(key) {
				t.Errorf("ParsePrivateKey returned %T that does not equal the source key", key)
			}
		})
	}
}

func TestOpenSSHEd25519IsValue(t *testing.T) {
	key, err := ParsePrivateKey(openSSH(t, testutil.Ed25519Key(t)))
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	if _, ok := key.(ed25519.PrivateKey); !ok {
		t.Errorf("ParsePrivateKey returned %T, want ed25519.PrivateKey", key)
	}
}

func TestParseAgeIdentity(t *testing.T) {
	identity := testutil.AgeIdentity(t)
	file := "# created: 2026-03-01T12:00:00Z\n# public key: " + identity.Recipient().String() + "\n" + identity.String() + "\n"

	key, err := ParsePrivateKey([]byte(file))
	if err != nil {
		t.Fatalf("ParsePrivateKey: %v", err)
	}
	parsed, ok := key.(*age.X25519Identity)
	if !ok {
		t.Fatalf("ParsePrivateKey returned %T, want *age.X25519Identity", key)
	}
	if parsed.String() != identity.String() {
		t.Error("parsed identity differs from the source")
	}

	two := identity.String() + "\n" + testutil.SecondAgeIdentity(t).String() + "\n"
	if _, err := ParsePrivateKey([]byte(two)); err == nil {
		t.Error("ParsePrivateKey accepted a file with two identities")
	}
}

func TestParsePrivateKeyRejects(t *testing.T) {
	encrypted, err := ssh.MarshalPrivateKeyWithPassphrase(testutil.Ed25519Key(t), "", []byte("hunter2"))
	if err != nil {
		t.Fatalf("MarshalPrivateKeyWithPassphrase: %v", err)
	}
	legacyEncrypted := pem.EncodeToMemory(&pem.Block{
		Type:    "RSA PRIVATE KEY",
		Headers: map[string]string{"Proc-Type": "4,ENCRYPTED", "DEK-Info": "AES-128-CBC,00000000000000000000000000000000"},
		Bytes:   []byte{0x30, 0x00},
	})

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"empty", nil, ErrUnknownFormat},
		{"not pem", []byte("hello"), ErrUnknownFormat},
		{"public key block", pkix(t, testutil.Ed25519Key(t).Public()), ErrUnknownFormat},
		{"openssh with passphrase", pem.EncodeToMemory(encrypted), ErrEncrypted},
		{"legacy encrypted pem", legacyEncrypted, ErrEncrypted},
		{"pkcs8 encrypted", encodePEM(t, "ENCRYPTED PRIVATE KEY", []byte{0x30, 0x00}), ErrEncrypted},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParsePrivateKey(test.data); !errors.Is(err, test.want) {
				t.Errorf("ParsePrivateKey = %v, want %v", err, test.want)
			}
		})
	}

	if _, err := ParsePrivateKey(encodePEM(t, "PRIVATE KEY", []byte("garbage"))); err == nil {
		t.Error("ParsePrivateKey accepted a corrupt PKCS #8 body")
	}
}

func selfSignedCertificate(t *testing.T, key *ecdsa.PrivateKey) []byte {
	t.Helper()
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      x509pkix.Name{CommonName: "keymint issuer"},
		NotBefore:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		NotAfter:     time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}
	return encodePEM(t, "CERTIFICATE", der)
}

func TestParsePublicKeyFormats(t *testing.T) {
	rsaKey := testutil.RSAKey(t)
	ecKey := testutil.ECDSAKey(t, elliptic.P384())
	edKey := testutil.Ed25519Key(t)

	type publicEqualer interface {
		Equal(crypto.PublicKey) bool
	}
	tests := []struct {
		name string
		data []byte
		want publicEqualer
	}{
		{"pkix rsa", pkix(t, &rsaKey.PublicKey), &rsaKey.PublicKey},
		{"pkix ecdsa", pkix(t, &ecKey.PublicKey), &ecKey.PublicKey},
		{"pkix ed25519", pkix(t, edKey.Public()), edKey.Public().(ed25519.PublicKey)},
		{"pkcs1 rsa", encodePEM(t, "RSA PUBLIC KEY", x509.MarshalPKCS1PublicKey(&rsaKey.PublicKey)), &rsaKey.PublicKey},
		{"authorized ed25519", authorizedKey(t, edKey.Public()), edKey.Public().(ed25519.PublicKey)},
		{"authorized rsa with comment", withComment(authorizedKey(t, &rsaKey.PublicKey), "issuer@example"), &rsaKey.PublicKey},
		{"authorized ecdsa", authorizedKey(t, &ecKey.PublicKey), &ecKey.PublicKey},
		{"certificate", selfSignedCertificate(t, testutil.ECDSAKey(t, elliptic.P256())), &testutil.ECDSAKey(t, elliptic.P256()).PublicKey},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key, err := ParsePublicKey(test.data)
			if err != nil {
				t.Fatalf("ParsePublicKey: %v", err)
			}
			if !test.want.Equal(key) {
				t.Errorf("ParsePublicKey returned %T that does not equal the source key", key)
			}
		})
	}
}

func TestParseAgeRecipient(t *testing.T) {
	recipient := testutil.AgeIdentity(t).Recipient()
	key, err := ParsePublicKey([]byte("# issuer recipient\n" + recipient.String() + "\n"))
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	parsed, ok := key.(*age.X25519Recipient)
	if !ok || parsed.String() != recipient.String() {
		t.Errorf("ParsePublicKey = %v (%T), want %s", key, key, recipient)
	}

	if _, err := ParsePublicKey([]byte("age1notvalid")); err == nil {
		t.Error("ParsePublicKey accepted an invalid age recipient")
	}
}

func TestParsePublicKeyRejects(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":           nil,
		"garbage":         []byte("not a key"),
		"private key pem": pkcs8(t, testutil.Ed25519Key(t)),
	} {
		if _, err := ParsePublicKey(data); !errors.Is(err, ErrUnknownFormat) {
			t.Errorf("ParsePublicKey(%s) = %v, want ErrUnknownFormat", name, err)
		}
	}
}

func TestLoadKeys(t *testing.T) {
	edKey := testutil.Ed25519Key(t)
	privatePath := testutil.WriteFile(t, "issuer.pem", pkcs8(t, edKey))
	publicPath := testutil.WriteFile(t, "issuer.pub", authorizedKey(t, edKey.Public()))

	private, err := LoadPrivateKey(privatePath)
	if err != nil {
		t.Fatalf("LoadPrivateKey: %v", err)
	}
	if !edKey.Equal(private) {
		t.Error("LoadPrivateKey returned a different key")
	}

	public, err := LoadPublicKey(publicPath)
	if err != nil {
		t.Fatalf("LoadPublicKey: %v", err)
	}
	if !edKey.Public().(ed25519.PublicKey).Equal(public) {
		t.Error("LoadPublicKey returned a different key")
	}

	if _, err := LoadPrivateKey(privatePath + ".missing"); err == nil {
		t.Error("LoadPrivateKey of a missing file succeeded")
	}
	_, err = LoadPrivateKey(publicPath)
	if err == nil || !strings.Contains(err.Error(), publicPath) {
		t.Errorf("LoadPrivateKey(public file) = %v, want an error naming the path", err)
	}
}

func TestPublicFromPrivate(t *testing.T) {
	edKey := testutil.Ed25519Key(t)
	rsaKey := testutil.RSAKey(t)
	identity := testutil.AgeIdentity(t)

	public, err := PublicFromPrivate(edKey)
	if err != nil || !edKey.Public().(ed25519.PublicKey).Equal(public) {
		t.Errorf("PublicFromPrivate(ed25519) = %v, %v", public, err)
	}
	public, err = PublicFromPrivate(&edKey)
	if err != nil || !edKey.Public().(ed25519.PublicKey).Equal(public) {
		t.Errorf("PublicFromPrivate(*ed25519) = %v, %v", public, err)
	}
	public, err = PublicFromPrivate(rsaKey)
	if err != nil || !rsaKey.PublicKey.Equal(public) {
		t.Errorf("PublicFromPrivate(rsa) = %v, %v", public, err)
	}
	public, err = PublicFromPrivate(identity)
	if err != nil || public.(*age.X25519Recipient).String() != identity.Recipient().String() {
		t.Errorf("PublicFromPrivate(age) = %v, %v", public, err)
	}
	if _, err := PublicFromPrivate("key"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("PublicFromPrivate(string) = %v, want ErrUnsupported", err)
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		key  any
		want string
	}{
		{testutil.RSAKey(t), "RSA-2048"},
		{&testutil.RSAKey(t).PublicKey, "RSA-2048"},
		{testutil.ECDSAKey(t, elliptic.P256()), "ECDSA P-256"},
		{testutil.Ed25519Key(t), "Ed25519"},
		{testutil.Ed25519Key(t).Public(), "Ed25519"},
		{testutil.AgeIdentity(t), "age X25519"},
		{testutil.AgeIdentity(t).Recipient(), "age X25519"},
		{&rsa.PublicKey{N: big.NewInt(0xffff), E: 3}, "RSA-16"},
	}
	for _, test := range tests {
		if got := Describe(test.key); got != test.want {
			t.Errorf("Describe(%T) = %q, want %q", test.key, got, test.want)
		}
	}
}
