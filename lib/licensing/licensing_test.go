// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package licensing

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/bureau-foundation/keymint/lib/clock"
	"github.com/bureau-foundation/keymint/lib/keycodec"
	"github.com/bureau-foundation/keymint/lib/license"
	"github.com/bureau-foundation/keymint/lib/scheme"
	"github.com/bureau-foundation/keymint/lib/testutil"
)

var issued = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func creationContext(t *testing.T) *license.Context {
	t.Helper()
	return &license.Context{
		Product:    "WidgetPro",
		Owner:      "Acme",
		Expiration: issued.AddDate(0, 0, 30),
		PrivateKey: testutil.Ed25519Key(t),
	}
}

func verificationContext(t *testing.T) *license.Context {
	t.Helper()
	return &license.Context{
		Product:   "WidgetPro",
		Owner:     "Acme",
		Version:   "2.1",
		Now:       issued.Add(time.Hour),
		PublicKey: testutil.Ed25519Key(t).Public(),
	}
}

// logRecords decodes the JSON lines written by a slog.JSONHandler.
func logRecords(t *testing.T, buffer *bytes.Buffer) []map[string]any {
	t.Helper()
	var records []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buffer.String()), "\n") {
		if line == "" {
			continue
		}
		var record map[string]any
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			t.Fatalf("decoding log line %q: %v", line, err)
		}
		records = append(records, record)
	}
	return records
}

func TestDefaultScheme(t *testing.T) {
	if DefaultScheme != scheme.Octet {
		t.Errorf("DefaultScheme = %s, want %s", DefaultScheme, scheme.Octet)
	}
}

func TestConstructorsRejectUnsupportedScheme(t *testing.T) {
	for _, bad := range []scheme.Scheme{0, scheme.Scheme(99)} {
		if _, err := NewGenerator(bad); !errors.Is(err, license.ErrUnsupportedScheme) || !license.IsKind(err, license.KindConfig) {
			t.Errorf("NewGenerator(%d) error = %v, want a config error wrapping ErrUnsupportedScheme", int(bad), err)
		}
		if _, err := NewManager(bad); !errors.Is(err, license.ErrUnsupportedScheme) {
			t.Errorf("NewManager(%d) error = %v, want ErrUnsupportedScheme", int(bad), err)
		}
	}
}

func TestGeneratorManagerRoundTrip(t *testing.T) {
	for _, s := range []scheme.Scheme{scheme.Octet, scheme.JWT} {
		t.Run(s.Name(), func(t *testing.T) {
			generator, err := NewGenerator(s)
			if err != nil {
				t.Fatalf("NewGenerator: %v", err)
			}
			if generator.Scheme() != s {
				t.Errorf("Generator.Scheme() = %s, want %s", generator.Scheme(), s)
			}
			key, err := generator.CreateLicenseKey(creationContext(t))
			if err != nil {
				t.Fatalf("CreateLicenseKey: %v", err)
			}

			manager, err := NewManager(s)
			if err != nil {
				t.Fatalf("NewManager: %v", err)
			}
			verified, err := manager.Verify(key, verificationContext(t))
			if err != nil {
				t.Fatalf("Verify: %v", err)
			}
			if verified.Product() != "WidgetPro" || verified.Owner() != "Acme" {
				t.Errorf("verified identities = %q/%q", verified.Product(), verified.Owner())
			}
		})
	}
}

func TestVerifyPropagatesSchemeErrors(t *testing.T) {
	manager, err := NewManager(scheme.Octet)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	_, err = manager.Verify("NOT-A-KEY!", verificationContext(t))
	if !license.IsKind(err, license.KindMalformed) {
		t.Fatalf("error = %v, want malformed", err)
	}
	if err.Error() != "license: invalid license key" {
		t.Errorf("error text = %q, want the generic message", err.Error())
	}
}

func TestWithClockFillsContextTime(t *testing.T) {
	generator, err := NewGenerator(scheme.Octet)
	if err != nil {
		t.Fatal(err)
	}
	key, err := generator.CreateLicenseKey(creationContext(t))
	if err != nil {
		t.Fatal(err)
	}

	fake := clock.Fake(issued.AddDate(0, 0, 31))
	manager, err := NewManager(scheme.Octet, WithClock(fake))
	if err != nil {
		t.Fatal(err)
	}

	ctx := verificationContext(t)
	ctx.Now = time.Time{}
	if _, err := manager.Verify(key, ctx); !errors.Is(err, license.ErrExpired) {
		t.Errorf("error = %v, want ErrExpired from the injected clock", err)
	}

	// A context with its own time is left alone.
	ctx = verificationContext(t)
	if _, err := manager.Verify(key, ctx); err != nil {
		t.Errorf("Verify with pinned Now: %v", err)
	}
	if ctx.Clock != nil {
		t.Error("WithClock overwrote a context that already had a time")
	}
}

func TestCreateLogging(t *testing.T) {
	var buffer bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buffer, nil))

	generator, err := NewGenerator(scheme.Octet, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	key, err := generator.CreateLicenseKey(creationContext(t))
	if err != nil {
		t.Fatal(err)
	}

	records := logRecords(t, &buffer)
	if len(records) != 1 {
		t.Fatalf("got %d log records, want 1", len(records))
	}
	record := records[0]
	if record["msg"] != "license key created" {
		t.Errorf("msg = %v", record["msg"])
	}
	if record["scheme"] != "octet" || record["product"] != "WidgetPro" || record["owner"] != "Acme" {
		t.Errorf("record attributes = %v", record)
	}
	want, err := keycodec.Fingerprint(testutil.Ed25519Key(t).Public())
	if err != nil {
		t.Fatal(err)
	}
	if record["key_fingerprint"] != want {
		t.Errorf("key_fingerprint = %v, want %s", record["key_fingerprint"], want)
	}
	if strings.Contains(buffer.String(), key) {
		t.Error("log output contains the full license key")
	}
	if record["license_key"] != MaskKey(key) {
		t.Errorf("license_key = %v, want %s", record["license_key"], MaskKey(key))
	}
}

func TestCreateFailureLogging(t *testing.T) {
	var buffer bytes.Buffer
	generator, err := NewGenerator(scheme.Octet, WithLogger(slog.New(slog.NewJSONHandler(&buffer, nil))))
	if err != nil {
		t.Fatal(err)
	}

	ctx := creationContext(t)
	ctx.PrivateKey = nil
	if _, err := generator.CreateLicenseKey(ctx); !errors.Is(err, license.ErrMissingKey) {
		t.Fatalf("error = %v, want ErrMissingKey", err)
	}

	records := logRecords(t, &buffer)
	if len(records) != 1 || records[0]["level"] != "ERROR" || records[0]["kind"] != "config" {
		t.Errorf("records = %v, want one ERROR with kind=config", records)
	}
	if _, ok := records[0]["key_fingerprint"]; ok {
		t.Error("key_fingerprint logged for a context without a key")
	}
}

func TestVerifyFailureLogsCause(t *testing.T) {
	generator, err := NewGenerator(scheme.Octet)
	if err != nil {
		t.Fatal(err)
	}
	key, err := generator.CreateLicenseKey(creationContext(t))
	if err != nil {
		t.Fatal(err)
	}

	var buffer bytes.Buffer
	manager, err := NewManager(scheme.Octet, WithLogger(slog.New(slog.NewJSONHandler(&buffer, nil))))
	if err != nil {
		t.Fatal(err)
	}
	ctx := verificationContext(t)
	ctx.PublicKey = testutil.SecondEd25519Key(t).Public()
	if _, err := manager.Verify(key, ctx); !license.IsKind(err, license.KindCrypto) {
		t.Fatalf("error = %v, want crypto failure", err)
	}

	records := logRecords(t, &buffer)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	record := records[0]
	if record["level"] != "WARN" || record["kind"] != "crypto" {
		t.Errorf("record = %v, want WARN kind=crypto", record)
	}
	if message, _ := record["error"].(string); !strings.Contains(message, "signature mismatch") {
		t.Errorf("error attribute = %q, want the underlying cause", message)
	}
	if record["license_key"] != MaskKey(key) {
		t.Errorf("license_key = %v, want masked key", record["license_key"])
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"ABCDEFGH-IJKLMNOP-QRSTUVWX", "ABCD****UVWX"},
		{"eyJhbGci\nOiJFZERT\nQSJ9", "eyJh****QSJ9"},
		{"SHORTKEY", "****"},
		{"", "****"},
	}
	for _, test := range tests {
		if got := MaskKey(test.key); got != test.want {
			t.Errorf("MaskKey(%q) = %q, want %q", test.key, got, test.want)
		}
	}
}

func TestKeyFingerprintRoles(t *testing.T) {
	identity := testutil.AgeIdentity(t)
	want, err := keycodec.Fingerprint(identity.Recipient())
	if err != nil {
		t.Fatal(err)
	}

	contexts := map[string]struct {
		ctx  *license.Context
		role scheme.Role
	}{
		"recipient":        {&license.Context{PublicKey: identity.Recipient()}, scheme.PublicKeyRole},
		"recipient string": {&license.Context{PublicKey: identity.Recipient().String()}, scheme.PublicKeyRole},
		"identity":         {&license.Context{PrivateKey: identity}, scheme.PrivateKeyRole},
		"identity string":  {&license.Context{PrivateKey: identity.String()}, scheme.PrivateKeyRole},
	}
	for name, test := range contexts {
		if got := keyFingerprint(test.ctx, test.role); got != want {
			t.Errorf("%s: fingerprint = %q, want %q", name, got, want)
		}
	}

	if got := keyFingerprint(&license.Context{PublicKey: "not a key"}, scheme.PublicKeyRole); got != "" {
		t.Errorf("unparseable key fingerprint = %q, want empty", got)
	}
	if got := keyFingerprint(&license.Context{}, scheme.PrivateKeyRole); got != "" {
		t.Errorf("absent key fingerprint = %q, want empty", got)
	}
}
