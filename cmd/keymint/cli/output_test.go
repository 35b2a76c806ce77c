// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestEmitJSON(t *testing.T) {
	var buffer bytes.Buffer
	output := JSONOutput{}
	if done, err := output.EmitJSON(&buffer, []string{"x"}); done || err != nil || buffer.Len() != 0 {
		t.Errorf("EmitJSON without --json = (%v, %v), wrote %q", done, err, buffer.String())
	}

	output.OutputJSON = true
	var empty []string
	if done, err := output.EmitJSON(&buffer, empty); !done || err != nil {
		t.Fatalf("EmitJSON = (%v, %v)", done, err)
	}
	if strings.TrimSpace(buffer.String()) != "[]" {
		t.Errorf("nil slice encoded as %q, want []", buffer.String())
	}
}

func TestStylesPlainOnNonTerminal(t *testing.T) {
	var buffer bytes.Buffer
	styles := NewStyles(&buffer)
	styles.Success("license valid")
	styles.Failure("license rejected: %s", "expired")
	styles.Field("owner", "Acme")
	styles.Note("expiry is not authenticated")

	want := "✓ license valid\n✗ license rejected: expired\n  owner: Acme\nexpiry is not authenticated\n"
	if buffer.String() != want {
		t.Errorf("output = %q, want %q", buffer.String(), want)
	}
}

func TestNewCommandLoggerJSONWhenPiped(t *testing.T) {
	var buffer bytes.Buffer
	logger := NewCommandLogger(&buffer, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown", "scheme", "octet")

	output := buffer.String()
	if strings.Contains(output, "hidden") {
		t.Error("record below the level was written")
	}
	if !strings.Contains(output, `"msg":"shown"`) || !strings.Contains(output, `"scheme":"octet"`) {
		t.Errorf("output = %q, want a JSON record", output)
	}
}
