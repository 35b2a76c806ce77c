// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package keycodec

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeWrapped(t *testing.T) {
	data := bytes.Repeat([]byte{0xa5}, 200)
	encoded := EncodeWrapped(data, LineWidth)

	lines := strings.Split(encoded, "\n")
	for index, line := range lines {
		if index < len(lines)-1 && len(line) != LineWidth {
			t.Errorf("line %d has %d characters, want %d", index, len(line), LineWidth)
		}
		if len(line) > LineWidth {
			t.Errorf("line %d exceeds %d characters", index, LineWidth)
		}
	}
	if strings.HasSuffix(encoded, "\n") {
		t.Error("EncodeWrapped output ends with a newline")
	}

	decoded, err := DecodeWrapped(encoded)
	if err != nil {
		t.Fatalf("DecodeWrapped: %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("round trip changed the data")
	}
}

func TestEncodeWrappedShortAndUnwrapped(t *testing.T) {
	if got := EncodeWrapped([]byte("hi"), LineWidth); got != "aGk=" {
		t.Errorf("EncodeWrapped(hi) = %q, want aGk=", got)
	}
	long := bytes.Repeat([]byte{1}, 100)
	if strings.Contains(EncodeWrapped(long, 0), "\n") {
		t.Error("width 0 still wrapped")
	}
}

func TestDecodeWrappedIgnoresWhitespace(t *testing.T) {
	decoded, err := DecodeWrapped("  aG\r\n\tk=\n")
	if err != nil {
		t.Fatalf("DecodeWrapped: %v", err)
	}
	if string(decoded) != "hi" {
		t.Errorf("DecodeWrapped = %q, want hi", decoded)
	}
	if _, err := DecodeWrapped("not base64!"); err == nil {
		t.Error("DecodeWrapped accepted invalid input")
	}
}

func TestDecodeWrappedRejectsNonzeroPaddingBits(t *testing.T) {
	// "hi" is aGk=. The low two bits of its last character are padding.
	for _, input := range []string{"aGl=", "aGm=", "aGn="} {
		if _, err := DecodeWrapped(input); err == nil {
			t.Errorf("DecodeWrapped(%q) accepted nonzero padding bits", input)
		}
	}
	if _, err := DecodeWrapped("aGk="); err != nil {
		t.Errorf("DecodeWrapped(aGk=): %v", err)
	}
}
