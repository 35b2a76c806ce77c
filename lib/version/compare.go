// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import "strings"

// Compare returns -1, 0, or +1 when a is less than, equal to, or
// greater than b. The empty string is an undefined version: it is less
// than any defined version and equal only to itself.
func Compare(a, b string) int {
	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	case b == "":
		return 1
	}

	left := strings.Split(a, ".")
	right := strings.Split(b, ".")
	for i := range min(len(left), len(right)) {
		if result := compareSegment(left[i], right[i]); result != 0 {
			return result
		}
	}

	switch {
	case len(left) < len(right):
		return -1
	case len(left) > len(right):
		return 1
	}
	return 0
}

// compareSegment compares one dot-separated component. Digit runs are
// compared numerically without parsing, so segments longer than an
// int64 still order correctly.
func compareSegment(a, b string) int {
	if !isDigits(a) || !isDigits(b) {
		return strings.Compare(a, b)
	}

	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return strings.Compare(a, b)
}

// IsDotted reports whether v is one or more non-empty digit runs
// separated by single dots ("4", "2.0.0"). License bounds must satisfy
// this; the version being checked against them need not.
func IsDotted(v string) bool {
	if v == "" {
		return false
	}
	for segment := range strings.SplitSeq(v, ".") {
		if !isDigits(segment) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
