// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an extra
// error message. When a command handler returns an ExitError, main
// exits with the specified code and prints nothing further: the
// command has already written its own output, either a styled status
// line or a JSON result.
//
// Use it where a non-zero exit is a valid outcome rather than a
// failure of the tool. "keymint verify" returns ExitError{Code: 1} for
// a rejected license, so scripts can test the exit status while the
// rejection reason stays on stdout. Problems with the invocation
// itself (a missing --key, an unknown scheme) are returned as ordinary
// errors instead and printed by main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the exit code. main checks returned errors for this
// method to distinguish "handled non-zero exit" from "unexpected error
// to display".
func (e *ExitError) ExitCode() int {
	return e.Code
}
