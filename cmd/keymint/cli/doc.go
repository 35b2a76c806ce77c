// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the small command framework behind the keymint
// binary.
//
// A [Command] tree dispatches on the first positional argument, parses
// flags with github.com/spf13/pflag, and suggests the closest command
// or flag name on a typo. Flag sets are built from tagged parameter
// structs by [FlagsFromParams]:
//
//	type verifyParams struct {
//	    cli.JSONOutput
//	    Product string `flag:"product" desc:"product the license must name"`
//	}
//
// Handlers receive a context and a structured logger and write results
// to the writer they were constructed with. A handler that has already
// reported its outcome returns an [ExitError] to set the process exit
// code without a second error line.
package cli
