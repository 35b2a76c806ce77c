// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the keymint command tree.
package commands

import (
	"io"

	"github.com/bureau-foundation/keymint/cmd/keymint/cli"
)

// Root returns the complete command tree. Command results are written
// to stdout; help text goes to stderr.
func Root(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name: "keymint",
		Description: `keymint: issue and verify software license keys.

A license binds a product and an owner to an optional expiry and a
supported version range. It is encoded into a key by one of several
schemes, from compact hand-typeable signatures to encrypted payloads.`,
		HelpOutput: stderr,
		Subcommands: []*cli.Command{
			createCommand(stdout),
			verifyCommand(stdout),
			inspectCommand(stdout),
			fingerprintCommand(stdout),
			schemesCommand(stdout),
			versionCommand(stdout),
		},
		Examples: []cli.Example{
			{
				Description: "Issue a one-year Octet key signed with an Ed25519 key",
				Command:     "keymint create --product WidgetPro --owner Acme --expires 365d --key issuer.pem",
			},
			{
				Description: "Issue from a request file",
				Command:     "keymint create --request widgetpro-acme.yaml",
			},
			{
				Description: "Verify a key for product version 3.1",
				Command:     "keymint verify --product WidgetPro --owner Acme --version 3.1 --key issuer.pub KEY",
			},
			{
				Description: "List the available schemes",
				Command:     "keymint schemes",
			},
		},
	}
}
