// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/keymint/cmd/keymint/cli"
	"github.com/bureau-foundation/keymint/lib/keycodec"
	"github.com/bureau-foundation/keymint/lib/keyfile"
)

type fingerprintParams struct {
	cli.JSONOutput
}

type fingerprintEntry struct {
	Path        string `json:"path"`
	Type        string `json:"type"`
	Fingerprint string `json:"fingerprint"`
}

func fingerprintCommand(stdout io.Writer) *cli.Command {
	var params fingerprintParams
	return &cli.Command{
		Name:    "fingerprint",
		Summary: "Print key fingerprints",
		Description: `Print a short stable identifier for each key file.

A private key and its public half have the same fingerprint, so the
identifier in a log line can be matched to either file.`,
		Usage: "keymint fingerprint [flags] FILE...",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("fingerprint", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) == 0 {
				return errors.New("at least one key file required")
			}
			return runFingerprint(stdout, &params, args)
		},
	}
}

func runFingerprint(stdout io.Writer, params *fingerprintParams, paths []string) error {
	entries := make([]fingerprintEntry, 0, len(paths))
	for _, path := range paths {
		public, err := loadPublicHalf(path)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		fingerprint, err := keycodec.Fingerprint(public)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		entries = append(entries, fingerprintEntry{Path: path, Type: keyfile.Describe(public), Fingerprint: fingerprint})
	}

	if done, err := params.EmitJSON(stdout, entries); done {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', 0)
	for _, entry := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", entry.Fingerprint, entry.Type, entry.Path)
	}
	return tw.Flush()
}
