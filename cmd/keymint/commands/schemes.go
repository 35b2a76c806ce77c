// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/keymint/cmd/keymint/cli"
	"github.com/bureau-foundation/keymint/lib/licensing"
	"github.com/bureau-foundation/keymint/lib/scheme"
)

type schemesParams struct {
	cli.JSONOutput
}

type schemeEntry struct {
	Name      string `json:"name"`
	Token     string `json:"token"`
	CreateKey string `json:"create_key"`
	VerifyKey string `json:"verify_key"`
	Default   bool   `json:"default"`
	Summary   string `json:"summary"`
}

func schemesCommand(stdout io.Writer) *cli.Command {
	var params schemesParams
	return &cli.Command{
		Name:    "schemes",
		Summary: "List licensing schemes and the key each needs",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("schemes", &params)
		},
		Run: func(context.Context, []string, *slog.Logger) error {
			return runSchemes(stdout, &params)
		},
	}
}

func runSchemes(stdout io.Writer, params *schemesParams) error {
	var entries []schemeEntry
	for _, s := range scheme.All() {
		entries = append(entries, schemeEntry{
			Name:      s.Name(),
			Token:     s.String(),
			CreateKey: s.CreateRole().String(),
			VerifyKey: s.VerifyRole().String(),
			Default:   s == licensing.DefaultScheme,
			Summary:   s.Summary(),
		})
	}

	if done, err := params.EmitJSON(stdout, entries); done {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tCREATE WITH\tVERIFY WITH\tDESCRIPTION")
	for _, entry := range entries {
		name := entry.Name
		if entry.Default {
			name += " (default)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, entry.CreateKey, entry.VerifyKey, entry.Summary)
	}
	return tw.Flush()
}
