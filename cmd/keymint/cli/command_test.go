// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesToSubcommand(t *testing.T) {
	var called string
	root := &Command{
		Name: "keymint",
		Subcommands: []*Command{
			{Name: "create", Run: func(context.Context, []string, *slog.Logger) error { called = "create"; return nil }},
			{Name: "verify", Run: func(context.Context, []string, *slog.Logger) error { called = "verify"; return nil }},
		},
	}

	if err := root.Execute(context.Background(), []string{"verify"}, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "verify" {
		t.Errorf("dispatched to %q, want verify", called)
	}
}

func TestExecuteParsesFlagsAndArgs(t *testing.T) {
	var product string
	var received []string
	root := &Command{
		Name: "keymint",
		Subcommands: []*Command{{
			Name: "verify",
			Flags: func() *pflag.FlagSet {
				flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
				flagSet.StringVar(&product, "product", "", "")
				return flagSet
			},
			Run: func(_ context.Context, args []string, _ *slog.Logger) error {
				received = args
				return nil
			},
		}},
	}

	if err := root.Execute(context.Background(), []string{"verify", "--product", "WidgetPro", "KEY"}, nil); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if product != "WidgetPro" {
		t.Errorf("product = %q", product)
	}
	if len(received) != 1 || received[0] != "KEY" {
		t.Errorf("args = %v, want [KEY]", received)
	}
}

func TestExecuteUnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name:        "keymint",
		Subcommands: []*Command{{Name: "verify", Run: func(context.Context, []string, *slog.Logger) error { return nil }}},
	}
	err := root.Execute(context.Background(), []string{"verfy"}, nil)
	if err == nil || !strings.Contains(err.Error(), `did you mean "verify"`) {
		t.Errorf("error = %v, want a suggestion of verify", err)
	}

	err = root.Execute(context.Background(), []string{"launch"}, nil)
	if err == nil || strings.Contains(err.Error(), "did you mean") {
		t.Errorf("error = %v, want no suggestion for a distant name", err)
	}
}

func TestExecuteUnknownFlagSuggests(t *testing.T) {
	command := &Command{
		Name: "create",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("create", pflag.ContinueOnError)
			flagSet.String("product", "", "")
			flagSet.String("owner", "", "")
			return flagSet
		},
		Run: func(context.Context, []string, *slog.Logger) error { return nil },
	}
	err := command.Execute(context.Background(), []string{"--prodcut", "X"}, nil)
	if err == nil || !strings.Contains(err.Error(), "did you mean --product?") {
		t.Errorf("error = %v, want a suggestion of --product", err)
	}
}

func TestExecuteGroupWithoutSubcommand(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:        "keymint",
		HelpOutput:  &help,
		Subcommands: []*Command{{Name: "schemes", Summary: "List schemes"}},
	}
	if err := root.Execute(context.Background(), nil, nil); err == nil {
		t.Error("Execute with no subcommand succeeded")
	}
	if !strings.Contains(help.String(), "schemes") {
		t.Errorf("help output missing subcommand listing:\n%s", help.String())
	}
}

func TestExecuteHelpFlag(t *testing.T) {
	var help bytes.Buffer
	ran := false
	root := &Command{
		Name:       "keymint",
		HelpOutput: &help,
		Subcommands: []*Command{{
			Name:        "verify",
			Description: "Verify a license key.",
			Examples:    []Example{{Description: "Check a key", Command: "keymint verify KEY"}},
			Flags: func() *pflag.FlagSet {
				flagSet := pflag.NewFlagSet("verify", pflag.ContinueOnError)
				flagSet.String("product", "", "product the license must name")
				return flagSet
			},
			Run: func(context.Context, []string, *slog.Logger) error { ran = true; return nil },
		}},
	}

	for _, args := range [][]string{{"verify", "--help"}, {"verify", "-h"}} {
		help.Reset()
		if err := root.Execute(context.Background(), args, nil); err != nil {
			t.Fatalf("Execute(%v): %v", args, err)
		}
		output := help.String()
		for _, want := range []string{"Verify a license key.", "keymint verify [flags]", "--product", "# Check a key"} {
			if !strings.Contains(output, want) {
				t.Errorf("help for %v missing %q:\n%s", args, want, output)
			}
		}
	}
	if ran {
		t.Error("Run called for a help request")
	}
}

func TestExecutePassesScopedLogger(t *testing.T) {
	var logs bytes.Buffer
	root := &Command{
		Name: "keymint",
		Subcommands: []*Command{{
			Name: "create",
			Run: func(_ context.Context, _ []string, logger *slog.Logger) error {
				logger.Info("hello")
				return nil
			},
		}},
	}
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	if err := root.Execute(context.Background(), []string{"create"}, logger); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(logs.String(), `"command":"create"`) {
		t.Errorf("log = %s, want command attribute", logs.String())
	}
}

func TestExitError(t *testing.T) {
	var err error = &ExitError{Code: 3}
	var coder interface{ ExitCode() int }
	if !errors.As(err, &coder) || coder.ExitCode() != 3 {
		t.Errorf("ExitError does not expose code 3")
	}
	if err.Error() != "exit code 3" {
		t.Errorf("Error() = %q", err.Error())
	}
}
