// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/keymint/cmd/keymint/cli"
	"github.com/bureau-foundation/keymint/lib/clock"
	"github.com/bureau-foundation/keymint/lib/license"
	"github.com/bureau-foundation/keymint/lib/licensing"
	"github.com/bureau-foundation/keymint/lib/secret"
)

type verifyParams struct {
	cli.JSONOutput
	termsParams
	Version     string `json:"version" flag:"version" desc:"product version being licensed"`
	LicenseFile string `json:"license_file" flag:"license-file,f" desc:"read the license key from this file (- for stdin)"`
}

type verifyResult struct {
	Valid   bool         `json:"valid"`
	Scheme  string       `json:"scheme"`
	Kind    string       `json:"kind,omitempty"`
	Error   string       `json:"error,omitempty"`
	License *licenseView `json:"license,omitempty"`
}

func verifyCommand(stdout io.Writer) *cli.Command {
	var params verifyParams
	return &cli.Command{
		Name:    "verify",
		Summary: "Check a license key",
		Description: `Check a license key against the expected product, owner, and version.

The key file must hold the half of the key pair the scheme verifies
with. For octet keys, which carry only an expiry and a signature, the
version range also comes from the flags or request file.

Exits 0 when the key is valid and 1 when it is rejected.`,
		Usage: "keymint verify [flags] [KEY]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("verify", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Check a key read from a file",
				Command:     "keymint verify --request widgetpro-acme.yaml --version 3.1 --license-file acme.key",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			key, err := readLicenseKey(args, params.LicenseFile)
			if err != nil {
				return err
			}
			return runVerify(stdout, &params, key, logger, clock.Real())
		},
	}
}

// readLicenseKey takes the key from the positional arguments or from
// --license-file, but not both.
func readLicenseKey(args []string, path string) (string, error) {
	switch {
	case len(args) > 0 && path != "":
		return "", errors.New("give the license key as an argument or with --license-file, not both")
	case len(args) > 0:
		return strings.Join(args, ""), nil
	case path != "":
		buffer, err := secret.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading license key: %w", err)
		}
		defer buffer.Close()
		return buffer.String(), nil
	default:
		return "", errors.New("license key required (argument or --license-file)")
	}
}

func runVerify(stdout io.Writer, params *verifyParams, key string, logger *slog.Logger, timeSource clock.Clock) error {
	request, err := params.request()
	if err != nil {
		return err
	}
	if params.Version != "" {
		request.Version = params.Version
	}
	// Expires is a creation field; a shared request file may carry one.
	request.Expires = ""
	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid license request:\n%w", err)
	}

	selected := request.EffectiveScheme()
	ctx, err := request.Context(timeSource.Now())
	if err != nil {
		return err
	}
	if err := attachKey(ctx, selected, selected.VerifyRole(), request.Key); err != nil {
		return err
	}

	sink := newMetricsSink(params.MetricsTextfile)
	manager, err := licensing.NewManager(selected,
		licensing.WithLogger(logger), licensing.WithMetrics(sink.metrics), licensing.WithClock(timeSource))
	if err != nil {
		return err
	}
	verified, verifyErr := manager.Verify(key, ctx)
	if err := sink.flush(); err != nil {
		return err
	}

	if verifyErr != nil {
		if license.IsKind(verifyErr, license.KindConfig) {
			return verifyErr
		}
		result := verifyResult{Scheme: selected.Name(), Kind: kindName(verifyErr), Error: verifyErr.Error()}
		if done, err := params.EmitJSON(stdout, result); done {
			if err != nil {
				return err
			}
			return &cli.ExitError{Code: 1}
		}
		cli.NewStyles(stdout).Failure("license rejected: %s", strings.TrimPrefix(verifyErr.Error(), "license: "))
		return &cli.ExitError{Code: 1}
	}

	view := viewOf(verified.Terms())
	result := verifyResult{Valid: true, Scheme: selected.Name(), License: &view}
	if done, err := params.EmitJSON(stdout, result); done {
		return err
	}
	styles := cli.NewStyles(stdout)
	styles.Success("license valid")
	styles.Field("product", verified.Product())
	styles.Field("owner", verified.Owner())
	styles.Field("expires", describeExpiry(verified.Expiration()))
	styles.Field("versions", describeRange(verified.MinVersion(), verified.MaxVersion()))
	return nil
}

func kindName(err error) string {
	var licenseError *license.Error
	if errors.As(err, &licenseError) {
		return licenseError.Kind.String()
	}
	return ""
}
