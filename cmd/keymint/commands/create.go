// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/keymint/cmd/keymint/cli"
	"github.com/bureau-foundation/keymint/lib/clock"
	"github.com/bureau-foundation/keymint/lib/licensing"
)

type createParams struct {
	cli.JSONOutput
	termsParams
	Expires string `json:"expires" flag:"expires,e" desc:"expiry: RFC 3339 time, date, duration (72h), day count (90d), or never"`
}

type createResult struct {
	Scheme         string `json:"scheme"`
	LicenseKey     string `json:"license_key"`
	KeyFingerprint string `json:"key_fingerprint,omitempty"`
	licenseView
}

func createCommand(stdout io.Writer) *cli.Command {
	var params createParams
	return &cli.Command{
		Name:    "create",
		Summary: "Issue a license key",
		Description: `Issue a license key for a product and owner.

The key file must hold the half of the key pair the scheme creates
with: the issuer's private key for rsa, octet, and jwt; the verifier's
public key (or age recipient) for full and sealed. Run 'keymint schemes'
for the table.

The key is written to stdout on its own.`,
		Usage: "keymint create [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("create", &params)
		},
		Examples: []cli.Example{
			{
				Description: "Unlimited key for any 2.x release",
				Command:     "keymint create --product WidgetPro --owner Acme --min-version 2.0 --max-version 3.0 --max-exclusive --key issuer.pem",
			},
			{
				Description: "Sealed key encrypted to a customer's age recipient",
				Command:     "keymint create --scheme sealed --product WidgetPro --owner Acme --expires 2027-01-01 --key acme.age.pub",
			},
		},
		Run: func(_ context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected argument %q", args[0])
			}
			return runCreate(stdout, &params, logger, clock.Real())
		},
	}
}

func runCreate(stdout io.Writer, params *createParams, logger *slog.Logger, timeSource clock.Clock) error {
	request, err := params.request()
	if err != nil {
		return err
	}
	if params.Expires != "" {
		request.Expires = params.Expires
	}
	if err := request.Validate(); err != nil {
		return fmt.Errorf("invalid license request:\n%w", err)
	}

	selected := request.EffectiveScheme()
	ctx, err := request.Context(timeSource.Now())
	if err != nil {
		return err
	}
	if err := attachKey(ctx, selected, selected.CreateRole(), request.Key); err != nil {
		return err
	}

	sink := newMetricsSink(params.MetricsTextfile)
	generator, err := licensing.NewGenerator(selected,
		licensing.WithLogger(logger), licensing.WithMetrics(sink.metrics), licensing.WithClock(timeSource))
	if err != nil {
		return err
	}
	key, err := generator.CreateLicenseKey(ctx)
	if flushErr := sink.flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}

	result := createResult{
		Scheme:         selected.Name(),
		LicenseKey:     key,
		KeyFingerprint: fingerprintOf(ctx, selected.CreateRole()),
		licenseView:    viewOf(ctx.Terms()),
	}
	if done, err := params.EmitJSON(stdout, result); done {
		return err
	}
	_, err = fmt.Fprintln(stdout, key)
	return err
}
