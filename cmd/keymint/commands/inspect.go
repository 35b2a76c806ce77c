// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/keymint/cmd/keymint/cli"
	"github.com/bureau-foundation/keymint/lib/keycodec"
	"github.com/bureau-foundation/keymint/lib/licensing"
	"github.com/bureau-foundation/keymint/lib/scheme"
)

type inspectParams struct {
	cli.JSONOutput
	Scheme string `json:"scheme" flag:"scheme,s" desc:"scheme the key was issued with (default octet)"`
}

type inspectResult struct {
	Scheme  string         `json:"scheme"`
	Bytes   int            `json:"bytes"`
	Expires string         `json:"expires,omitempty"`
	Claims  map[string]any `json:"claims,omitempty"`
	Note    string         `json:"note"`
}

const untrustedNote = "decoded without verification; run 'keymint verify' before relying on it"

func inspectCommand(stdout io.Writer) *cli.Command {
	var params inspectParams
	return &cli.Command{
		Name:    "inspect",
		Summary: "Show what a license key contains without verifying it",
		Description: `Decode a license key and show what can be read without a key.

octet keys reveal their expiry and jwt keys their claims. The other
schemes are encrypted, so only the payload size is shown. Nothing shown
here is authenticated.`,
		Usage: "keymint inspect [flags] KEY",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("inspect", &params)
		},
		Run: func(_ context.Context, args []string, _ *slog.Logger) error {
			if len(args) == 0 {
				return errors.New("license key required")
			}
			return runInspect(stdout, &params, strings.Join(args, ""))
		},
	}
}

func runInspect(stdout io.Writer, params *inspectParams, key string) error {
	selected := licensing.DefaultScheme
	if params.Scheme != "" {
		parsed, err := scheme.Parse(params.Scheme)
		if err != nil {
			return err
		}
		selected = parsed
	}

	result := inspectResult{Scheme: selected.Name(), Note: untrustedNote}
	switch selected {
	case scheme.Octet:
		data, err := keycodec.DecodeGrouped(key)
		if err != nil {
			return fmt.Errorf("decoding octet key: %w", err)
		}
		result.Bytes = len(data)
		expiration, err := scheme.DecodeOctetExpiry(key)
		if err != nil {
			return err
		}
		result.Expires = describeExpiry(expiration)

	case scheme.JWT:
		claims := jwt.MapClaims{}
		token, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(key), claims)
		if err != nil {
			return fmt.Errorf("decoding jwt: %w", err)
		}
		result.Bytes = len(token.Raw)
		result.Claims = claims
		if expiration, err := claims.GetExpirationTime(); err == nil && expiration != nil {
			result.Expires = describeExpiry(expiration.Time)
		} else {
			result.Expires = "never"
		}

	default:
		data, err := keycodec.DecodeWrapped(key)
		if err != nil {
			return fmt.Errorf("decoding %s key: %w", selected.Name(), err)
		}
		result.Bytes = len(data)
		result.Note = fmt.Sprintf("payload is encrypted; verify with the %s to read it", selected.VerifyRole())
	}

	if done, err := params.EmitJSON(stdout, result); done {
		return err
	}
	styles := cli.NewStyles(stdout)
	styles.Field("scheme", result.Scheme)
	styles.Field("bytes", fmt.Sprint(result.Bytes))
	if result.Expires != "" {
		styles.Field("expires", result.Expires)
	}
	names := make([]string, 0, len(result.Claims))
	for name := range result.Claims {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		styles.Field("claim "+name, fmt.Sprint(result.Claims[name]))
	}
	styles.Note("%s", result.Note)
	return nil
}
