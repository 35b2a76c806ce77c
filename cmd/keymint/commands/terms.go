// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"crypto"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/bureau-foundation/keymint/lib/config"
	"github.com/bureau-foundation/keymint/lib/keycodec"
	"github.com/bureau-foundation/keymint/lib/keyfile"
	"github.com/bureau-foundation/keymint/lib/license"
	"github.com/bureau-foundation/keymint/lib/licensing"
	"github.com/bureau-foundation/keymint/lib/scheme"
)

// termsParams are the flags shared by create and verify. Each one
// overrides the matching field of --request.
type termsParams struct {
	Request      string `json:"request" flag:"request,r" desc:"license request file (.yaml, .yml, .json, .jsonc)"`
	Scheme       string `json:"scheme" flag:"scheme,s" desc:"licensing scheme: full, rsa, octet, sealed, or jwt (default octet)"`
	Product      string `json:"product" flag:"product" desc:"licensed product"`
	Owner        string `json:"owner" flag:"owner" desc:"license holder"`
	MinVersion   string `json:"min_version" flag:"min-version" desc:"lowest supported product version"`
	MinExclusive bool   `json:"min_exclusive" flag:"min-exclusive" desc:"exclude --min-version itself"`
	MaxVersion   string `json:"max_version" flag:"max-version" desc:"highest supported product version"`
	MaxExclusive bool   `json:"max_exclusive" flag:"max-exclusive" desc:"exclude --max-version itself"`
	Key          string `json:"key" flag:"key,k" desc:"key file (PEM, OpenSSH, or age); which half depends on the scheme"`

	MetricsTextfile string `json:"metrics_textfile" flag:"metrics-textfile" desc:"write Prometheus metrics to this file on exit (node_exporter textfile format)"`
}

// request loads --request, if any, and applies flag overrides.
func (p *termsParams) request() (*config.Request, error) {
	request := &config.Request{}
	if p.Request != "" {
		loaded, err := config.LoadRequest(p.Request)
		if err != nil {
			return nil, err
		}
		request = loaded
	}

	if p.Scheme != "" {
		parsed, err := scheme.Parse(p.Scheme)
		if err != nil {
			return nil, err
		}
		request.Scheme = parsed
	}
	if p.Product != "" {
		request.Product = p.Product
	}
	if p.Owner != "" {
		request.Owner = p.Owner
	}
	if p.MinVersion != "" {
		request.MinVersion = config.Bound{Version: p.MinVersion, Inclusive: !p.MinExclusive}
	}
	if p.MaxVersion != "" {
		request.MaxVersion = config.Bound{Version: p.MaxVersion, Inclusive: !p.MaxExclusive}
	}
	if p.Key != "" {
		request.Key = p.Key
	}
	return request, nil
}

// attachKey loads the key file into the half of ctx that role names.
func attachKey(ctx *license.Context, s scheme.Scheme, role scheme.Role, path string) error {
	if path == "" {
		return fmt.Errorf("--key is required: the %s scheme needs a %s here", s.Name(), role)
	}
	switch role {
	case scheme.PublicKeyRole:
		key, err := loadPublicHalf(path)
		if err != nil {
			return err
		}
		ctx.PublicKey = key
	case scheme.PrivateKeyRole:
		key, err := keyfile.LoadPrivateKey(path)
		if err != nil {
			if errors.Is(err, keyfile.ErrUnknownFormat) {
				return fmt.Errorf("%s: the %s scheme needs a %s here: %w", path, s.Name(), role, err)
			}
			return err
		}
		ctx.PrivateKey = key
	}
	return nil
}

// loadPublicHalf reads a public key file, or derives the public half
// from a private key file.
func loadPublicHalf(path string) (crypto.PublicKey, error) {
	public, publicErr := keyfile.LoadPublicKey(path)
	if publicErr == nil {
		return public, nil
	}
	private, err := keyfile.LoadPrivateKey(path)
	if err != nil {
		return nil, publicErr
	}
	return keyfile.PublicFromPrivate(private)
}

// fingerprintOf returns the fingerprint of the key in ctx for role, or
// "" when it cannot be computed.
func fingerprintOf(ctx *license.Context, role scheme.Role) string {
	public := ctx.PublicKey
	if role == scheme.PrivateKeyRole {
		derived, err := keyfile.PublicFromPrivate(ctx.PrivateKey)
		if err != nil {
			return ""
		}
		public = derived
	}
	fingerprint, err := keycodec.Fingerprint(public)
	if err != nil {
		return ""
	}
	return fingerprint
}

// metricsSink registers licensing metrics on a private registry and
// writes them out when a textfile path was given.
type metricsSink struct {
	path     string
	registry *prometheus.Registry
	metrics  *licensing.Metrics
}

func newMetricsSink(path string) *metricsSink {
	if path == "" {
		return &metricsSink{}
	}
	registry := prometheus.NewRegistry()
	return &metricsSink{path: path, registry: registry, metrics: licensing.NewMetrics(registry)}
}

func (s *metricsSink) flush() error {
	if s.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(s.path, s.registry); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}

// licenseView is the JSON shape of a license in command output.
type licenseView struct {
	Product    string       `json:"product"`
	Owner      string       `json:"owner"`
	Expires    string       `json:"expires,omitempty"`
	Unlimited  bool         `json:"unlimited"`
	MinVersion *config.Bound `json:"min_version,omitempty"`
	MaxVersion *config.Bound `json:"max_version,omitempty"`
}

func viewOf(terms license.Terms) licenseView {
	view := licenseView{
		Product:   terms.Product,
		Owner:     terms.Owner,
		Unlimited: terms.Expiration.IsZero(),
	}
	if !view.Unlimited {
		view.Expires = terms.Expiration.UTC().Format(time.RFC3339)
	}
	if terms.MinVersion.IsSet() {
		view.MinVersion = &config.Bound{Version: terms.MinVersion.Version, Inclusive: terms.MinVersion.Inclusive}
	}
	if terms.MaxVersion.IsSet() {
		view.MaxVersion = &config.Bound{Version: terms.MaxVersion.Version, Inclusive: terms.MaxVersion.Inclusive}
	}
	return view
}

// describeRange renders a version range, e.g. ">= 2.0.0, < 4.0.0".
func describeRange(minimum, maximum license.Bound) string {
	var parts []string
	if minimum.IsSet() {
		operator := ">"
		if minimum.Inclusive {
			operator = ">="
		}
		parts = append(parts, operator+" "+minimum.Version)
	}
	if maximum.IsSet() {
		operator := "<"
		if maximum.Inclusive {
			operator = "<="
		}
		parts = append(parts, operator+" "+maximum.Version)
	}
	if len(parts) == 0 {
		return "any"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + ", " + parts[1]
}

func describeExpiry(expiration time.Time) string {
	if expiration.IsZero() {
		return "never"
	}
	return expiration.UTC().Format(time.RFC3339)
}
