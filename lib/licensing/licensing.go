// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package licensing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bureau-foundation/keymint/lib/clock"
	"github.com/bureau-foundation/keymint/lib/license"
	"github.com/bureau-foundation/keymint/lib/scheme"
)

// DefaultScheme is the scheme used when a caller does not choose one.
const DefaultScheme = scheme.Octet

// Option configures a Generator or Manager.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	metrics *Metrics
	clock   clock.Clock
}

// WithLogger sets the logger. Nil restores the silent default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics records operation counts and latencies in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock supplies the time source for contexts that carry neither
// Now nor Clock.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

func buildOptions(s scheme.Scheme, opts []Option) (options, error) {
	if !s.Valid() {
		return options{}, license.ConfigError(fmt.Errorf("%w: %s", license.ErrUnsupportedScheme, s))
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	o.logger = o.logger.With("scheme", s.Name())
	return o, nil
}

// applyClock fills ctx.Clock from the configured clock when the
// context has no time source of its own.
func (o *options) applyClock(ctx *license.Context) {
	if ctx != nil && o.clock != nil && ctx.Now.IsZero() && ctx.Clock == nil {
		ctx.Clock = o.clock
	}
}

// Generator creates license keys with one scheme.
type Generator struct {
	scheme scheme.Scheme
	options
}

// NewGenerator returns a Generator for s. An undefined scheme is
// rejected here rather than on first use.
func NewGenerator(s scheme.Scheme, opts ...Option) (*Generator, error) {
	o, err := buildOptions(s, opts)
	if err != nil {
		return nil, err
	}
	return &Generator{scheme: s, options: o}, nil
}

// Scheme returns the generator's scheme.
func (g *Generator) Scheme() scheme.Scheme { return g.scheme }

// CreateLicenseKey encodes the license described by ctx. Errors from
// the scheme are returned unchanged.
func (g *Generator) CreateLicenseKey(ctx *license.Context) (string, error) {
	g.applyClock(ctx)
	start := time.Now()
	key, err := g.scheme.Create(ctx)
	g.metrics.observeDuration(g.scheme, operationCreate, time.Since(start))

	logger := g.logger
	if ctx != nil && logger.Enabled(context.Background(), slog.LevelInfo) {
		logger = logger.With("product", ctx.Product)
		if fingerprint := keyFingerprint(ctx, g.scheme.CreateRole()); fingerprint != "" {
			logger = logger.With("key_fingerprint", fingerprint)
		}
	}

	if err != nil {
		logger.Error("license key creation failed", "kind", kindOf(err), "error", err)
		return "", err
	}

	g.metrics.countCreated(g.scheme)
	logger.Info("license key created", "owner", ctx.Owner, "license_key", MaskKey(key))
	return key, nil
}

// Manager verifies license keys with one scheme.
type Manager struct {
	scheme scheme.Scheme
	options
}

// NewManager returns a Manager for s. An undefined scheme is rejected
// here rather than on first use.
func NewManager(s scheme.Scheme, opts ...Option) (*Manager, error) {
	o, err := buildOptions(s, opts)
	if err != nil {
		return nil, err
	}
	return &Manager{scheme: s, options: o}, nil
}

// Scheme returns the manager's scheme.
func (m *Manager) Scheme() scheme.Scheme { return m.scheme }

// Verify decodes key, checks its integrity, and applies the business
// rules against the trusted facts in ctx. Errors from the scheme are
// returned unchanged.
func (m *Manager) Verify(key string, ctx *license.Context) (*license.License, error) {
	m.applyClock(ctx)
	start := time.Now()
	verified, err := m.scheme.Verify(key, ctx)
	m.metrics.observeDuration(m.scheme, operationVerify, time.Since(start))
	m.metrics.countVerification(m.scheme, err)

	logger := m.logger
	if ctx != nil && logger.Enabled(context.Background(), slog.LevelWarn) {
		logger = logger.With("product", ctx.Product, "license_key", MaskKey(key))
		if fingerprint := keyFingerprint(ctx, m.scheme.VerifyRole()); fingerprint != "" {
			logger = logger.With("key_fingerprint", fingerprint)
		}
	}

	if err != nil {
		logger.Warn("license verification failed", "kind", kindOf(err), "error", diagnosticCause(err))
		return nil, err
	}

	logger.Info("license verified", "owner", verified.Owner(), "unlimited", verified.Unlimited())
	return verified, nil
}

// kindOf names the failure class, or "unknown" for an error that did
// not come from the license API.
func kindOf(err error) string {
	var licenseError *license.Error
	if errors.As(err, &licenseError) {
		return licenseError.Kind.String()
	}
	return "unknown"
}

// diagnosticCause returns the wrapped cause of a malformed or crypto
// failure, which callers only see as "invalid license key". Logs are
// an operator surface and keep the detail.
func diagnosticCause(err error) error {
	var licenseError *license.Error
	if errors.As(err, &licenseError) && licenseError.Err != nil {
		switch licenseError.Kind {
		case license.KindMalformed, license.KindCrypto:
			return licenseError.Err
		}
	}
	return err
}
