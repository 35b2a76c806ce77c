// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package license

import (
	"errors"
	"fmt"
	"time"

	"github.com/bureau-foundation/keymint/lib/version"
)

// Bound is one end of a supported version range. An empty Version
// means the range is open on that side.
type Bound struct {
	Version   string
	Inclusive bool
}

// IsSet reports whether the bound constrains anything.
func (b Bound) IsSet() bool { return b.Version != "" }

// Terms is the plain fact set a License is built from.
type Terms struct {
	// Product identifies the licensed product. Required.
	Product string

	// Owner identifies the license holder. Required.
	Owner string

	// Expiration is the instant after which the license is invalid.
	// The zero time means unlimited. Stored at millisecond
	// resolution.
	Expiration time.Time

	// MinVersion and MaxVersion bound the supported product versions.
	MinVersion Bound
	MaxVersion Bound
}

// Validate checks the invariants New enforces.
func (t Terms) Validate() error {
	var problems []error
	if t.Product == "" {
		problems = append(problems, errors.New("product is required"))
	}
	if t.Owner == "" {
		problems = append(problems, errors.New("owner is required"))
	}
	if !t.Expiration.IsZero() && t.Expiration.UnixMilli() <= 0 {
		problems = append(problems, fmt.Errorf("expiration %s is not after the Unix epoch", t.Expiration.UTC().Format(time.RFC3339)))
	}
	if t.MinVersion.IsSet() && !version.IsDotted(t.MinVersion.Version) {
		problems = append(problems, fmt.Errorf("minimum version %q is not dotted-numeric", t.MinVersion.Version))
	}
	if t.MaxVersion.IsSet() && !version.IsDotted(t.MaxVersion.Version) {
		problems = append(problems, fmt.Errorf("maximum version %q is not dotted-numeric", t.MaxVersion.Version))
	}
	if t.MinVersion.IsSet() && t.MaxVersion.IsSet() && version.Compare(t.MinVersion.Version, t.MaxVersion.Version) > 0 {
		problems = append(problems, fmt.Errorf("minimum version %s exceeds maximum version %s", t.MinVersion.Version, t.MaxVersion.Version))
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidTerms, errors.Join(problems...))
}

// License is a validated, immutable set of licensing facts.
type License struct {
	terms Terms
}

// New validates terms and returns the License they describe. The
// expiration is normalized to UTC at millisecond resolution so that a
// License survives Marshal/Unmarshal unchanged.
func New(terms Terms) (*License, error) {
	if err := terms.Validate(); err != nil {
		return nil, err
	}
	if !terms.Expiration.IsZero() {
		terms.Expiration = time.UnixMilli(terms.Expiration.UnixMilli()).UTC()
	}
	return &License{terms: terms}, nil
}

// Product returns the licensed product.
func (l *License) Product() string { return l.terms.Product }

// Owner returns the license holder.
func (l *License) Owner() string { return l.terms.Owner }

// Expiration returns the expiration instant, or the zero time for an
// unlimited license.
func (l *License) Expiration() time.Time { return l.terms.Expiration }

// Unlimited reports whether the license never expires.
func (l *License) Unlimited() bool { return l.terms.Expiration.IsZero() }

// MinVersion returns the lower version bound.
func (l *License) MinVersion() Bound { return l.terms.MinVersion }

// MaxVersion returns the upper version bound.
func (l *License) MaxVersion() Bound { return l.terms.MaxVersion }

// Terms returns a copy of the license facts.
func (l *License) Terms() Terms { return l.terms }

// Verify applies the default business rules against the trusted facts
// in ctx: exact product and owner match, not expired at ctx's current
// time, and ctx.Version inside the supported range. It resolves
// ctx.Now as a side effect (see [Context.CurrentTime]).
func (l *License) Verify(ctx *Context) error {
	if ctx == nil {
		return ConfigError(errors.New("verification context is nil"))
	}
	now := ctx.CurrentTime()

	if ctx.Product != l.terms.Product {
		return RuleViolation(ErrProductMismatch)
	}
	if ctx.Owner != l.terms.Owner {
		return RuleViolation(ErrOwnerMismatch)
	}

	if !l.terms.Expiration.IsZero() && !now.Before(l.terms.Expiration) {
		return RuleViolation(fmt.Errorf("%w at %s", ErrExpired, l.terms.Expiration.Format(time.RFC3339)))
	}

	if bound := l.terms.MinVersion; bound.IsSet() {
		result := version.Compare(ctx.Version, bound.Version)
		if result < 0 || (result == 0 && !bound.Inclusive) {
			return RuleViolation(fmt.Errorf("%w: %s %s", ErrVersionTooLow, describeVersion(ctx.Version), describeBound(">", bound)))
		}
	}
	if bound := l.terms.MaxVersion; bound.IsSet() {
		result := version.Compare(ctx.Version, bound.Version)
		if result > 0 || (result == 0 && !bound.Inclusive) {
			return RuleViolation(fmt.Errorf("%w: %s %s", ErrVersionTooHigh, describeVersion(ctx.Version), describeBound("<", bound)))
		}
	}

	return nil
}

func describeVersion(v string) string {
	if v == "" {
		return "undefined version"
	}
	return "version " + v
}

// describeBound renders the requirement the version failed, e.g.
// "requires >= 2.0.0".
func describeBound(operator string, bound Bound) string {
	if bound.Inclusive {
		operator += "="
	}
	return "requires " + operator + " " + bound.Version
}
