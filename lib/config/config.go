// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/keymint/lib/license"
	"github.com/bureau-foundation/keymint/lib/licensing"
	"github.com/bureau-foundation/keymint/lib/scheme"
	"github.com/bureau-foundation/keymint/lib/version"
)

// Request is a license request file.
type Request struct {
	// Scheme selects the key encoding. Zero means licensing.DefaultScheme.
	Scheme scheme.Scheme `yaml:"scheme" json:"scheme"`

	Product string `yaml:"product" json:"product"`
	Owner   string `yaml:"owner" json:"owner"`

	// Expires is an RFC 3339 timestamp, a date (2026-12-31, midnight
	// UTC), a Go duration ("72h"), a day count ("90d"), or empty /
	// "never" for an unlimited license. Relative forms count from the
	// time passed to Context.
	Expires string `yaml:"expires" json:"expires"`

	MinVersion Bound `yaml:"min_version" json:"min_version"`
	MaxVersion Bound `yaml:"max_version" json:"max_version"`

	// Version is the product version to check when the request is
	// used for verification.
	Version string `yaml:"version" json:"version"`

	// Key is the path of the key file for this operation. LoadRequest
	// expands and absolutizes it.
	Key string `yaml:"key" json:"key"`
}

// Bound is a version bound. In files it is either a bare version
// string (inclusive) or {version, inclusive}.
type Bound struct {
	Version   string `yaml:"version" json:"version"`
	Inclusive bool   `yaml:"inclusive" json:"inclusive"`
}

// UnmarshalYAML accepts the scalar shorthand.
func (b *Bound) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*b = Bound{Version: node.Value, Inclusive: true}
		return nil
	}
	type plain Bound
	decoded := plain{Inclusive: true}
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*b = Bound(decoded)
	return nil
}

// UnmarshalJSON accepts the string shorthand.
func (b *Bound) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*b = Bound{Version: text, Inclusive: true}
		return nil
	}
	type plain Bound
	decoded := plain{Inclusive: true}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&decoded); err != nil {
		return err
	}
	*b = Bound(decoded)
	return nil
}

func (b Bound) license() license.Bound {
	return license.Bound{Version: b.Version, Inclusive: b.Inclusive}
}

// LoadRequest reads a request file, choosing the decoder by extension.
func LoadRequest(path string) (*Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var request Request
	switch extension := strings.ToLower(filepath.Ext(path)); extension {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&request); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	case ".json", ".jsonc":
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&request); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("request file %s: unsupported extension %q (want .yaml, .yml, .json, or .jsonc)", path, extension)
	}

	if request.Key != "" {
		request.Key = resolvePath(expandVars(request.Key), filepath.Dir(path))
	}
	return &request, nil
}

// EffectiveScheme returns the scheme, defaulting when unset.
func (r *Request) EffectiveScheme() scheme.Scheme {
	if r.Scheme == 0 {
		return licensing.DefaultScheme
	}
	return r.Scheme
}

// Validate reports every problem with the request at once.
func (r *Request) Validate() error {
	var errs []error

	if r.Scheme != 0 && !r.Scheme.Valid() {
		errs = append(errs, fmt.Errorf("scheme %s is not supported", r.Scheme))
	}
	if r.Product == "" {
		errs = append(errs, errors.New("product is required"))
	}
	if r.Owner == "" {
		errs = append(errs, errors.New("owner is required"))
	}
	if _, err := ParseExpiry(r.Expires, time.Unix(0, 0)); err != nil {
		errs = append(errs, err)
	}
	if r.MinVersion.Version != "" && !version.IsDotted(r.MinVersion.Version) {
		errs = append(errs, fmt.Errorf("min_version %q is not a dotted version", r.MinVersion.Version))
	}
	if r.MaxVersion.Version != "" && !version.IsDotted(r.MaxVersion.Version) {
		errs = append(errs, fmt.Errorf("max_version %q is not a dotted version", r.MaxVersion.Version))
	}

	return errors.Join(errs...)
}

// Context converts the request into a license context. Relative
// expiries count from now. Key material is not loaded.
func (r *Request) Context(now time.Time) (*license.Context, error) {
	expiration, err := ParseExpiry(r.Expires, now)
	if err != nil {
		return nil, err
	}
	return &license.Context{
		Product:    r.Product,
		Owner:      r.Owner,
		Expiration: expiration,
		MinVersion: r.MinVersion.license(),
		MaxVersion: r.MaxVersion.license(),
		Version:    r.Version,
	}, nil
}

var dayCountPattern = regexp.MustCompile(`^([0-9]+)d$`)

// ParseExpiry interprets an expiry expression relative to now. The
// zero time means unlimited.
func ParseExpiry(text string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(text)
	switch strings.ToLower(trimmed) {
	case "", "never", "unlimited":
		return time.Time{}, nil
	}

	if timestamp, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return timestamp, nil
	}
	if date, err := time.Parse(time.DateOnly, trimmed); err == nil {
		return date, nil
	}
	if match := dayCountPattern.FindStringSubmatch(trimmed); match != nil {
		var days int
		if _, err := fmt.Sscanf(match[1], "%d", &days); err != nil || days <= 0 {
			return time.Time{}, fmt.Errorf("expires %q: day count must be positive", text)
		}
		return now.AddDate(0, 0, days), nil
	}
	if duration, err := time.ParseDuration(trimmed); err == nil {
		if duration <= 0 {
			return time.Time{}, fmt.Errorf("expires %q: duration must be positive", text)
		}
		return now.Add(duration), nil
	}
	return time.Time{}, fmt.Errorf("expires %q: want an RFC 3339 time, a date, a duration, or <n>d", text)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} from the environment.
func expandVars(s string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if value := os.Getenv(parts[1]); value != "" {
			return value
		}
		return parts[2]
	})
}

// resolvePath expands a leading "~/" and anchors relative paths at base.
func resolvePath(path, base string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, rest)
		}
	}
	if path == "-" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
