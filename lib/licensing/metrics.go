// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package licensing

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bureau-foundation/keymint/lib/scheme"
)

const (
	operationCreate = "create"
	operationVerify = "verify"

	// resultValid is the verification result label for success. Failures
	// are labelled with the license error kind.
	resultValid = "valid"
)

// Metrics holds the Prometheus collectors for license operations. A nil
// *Metrics records nothing.
type Metrics struct {
	// KeysCreated counts successful key creations by scheme.
	KeysCreated *prometheus.CounterVec

	// Verifications counts verification outcomes by scheme and result.
	Verifications *prometheus.CounterVec

	// OperationDuration observes create and verify latency.
	OperationDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg. A nil
// reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		KeysCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keymint_license_keys_created_total",
			Help: "License keys created, by scheme",
		}, []string{"scheme"}),

		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "keymint_license_verifications_total",
			Help: "License verifications by scheme and result (valid, malformed, crypto, rule, config)",
		}, []string{"scheme", "result"}),

		OperationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "keymint_license_operation_duration_seconds",
			Help:    "Duration of license create and verify operations",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}, []string{"scheme", "operation"}),
	}
}

func (m *Metrics) countCreated(s scheme.Scheme) {
	if m != nil {
		m.KeysCreated.WithLabelValues(s.Name()).Inc()
	}
}

func (m *Metrics) countVerification(s scheme.Scheme, err error) {
	if m == nil {
		return
	}
	result := resultValid
	if err != nil {
		result = kindOf(err)
	}
	m.Verifications.WithLabelValues(s.Name(), result).Inc()
}

func (m *Metrics) observeDuration(s scheme.Scheme, operation string, d time.Duration) {
	if m != nil {
		m.OperationDuration.WithLabelValues(s.Name(), operation).Observe(d.Seconds())
	}
}
