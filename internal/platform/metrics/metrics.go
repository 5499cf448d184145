// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics exposes Prometheus counters for authentication outcomes.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login methods.
const (
	MethodPassword = "password"
	MethodOAuth    = "oauth"
)

// Outcome labels.
const (
	OutcomeSuccess             = "success"
	OutcomeInvalidCredentials  = "invalid_credentials"
	OutcomeUnsupportedProvider = "unsupported_provider"
	OutcomeProviderFailure     = "provider_failure"
	OutcomeInvalidToken        = "invalid_token"
	OutcomeError               = "error"
)

// Collector records login and token verification outcomes.
type Collector struct {
	logins   *prometheus.CounterVec
	verifies *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signon_login_total",
			Help: "Login attempts by method, provider and outcome.",
		}, []string{"method", "provider", "outcome"}),
		verifies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signon_token_verify_total",
			Help: "Session token verifications by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.logins, c.verifies)

	return c
}

// RecordLogin counts one login attempt. provider is empty for password logins.
func (c *Collector) RecordLogin(method, provider, outcome string) {
	c.logins.WithLabelValues(method, provider, outcome).Inc()
}

// RecordVerify counts one token verification.
func (c *Collector) RecordVerify(outcome string) {
	c.verifies.WithLabelValues(outcome).Inc()
}

// Handler returns the /metrics HTTP handler for the given gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
