// Copyright (C) 2026 Tamgrid (dev@tamgrid.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the analysis
// service.
//
// Metrics cover the request pipeline (counts and latency by operation),
// provider failures, and moderation outcomes. All recording methods are
// nil-safe so code paths under test run without a registry.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace  = "tamgrid"
	analysisSubsystem = "analysis"
)

// Operation labels a pipeline entry point for metrics.
type Operation string

const (
	OpAnalyze  Operation = "analyze"
	OpEstimate Operation = "estimate"
	OpAllocate Operation = "allocate"
)

// Metrics holds the Prometheus instruments for the analysis service.
//
// Initialize once at startup via InitMetrics; all operations are
// thread-safe through Prometheus's internal locking.
type Metrics struct {
	// RequestsTotal counts pipeline requests.
	// Labels: operation (analyze, estimate, allocate), provider, status
	// (success, error).
	RequestsTotal *prometheus.CounterVec

	// RequestDurationSeconds measures end-to-end pipeline latency,
	// dominated by the provider round trip.
	// Labels: operation.
	RequestDurationSeconds *prometheus.HistogramVec

	// ModerationFlagsTotal counts responses rejected by the moderation
	// gate.
	ModerationFlagsTotal prometheus.Counter

	// ProviderErrorsTotal counts failed provider completions.
	// Labels: provider.
	ProviderErrorsTotal *prometheus.CounterVec
}

// Default is the singleton instance, set by InitMetrics. A nil Default is
// valid and records nothing.
var Default *Metrics

// InitMetrics creates and registers the default metrics instance. Call
// once at startup; a second call panics on duplicate registration.
func InitMetrics() *Metrics {
	Default = &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "requests_total",
				Help:      "Total analysis requests by operation, provider, and status",
			},
			[]string{"operation", "provider", "status"},
		),

		RequestDurationSeconds: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "request_duration_seconds",
				Help:      "End-to-end request duration in seconds",
				Buckets:   []float64{0.005, 0.05, 0.25, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),

		ModerationFlagsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "moderation_flags_total",
				Help:      "Total model responses rejected by content moderation",
			},
		),

		ProviderErrorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: analysisSubsystem,
				Name:      "provider_errors_total",
				Help:      "Total failed provider completion calls",
			},
			[]string{"provider"},
		),
	}

	return Default
}

// RecordRequest records one completed pipeline request.
func (m *Metrics) RecordRequest(op Operation, provider string, success bool) {
	if m == nil {
		return
	}
	status := "success"
	if !success {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(string(op), provider, status).Inc()
}

// RecordDuration records end-to-end latency for one request.
func (m *Metrics) RecordDuration(op Operation, seconds float64) {
	if m == nil {
		return
	}
	m.RequestDurationSeconds.WithLabelValues(string(op)).Observe(seconds)
}

// RecordModerationFlag records one moderation rejection.
func (m *Metrics) RecordModerationFlag() {
	if m == nil {
		return
	}
	m.ModerationFlagsTotal.Inc()
}

// RecordProviderError records one failed provider completion.
func (m *Metrics) RecordProviderError(provider string) {
	if m == nil {
		return
	}
	m.ProviderErrorsTotal.WithLabelValues(provider).Inc()
}
