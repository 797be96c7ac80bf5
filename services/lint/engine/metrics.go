// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for check operations. Both are no-ops
// until telemetry.Init installs real providers.
var (
	tracer = otel.Tracer("langcheck.engine")
	meter  = otel.Meter("langcheck.engine")
)

var (
	checkLatency     metric.Float64Histogram
	checksTotal      metric.Int64Counter
	diagnosticsTotal metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics creates the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		checkLatency, err = meter.Float64Histogram(
			"langcheck_check_duration_seconds",
			metric.WithDescription("Duration of single-file checks"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		checksTotal, err = meter.Int64Counter(
			"langcheck_checks_total",
			metric.WithDescription("Checks by language and outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		diagnosticsTotal, err = meter.Int64Counter(
			"langcheck_diagnostics_total",
			metric.WithDescription("Diagnostics reported by language and severity"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startCheckSpan creates a span for one check.
func startCheckSpan(ctx context.Context, language, filePath string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Engine.Check",
		trace.WithAttributes(
			attribute.String("check.language", language),
			attribute.String("check.file_path", filePath),
		),
	)
}

// finishCheckSpan records the outcome on the span.
func finishCheckSpan(span trace.Span, res *CheckResult) {
	counts := res.Counts()
	span.SetAttributes(
		attribute.String("check.status", string(res.Status)),
		attribute.Bool("check.tool_available", res.ToolAvailable),
		attribute.Int("check.error_count", counts.Errors),
		attribute.Int("check.warning_count", counts.Warnings),
	)
}

// recordCheckMetrics records metrics for one check.
func recordCheckMetrics(ctx context.Context, res *CheckResult, duration time.Duration) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("language", res.Language),
		attribute.String("status", string(res.Status)),
	)
	checkLatency.Record(ctx, duration.Seconds(), attrs)
	checksTotal.Add(ctx, 1, attrs)

	if res.Status != StatusChecked {
		return
	}
	counts := res.Counts()
	for severity, n := range map[string]int{
		"error":   counts.Errors,
		"warning": counts.Warnings,
		"info":    counts.Infos,
	} {
		if n == 0 {
			continue
		}
		diagnosticsTotal.Add(ctx, int64(n), metric.WithAttributes(
			attribute.String("language", res.Language),
			attribute.String("severity", severity),
		))
	}
}
