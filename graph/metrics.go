// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/mermaidomatic/ast"
)

// Package-level tracer and meter for call-graph extraction.
var (
	tracer = otel.Tracer("mermaidomatic.graph")
	meter  = otel.Meter("mermaidomatic.graph")
)

// Metrics for extraction operations.
var (
	extractLatency     metric.Float64Histogram
	functionsExtracted metric.Int64Histogram
	edgesExtracted     metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		extractLatency, err = meter.Float64Histogram(
			"graph_extract_duration_seconds",
			metric.WithDescription("Duration of call-graph extraction"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		functionsExtracted, err = meter.Int64Histogram(
			"graph_functions_extracted",
			metric.WithDescription("Number of functions discovered per extraction"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgesExtracted, err = meter.Int64Histogram(
			"graph_call_edges_extracted",
			metric.WithDescription("Number of call edges recorded per extraction"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// recordExtractMetrics records metrics for one extraction.
func recordExtractMetrics(ctx context.Context, duration time.Duration, functionCount, edgeCount int) {
	if err := initMetrics(); err != nil {
		return // Silently skip if metrics init failed
	}

	extractLatency.Record(ctx, duration.Seconds())
	functionsExtracted.Record(ctx, int64(functionCount))
	edgesExtracted.Record(ctx, int64(edgeCount))
}

// startExtractSpan creates a span for an extraction operation.
//
// Returns the context with span attached; the caller must call span.End().
func startExtractSpan(ctx context.Context, tree *ast.SourceTree) (context.Context, trace.Span) {
	filePath := ""
	if tree != nil {
		filePath = tree.FilePath()
	}
	return tracer.Start(ctx, "Extractor.Extract",
		trace.WithAttributes(
			attribute.String("graph.file", filePath),
		),
	)
}

// setExtractSpanResult sets the result attributes on an extraction span.
func setExtractSpanResult(span trace.Span, functionCount, edgeCount int) {
	span.SetAttributes(
		attribute.Int("graph.function_count", functionCount),
		attribute.Int("graph.edge_count", edgeCount),
	)
}
