package services

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/neardup/internal/core/domain"
)

// Package-level tracer and meter for deduplication.
// Without an installed SDK both are no-ops.
var (
	tracer = otel.Tracer("neardup.dedup")
	meter  = otel.Meter("neardup.dedup")
)

var (
	documentsTotal     metric.Int64Counter
	batchDuration      metric.Float64Histogram
	candidatesCompared metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the instruments. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		documentsTotal, err = meter.Int64Counter(
			"dedup_documents_total",
			metric.WithDescription("Documents classified, by outcome"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		batchDuration, err = meter.Float64Histogram(
			"dedup_batch_duration_seconds",
			metric.WithDescription("Duration of deduplication batches"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		candidatesCompared, err = meter.Int64Counter(
			"dedup_candidates_compared_total",
			metric.WithDescription("Exact Jaccard comparisons against indexed candidates"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startProcessSpan creates a span for one batch.
func startProcessSpan(ctx context.Context, documents int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "DedupService.Process",
		trace.WithAttributes(
			attribute.Int("dedup.documents", documents),
		),
	)
}

// setProcessSpanResult sets the result attributes on a batch span.
func setProcessSpanResult(span trace.Span, report *domain.Report) {
	span.SetAttributes(
		attribute.String("dedup.report_id", report.ID),
		attribute.Int("dedup.retained", len(report.Retained)),
		attribute.Int("dedup.duplicates", len(report.Duplicates)),
		attribute.Int("dedup.rejected", len(report.Rejected)),
	)
}

// recordOutcome counts one classified document.
func recordOutcome(ctx context.Context, state domain.DocumentState) {
	if err := initMetrics(); err != nil {
		return
	}
	documentsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", state.String()),
	))
}

// recordCandidates counts exact comparisons made for one document.
func recordCandidates(ctx context.Context, compared int) {
	if compared == 0 {
		return
	}
	if err := initMetrics(); err != nil {
		return
	}
	candidatesCompared.Add(ctx, int64(compared))
}

// recordBatch records the duration of a finished batch.
func recordBatch(ctx context.Context, duration time.Duration, cancelled bool) {
	if err := initMetrics(); err != nil {
		return
	}
	batchDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.Bool("cancelled", cancelled),
	))
}
