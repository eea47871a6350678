package genai

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	metersOnce     sync.Once
	requestCounter metric.Int64Counter
	durationHist   metric.Int64Histogram
)

// initMeters registers the generation-call instruments. Meter failures are
// logged, never fatal: metrics must not block generation.
func initMeters(logger *slog.Logger) {
	metersOnce.Do(func() {
		meter := otel.Meter("interview-manager/genai",
			metric.WithInstrumentationVersion(otel.Version()),
		)

		var err error
		requestCounter, err = meter.Int64Counter(
			"genai.request_count",
			metric.WithDescription("Generation request count"),
			metric.WithUnit("request"),
		)
		if err != nil {
			logger.Warn("Failed to create request_count meter", "error", err)
		}

		durationHist, err = meter.Int64Histogram(
			"genai.duration",
			metric.WithDescription("Generation end to end duration"),
			metric.WithUnit("milliseconds"),
		)
		if err != nil {
			logger.Warn("Failed to create duration meter", "error", err)
		}
	})
}

func recordCall(ctx context.Context, provider, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	)
	if requestCounter != nil {
		requestCounter.Add(ctx, 1, attrs)
	}
	if durationHist != nil {
		durationHist.Record(ctx, elapsed.Milliseconds(), attrs)
	}
}
