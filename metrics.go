package authorizer

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/auth0-samples/go-jwt-authorizer/core"
)

const meterName = "github.com/auth0-samples/go-jwt-authorizer"

// DecisionCounterName is the name of the counter incremented once per
// decision, labeled by effect and, for denials, by error kind.
const DecisionCounterName = "authorizer.decisions"

type decisionMetrics struct {
	decisions metric.Int64Counter
}

func newDecisionMetrics(mp metric.MeterProvider) (*decisionMetrics, error) {
	counter, err := mp.Meter(meterName).Int64Counter(
		DecisionCounterName,
		metric.WithDescription("Authorization decisions by effect"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}
	return &decisionMetrics{decisions: counter}, nil
}

func (m *decisionMetrics) record(ctx context.Context, effect Effect, kind core.Kind) {
	attrs := []attribute.KeyValue{attribute.String("effect", string(effect))}
	if kind != "" {
		attrs = append(attrs, attribute.String("kind", string(kind)))
	}
	m.decisions.Add(ctx, 1, metric.WithAttributes(attrs...))
}
