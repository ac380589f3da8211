package authorizer

import (
	"errors"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option is how options for the Authorizer are set up.
type Option func(*options) error

type options struct {
	logger         logrus.FieldLogger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

func defaultOptions() *options {
	return &options{
		logger:         logrus.StandardLogger(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
}

// WithLogger sets the logger decisions are reported to.
// Defaults to the logrus standard logger.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		o.logger = logger
		return nil
	}
}

// WithTracerProvider sets the provider of the authorizer's tracer.
// Defaults to the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) error {
		if tp == nil {
			return errors.New("tracer provider cannot be nil")
		}
		o.tracerProvider = tp
		return nil
	}
}

// WithMeterProvider sets the provider of the decision counter.
// Defaults to the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) error {
		if mp == nil {
			return errors.New("meter provider cannot be nil")
		}
		o.meterProvider = mp
		return nil
	}
}
