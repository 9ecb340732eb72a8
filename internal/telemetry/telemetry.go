package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/membership-service/internal/config"
	"github.com/sirupsen/logrus"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Config holds OpenTelemetry configuration
type Config struct {
	ServiceName      string
	ServiceNamespace string
	ServiceVersion   string
	Environment      string
	OTLPEndpoint     string
	TracesSampler    string
	MetricsInterval  time.Duration
}

// FromConfig maps the service configuration onto the telemetry settings,
// filling anything left empty with the service defaults.
func FromConfig(tc config.TelemetryConfig) Config {
	cfg := Config{
		ServiceName:      tc.ServiceName,
		ServiceNamespace: tc.ServiceNamespace,
		ServiceVersion:   tc.ServiceVersion,
		Environment:      tc.Environment,
		OTLPEndpoint:     tc.OTLPEndpoint,
		TracesSampler:    tc.TracesSampler,
		MetricsInterval:  tc.MetricsInterval,
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "membership-service"
	}
	if cfg.ServiceNamespace == "" {
		cfg.ServiceNamespace = "wailsalutem"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Environment == "" {
		cfg.Environment = "production"
	}
	if cfg.OTLPEndpoint == "" {
		cfg.OTLPEndpoint = "localhost:4317"
	}
	if cfg.TracesSampler == "" {
		cfg.TracesSampler = "always_on"
	}
	if cfg.MetricsInterval <= 0 {
		cfg.MetricsInterval = 30 * time.Second
	}
	return cfg
}

// Provider owns the SDK providers installed as the OpenTelemetry globals.
// Either may be nil when its exporter could not be created.
type Provider struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
}

const exporterTimeout = 5 * time.Second

// InitProvider installs tracing and metrics exporters for cfg. A collector
// that cannot be reached degrades to no export rather than failing startup.
func InitProvider(ctx context.Context, cfg Config) (*Provider, error) {
	logrus.WithField("endpoint", cfg.OTLPEndpoint).Info("Initializing OpenTelemetry")

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceNamespace(cfg.ServiceNamespace),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	p := &Provider{}
	dial := grpc.WithTransportCredentials(insecure.NewCredentials())

	if tp, err := newTracerProvider(ctx, cfg, res, dial); err != nil {
		logrus.WithError(err).Warn("Tracing disabled")
	} else {
		p.TracerProvider = tp
		otel.SetTracerProvider(tp)
	}

	if mp, err := newMeterProvider(ctx, cfg, res, dial); err != nil {
		logrus.WithError(err).Warn("Metrics export disabled")
	} else {
		p.MeterProvider = mp
		otel.SetMeterProvider(mp)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logrus.WithFields(logrus.Fields{
		"tracing": p.TracerProvider != nil,
		"metrics": p.MeterProvider != nil,
	}).Info("✓ OpenTelemetry initialized")
	return p, nil
}

func newTracerProvider(ctx context.Context, cfg Config, res *resource.Resource, dial grpc.DialOption) (*trace.TracerProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithDialOption(dial),
		otlptracegrpc.WithTimeout(exporterTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	return trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithSampler(trace.ParentBased(samplerFor(cfg.TracesSampler))),
		trace.WithBatcher(exp,
			trace.WithBatchTimeout(exporterTimeout),
			trace.WithMaxExportBatchSize(512),
		),
	), nil
}

// samplerFor maps OTEL_TRACES_SAMPLER style names onto a root sampler.
// "traceidratio" samples 10% unless a ratio follows, as in "traceidratio:0.25".
func samplerFor(name string) trace.Sampler {
	kind, arg, _ := strings.Cut(name, ":")
	switch kind {
	case "always_off":
		return trace.NeverSample()
	case "traceidratio":
		ratio := 0.1
		if v, err := strconv.ParseFloat(arg, 64); err == nil && v >= 0 && v <= 1 {
			ratio = v
		}
		return trace.TraceIDRatioBased(ratio)
	default:
		return trace.AlwaysSample()
	}
}

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource, dial grpc.DialOption) (*metric.MeterProvider, error) {
	ctx, cancel := context.WithTimeout(ctx, exporterTimeout)
	defer cancel()

	exp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlpmetricgrpc.WithDialOption(dial),
		otlpmetricgrpc.WithTimeout(exporterTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP metric exporter: %w", err)
	}

	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exp, metric.WithInterval(cfg.MetricsInterval))),
	), nil
}

// Shutdown flushes and stops both providers, returning every failure.
func (p *Provider) Shutdown(ctx context.Context) error {
	var errs []error
	if p.TracerProvider != nil {
		if err := p.TracerProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.MeterProvider != nil {
		if err := p.MeterProvider.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	return errors.Join(errs...)
}
