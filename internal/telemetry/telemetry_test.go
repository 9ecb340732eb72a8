package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/WailSalutem-Health-Care/membership-service/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestFromConfig_Defaults(t *testing.T) {
	cfg := FromConfig(config.TelemetryConfig{})

	assert.Equal(t, "membership-service", cfg.ServiceName)
	assert.Equal(t, "wailsalutem", cfg.ServiceNamespace)
	assert.Equal(t, "localhost:4317", cfg.OTLPEndpoint)
	assert.Equal(t, "always_on", cfg.TracesSampler)
	assert.Equal(t, 30*time.Second, cfg.MetricsInterval)
}

func TestFromConfig_KeepsExplicitValues(t *testing.T) {
	cfg := FromConfig(config.TelemetryConfig{
		ServiceName:     "custom",
		OTLPEndpoint:    "collector:4317",
		MetricsInterval: 5 * time.Second,
	})

	assert.Equal(t, "custom", cfg.ServiceName)
	assert.Equal(t, "collector:4317", cfg.OTLPEndpoint)
	assert.Equal(t, 5*time.Second, cfg.MetricsInterval)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, trace.NeverSample().Description(), samplerFor("always_off").Description())
	assert.Equal(t, trace.AlwaysSample().Description(), samplerFor("unknown").Description())
	assert.Equal(t, trace.TraceIDRatioBased(0.1).Description(), samplerFor("traceidratio").Description())
	assert.Equal(t, trace.TraceIDRatioBased(0.25).Description(), samplerFor("traceidratio:0.25").Description())
	assert.Equal(t, trace.TraceIDRatioBased(0.1).Description(), samplerFor("traceidratio:7").Description())
}

func TestShutdown_EmptyProvider(t *testing.T) {
	assert.NoError(t, (&Provider{}).Shutdown(context.Background()))
}

func TestMetrics_RecordsMembershipOperations(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := NewMetrics(provider.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordMembershipOperation(ctx, "create", true)
	m.RecordMembershipOperation(ctx, "create", false)
	m.RecordNotificationTransition(ctx, "PendingApproval", "Approved")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			names[md.Name] = true
		}
	}
	assert.True(t, names["membership_total"])
	assert.True(t, names["notification_status_transitions_total"])
}

func TestMetrics_NilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordHTTPRequest(context.Background(), "GET", "/health", 200, 1)
		m.RecordMembershipOperation(context.Background(), "get", true)
		m.RecordAuthFailure(context.Background(), "expired")
	})
}
