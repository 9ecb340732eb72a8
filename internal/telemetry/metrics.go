package telemetry

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all custom metrics for the service
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal metric.Int64Counter
	HTTPDurationMs    metric.Float64Histogram

	// Business metrics
	MembershipTotal        metric.Int64Counter
	NotificationTotal      metric.Int64Counter
	NotificationTransition metric.Int64Counter

	// Auth metrics
	AuthFailuresTotal       metric.Int64Counter
	PermissionCheckDuration metric.Float64Histogram
}

// InitMetrics initializes all custom metrics against the global meter provider.
func InitMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter("github.com/WailSalutem-Health-Care/membership-service"))
}

// instruments collects the first creation error so NewMetrics reads as a list.
type instruments struct {
	meter metric.Meter
	err   error
}

func (in *instruments) counter(name, desc, unit string) metric.Int64Counter {
	c, err := in.meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil && in.err == nil {
		in.err = fmt.Errorf("counter %s: %w", name, err)
	}
	return c
}

func (in *instruments) histogram(name, desc string) metric.Float64Histogram {
	h, err := in.meter.Float64Histogram(name, metric.WithDescription(desc), metric.WithUnit("ms"))
	if err != nil && in.err == nil {
		in.err = fmt.Errorf("histogram %s: %w", name, err)
	}
	return h
}

// NewMetrics builds the instrument set on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	in := &instruments{meter: meter}

	m := &Metrics{
		HTTPRequestsTotal:       in.counter("http_server_requests_total", "Total number of HTTP requests", "{request}"),
		HTTPDurationMs:          in.histogram("http_server_duration_milliseconds", "HTTP request duration in milliseconds"),
		MembershipTotal:         in.counter("membership_total", "Membership operations by outcome", "{operation}"),
		NotificationTotal:       in.counter("notification_total", "Notification operations by outcome", "{operation}"),
		NotificationTransition:  in.counter("notification_status_transitions_total", "Notification workflow transitions", "{transition}"),
		AuthFailuresTotal:       in.counter("auth_failures_total", "Rejected bearer tokens by reason", "{failure}"),
		PermissionCheckDuration: in.histogram("permission_check_duration_ms", "Permission check duration in milliseconds"),
	}
	if in.err != nil {
		return nil, in.err
	}

	logrus.Debug("Custom metrics initialized")
	return m, nil
}

func outcome(operation string, success bool) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.Bool("success", success),
	)
}

// All Record* methods are safe on a nil *Metrics so callers and tests can run without telemetry.

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, durationMs float64) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("http_method", method),
		attribute.String("http_route", route),
		attribute.Int("http_status_code", statusCode),
	}

	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.HTTPDurationMs.Record(ctx, durationMs, metric.WithAttributes(attrs...))
}

// RecordMembershipOperation records a membership operation metric
func (m *Metrics) RecordMembershipOperation(ctx context.Context, operation string, success bool) {
	if m == nil {
		return
	}
	m.MembershipTotal.Add(ctx, 1, outcome(operation, success))
}

// RecordNotificationOperation records a notification operation metric
func (m *Metrics) RecordNotificationOperation(ctx context.Context, operation string, success bool) {
	if m == nil {
		return
	}
	m.NotificationTotal.Add(ctx, 1, outcome(operation, success))
}

// RecordNotificationTransition records a workflow status change.
func (m *Metrics) RecordNotificationTransition(ctx context.Context, from, to string) {
	if m == nil {
		return
	}
	m.NotificationTransition.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordAuthFailure records an authentication failure metric
func (m *Metrics) RecordAuthFailure(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.AuthFailuresTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

// RecordPermissionCheck records a permission check duration metric
func (m *Metrics) RecordPermissionCheck(ctx context.Context, permission string, durationMs float64, allowed bool) {
	if m == nil {
		return
	}
	m.PermissionCheckDuration.Record(ctx, durationMs, metric.WithAttributes(
		attribute.String("permission", permission),
		attribute.Bool("allowed", allowed),
	))
}
