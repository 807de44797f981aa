package authn

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds OpenTelemetry instruments for authentication events.
// Without a configured global meter provider the instruments are no-ops.
type Metrics struct {
	loginTotal    metric.Int64Counter
	validateTotal metric.Int64Counter
	refreshTotal  metric.Int64Counter
	logoutTotal   metric.Int64Counter
	registerTotal metric.Int64Counter
	resetTotal    metric.Int64Counter
}

// NewMetrics creates authentication metric instruments on the given meter.
// A nil meter uses the global provider.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter("carpool-auth/authn")
	}

	loginTotal, err := meter.Int64Counter("auth.login.total",
		metric.WithDescription("Total login attempts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.login.total counter: %w", err)
	}
	validateTotal, err := meter.Int64Counter("auth.validate.total",
		metric.WithDescription("Total access-token validations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.validate.total counter: %w", err)
	}
	refreshTotal, err := meter.Int64Counter("auth.refresh.total",
		metric.WithDescription("Total refresh rotations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.refresh.total counter: %w", err)
	}
	logoutTotal, err := meter.Int64Counter("auth.logout.total",
		metric.WithDescription("Total logouts"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.logout.total counter: %w", err)
	}
	registerTotal, err := meter.Int64Counter("auth.register.total",
		metric.WithDescription("Total registrations"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.register.total counter: %w", err)
	}
	resetTotal, err := meter.Int64Counter("auth.password_reset.total",
		metric.WithDescription("Total password-reset requests and completions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.password_reset.total counter: %w", err)
	}

	return &Metrics{
		loginTotal:    loginTotal,
		validateTotal: validateTotal,
		refreshTotal:  refreshTotal,
		logoutTotal:   logoutTotal,
		registerTotal: registerTotal,
		resetTotal:    resetTotal,
	}, nil
}

func (m *Metrics) record(ctx context.Context, counter metric.Int64Counter, result string) {
	if m == nil || counter == nil {
		return
	}
	counter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

// RecordLogin counts a login attempt by result.
func (m *Metrics) RecordLogin(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.record(ctx, m.loginTotal, result)
}

// RecordValidate counts an access-token validation by result.
func (m *Metrics) RecordValidate(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.record(ctx, m.validateTotal, result)
}

// RecordRefresh counts a refresh rotation by result.
func (m *Metrics) RecordRefresh(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.record(ctx, m.refreshTotal, result)
}

// RecordLogout counts a logout by result.
func (m *Metrics) RecordLogout(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.record(ctx, m.logoutTotal, result)
}

// RecordRegister counts a registration by result.
func (m *Metrics) RecordRegister(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.record(ctx, m.registerTotal, result)
}

// RecordReset counts a password-reset event. The result distinguishes
// issued, suppressed, and completed.
func (m *Metrics) RecordReset(ctx context.Context, result string) {
	if m == nil {
		return
	}
	m.record(ctx, m.resetTotal, result)
}

// resultOf maps an operation outcome to the metric result attribute.
func resultOf(err error) string {
	if err == nil {
		return "success"
	}
	return "failure"
}
