package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// AuthMetrics holds the account lifecycle counters. A nil *AuthMetrics records nothing.
type AuthMetrics struct {
	registrations metric.Int64Counter
	logins        metric.Int64Counter
	codesIssued   metric.Int64Counter
	emails        metric.Int64Counter
	reaped        metric.Int64Counter
}

// NewAuthMetrics registers the counters on meter
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	m := &AuthMetrics{}
	var err error

	if m.registrations, err = meter.Int64Counter("auth.registrations",
		metric.WithDescription("Accounts created, by sign-up method"),
	); err != nil {
		return nil, fmt.Errorf("failed to create registrations counter: %w", err)
	}

	if m.logins, err = meter.Int64Counter("auth.logins",
		metric.WithDescription("Sign-in attempts, by method and result"),
	); err != nil {
		return nil, fmt.Errorf("failed to create logins counter: %w", err)
	}

	if m.codesIssued, err = meter.Int64Counter("auth.codes.issued",
		metric.WithDescription("One-time codes issued, by kind"),
	); err != nil {
		return nil, fmt.Errorf("failed to create codes counter: %w", err)
	}

	if m.emails, err = meter.Int64Counter("auth.emails",
		metric.WithDescription("Outgoing emails, by template and result"),
	); err != nil {
		return nil, fmt.Errorf("failed to create emails counter: %w", err)
	}

	if m.reaped, err = meter.Int64Counter("auth.accounts.reaped",
		metric.WithDescription("Unverified accounts deleted by the reaper"),
	); err != nil {
		return nil, fmt.Errorf("failed to create reaped counter: %w", err)
	}

	return m, nil
}

// NewNoopAuthMetrics returns counters backed by a no-op meter
func NewNoopAuthMetrics() *AuthMetrics {
	m, _ := NewAuthMetrics(noop.NewMeterProvider().Meter("noop"))
	return m
}

func (m *AuthMetrics) Registration(ctx context.Context, method string) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

func (m *AuthMetrics) Login(ctx context.Context, method string, success bool) {
	if m == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Bool("success", success),
	))
}

func (m *AuthMetrics) CodeIssued(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.codesIssued.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *AuthMetrics) Email(ctx context.Context, template string, err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.emails.Add(ctx, 1, metric.WithAttributes(
		attribute.String("template", template),
		attribute.String("result", result),
	))
}

func (m *AuthMetrics) Reaped(ctx context.Context, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reaped.Add(ctx, int64(n))
}
