// Package telemetry exports simulation metrics through OpenTelemetry.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/opd-ai/go-topdrive/pkg/config"
)

const instrumentationName = "github.com/opd-ai/go-topdrive/pkg/telemetry"

// ServiceName is reported as the OpenTelemetry service name.
const ServiceName = "topdrive"

// Provider owns the SDK meter provider installed by Setup.
type Provider struct {
	mp *sdkmetric.MeterProvider
}

// Setup installs a global meter provider that periodically writes metrics
// to w. When telemetry is disabled the global no-op provider stays in place
// and the returned Provider's methods do nothing.
func Setup(ctx context.Context, cfg config.TelemetryConfig, w io.Writer) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}
	if w == nil {
		return nil, errors.New("telemetry enabled but no writer configured")
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	interval := time.Duration(cfg.IntervalMs) * time.Millisecond
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(mp)

	return &Provider{mp: mp}, nil
}

// Enabled reports whether Setup installed an SDK provider.
func (p *Provider) Enabled() bool {
	return p.mp != nil
}

// MeterProvider returns the installed provider, or the global one when disabled.
func (p *Provider) MeterProvider() metric.MeterProvider {
	if p.mp == nil {
		return otel.GetMeterProvider()
	}
	return p.mp
}

// Shutdown flushes pending metrics and stops the exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.mp == nil {
		return nil
	}
	if err := p.mp.Shutdown(ctx); err != nil {
		return fmt.Errorf("metric shutdown failed: %w", err)
	}
	return nil
}

// Recorder records per-tick simulation metrics.
type Recorder struct {
	ticks    metric.Int64Counter
	shifts   metric.Int64Counter
	trips    metric.Int64Counter
	contacts metric.Int64Counter
	speed    metric.Float64Histogram
}

// NewRecorder creates the simulation instruments on mp, or on the global
// provider if mp is nil.
func NewRecorder(mp metric.MeterProvider) (*Recorder, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	m := mp.Meter(instrumentationName)

	var r Recorder
	var err error
	if r.ticks, err = m.Int64Counter("topdrive.ticks",
		metric.WithDescription("Simulation ticks advanced")); err != nil {
		return nil, fmt.Errorf("failed to create ticks counter: %w", err)
	}
	if r.shifts, err = m.Int64Counter("topdrive.gear_shifts",
		metric.WithDescription("Gear changes")); err != nil {
		return nil, fmt.Errorf("failed to create shift counter: %w", err)
	}
	if r.trips, err = m.Int64Counter("topdrive.rev_limiter_trips",
		metric.WithDescription("Rev limiter cut windows opened")); err != nil {
		return nil, fmt.Errorf("failed to create limiter counter: %w", err)
	}
	if r.contacts, err = m.Int64Counter("topdrive.boundary_contacts",
		metric.WithDescription("Times the vehicle reached a world edge")); err != nil {
		return nil, fmt.Errorf("failed to create contact counter: %w", err)
	}
	if r.speed, err = m.Float64Histogram("topdrive.speed_mph",
		metric.WithDescription("Display speed sampled once per tick"),
		metric.WithUnit("[mi_i]/h")); err != nil {
		return nil, fmt.Errorf("failed to create speed histogram: %w", err)
	}
	return &r, nil
}

// RecordTick counts one tick and samples its display speed.
func (r *Recorder) RecordTick(ctx context.Context, mph float64, gear string) {
	r.ticks.Add(ctx, 1)
	r.speed.Record(ctx, mph, metric.WithAttributes(attribute.String("gear", gear)))
}

// RecordShift counts a gear change.
func (r *Recorder) RecordShift(ctx context.Context, from, to string) {
	r.shifts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from", from),
		attribute.String("to", to),
	))
}

// RecordLimiterTrip counts a rev limiter cut.
func (r *Recorder) RecordLimiterTrip(ctx context.Context) {
	r.trips.Add(ctx, 1)
}

// RecordContact counts a new boundary contact.
func (r *Recorder) RecordContact(ctx context.Context) {
	r.contacts.Add(ctx, 1)
}
