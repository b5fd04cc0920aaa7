package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/BruksfildServices01/agenda-core"

// Metrics holds the booking instruments.
type Metrics struct {
	ReservationsCommitted metric.Int64Counter
	ReservationConflicts  metric.Int64Counter
	ReservationsCancelled metric.Int64Counter
	AdmissionsTotal       metric.Int64Counter
	AvailabilityRequests  metric.Int64Counter
	AvailabilityDuration  metric.Float64Histogram
}

var (
	once    sync.Once
	metrics *Metrics
)

// GetMetrics returns the singleton instruments bound to the global meter provider.
func GetMetrics() *Metrics {
	once.Do(func() {
		metrics = initMetrics()
	})
	return metrics
}

func initMetrics() *Metrics {
	meter := otel.GetMeterProvider().Meter(meterName)

	m := &Metrics{}

	m.ReservationsCommitted, _ = meter.Int64Counter(
		"agenda.reservations.committed.total",
		metric.WithDescription("Reservations committed"),
		metric.WithUnit("{reservation}"),
	)

	m.ReservationConflicts, _ = meter.Int64Counter(
		"agenda.reservations.conflicts.total",
		metric.WithDescription("Commit attempts rejected because the slot was taken"),
		metric.WithUnit("{reservation}"),
	)

	m.ReservationsCancelled, _ = meter.Int64Counter(
		"agenda.reservations.cancelled.total",
		metric.WithDescription("Reservations cancelled"),
		metric.WithUnit("{reservation}"),
	)

	m.AdmissionsTotal, _ = meter.Int64Counter(
		"agenda.customers.admissions.total",
		metric.WithDescription("Customer admission attempts by outcome"),
		metric.WithUnit("{customer}"),
	)

	m.AvailabilityRequests, _ = meter.Int64Counter(
		"agenda.availability.requests.total",
		metric.WithDescription("Availability computations"),
		metric.WithUnit("{request}"),
	)

	m.AvailabilityDuration, _ = meter.Float64Histogram(
		"agenda.availability.duration",
		metric.WithDescription("Duration of availability computations"),
		metric.WithUnit("ms"),
	)

	return m
}

// RecordAdmission counts one admission attempt. outcome is "admitted" or an error code.
func (m *Metrics) RecordAdmission(ctx context.Context, outcome string) {
	m.AdmissionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
