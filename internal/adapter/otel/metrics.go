package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Strob0t/tasksync/internal/domain/event"
)

const meterName = "tasksync"

// Metrics holds all tasksync metric instruments.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	WSConnections    metric.Int64UpDownCounter
	Broadcasts       metric.Int64Counter
	Deliveries       metric.Int64Counter
	DeliveryFailures metric.Int64Counter
	TasksCreated     metric.Int64Counter
	TasksClaimed     metric.Int64Counter
}

// NewMetrics creates all metric instruments on mp, or on the global provider when mp is nil.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(meterName)
	m := &Metrics{}
	var err error

	m.WSConnections, err = meter.Int64UpDownCounter("tasksync.ws.connections",
		metric.WithDescription("Open websocket connections"))
	if err != nil {
		return nil, err
	}

	m.Broadcasts, err = meter.Int64Counter("tasksync.ws.broadcasts",
		metric.WithDescription("Number of events broadcast"))
	if err != nil {
		return nil, err
	}

	m.Deliveries, err = meter.Int64Counter("tasksync.ws.deliveries",
		metric.WithDescription("Number of per-connection sends accepted"))
	if err != nil {
		return nil, err
	}

	m.DeliveryFailures, err = meter.Int64Counter("tasksync.ws.delivery_failures",
		metric.WithDescription("Number of per-connection sends that failed"))
	if err != nil {
		return nil, err
	}

	m.TasksCreated, err = meter.Int64Counter("tasksync.tasks.created",
		metric.WithDescription("Number of tasks created"))
	if err != nil {
		return nil, err
	}

	m.TasksClaimed, err = meter.Int64Counter("tasksync.tasks.claimed",
		metric.WithDescription("Number of tasks claimed"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// ConnectionOpened records a newly registered websocket connection.
func (m *Metrics) ConnectionOpened(ctx context.Context) {
	if m == nil {
		return
	}
	m.WSConnections.Add(ctx, 1)
}

// ConnectionClosed records a deregistered websocket connection.
func (m *Metrics) ConnectionClosed(ctx context.Context) {
	if m == nil {
		return
	}
	m.WSConnections.Add(ctx, -1)
}

// BroadcastDone records the outcome of one broadcast. Unknown event names
// share one "other" attribute value so the series count stays bounded.
func (m *Metrics) BroadcastDone(ctx context.Context, eventName string, delivered, failed int) {
	if m == nil {
		return
	}
	if !event.Known(eventName) {
		eventName = "other"
	}
	attrs := metric.WithAttributes(attribute.String("event", eventName))
	m.Broadcasts.Add(ctx, 1, attrs)
	m.Deliveries.Add(ctx, int64(delivered), attrs)
	if failed > 0 {
		m.DeliveryFailures.Add(ctx, int64(failed), attrs)
	}
}

// TaskCreated records a task creation.
func (m *Metrics) TaskCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.TasksCreated.Add(ctx, 1)
}

// TaskClaimed records a task claim.
func (m *Metrics) TaskClaimed(ctx context.Context) {
	if m == nil {
		return
	}
	m.TasksClaimed.Add(ctx, 1)
}
