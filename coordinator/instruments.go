package coordinator

import (
	"go.opentelemetry.io/otel/metric"
)

type instruments struct {
	sessionsStarted   metric.Int64Counter
	sessionsCompleted metric.Int64Counter
	sessionsAborted   metric.Int64Counter
	gatewayCalls      metric.Int64Counter
	gatewayDuration   metric.Float64Histogram
}

// newInstruments registers the orchestrator metrics. Registration errors leave
// a no-op instrument in place, as the otel API guarantees.
func newInstruments(meter metric.Meter) *instruments {
	started, _ := meter.Int64Counter("sessions_started_total",
		metric.WithDescription("Total number of sessions started"))
	completed, _ := meter.Int64Counter("sessions_completed_total",
		metric.WithDescription("Total number of sessions that reached the end without aborting"))
	aborted, _ := meter.Int64Counter("sessions_aborted_total",
		metric.WithDescription("Total number of aborted sessions, by reason"))
	calls, _ := meter.Int64Counter("gateway_calls_total",
		metric.WithDescription("Total number of model gateway calls, by step"))
	duration, _ := meter.Float64Histogram("gateway_call_duration_seconds",
		metric.WithDescription("Duration of model gateway calls in seconds"),
		metric.WithUnit("s"))

	return &instruments{
		sessionsStarted:   started,
		sessionsCompleted: completed,
		sessionsAborted:   aborted,
		gatewayCalls:      calls,
		gatewayDuration:   duration,
	}
}
