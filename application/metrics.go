package application

import "time"

// Outcome labels for source calls and snapshot writes
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// Operation labels for source calls
const (
	OperationRead   = "read"
	OperationUpsert = "upsert"
)

// Metrics receives counters from the orchestrators and the snapshot mirror
type Metrics interface {
	RecordSourceCall(source, operation, outcome string, duration time.Duration)
	RecordSnapshotWrite(outcome string)
}

type noopMetrics struct{}

func (noopMetrics) RecordSourceCall(string, string, string, time.Duration) {}
func (noopMetrics) RecordSnapshotWrite(string)                             {}

func metricsOrNoop(metrics Metrics) Metrics {
	if metrics == nil {
		return noopMetrics{}
	}
	return metrics
}
