package observability

// Metric name prefixes
const (
	MetricPrefix = "guild_console"
)

// Metric names
const (
	// Remote settings source metrics
	SourceCallsTotal   = MetricPrefix + ".source.calls_total"
	SourceCallDuration = MetricPrefix + ".source.call_duration"

	// Snapshot metrics
	SnapshotWritesTotal = MetricPrefix + ".snapshot.writes_total"

	// NATS metrics
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"
)

// Label keys
const (
	LabelSource    = "source"
	LabelOperation = "operation"
	LabelOutcome   = "outcome"
	LabelEventType = "event_type"
)
