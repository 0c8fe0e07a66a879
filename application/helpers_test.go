package application

import (
	"context"
	"sync"
	"time"

	"guildconsole/domain/testhelpers"
	"guildconsole/events"
)

type sourceCall struct {
	Source    string
	Operation string
	Outcome   string
}

// recordingMetrics captures every recorded measurement
type recordingMetrics struct {
	mu             sync.Mutex
	calls          []sourceCall
	snapshotWrites []string
}

func (r *recordingMetrics) RecordSourceCall(source, operation, outcome string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, sourceCall{Source: source, Operation: operation, Outcome: outcome})
}

func (r *recordingMetrics) RecordSnapshotWrite(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshotWrites = append(r.snapshotWrites, outcome)
}

func (r *recordingMetrics) outcomes(operation string) map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string)
	for _, call := range r.calls {
		if call.Operation == operation {
			out[call.Source] = call.Outcome
		}
	}
	return out
}

func (r *recordingMetrics) writes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.snapshotWrites...)
}

// memoryCache is an in-memory snapshot cache
type memoryCache struct {
	mu     sync.Mutex
	data   []byte
	stores int
	err    error
}

func (c *memoryCache) Load(context.Context) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data, c.err
}

func (c *memoryCache) Store(_ context.Context, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.data = append([]byte(nil), data...)
	c.stores++
	return nil
}

func (c *memoryCache) snapshot() ([]byte, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data, c.stores
}

// publishedEvents returns the events passed to a mock publisher
func publishedEvents(feedback *testhelpers.MockFeedbackPublisher) []events.Event {
	var out []events.Event
	for _, call := range feedback.Calls {
		if call.Method == "Publish" {
			out = append(out, call.Arguments.Get(0).(events.Event))
		}
	}
	return out
}
