package application

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"guildconsole/domain/interfaces"
	"guildconsole/domain/state"
)

const snapshotWriteTimeout = 10 * time.Second

// SnapshotMirror writes the local store to a durable cache in the
// background. Writes are debounced: only the latest scheduled state is
// written once the delay elapses.
type SnapshotMirror struct {
	cache   interfaces.SnapshotCache
	delay   time.Duration
	metrics Metrics

	mu      sync.Mutex
	pending *state.State
	timer   *time.Timer
	closed  bool

	// writeMu serializes writes so an older state never lands after a newer one
	writeMu sync.Mutex
	wg      sync.WaitGroup
}

// NewSnapshotMirror creates a mirror writing to cache after delay
func NewSnapshotMirror(cache interfaces.SnapshotCache, delay time.Duration, metrics Metrics) *SnapshotMirror {
	if delay < 0 {
		delay = 0
	}
	return &SnapshotMirror{
		cache:   cache,
		delay:   delay,
		metrics: metricsOrNoop(metrics),
	}
}

// Schedule queues s for writing and returns immediately
func (m *SnapshotMirror) Schedule(s state.State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.pending = &s
	if m.timer != nil {
		return
	}
	m.wg.Add(1)
	m.timer = time.AfterFunc(m.delay, m.fire)
}

func (m *SnapshotMirror) fire() {
	defer m.wg.Done()

	m.mu.Lock()
	m.timer = nil
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), snapshotWriteTimeout)
	defer cancel()
	m.writePending(ctx)
}

// Flush writes the pending state now, if any
func (m *SnapshotMirror) Flush(ctx context.Context) error {
	m.mu.Lock()
	if m.timer != nil && m.timer.Stop() {
		m.timer = nil
		m.wg.Done()
	}
	m.mu.Unlock()

	return m.writePending(ctx)
}

// Close flushes the pending state and waits for in-flight writes. Later
// calls to Schedule are ignored.
func (m *SnapshotMirror) Close(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	err := m.Flush(ctx)
	m.wg.Wait()
	return err
}

func (m *SnapshotMirror) writePending(ctx context.Context) error {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()

	if pending == nil {
		return nil
	}

	data, err := state.EncodeSnapshot(*pending)
	if err != nil {
		m.metrics.RecordSnapshotWrite(OutcomeError)
		log.WithError(err).Error("Failed to encode local settings snapshot")
		return err
	}

	if err := m.cache.Store(ctx, data); err != nil {
		m.metrics.RecordSnapshotWrite(OutcomeError)
		log.WithFields(log.Fields{
			"guilds": len(pending.Records),
			"bytes":  len(data),
		}).WithError(err).Warn("Failed to write local settings snapshot")
		return err
	}

	m.metrics.RecordSnapshotWrite(OutcomeSuccess)
	log.WithFields(log.Fields{
		"guilds": len(pending.Records),
		"bytes":  len(data),
	}).Debug("Wrote local settings snapshot")
	return nil
}
