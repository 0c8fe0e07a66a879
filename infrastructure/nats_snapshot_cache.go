package infrastructure

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// SnapshotBucket is the JetStream key-value bucket holding store snapshots
const SnapshotBucket = "guild_console"

// NATSSnapshotCache keeps the local store snapshot in a JetStream
// key-value bucket under one fixed key
type NATSSnapshotCache struct {
	kv  nats.KeyValue
	key string
}

// NewNATSSnapshotCache opens or creates the snapshot bucket
func NewNATSSnapshotCache(natsClient *NATSClient, key string) (*NATSSnapshotCache, error) {
	kv, err := natsClient.KeyValue(SnapshotBucket, "Guild console local store snapshots")
	if err != nil {
		return nil, err
	}
	return &NATSSnapshotCache{kv: kv, key: key}, nil
}

// Load returns the stored snapshot, or nil when none was stored yet
func (c *NATSSnapshotCache) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := c.kv.Get(c.key)
	if errors.Is(err, nats.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", c.key, err)
	}
	return entry.Value(), nil
}

// Store replaces the stored snapshot
func (c *NATSSnapshotCache) Store(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	revision, err := c.kv.Put(c.key, data)
	if err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", c.key, err)
	}

	log.WithFields(log.Fields{
		"key":      c.key,
		"revision": revision,
		"size":     len(data),
	}).Debug("Stored snapshot in NATS key-value bucket")
	return nil
}
