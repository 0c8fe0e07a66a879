package interfaces

import (
	"context"

	"guildconsole/domain/sources"
	"guildconsole/events"
)

// SettingsSourceRepository reads and writes the remote settings tables
type SettingsSourceRepository interface {
	// ReadOne returns the row of a guild in source, or nil when it has none
	ReadOne(ctx context.Context, source string, externalID int64) (sources.Row, error)

	// UpsertOne creates or replaces the row of a guild in source
	UpsertOne(ctx context.Context, source string, externalID int64, row sources.Row) error
}

// SnapshotCache persists the serialized local store under one fixed key
type SnapshotCache interface {
	// Load returns nil data when nothing was stored yet
	Load(ctx context.Context) ([]byte, error)
	Store(ctx context.Context, data []byte) error
}

// FeedbackPublisher informs the user of save outcomes
type FeedbackPublisher interface {
	Publish(event events.Event) error
}
