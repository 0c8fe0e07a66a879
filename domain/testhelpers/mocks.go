package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"guildconsole/domain/sources"
	"guildconsole/events"
)

// MockSettingsSourceRepository is a mock implementation of SettingsSourceRepository
type MockSettingsSourceRepository struct {
	mock.Mock
}

func (m *MockSettingsSourceRepository) ReadOne(ctx context.Context, source string, externalID int64) (sources.Row, error) {
	args := m.Called(ctx, source, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(sources.Row), args.Error(1)
}

func (m *MockSettingsSourceRepository) UpsertOne(ctx context.Context, source string, externalID int64, row sources.Row) error {
	args := m.Called(ctx, source, externalID, row)
	return args.Error(0)
}

// MockSnapshotCache is a mock implementation of SnapshotCache
type MockSnapshotCache struct {
	mock.Mock
}

func (m *MockSnapshotCache) Load(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSnapshotCache) Store(ctx context.Context, data []byte) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// MockFeedbackPublisher is a mock implementation of FeedbackPublisher
type MockFeedbackPublisher struct {
	mock.Mock
}

func (m *MockFeedbackPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
