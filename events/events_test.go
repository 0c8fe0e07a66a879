package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guildconsole/domain/entities"
)

func TestBusDelivery(t *testing.T) {
	bus := NewBus()

	var received []Event
	bus.Subscribe(EventTypeSettingsReset, func(ctx context.Context, event Event) {
		received = append(received, event)
	})
	bus.Subscribe(EventTypeSettingsSaved, func(ctx context.Context, event Event) {
		t.Errorf("unexpected delivery of %T", event)
	})

	reset := SettingsResetEvent{GuildID: "guild-a", Section: entities.SectionJobs}
	require.NoError(t, bus.Publish(reset))

	require.Len(t, received, 1)
	assert.Equal(t, reset, received[0])
}

func TestBusPanickingHandlerDoesNotStopOthers(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(EventTypeGuildHydrated, func(ctx context.Context, event Event) {
		panic("boom")
	})
	bus.Subscribe(EventTypeGuildHydrated, func(ctx context.Context, event Event) {
		calls++
	})

	assert.NotPanics(t, func() {
		require.NoError(t, bus.Publish(GuildHydratedEvent{GuildID: "guild-a"}))
	})
	assert.Equal(t, 1, calls)
}

func TestEventTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event Event
		want  EventType
	}{
		{SettingsSavedEvent{}, EventTypeSettingsSaved},
		{SettingsSaveFailedEvent{}, EventTypeSettingsSaveFailed},
		{SettingsResetEvent{}, EventTypeSettingsReset},
		{GuildHydratedEvent{}, EventTypeGuildHydrated},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.event.Type())
	}
}
