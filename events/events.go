package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"guildconsole/domain/entities"
)

// EventType represents different types of feedback events
type EventType string

const (
	EventTypeSettingsSaved      EventType = "settings_saved"
	EventTypeSettingsSaveFailed EventType = "settings_save_failed"
	EventTypeSettingsReset      EventType = "settings_reset"
	EventTypeGuildHydrated      EventType = "guild_hydrated"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// SettingsSavedEvent reports a section that was saved successfully
type SettingsSavedEvent struct {
	GuildID string               `json:"guildId"`
	Section entities.SectionName `json:"section"`
	SavedAt time.Time            `json:"savedAt"`
}

func (e SettingsSavedEvent) Type() EventType {
	return EventTypeSettingsSaved
}

// SettingsSaveFailedEvent reports a save where one or more sources failed.
// The edited values stay in the local store.
type SettingsSaveFailedEvent struct {
	GuildID  string               `json:"guildId"`
	Section  entities.SectionName `json:"section"`
	Failures []string             `json:"failures"`
}

func (e SettingsSaveFailedEvent) Type() EventType {
	return EventTypeSettingsSaveFailed
}

// SettingsResetEvent reports a section restored to its defaults
type SettingsResetEvent struct {
	GuildID string               `json:"guildId"`
	Section entities.SectionName `json:"section"`
}

func (e SettingsResetEvent) Type() EventType {
	return EventTypeSettingsReset
}

// GuildHydratedEvent reports the one-time remote load of a guild
type GuildHydratedEvent struct {
	GuildID    string `json:"guildId"`
	ExternalID int64  `json:"externalId"`
	Found      bool   `json:"found"`
}

func (e GuildHydratedEvent) Type() EventType {
	return EventTypeGuildHydrated
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus dispatches events to in-process subscribers
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to feedback event type")
}

// Publish calls every handler of the event's type in subscription order.
// A panicking handler is logged and does not stop the others.
func (b *Bus) Publish(event Event) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Dispatching feedback event")

	ctx := context.Background()
	for i, handler := range handlers {
		b.dispatch(ctx, i, handler, event)
	}
	return nil
}

func (b *Bus) dispatch(ctx context.Context, index int, handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{
				"eventType":    event.Type(),
				"handlerIndex": index,
				"panic":        r,
			}).Error("Event handler panicked")
		}
	}()
	handler(ctx, event)
}
