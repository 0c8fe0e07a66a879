package infrastructure

import (
	"fmt"

	"guildconsole/events"
)

// EventSubjectMapper handles mapping between feedback events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a feedback event to its NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch event.Type() {
	case events.EventTypeSettingsSaved:
		return "settings.saved"
	case events.EventTypeSettingsSaveFailed:
		return "settings.save_failed"
	case events.EventTypeSettingsReset:
		return "settings.reset"
	case events.EventTypeGuildHydrated:
		return "settings.hydrated"
	default:
		return fmt.Sprintf("settings.unknown.%s", event.Type())
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case "settings.saved":
		return events.EventTypeSettingsSaved
	case "settings.save_failed":
		return events.EventTypeSettingsSaveFailed
	case "settings.reset":
		return events.EventTypeSettingsReset
	case "settings.hydrated":
		return events.EventTypeGuildHydrated
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"settings.saved",
		"settings.save_failed",
		"settings.reset",
		"settings.hydrated",
		"settings.unknown.*",
	}
}
