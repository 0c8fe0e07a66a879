package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"guildconsole/events"
	"guildconsole/infrastructure/observability"
)

const (
	feedbackStreamName = "settings_feedback"
	sourceService      = "guild-console"
	publishTimeout     = 5 * time.Second
)

// EventEnvelope wraps every feedback event published to NATS
type EventEnvelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"sourceService"`
	Payload       json.RawMessage `json:"payload"`
}

// NATSFeedbackPublisher publishes feedback events to NATS after handing
// them to the in-process bus
type NATSFeedbackPublisher struct {
	natsClient    *NATSClient
	subjectMapper *EventSubjectMapper
	local         *events.Bus
	now           func() time.Time
}

// NewNATSFeedbackPublisher creates a new NATS feedback publisher. local may be nil.
func NewNATSFeedbackPublisher(natsClient *NATSClient, subjectMapper *EventSubjectMapper, local *events.Bus) *NATSFeedbackPublisher {
	return &NATSFeedbackPublisher{
		natsClient:    natsClient,
		subjectMapper: subjectMapper,
		local:         local,
		now:           time.Now,
	}
}

// Publish publishes an event to NATS using the appropriate subject
func (p *NATSFeedbackPublisher) Publish(event events.Event) error {
	if p.local != nil {
		// Local handler errors shouldn't stop NATS publishing
		_ = p.local.Publish(event)
	}

	subject := p.subjectMapper.MapEventToSubject(event)

	envelopeData, envelope, err := p.encode(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := p.natsClient.Publish(ctx, subject, envelopeData); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}
	observability.GetMetrics().RecordNATSMessagePublished(string(event.Type()))

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Successfully published event to NATS")
	return nil
}

func (p *NATSFeedbackPublisher) encode(event events.Event) ([]byte, EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, EventEnvelope{}, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     p.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, EventEnvelope{}, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, envelope, nil
}

// EnsureFeedbackStream ensures the feedback stream exists with every published subject
func (p *NATSFeedbackPublisher) EnsureFeedbackStream() error {
	return p.natsClient.EnsureStream(feedbackStreamName, "Guild console settings feedback", p.subjectMapper.GetAllSubjects())
}
