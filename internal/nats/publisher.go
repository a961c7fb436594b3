package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/planline-ai/event-pipeline/internal/model"
)

const (
	// StreamName is the name of the calendar events stream.
	StreamName = "EVENTS"

	// SubjectPrefix is the prefix for all event subjects.
	SubjectPrefix = "events"
)

// Publisher publishes saved-event and reminder notifications to JetStream.
type Publisher struct {
	client *Client
}

// NewPublisher creates a publisher over an established client.
func NewPublisher(client *Client) *Publisher {
	return &Publisher{client: client}
}

// EnsureStream ensures the events stream exists with proper configuration.
func (p *Publisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      90 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Saved calendar events and reminder notifications",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// SavedSubject returns the subject for a saved-event notification.
func SavedSubject(chatID string) string {
	return fmt.Sprintf("%s.%s.saved", SubjectPrefix, chatID)
}

// ReminderSubject returns the subject for a reminder notification.
func ReminderSubject(chatID string) string {
	return fmt.Sprintf("%s.%s.reminder", SubjectPrefix, chatID)
}

// PublishSaved publishes one saved-event notification.
func (p *Publisher) PublishSaved(ctx context.Context, ev model.StoredEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if _, err := p.client.JetStream().Publish(ctx, SavedSubject(ev.ChatID), data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// ReminderMessage is the reminder notification payload.
type ReminderMessage struct {
	ChatID  string            `json:"chat_id"`
	EventID int64             `json:"event_id"`
	Text    string            `json:"text"`
	StartAt time.Time         `json:"start_at"`
	Event   model.StoredEvent `json:"event"`
}

// PublishReminder publishes one reminder notification.
func (p *Publisher) PublishReminder(ctx context.Context, msg ReminderMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal reminder: %w", err)
	}
	if _, err := p.client.JetStream().Publish(ctx, ReminderSubject(msg.ChatID), data); err != nil {
		return fmt.Errorf("failed to publish reminder: %w", err)
	}
	return nil
}
