// Package store is the persistence gateway for confirmed events and user
// profiles.
package store

import (
	"context"
	"time"

	"github.com/planline-ai/event-pipeline/internal/model"
)

// DefaultTimezone is used when a chat has no stored profile.
const DefaultTimezone = "Europe/Moscow"

// DefaultLocale is used when a chat has no stored locale.
const DefaultLocale = "ru"

// Gateway persists confirmed events and resolves per-chat profile settings.
// SaveEvent returns the generated identifier; zero means "not created",
// which callers treat as a failure signal, not an exception.
type Gateway interface {
	SaveEvent(ctx context.Context, ev model.StoredEvent) (int64, error)
	ListEvents(ctx context.Context, chatID string) ([]model.StoredEvent, error)
	ListAllEvents(ctx context.Context, limit, offset int) ([]model.StoredEvent, error)

	UserTimezone(ctx context.Context, chatID string) string
	UserLocale(ctx context.Context, chatID string) string
	UpsertUser(ctx context.Context, chatID, timezone, locale string) error

	Close() error
}

// nowFunc is swappable in tests.
var nowFunc = time.Now
