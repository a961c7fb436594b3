package pipeline

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/planline-ai/event-pipeline/internal/i18n"
	"github.com/planline-ai/event-pipeline/internal/model"
	"github.com/planline-ai/event-pipeline/pkg/metrics"
)

// ErrUnknownAction is returned for an action name outside the confirmation
// contract.
var ErrUnknownAction = errors.New("unknown action")

// HandleAction processes a confirmation decision. Without a pending
// confirmation the action is a no-op that leaves state untouched.
func (p *Pipeline) HandleAction(ctx context.Context, chatID, action string) (model.ChatReply, error) {
	release := p.sessions.Acquire(chatID)
	defer release()

	locale := p.gateway.UserLocale(ctx, chatID)

	state := p.sessions.State(chatID)
	if state.Kind != model.StateConfirming || state.Confirmation == nil {
		return reply(locale, i18n.KeyDraftNotFound, state.Kind), nil
	}
	pending := state.Confirmation

	switch action {
	case model.ActionConfirmSave:
		return p.saveConfirmed(ctx, chatID, locale, pending), nil
	case model.ActionConfirmEdit:
		p.sessions.SetClarification(chatID, &model.PendingClarification{
			BaseText: pending.SourceText,
			Timezone: pending.Timezone,
			Attempts: 1,
		})
		return reply(locale, i18n.KeyEditPrompt, model.StateClarifying), nil
	default:
		return model.ChatReply{}, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// saveConfirmed persists each pending candidate individually; one bad row
// does not abort the rest. Zero created rows is reported as a failure, and
// the pending record is cleared either way.
func (p *Pipeline) saveConfirmed(ctx context.Context, chatID, locale string, pending *model.PendingConfirmation) model.ChatReply {
	events := model.Deserialize(pending.Events)
	if len(events) == 0 {
		return reply(locale, i18n.KeyDraftUnreadable, model.StateConfirming)
	}

	created := 0
	for _, ev := range events {
		stored := model.StoredEvent{
			ChatID:      chatID,
			Date:        ev.Date,
			StartTime:   ev.StartTime,
			StopTime:    ev.StopTime,
			Description: ev.Description,
			Recurrence:  ev.Recurrence,
		}
		id, err := p.gateway.SaveEvent(ctx, stored)
		if err != nil || id == 0 {
			p.log.Warn("event not saved",
				zap.String("chat_id", chatID),
				zap.Error(err))
			continue
		}
		created++
		metrics.EventsSaved.Inc()

		if p.publisher != nil {
			stored.ID = id
			if err := p.publisher.PublishSaved(ctx, stored); err != nil {
				p.log.Warn("saved-event publish failed", zap.Error(err))
			}
		}
	}

	p.sessions.Clear(chatID)
	if created == 0 {
		return reply(locale, i18n.KeySaveFailed, model.StateIdle)
	}
	return model.ChatReply{
		Reply: fmt.Sprintf(i18n.T(locale, i18n.KeyEventsAdded), created),
		State: model.StateIdle,
		Saved: created,
	}
}
