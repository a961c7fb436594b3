// Package pipeline orchestrates the extraction cascade and the per-chat
// clarification/confirmation state machines.
package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/planline-ai/event-pipeline/internal/extract"
	"github.com/planline-ai/event-pipeline/internal/i18n"
	"github.com/planline-ai/event-pipeline/internal/model"
	"github.com/planline-ai/event-pipeline/internal/session"
	"github.com/planline-ai/event-pipeline/internal/store"
	"github.com/planline-ai/event-pipeline/pkg/logger"
	"github.com/planline-ai/event-pipeline/pkg/metrics"
)

// Delegate is the clarify-capable black-box extractor. Implementations never
// return transport or parse errors; failures surface as empty results.
type Delegate interface {
	ExtractSimple(ctx context.Context, text, tz, chatID string) []model.ParsedEvent
	ExtractOrClarify(ctx context.Context, text, tz, chatID string) ([]model.ParsedEvent, string)
}

// EventPublisher receives saved-event notifications. Publishing is
// best-effort: a failure never rolls back a save.
type EventPublisher interface {
	PublishSaved(ctx context.Context, ev model.StoredEvent) error
}

// Input is what one cascade stage sees.
type Input struct {
	Text     string
	Timezone string
	ChatID   string
	Base     time.Time
}

// Strategy is one stage of the extraction cascade. Stages run in order until
// one yields at least one sanitized candidate.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, in Input) []model.ParsedEvent
}

type ruleStrategy struct{ strict bool }

func (s ruleStrategy) Name() string {
	if s.strict {
		return "rules_strict"
	}
	return "rules"
}

func (s ruleStrategy) Extract(_ context.Context, in Input) []model.ParsedEvent {
	return extract.Rules(in.Text, in.Base, extract.Options{Strict: s.strict})
}

type ticketStrategy struct{}

func (ticketStrategy) Name() string { return "ticket" }

func (ticketStrategy) Extract(_ context.Context, in Input) []model.ParsedEvent {
	return extract.Ticket(in.Text, in.Base)
}

type delegateStrategy struct{ d Delegate }

func (delegateStrategy) Name() string { return "agent_simple" }

func (s delegateStrategy) Extract(ctx context.Context, in Input) []model.ParsedEvent {
	return s.d.ExtractSimple(ctx, in.Text, in.Timezone, in.ChatID)
}

// Pipeline ties the cascade, the session store and the persistence gateway
// together. All entry points serialize per chat via the session store's
// processing lock.
type Pipeline struct {
	sessions    *session.Store
	gateway     store.Gateway
	delegate    Delegate
	publisher   EventPublisher
	log         *logger.Logger
	maxAttempts int

	now func() time.Time
}

// New creates a pipeline. publisher may be nil when NATS is disabled.
func New(sessions *session.Store, gateway store.Gateway, delegate Delegate, publisher EventPublisher, log *logger.Logger, maxAttempts int) *Pipeline {
	if maxAttempts <= 0 {
		maxAttempts = 5
	}
	return &Pipeline{
		sessions:    sessions,
		gateway:     gateway,
		delegate:    delegate,
		publisher:   publisher,
		log:         log,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

func (p *Pipeline) chatStrategies() []Strategy {
	return []Strategy{ruleStrategy{}, ticketStrategy{}, delegateStrategy{p.delegate}}
}

func (p *Pipeline) transcriptStrategies() []Strategy {
	return []Strategy{ticketStrategy{}, delegateStrategy{p.delegate}, ruleStrategy{strict: true}}
}

// intentMarkers gate free chat text: without one of these (or a digit) the
// text is not treated as an event request at all.
var intentMarkers = []string{
	"завтра", "сегодня", "послезавтра", "создай", "добавь", "запланируй",
	"встреч", "напомни", "ежедневно", "еженедельно", "ежемесячно", "ежегодно",
	"каждый", "каждую", "понедельник", "вторник", "среда", "среду", "четверг", "пятниц",
	"суббот", "воскресень",
	"tomorrow", "today", "schedule", "meeting", "remind", "every ",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func hasEventIntent(text string) bool {
	if strings.ContainsAny(text, "0123456789") {
		return true
	}
	lower := strings.ToLower(text)
	for _, m := range intentMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// HandleMessage processes a free-text chat message. When the chat awaits a
// clarification answer the message is consumed by that loop; otherwise it is
// gated on intent markers and fed to the cascade.
func (p *Pipeline) HandleMessage(ctx context.Context, chatID, text string) model.ChatReply {
	release := p.sessions.Acquire(chatID)
	defer release()

	text = strings.TrimSpace(text)
	locale := p.gateway.UserLocale(ctx, chatID)

	state := p.sessions.State(chatID)
	if state.Kind == model.StateClarifying && state.Clarification != nil {
		return p.clarifyReply(ctx, chatID, locale, state.Clarification, text)
	}

	if !hasEventIntent(text) {
		return reply(locale, i18n.KeyNoEventIntent, state.Kind)
	}

	tz := p.gateway.UserTimezone(ctx, chatID)
	events := p.runCascade(ctx, p.chatStrategies(), chatID, text, tz)
	return p.finishExtraction(ctx, chatID, locale, text, tz, events)
}

// HandleTranscript processes text produced by an external OCR/STT/PDF
// producer. Transcripts skip the intent gate and use the stricter cascade.
func (p *Pipeline) HandleTranscript(ctx context.Context, chatID, text string) model.ChatReply {
	release := p.sessions.Acquire(chatID)
	defer release()

	text = strings.TrimSpace(text)
	locale := p.gateway.UserLocale(ctx, chatID)
	if text == "" {
		return reply(locale, i18n.KeyEmptyTranscript, p.sessions.State(chatID).Kind)
	}

	tz := p.gateway.UserTimezone(ctx, chatID)
	events := p.runCascade(ctx, p.transcriptStrategies(), chatID, text, tz)
	return p.finishExtraction(ctx, chatID, locale, text, tz, events)
}

// runCascade runs strategies in order and returns the first non-empty
// sanitized result. A stage whose raw candidates are all rejected by the
// sanitizer counts as empty and the cascade moves on.
func (p *Pipeline) runCascade(ctx context.Context, strategies []Strategy, chatID, text, tz string) []model.ParsedEvent {
	in := Input{
		Text:     text,
		Timezone: tz,
		ChatID:   chatID,
		Base:     extract.BaseDate(p.now(), tz),
	}
	for _, s := range strategies {
		got := s.Extract(ctx, in)
		metrics.RecordCandidates(s.Name(), len(got))
		if cleaned := extract.Sanitize(got, text); len(cleaned) > 0 {
			p.log.Debug("cascade stage matched",
				zap.String("strategy", s.Name()),
				zap.Int("events", len(cleaned)))
			return cleaned
		}
	}
	return nil
}

// finishExtraction converts a cascade result into the next conversation
// state: a confirmation preview, or the clarification loop when even the
// clarify-capable extractor produced nothing usable.
func (p *Pipeline) finishExtraction(ctx context.Context, chatID, locale, sourceText, tz string, events []model.ParsedEvent) model.ChatReply {
	if len(events) == 0 {
		smart, question := p.delegate.ExtractOrClarify(ctx, sourceText, tz, chatID)
		smart = extract.Sanitize(smart, sourceText)
		if len(smart) > 0 {
			return p.confirm(chatID, locale, sourceText, tz, smart)
		}

		// The chat awaits an answer even without a follow-up question:
		// the next message refines the same request instead of being
		// re-gated on intent.
		p.sessions.SetClarification(chatID, &model.PendingClarification{
			BaseText: sourceText,
			Timezone: tz,
			Attempts: 1,
		})
		metrics.CascadeOutcomes.WithLabelValues("clarify").Inc()
		if question == "" {
			return reply(locale, i18n.KeyNeedDetails, model.StateClarifying)
		}
		return model.ChatReply{Reply: question, State: model.StateClarifying}
	}
	return p.confirm(chatID, locale, sourceText, tz, events)
}

// confirm stores the candidates as a pending confirmation and renders the
// preview. Creating the confirmation drops any pending clarification.
func (p *Pipeline) confirm(chatID, locale, sourceText, tz string, events []model.ParsedEvent) model.ChatReply {
	p.sessions.SetConfirmation(chatID, &model.PendingConfirmation{
		Events:     model.Serialize(events),
		SourceText: sourceText,
		Timezone:   tz,
	})
	metrics.CascadeOutcomes.WithLabelValues("confirmed").Inc()
	return model.ChatReply{
		Reply:   i18n.T(locale, i18n.KeyConfirmPrompt),
		State:   model.StateConfirming,
		Preview: previewLines(locale, events),
	}
}

func reply(locale, key string, kind model.StateKind) model.ChatReply {
	if kind == "" {
		kind = model.StateIdle
	}
	return model.ChatReply{Reply: i18n.T(locale, key), State: kind}
}
