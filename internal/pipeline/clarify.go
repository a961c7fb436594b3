package pipeline

import (
	"context"

	"github.com/planline-ai/event-pipeline/internal/extract"
	"github.com/planline-ai/event-pipeline/internal/i18n"
	"github.com/planline-ai/event-pipeline/internal/model"
	"github.com/planline-ai/event-pipeline/pkg/metrics"
)

// clarifyMergeSeparator joins the accumulated base text with each user
// answer; the delegated extractor sees the whole history as one document.
const clarifyMergeSeparator = "\n\nУточнение пользователя: "

// clarifyReply consumes one answer in the clarification loop: the answer is
// merged into the accumulated base text and the whole cascade reruns over
// the merged document. Success resolves into a confirmation; failure either
// asks again (attempts+1) or gives up at the attempt cap.
func (p *Pipeline) clarifyReply(ctx context.Context, chatID, locale string, pending *model.PendingClarification, answer string) model.ChatReply {
	merged := pending.BaseText + clarifyMergeSeparator + answer
	metrics.ClarificationRounds.Inc()

	events := p.runCascade(ctx, p.transcriptStrategies(), chatID, merged, pending.Timezone)
	question := ""
	if len(events) == 0 {
		var smart []model.ParsedEvent
		smart, question = p.delegate.ExtractOrClarify(ctx, merged, pending.Timezone, chatID)
		events = extract.Sanitize(smart, merged)
	}

	if len(events) > 0 {
		return p.confirm(chatID, locale, merged, pending.Timezone, events)
	}

	if pending.Attempts >= p.maxAttempts {
		p.sessions.Clear(chatID)
		metrics.CascadeOutcomes.WithLabelValues("abandoned").Inc()
		return reply(locale, i18n.KeyClarifyGiveUp, model.StateIdle)
	}

	p.sessions.SetClarification(chatID, &model.PendingClarification{
		BaseText: merged,
		Timezone: pending.Timezone,
		Attempts: pending.Attempts + 1,
	})
	if question == "" {
		return reply(locale, i18n.KeyNeedDetails, model.StateClarifying)
	}
	return model.ChatReply{Reply: question, State: model.StateClarifying}
}
