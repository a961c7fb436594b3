// Package agent integrates the delegated black-box extractor: prompt
// construction, process/LLM invocation and defensive parsing of its output.
package agent

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/planline-ai/event-pipeline/internal/model"
	"github.com/planline-ai/event-pipeline/pkg/logger"
	"github.com/planline-ai/event-pipeline/pkg/metrics"
)

const simplePromptHeader = "Извлеки события из текста/афиши. Верни только JSON-массив без пояснений. " +
	"Каждый объект: date(YYYY-MM-DD), start_time(HH:MM), end_time(HH:MM|null), description, address, recurrent(one of: never,daily,weekly,monthly,annual). "

const smartPromptHeader = "Ты извлекаешь события из OCR/голосового текста для календаря. " +
	"Верни СТРОГО JSON-объект БЕЗ пояснений. " +
	"Если данных достаточно: {\"status\":\"ok\",\"events\":[{date,start_time,end_time,description,address,recurrent}]}. " +
	"Если данных недостаточно/двусмысленно: {\"status\":\"clarify\",\"question\":\"...\"}. " +
	"date=YYYY-MM-DD, time=HH:MM, recurrent in never|daily|weekly|monthly|annual. "

// Extractor is the delegated extraction strategy. Every transport or parse
// failure is downgraded to an empty result: this boundary never raises to
// the caller.
type Extractor struct {
	runner        Runner
	sessionPrefix string
	log           *logger.Logger
}

// NewExtractor creates a delegated extractor over the given runner.
func NewExtractor(runner Runner, sessionPrefix string, log *logger.Logger) *Extractor {
	return &Extractor{runner: runner, sessionPrefix: sessionPrefix, log: log}
}

func (e *Extractor) sessionID(chatID string) string {
	if chatID == "" {
		chatID = "shared"
	}
	return e.sessionPrefix + "_" + chatID
}

func simplePrompt(text, tz string) string {
	return simplePromptHeader +
		"Часовой пояс пользователя: " + tz + ". " +
		"Если год не указан, выбери ближайшую будущую дату. Если это билет/афиша — постарайся правильно извлечь дату, время и адрес.\n\n" +
		"Текст:\n" + text
}

func smartPrompt(text, tz string) string {
	return smartPromptHeader +
		"Часовой пояс пользователя: " + tz + ".\n\n" +
		"Текст:\n" + text
}

// ExtractSimple is the first-pass AI fallback: it accepts only the
// array-shaped response and ignores any clarify semantics.
func (e *Extractor) ExtractSimple(ctx context.Context, text, tz, chatID string) []model.ParsedEvent {
	start := time.Now()

	out, err := e.runner.Run(ctx, e.sessionID(chatID), simplePrompt(text, tz))
	if err != nil {
		metrics.RecordAgentCall("simple", "error", time.Since(start).Seconds())
		e.log.Warn("simple agent extraction failed", zap.Error(err))
		return nil
	}
	metrics.RecordAgentCall("simple", "ok", time.Since(start).Seconds())

	return model.Deserialize(extractEventArray(out))
}

// ExtractOrClarify is the clarify-capable mode: it returns either mapped
// events, or a follow-up question for the user, or neither.
func (e *Extractor) ExtractOrClarify(ctx context.Context, text, tz, chatID string) ([]model.ParsedEvent, string) {
	start := time.Now()

	out, err := e.runner.Run(ctx, e.sessionID(chatID), smartPrompt(text, tz))
	if err != nil {
		metrics.RecordAgentCall("smart", "error", time.Since(start).Seconds())
		e.log.Warn("smart agent extraction failed", zap.Error(err))
		return nil, ""
	}
	metrics.RecordAgentCall("smart", "ok", time.Since(start).Seconds())

	rows, question, ok := extractSmartPayload(out)
	if !ok {
		e.log.Warn("smart agent returned no parseable payload")
		return nil, ""
	}
	if question != "" {
		return nil, question
	}
	return model.Deserialize(rows), ""
}
