// Package i18n provides localized user-facing strings. Message keys are the
// Russian source strings; lookups fall back to the key itself, so unknown
// keys and the "ru" locale are both identity.
package i18n

// Message keys used by the pipeline. Key strings must stay pairwise
// distinct: the translation maps are keyed by them.
const (
	KeyConfirmPrompt   = "Проверь, всё ли верно перед сохранением:"
	KeyDraftNotFound   = "Черновик события не найден. Отправь текст или файл ещё раз."
	KeyDraftUnreadable = "Не получилось прочитать черновик. Пришли данные заново."
	KeyEventsAdded     = "Добавил событий: %d"
	KeySaveFailed      = "Не получилось записать события в календарь."
	KeyEditPrompt      = "Ок, что исправить? Напиши в одном сообщении дату, время, описание и (если есть) место."
	KeyNeedDetails     = "Нужно чуть больше деталей. Напиши, пожалуйста: дату, время и короткое описание события."
	KeyEmptyTranscript = "Не удалось извлечь текст. Пришли более чёткое фото, другой файл или отправь данные текстом."
	KeyNoEventIntent   = "Пришли дату, время и описание события — добавлю в календарь."
	KeyClarifyGiveUp   = "Не получилось уточнить событие. Начни заново: пришли дату, время и описание одним сообщением."
	KeyPreviewEvent    = "Событие"
	KeyPreviewDate     = "Дата"
	KeyPreviewTime     = "Время"
	KeyPreviewDesc     = "Описание"
	KeyPreviewPlace    = "Место"
	KeyReminderHeader  = "Напоминание о событии"
	KeyReminderInHour  = "Через 1 час:"
)

var en = map[string]string{
	KeyConfirmPrompt:   "Check that everything is correct before saving:",
	KeyDraftNotFound:   "Event draft not found. Send the text or file again.",
	KeyDraftUnreadable: "Could not read the draft. Send the data again.",
	KeyEventsAdded:     "Added events: %d",
	KeySaveFailed:      "Could not write the events to the calendar.",
	KeyEditPrompt:      "OK, what should be fixed? Send the date, time, description and (if any) place in one message.",
	KeyNeedDetails:     "A few more details needed. Please send the date, time and a short event description.",
	KeyEmptyTranscript: "Could not extract any text. Send a clearer photo, another file, or type the details.",
	KeyNoEventIntent:   "Send the event date, time and description and I will add it to the calendar.",
	KeyClarifyGiveUp:   "Could not clarify the event. Start over: send the date, time and description in one message.",
	KeyPreviewEvent:    "Event",
	KeyPreviewDate:     "Date",
	KeyPreviewTime:     "Time",
	KeyPreviewDesc:     "Description",
	KeyPreviewPlace:    "Place",
	KeyReminderHeader:  "Event reminder",
	KeyReminderInHour:  "In 1 hour:",
}

// T translates a message key for the given locale.
func T(locale, key string) string {
	if locale == "en" {
		if v, ok := en[key]; ok {
			return v
		}
	}
	return key
}
