package i18n

import "testing"

var allKeys = []string{
	KeyConfirmPrompt,
	KeyDraftNotFound,
	KeyDraftUnreadable,
	KeyEventsAdded,
	KeySaveFailed,
	KeyEditPrompt,
	KeyNeedDetails,
	KeyEmptyTranscript,
	KeyNoEventIntent,
	KeyClarifyGiveUp,
	KeyPreviewEvent,
	KeyPreviewDate,
	KeyPreviewTime,
	KeyPreviewDesc,
	KeyPreviewPlace,
	KeyReminderHeader,
	KeyReminderInHour,
}

func TestKeysArePairwiseDistinct(t *testing.T) {
	seen := make(map[string]bool, len(allKeys))
	for _, key := range allKeys {
		if seen[key] {
			t.Errorf("key string %q used by more than one message", key)
		}
		seen[key] = true
	}
}

func TestEnglishCoversAllKeys(t *testing.T) {
	for _, key := range allKeys {
		got, ok := en[key]
		if !ok || got == "" {
			t.Errorf("no English translation for %q", key)
			continue
		}
		if got == key {
			t.Errorf("English translation for %q is the Russian source", key)
		}
	}
	if len(en) != len(allKeys) {
		t.Errorf("en has %d entries, want %d", len(en), len(allKeys))
	}
}

func TestTRussianIsIdentity(t *testing.T) {
	if got := T("ru", KeyConfirmPrompt); got != KeyConfirmPrompt {
		t.Errorf("T(ru) = %q, want the key itself", got)
	}
}

func TestTEnglishTranslates(t *testing.T) {
	got := T("en", KeyConfirmPrompt)
	if got == KeyConfirmPrompt || got == "" {
		t.Errorf("T(en) = %q, want an English translation", got)
	}
}

func TestTUnknownKeyFallsBack(t *testing.T) {
	if got := T("en", "нет такого ключа"); got != "нет такого ключа" {
		t.Errorf("T = %q, want the key itself", got)
	}
}

func TestTUnknownLocaleFallsBack(t *testing.T) {
	if got := T("de", KeyConfirmPrompt); got != KeyConfirmPrompt {
		t.Errorf("T(de) = %q, want the Russian source", got)
	}
}
