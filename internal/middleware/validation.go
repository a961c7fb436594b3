package middleware

import (
	"errors"
	"unicode/utf8"
)

// ValidateTextContent validates inbound message or transcript text.
func ValidateTextContent(content string) error {
	if len(content) == 0 {
		return errors.New("text cannot be empty")
	}
	if len(content) > 100000 { // ~100KB limit
		return errors.New("text exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("text must be valid UTF-8")
	}
	return nil
}

// ValidateChatID validates a chat identifier. Chat IDs come from external
// messaging platforms, so only length and charset are checked.
func ValidateChatID(id string) error {
	if len(id) == 0 {
		return errors.New("chat ID cannot be empty")
	}
	if len(id) > 64 {
		return errors.New("chat ID exceeds maximum length")
	}
	for _, r := range id {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' ||
			r == '-' || r == '_' || r == ':' || r == '.') {
			return errors.New("chat ID contains invalid characters")
		}
	}
	return nil
}
