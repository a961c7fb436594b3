package model

// MessageRequest is an inbound free-text chat message.
type MessageRequest struct {
	Text string `json:"text"`
}

// TranscriptRequest is text produced by an external OCR/STT/PDF producer.
// Source is informational ("voice", "photo", "pdf").
type TranscriptRequest struct {
	Text   string `json:"text"`
	Source string `json:"source,omitempty"`
}

// Action names for the confirmation state machine.
const (
	ActionConfirmSave = "confirm_save"
	ActionConfirmEdit = "confirm_edit"
)

// ActionRequest is a button-style confirmation action.
type ActionRequest struct {
	Action string `json:"action"`
}

// ChatReply is the pipeline's answer to any conversational input.
type ChatReply struct {
	Reply   string    `json:"reply"`
	State   StateKind `json:"state"`
	Preview []string  `json:"preview,omitempty"`
	Saved   int       `json:"saved,omitempty"`
}

// ListEventsResponse lists a chat's persisted events.
type ListEventsResponse struct {
	Events []StoredEvent `json:"events"`
	Total  int           `json:"total"`
}
