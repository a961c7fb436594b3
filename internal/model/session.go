package model

// StateKind discriminates the per-chat conversation state.
type StateKind string

const (
	// StateIdle means no extraction flow is in progress for the chat.
	StateIdle StateKind = "idle"
	// StateClarifying means the pipeline is waiting for a free-text answer
	// to a clarification question.
	StateClarifying StateKind = "clarifying"
	// StateConfirming means candidate events are awaiting a save/edit action.
	StateConfirming StateKind = "confirming"
)

// PendingClarification is the state of an in-flight clarification loop.
// BaseText accumulates the original source text plus every user reply.
type PendingClarification struct {
	BaseText string `json:"base_text"`
	Timezone string `json:"user_tz"`
	Attempts int    `json:"attempts"`
}

// PendingConfirmation holds serialized candidates awaiting a save/edit
// decision. SourceText is kept so "edit" can reseed the clarification loop.
type PendingConfirmation struct {
	Events     []EventPayload `json:"events"`
	SourceText string         `json:"source_text"`
	Timezone   string         `json:"user_tz"`
}

// ChatState is the tagged union of per-chat conversation state. At most one
// of Clarification and Confirmation is non-nil; creating one invalidates the
// other.
type ChatState struct {
	Kind          StateKind
	Clarification *PendingClarification
	Confirmation  *PendingConfirmation
}

// Idle reports whether no flow is pending.
func (s ChatState) Idle() bool { return s.Kind == StateIdle || s.Kind == "" }
