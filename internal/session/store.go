// Package session holds per-chat conversation state for in-flight
// extraction pipelines.
package session

import (
	"sync"

	"github.com/planline-ai/event-pipeline/internal/model"
	"github.com/planline-ai/event-pipeline/pkg/metrics"
)

// Store keeps the typed conversation state per chat. Each chat also carries
// its own processing lock so inbound messages for one chat are handled
// strictly one at a time; different chats proceed concurrently.
type Store struct {
	mu    sync.RWMutex
	chats map[string]*chatEntry
}

type chatEntry struct {
	proc  sync.Mutex
	mu    sync.RWMutex
	state model.ChatState
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{chats: make(map[string]*chatEntry)}
}

func (s *Store) entry(chatID string) *chatEntry {
	s.mu.RLock()
	e, ok := s.chats[chatID]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.chats[chatID]; ok {
		return e
	}
	e = &chatEntry{state: model.ChatState{Kind: model.StateIdle}}
	s.chats[chatID] = e
	return e
}

// Acquire takes the chat's processing lock and returns the release func.
func (s *Store) Acquire(chatID string) func() {
	e := s.entry(chatID)
	e.proc.Lock()
	return e.proc.Unlock
}

// State returns a copy of the chat's current conversation state.
func (s *Store) State(chatID string) model.ChatState {
	e := s.entry(chatID)
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetClarification makes the chat await a clarification answer, dropping any
// pending confirmation (at most one pending record per chat).
func (s *Store) SetClarification(chatID string, p *model.PendingClarification) {
	s.transition(chatID, model.ChatState{Kind: model.StateClarifying, Clarification: p})
}

// SetConfirmation makes the chat await a save/edit decision, dropping any
// pending clarification.
func (s *Store) SetConfirmation(chatID string, p *model.PendingConfirmation) {
	s.transition(chatID, model.ChatState{Kind: model.StateConfirming, Confirmation: p})
}

// Clear resets the chat to idle.
func (s *Store) Clear(chatID string) {
	s.transition(chatID, model.ChatState{Kind: model.StateIdle})
}

func (s *Store) transition(chatID string, next model.ChatState) {
	e := s.entry(chatID)
	e.mu.Lock()
	prev := e.state
	e.state = next
	e.mu.Unlock()

	if prev.Kind != next.Kind {
		if !prev.Idle() {
			metrics.PendingStates.WithLabelValues(string(prev.Kind)).Dec()
		}
		if !next.Idle() {
			metrics.PendingStates.WithLabelValues(string(next.Kind)).Inc()
		}
	}
}
