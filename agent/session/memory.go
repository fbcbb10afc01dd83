package session

import (
	"context"
	"sync"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

// MemoryStore holds histories for the lifetime of the process. Nothing is ever
// evicted, so memory grows with the number of sessions.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]contractx.Message
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]contractx.Message)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) ([]contractx.Message, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.sessions[sessionID]
	out := make([]contractx.Message, len(history))
	copy(out, history)
	return out, nil
}

func (s *MemoryStore) Append(_ context.Context, sessionID string, messages ...contractx.Message) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sessionID] = append(s.sessions[sessionID], messages...)
	return nil
}

// Len reports how many sessions are held.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
