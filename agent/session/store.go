package session

import (
	"context"
	"errors"
	"strings"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

var ErrInvalidSession = errors.New("session id is empty")

// Store keeps the ordered message history of every session. A session springs into
// existence on first reference. Concurrent appends to one session are not ordered
// beyond arrival at the store.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]contractx.Message, error)
	Append(ctx context.Context, sessionID string, messages ...contractx.Message) error
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return ErrInvalidSession
	}
	return nil
}

// LastUserMessage returns the content of the most recent user message, or "".
func LastUserMessage(history []contractx.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == contractx.RoleUser {
			return history[i].Content
		}
	}
	return ""
}
