package chatnode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	sessionx "github.com/tanpawarit/zus-chat-assistant/agent/session"
)

// AppendAndLoadHistory records the user turn, then reads the whole session back.
func AppendAndLoadHistory(ctx context.Context, in *GraphState, store sessionx.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	if err := store.Append(ctx, in.SessionID, contractx.UserMessage(in.Message)); err != nil {
		return nil, fmt.Errorf("append user message: %w", err)
	}
	history, err := store.Get(ctx, in.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session history: %w", err)
	}
	in.History = history
	return in, nil
}
