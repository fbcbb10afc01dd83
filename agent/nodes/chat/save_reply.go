package chatnode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	sessionx "github.com/tanpawarit/zus-chat-assistant/agent/session"
)

func SaveReply(ctx context.Context, in *GraphState, store sessionx.Store) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	// A timed-out request has already been answered with an error; its reply stays out of history.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("save reply: %w", err)
	}
	if err := store.Append(ctx, in.SessionID, contractx.AssistantMessage(in.Answer.Text)); err != nil {
		return nil, fmt.Errorf("append assistant message: %w", err)
	}
	return in, nil
}
