package chatnode

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	plannerx "github.com/tanpawarit/zus-chat-assistant/agent/planner"
)

func Plan(ctx context.Context, in *GraphState, planner contractx.Planner) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	planned, err := planner.Plan(ctx, in.History)
	if err != nil {
		return nil, err
	}
	in.Planned = planned
	in.Attribution = plannerx.Identify(planned)
	return in, nil
}
