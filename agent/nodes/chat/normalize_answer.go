package chatnode

import (
	"fmt"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	sessionx "github.com/tanpawarit/zus-chat-assistant/agent/session"
)

func NormalizeAnswer(in *GraphState, normalizer contractx.Normalizer) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}
	in.Answer = normalizer.Normalize(contractx.NormalizeRequest{
		Capability:       in.Attribution.Capability,
		ToolOutput:       in.Attribution.ToolOutput,
		HasToolOutput:    in.Attribution.HasToolOutput,
		UserMessage:      in.Message,
		PriorUserMessage: sessionx.LastUserMessage(in.History),
		Draft:            in.Planned.Draft,
	})
	return in, nil
}
