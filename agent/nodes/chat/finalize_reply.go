package chatnode

import (
	"fmt"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

const stepRespondedDirectly = "Planner responded directly."

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	out := GraphOutput{
		Answer:   in.Answer.Text,
		ToolUsed: string(in.Answer.Capability),
	}
	if in.Answer.Capability.IsNone() {
		out.IntermediateSteps = []string{stepRespondedDirectly}
	} else {
		out.IntermediateSteps = []string{fmt.Sprintf("Planner used: %s", in.Answer.Capability)}
	}
	return out, nil
}
