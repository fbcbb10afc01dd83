package chatnode

import (
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	plannerx "github.com/tanpawarit/zus-chat-assistant/agent/planner"
)

type GraphInput struct {
	SessionID string
	Message   string
}

type GraphState struct {
	SessionID   string
	Message     string
	History     []contractx.Message
	Planned     contractx.PlannerResult
	Attribution plannerx.Attribution
	Answer      contractx.NormalizedAnswer
}

type GraphOutput struct {
	Answer            string
	ToolUsed          string
	IntermediateSteps []string
}
