package planner

import (
	"regexp"
	"strings"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	toolx "github.com/tanpawarit/zus-chat-assistant/agent/tool"
)

var multiDigitPattern = regexp.MustCompile(`\b\d{2,}\b`)

// Attribution says which capability answered a request and with what raw output.
type Attribution struct {
	Capability    contractx.Capability
	ToolName      string
	ToolOutput    string
	HasToolOutput bool
	Heuristic     bool
}

// Identify attributes a planner result to one capability. The last tool call with a
// known capability wins; when no call can be attributed the draft text is inspected.
func Identify(result contractx.PlannerResult) Attribution {
	invocations := result.Invocations
	if len(invocations) == 0 {
		invocations = invocationsFromMessages(result.Messages)
	}

	var attribution Attribution
	for _, inv := range invocations {
		capability := inv.Capability
		if capability.IsNone() {
			capability = toolx.ClassifyToolName(inv.Name)
		}
		if capability.IsNone() {
			continue
		}
		attribution = Attribution{
			Capability:    capability,
			ToolName:      inv.Name,
			ToolOutput:    inv.Output,
			HasToolOutput: true,
		}
	}
	if attribution.HasToolOutput {
		return attribution
	}

	if capability := HeuristicCapability(result.Draft); !capability.IsNone() {
		return Attribution{Capability: capability, Heuristic: true}
	}
	return Attribution{}
}

// HeuristicCapability guesses the capability behind an answer that came without any
// tool message.
func HeuristicCapability(draft string) contractx.Capability {
	lower := strings.ToLower(draft)
	switch {
	case strings.Contains(lower, "calculation result") || multiDigitPattern.MatchString(lower):
		return contractx.CapabilityCalculator
	case strings.Contains(lower, "product"):
		return contractx.CapabilityProduct
	case strings.Contains(lower, "outlet"):
		return contractx.CapabilityOutlet
	default:
		return contractx.CapabilityNone
	}
}

// invocationsFromMessages rebuilds a trace from tool-role messages when the producer
// did not record typed invocations.
func invocationsFromMessages(messages []contractx.Message) []contractx.ToolInvocation {
	var out []contractx.ToolInvocation
	for _, m := range messages {
		if m.Role != contractx.RoleTool || strings.TrimSpace(m.ToolName) == "" {
			continue
		}
		out = append(out, contractx.ToolInvocation{
			Name:       m.ToolName,
			Capability: toolx.ClassifyToolName(m.ToolName),
			Output:     m.Content,
		})
	}
	return out
}
