package planner

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	toolx "github.com/tanpawarit/zus-chat-assistant/agent/tool"
)

const (
	defaultMaxTurns = 5
	FallbackDraft   = "I encountered an error processing your request."
)

// ToolObserver is notified once per executed tool call.
type ToolObserver func(name string, capability contractx.Capability)

type Option func(*Planner)

func WithMaxTurns(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxTurns = n
		}
	}
}

func WithToolObserver(observer ToolObserver) Option {
	return func(p *Planner) {
		p.observe = observer
	}
}

// Planner runs the model in a tool-calling loop over the catalog's tools.
type Planner struct {
	model    einomodel.ToolCallingChatModel
	template einoprompt.ChatTemplate
	catalog  *toolx.Catalog
	execute  toolx.Executor
	maxTurns int
	observe  ToolObserver
}

var _ contractx.Planner = (*Planner)(nil)

func New(ctx context.Context, chatModel einomodel.ToolCallingChatModel, catalog *toolx.Catalog, systemPrompt string, opts ...Option) (*Planner, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrUnavailable)
	}
	if catalog == nil {
		return nil, fmt.Errorf("%w: tool catalog is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: planner system prompt", contractx.ErrPromptMissing)
	}

	infos, err := catalog.Infos(ctx)
	if err != nil {
		return nil, err
	}
	toolModel, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: bind planner tools: %v", contractx.ErrModelInvoke, err)
	}

	p := &Planner{
		model: toolModel,
		template: einoprompt.FromMessages(
			schema.FString,
			schema.SystemMessage(systemPrompt),
			schema.MessagesPlaceholder("history", false),
		),
		catalog:  catalog,
		execute:  catalog.Executor(),
		maxTurns: defaultMaxTurns,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

func (p *Planner) Plan(ctx context.Context, history []contractx.Message) (contractx.PlannerResult, error) {
	if len(history) == 0 {
		return contractx.PlannerResult{}, fmt.Errorf("%w: history is empty", contractx.ErrValidation)
	}

	messages, err := p.template.Format(ctx, map[string]any{"history": toSchemaMessages(history)})
	if err != nil {
		return contractx.PlannerResult{}, fmt.Errorf("%w: format planner prompt: %v", contractx.ErrPromptMissing, err)
	}

	var result contractx.PlannerResult
	for turn := 0; turn < p.maxTurns; turn++ {
		reply, err := p.model.Generate(ctx, messages)
		if err != nil {
			return contractx.PlannerResult{}, fmt.Errorf("%w: planner generate: %v", contractx.ErrModelInvoke, err)
		}
		if reply == nil {
			return contractx.PlannerResult{}, fmt.Errorf("%w: empty planner reply", contractx.ErrModelInvoke)
		}

		messages = append(messages, reply)
		if content := strings.TrimSpace(reply.Content); content != "" {
			result.Messages = append(result.Messages, contractx.AssistantMessage(content))
		}
		if len(reply.ToolCalls) == 0 {
			result.Draft = strings.TrimSpace(reply.Content)
			break
		}

		for _, call := range reply.ToolCalls {
			name := strings.TrimSpace(call.Function.Name)
			output := p.runTool(ctx, name, call.Function.Arguments)
			capability := p.catalog.CapabilityOf(name)

			messages = append(messages, &schema.Message{
				Role:       schema.Tool,
				Content:    output,
				ToolCallID: call.ID,
				ToolName:   name,
			})
			result.Messages = append(result.Messages, contractx.ToolMessage(name, output))
			result.Invocations = append(result.Invocations, contractx.ToolInvocation{
				Name:       name,
				Capability: capability,
				Output:     output,
			})
			if p.observe != nil {
				p.observe(name, capability)
			}
		}
	}

	if result.Draft == "" {
		result.Draft = FallbackDraft
	}
	return result, nil
}

// runTool never fails; an executor error becomes the tool's text result.
func (p *Planner) runTool(ctx context.Context, name, arguments string) string {
	log.Debug().Str("tool", name).Str("arguments", arguments).Msg("planner tool call")
	output, err := p.execute(ctx, name, arguments)
	if err != nil {
		log.Error().Err(err).Str("tool", name).Msg("tool execution failed")
		return fmt.Sprintf("Error executing tool %s: %v", name, err)
	}
	return output
}

func toSchemaMessages(history []contractx.Message) []*schema.Message {
	out := make([]*schema.Message, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case contractx.RoleUser:
			out = append(out, schema.UserMessage(m.Content))
		case contractx.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		}
	}
	return out
}
