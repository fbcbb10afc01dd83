package product

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

func compileSummaryGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	summaryPrompt string,
) (compose.Runnable[map[string]any, string], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage(summaryPrompt),
	)

	graph := compose.NewGraph[map[string]any, string]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add summary prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add summary model node: %w", err)
	}
	if err := graph.AddLambdaNode("content", compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) (string, error) {
		if msg == nil {
			return "", nil
		}
		return msg.Content, nil
	})); err != nil {
		return nil, fmt.Errorf("add summary content node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add summary edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add summary edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "content"); err != nil {
		return nil, fmt.Errorf("add summary edge model->content: %w", err)
	}
	if err := graph.AddEdge("content", compose.END); err != nil {
		return nil, fmt.Errorf("add summary edge content->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("product.summary_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile product summary graph: %w", err)
	}
	return runner, nil
}
