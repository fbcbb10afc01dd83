package outlet

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

func compileText2SQLGraph(
	ctx context.Context,
	chatModel einomodel.BaseChatModel,
	text2SQLPrompt string,
) (compose.Runnable[map[string]any, string], error) {
	template := einoprompt.FromMessages(
		schema.FString,
		schema.UserMessage(text2SQLPrompt),
	)

	graph := compose.NewGraph[map[string]any, string]()
	if err := graph.AddChatTemplateNode("prompt", template); err != nil {
		return nil, fmt.Errorf("add text2sql prompt node: %w", err)
	}
	if err := graph.AddChatModelNode("model", chatModel); err != nil {
		return nil, fmt.Errorf("add text2sql model node: %w", err)
	}
	if err := graph.AddLambdaNode("extract_sql", compose.InvokableLambda(func(ctx context.Context, msg *schema.Message) (string, error) {
		if msg == nil {
			return "", nil
		}
		return ExtractSQL(msg.Content), nil
	})); err != nil {
		return nil, fmt.Errorf("add text2sql extract node: %w", err)
	}

	if err := graph.AddEdge(compose.START, "prompt"); err != nil {
		return nil, fmt.Errorf("add text2sql edge start->prompt: %w", err)
	}
	if err := graph.AddEdge("prompt", "model"); err != nil {
		return nil, fmt.Errorf("add text2sql edge prompt->model: %w", err)
	}
	if err := graph.AddEdge("model", "extract_sql"); err != nil {
		return nil, fmt.Errorf("add text2sql edge model->extract: %w", err)
	}
	if err := graph.AddEdge("extract_sql", compose.END); err != nil {
		return nil, fmt.Errorf("add text2sql edge extract->end: %w", err)
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("outlet.text2sql_graph"))
	if err != nil {
		return nil, fmt.Errorf("compile outlet text2sql graph: %w", err)
	}
	return runner, nil
}
