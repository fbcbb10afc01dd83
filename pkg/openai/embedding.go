package openai

import (
	"context"
	"fmt"
	"strings"

	openaisdk "github.com/openai/openai-go"
)

const DefaultEmbeddingModel = "text-embedding-3-small"

// EmbedFunc matches chromem.EmbeddingFunc.
type EmbedFunc func(ctx context.Context, text string) ([]float32, error)

// NewEmbedFunc embeds one text per call through the embeddings endpoint.
func NewEmbedFunc(client *openaisdk.Client, modelName string) (EmbedFunc, error) {
	if client == nil {
		return nil, fmt.Errorf("openai: embedding client is nil")
	}
	modelName = strings.TrimSpace(modelName)
	if modelName == "" {
		modelName = DefaultEmbeddingModel
	}

	return func(ctx context.Context, text string) ([]float32, error) {
		resp, err := client.Embeddings.New(ctx, openaisdk.EmbeddingNewParams{
			Input: openaisdk.EmbeddingNewParamsInputUnion{OfString: openaisdk.String(text)},
			Model: openaisdk.EmbeddingModel(modelName),
		})
		if err != nil {
			return nil, fmt.Errorf("openai: create embedding: %w", err)
		}
		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("openai: embedding response is empty")
		}
		return toFloat32(resp.Data[0].Embedding), nil
	}, nil
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
