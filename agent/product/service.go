package product

import (
	"context"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
)

const (
	DefaultTopK      = 3
	UnknownSource    = "Unknown"
	passageSeparator = "\n\n---\n\n"
)

// Service answers product questions from retrieved knowledge-base passages only.
type Service struct {
	retriever contractx.Retriever
	runner    compose.Runnable[map[string]any, string]
	topK      int
}

var _ contractx.ProductAnswerer = (*Service)(nil)

func NewService(ctx context.Context, chatModel einomodel.BaseChatModel, retriever contractx.Retriever, summaryPrompt string, topK int) (*Service, error) {
	if chatModel == nil || retriever == nil {
		return nil, fmt.Errorf("%w: product knowledge base requires a chat model and a retriever", contractx.ErrUnavailable)
	}
	if strings.TrimSpace(summaryPrompt) == "" {
		return nil, fmt.Errorf("%w: product summary prompt", contractx.ErrPromptMissing)
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	runner, err := compileSummaryGraph(ctx, chatModel, summaryPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
	}
	return &Service{retriever: retriever, runner: runner, topK: topK}, nil
}

// Answer returns the not-found sentinel with no sources when retrieval is empty.
func (s *Service) Answer(ctx context.Context, query string) (contractx.ProductAnswer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return contractx.ProductAnswer{}, fmt.Errorf("%w: query is required", contractx.ErrValidation)
	}

	passages, err := s.retriever.Retrieve(ctx, query, s.topK)
	if err != nil {
		return contractx.ProductAnswer{}, fmt.Errorf("retrieve products: %w", err)
	}
	if len(passages) == 0 {
		return contractx.ProductAnswer{Summary: contractx.ProductNotFound, Sources: []string{}}, nil
	}

	texts := make([]string, 0, len(passages))
	sources := make([]string, 0, len(passages))
	for _, p := range passages {
		texts = append(texts, p.Text)
		source := strings.TrimSpace(p.Source)
		if source == "" {
			source = UnknownSource
		}
		sources = append(sources, source)
	}

	summary, err := s.runner.Invoke(ctx, map[string]any{
		"query": query,
		"text":  strings.Join(texts, passageSeparator),
	})
	if err != nil {
		return contractx.ProductAnswer{}, fmt.Errorf("%w: product summary: %v", contractx.ErrModelInvoke, err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		summary = contractx.ProductNotFound
	}

	log.Debug().Str("query", query).Int("passages", len(passages)).Msg("product answer generated")
	return contractx.ProductAnswer{Summary: summary, Sources: sources}, nil
}
