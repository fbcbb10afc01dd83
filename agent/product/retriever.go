package product

import (
	"context"
	"fmt"

	contractx "github.com/tanpawarit/zus-chat-assistant/agent/contract"
	vectorstorex "github.com/tanpawarit/zus-chat-assistant/pkg/vectorstore"
)

const sourceMetadataKey = "source"

// Searcher is the part of pkg/vectorstore the retriever needs.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]vectorstorex.Result, error)
}

// StoreRetriever exposes a vector store as a contractx.Retriever.
type StoreRetriever struct {
	store Searcher
}

var _ contractx.Retriever = (*StoreRetriever)(nil)

func NewStoreRetriever(store Searcher) *StoreRetriever {
	return &StoreRetriever{store: store}
}

func (r *StoreRetriever) Retrieve(ctx context.Context, query string, k int) ([]contractx.Passage, error) {
	results, err := r.store.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}

	passages := make([]contractx.Passage, 0, len(results))
	for _, res := range results {
		passages = append(passages, contractx.Passage{
			Text:   res.Content,
			Source: res.Metadata[sourceMetadataKey],
		})
	}
	return passages, nil
}
