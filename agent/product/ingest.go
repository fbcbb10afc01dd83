package product

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	vectorstorex "github.com/tanpawarit/zus-chat-assistant/pkg/vectorstore"
)

const (
	missingField = "N/A"
	priceKey     = "price"
)

// Price accepts either a JSON string ("RM 55.00") or a bare number.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a string or number: %w", err)
	}
	f, err := n.Float64()
	if err != nil {
		return fmt.Errorf("price must be a string or number: %w", err)
	}
	*p = Price(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

type Product struct {
	Name        string `json:"name"`
	Price       Price  `json:"price"`
	Description string `json:"description"`
}

// LoadProducts decodes a JSON array of products. Entries without a name are skipped.
func LoadProducts(r io.Reader) ([]Product, error) {
	var raw []Product
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]Product, 0, len(raw))
	for i, p := range raw {
		if strings.TrimSpace(p.Name) == "" {
			log.Warn().Int("index", i).Msg("skipping product without name")
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// Document renders the product the way the summary prompt expects to read it.
func (p Product) Document(id string) vectorstorex.Document {
	name := strings.TrimSpace(p.Name)
	price := orMissing(string(p.Price))
	content := fmt.Sprintf("Product Name: %s\nPrice: %s\nDescription: %s",
		name, price, orMissing(p.Description))
	return vectorstorex.Document{
		ID:      id,
		Content: content,
		Metadata: map[string]string{
			sourceMetadataKey: name,
			priceKey:          price,
		},
	}
}

type indexer interface {
	Reset() error
	AddDocuments(ctx context.Context, docs []vectorstorex.Document) error
}

// Ingest replaces the knowledge base with products and returns how many were indexed.
func Ingest(ctx context.Context, store indexer, products []Product) (int, error) {
	if err := store.Reset(); err != nil {
		return 0, fmt.Errorf("reset product store: %w", err)
	}

	docs := make([]vectorstorex.Document, 0, len(products))
	for i, p := range products {
		docs = append(docs, p.Document(fmt.Sprintf("product-%d", i)))
	}
	if err := store.AddDocuments(ctx, docs); err != nil {
		return 0, fmt.Errorf("index products: %w", err)
	}

	log.Info().Int("count", len(docs)).Msg("product knowledge base ingested")
	return len(docs), nil
}

func orMissing(v string) string {
	if v = strings.TrimSpace(v); v == "" {
		return missingField
	}
	return v
}
