package product

import (
	"context"
	"errors"
	"strings"
	"testing"

	vectorstorex "github.com/tanpawarit/zus-chat-assistant/pkg/vectorstore"
)

type fakeIndexer struct {
	resetErr error
	resets   int
	docs     []vectorstorex.Document
}

func (f *fakeIndexer) Reset() error {
	f.resets++
	return f.resetErr
}

func (f *fakeIndexer) AddDocuments(_ context.Context, docs []vectorstorex.Document) error {
	f.docs = append(f.docs, docs...)
	return nil
}

type fakeSearcher struct {
	results []vectorstorex.Result
	err     error
}

func (f *fakeSearcher) Search(context.Context, string, int) ([]vectorstorex.Result, error) {
	return f.results, f.err
}

func TestLoadProductsAcceptsStringAndNumberPrices(t *testing.T) {
	t.Parallel()

	input := `[
		{"name": "ZUS All Day Cup", "price": "RM 79.00", "description": "500ml tumbler"},
		{"name": "Frozee Cold Cup", "price": 55, "description": ""},
		{"name": "  ", "price": "RM 1.00"},
		{"name": "Mystery Mug", "price": null}
	]`

	products, err := LoadProducts(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadProducts() error = %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("len(products) = %d, want 3", len(products))
	}
	if products[0].Price != "RM 79.00" {
		t.Fatalf("products[0].Price = %q", products[0].Price)
	}
	if products[1].Price != "55" {
		t.Fatalf("products[1].Price = %q, want 55", products[1].Price)
	}
	if products[2].Price != "" {
		t.Fatalf("products[2].Price = %q, want empty", products[2].Price)
	}
}

func TestLoadProductsRejectsBadJSON(t *testing.T) {
	t.Parallel()

	if _, err := LoadProducts(strings.NewReader(`{"name":"x"}`)); err == nil {
		t.Fatalf("LoadProducts() error = nil, want error")
	}
	if _, err := LoadProducts(strings.NewReader(`[{"name":"x","price":true}]`)); err == nil {
		t.Fatalf("LoadProducts() error = nil, want price error")
	}
}

func TestProductDocument(t *testing.T) {
	t.Parallel()

	doc := Product{Name: "Frozee Cold Cup", Price: "55"}.Document("product-1")
	want := "Product Name: Frozee Cold Cup\nPrice: 55\nDescription: N/A"
	if doc.Content != want {
		t.Fatalf("Content = %q, want %q", doc.Content, want)
	}
	if doc.Metadata["source"] != "Frozee Cold Cup" || doc.Metadata["price"] != "55" {
		t.Fatalf("Metadata = %v", doc.Metadata)
	}
}

func TestIngestResetsThenIndexes(t *testing.T) {
	t.Parallel()

	idx := &fakeIndexer{}
	n, err := Ingest(context.Background(), idx, []Product{{Name: "A"}, {Name: "B"}})
	if err != nil {
		t.Fatalf("Ingest() error = %v", err)
	}
	if n != 2 || len(idx.docs) != 2 || idx.resets != 1 {
		t.Fatalf("n=%d docs=%d resets=%d", n, len(idx.docs), idx.resets)
	}
	if idx.docs[1].ID != "product-1" {
		t.Fatalf("docs[1].ID = %q", idx.docs[1].ID)
	}
}

func TestIngestResetFailure(t *testing.T) {
	t.Parallel()

	idx := &fakeIndexer{resetErr: errors.New("disk full")}
	if _, err := Ingest(context.Background(), idx, []Product{{Name: "A"}}); err == nil {
		t.Fatalf("Ingest() error = nil, want error")
	}
	if len(idx.docs) != 0 {
		t.Fatalf("documents indexed after failed reset")
	}
}

func TestStoreRetrieverMapsSource(t *testing.T) {
	t.Parallel()

	r := NewStoreRetriever(&fakeSearcher{results: []vectorstorex.Result{
		{ID: "product-0", Content: "Product Name: A", Metadata: map[string]string{"source": "A"}},
		{ID: "product-1", Content: "Product Name: B"},
	}})

	passages, err := r.Retrieve(context.Background(), "a", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(passages) != 2 {
		t.Fatalf("len(passages) = %d", len(passages))
	}
	if passages[0].Source != "A" || passages[1].Source != "" {
		t.Fatalf("passages = %+v", passages)
	}
}

func TestStoreRetrieverWrapsError(t *testing.T) {
	t.Parallel()

	r := NewStoreRetriever(&fakeSearcher{err: errors.New("boom")})
	if _, err := r.Retrieve(context.Background(), "a", 3); err == nil {
		t.Fatalf("Retrieve() error = nil, want error")
	}
}
