package vectorstore

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"
)

const DefaultCollection = "zus_products"

type Config struct {
	Dir        string `envconfig:"DIR" split_words:"true" default:"data/vectorstore"`
	Collection string `envconfig:"COLLECTION" split_words:"true" default:"zus_products"`
	TopK       int    `envconfig:"TOP_K" split_words:"true" default:"3"`
}

type Document struct {
	ID       string
	Content  string
	Metadata map[string]string
}

type Result struct {
	ID       string
	Content  string
	Metadata map[string]string
	Score    float32
}

// Store wraps one chromem-go collection. An empty Dir keeps everything in memory.
type Store struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection string
	embedFn    chromem.EmbeddingFunc
}

func New(cfg Config, embedFn chromem.EmbeddingFunc) (*Store, error) {
	if embedFn == nil {
		return nil, fmt.Errorf("vectorstore: embedding function is nil")
	}
	name := strings.TrimSpace(cfg.Collection)
	if name == "" {
		name = DefaultCollection
	}

	var db *chromem.DB
	if dir := strings.TrimSpace(cfg.Dir); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create vectorstore dir: %w", err)
		}
		var err error
		db, err = chromem.NewPersistentDB(dir, false)
		if err != nil {
			return nil, fmt.Errorf("open vectorstore: %w", err)
		}
	} else {
		db = chromem.NewDB()
	}

	return &Store{db: db, collection: name, embedFn: embedFn}, nil
}

func (s *Store) getOrCreateCollection() (*chromem.Collection, error) {
	col := s.db.GetCollection(s.collection, s.embedFn)
	if col != nil {
		return col, nil
	}
	col, err := s.db.CreateCollection(s.collection, nil, s.embedFn)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", s.collection, err)
	}
	return col, nil
}

// AddDocuments embeds and indexes docs. Existing IDs are overwritten.
func (s *Store) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.getOrCreateCollection()
	if err != nil {
		return err
	}

	batch := make([]chromem.Document, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.ID) == "" {
			return fmt.Errorf("vectorstore: document id is empty")
		}
		batch = append(batch, chromem.Document{ID: d.ID, Content: d.Content, Metadata: d.Metadata})
	}
	if err := col.AddDocuments(ctx, batch, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	return nil
}

// Reset drops the collection so a re-ingest starts clean.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db.GetCollection(s.collection, s.embedFn) == nil {
		return nil
	}
	if err := s.db.DeleteCollection(s.collection); err != nil {
		return fmt.Errorf("delete collection %s: %w", s.collection, err)
	}
	return nil
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := s.db.GetCollection(s.collection, s.embedFn)
	if col == nil {
		return 0
	}
	return col.Count()
}

// Search returns up to k documents ordered by similarity. An empty collection
// yields no results and no error.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col := s.db.GetCollection(s.collection, s.embedFn)
	if col == nil {
		return nil, nil
	}
	count := col.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	// One query, one embedding call. k is already clamped to the document count.
	results, err := col.Query(ctx, query, k, nil, nil)
	if err != nil {
		log.Debug().Err(err).Int("k", k).Msg("vectorstore query failed")
		return nil, fmt.Errorf("query collection %s: %w", s.collection, err)
	}

	out := make([]Result, 0, len(results))
	for _, r := range results {
		out = append(out, Result{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: r.Metadata,
			Score:    r.Similarity,
		})
	}
	return out, nil
}
