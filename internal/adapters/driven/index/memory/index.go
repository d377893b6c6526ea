// Package memory provides an in-memory question index. State is lost
// when the process exits; it exists for tests and throwaway sessions.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quizgen-cli/internal/vecmath"
)

// Ensure QuestionIndex implements the interface.
var _ driven.QuestionIndex = (*QuestionIndex)(nil)

// QuestionIndex stores questions and their embeddings in memory.
type QuestionIndex struct {
	mu       sync.RWMutex
	embedder driven.EmbeddingService
	items    map[string]entry
	order    []string // insertion order for stable listing
}

type entry struct {
	item      domain.IndexedItem
	embedding []float32
}

// NewQuestionIndex creates an in-memory index using the given
// embedding service.
func NewQuestionIndex(embedder driven.EmbeddingService) *QuestionIndex {
	return &QuestionIndex{
		embedder: embedder,
		items:    make(map[string]entry),
	}
}

// Add inserts or overwrites the item under its content-derived id.
func (x *QuestionIndex) Add(ctx context.Context, text string, metadata map[string]any) (string, error) {
	id := domain.QuestionID(text)

	embedding, err := x.embedder.Embed(ctx, text)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if _, exists := x.items[id]; !exists {
		x.order = append(x.order, id)
	}
	x.items[id] = entry{
		item: domain.IndexedItem{
			ID:       id,
			Text:     text,
			Metadata: maps.Clone(metadata),
		},
		embedding: embedding,
	}
	return id, nil
}

// Get retrieves an item by exact id.
func (x *QuestionIndex) Get(_ context.Context, id string) (*domain.IndexedItem, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	e, ok := x.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	item := e.item
	return &item, nil
}

// Search returns the n nearest items to the query, ascending by distance.
func (x *QuestionIndex) Search(ctx context.Context, query string, n int) ([]domain.RetrievalResult, error) {
	n = driven.ClampSearchResults(n)

	queryEmbedding, err := x.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	x.mu.RLock()
	defer x.mu.RUnlock()

	results := make([]domain.RetrievalResult, 0, len(x.items))
	for _, id := range x.order {
		e := x.items[id]
		results = append(results, domain.RetrievalResult{
			Item:     e.item,
			Distance: vecmath.CosineDistance(queryEmbedding, e.embedding),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}

// ListAll returns every stored item in insertion order.
func (x *QuestionIndex) ListAll(_ context.Context) ([]domain.IndexedItem, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	items := make([]domain.IndexedItem, 0, len(x.items))
	for _, id := range x.order {
		items = append(items, x.items[id].item)
	}
	return items, nil
}

// Reset deletes the whole collection.
func (x *QuestionIndex) Reset(_ context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.items = make(map[string]entry)
	x.order = nil
	return nil
}

// Close releases resources.
func (x *QuestionIndex) Close() error {
	return x.embedder.Close()
}
