package driven

import (
	"context"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
)

// MaxSearchResults caps Search result counts regardless of the caller's
// request, to bound retrieval cost.
const MaxSearchResults = 10

// ClampSearchResults clamps a requested result count to
// [1, MaxSearchResults].
func ClampSearchResults(n int) int {
	if n < 1 {
		return 1
	}
	if n > MaxSearchResults {
		return MaxSearchResults
	}
	return n
}

// QuestionIndex stores question text with embedding-derived similarity
// search. It owns no business logic, just nearest-neighbour retrieval
// and CRUD. Items are only ever removed in bulk via Reset, never
// individually.
type QuestionIndex interface {
	// Add computes a deterministic id from text and inserts or
	// overwrites the item. Identical text always yields the same id, so
	// re-insertion is an idempotent upsert. Returns the id.
	Add(ctx context.Context, text string, metadata map[string]any) (string, error)

	// Get retrieves an item by exact id. Returns domain.ErrNotFound
	// when absent; no partial or fuzzy matching.
	Get(ctx context.Context, id string) (*domain.IndexedItem, error)

	// Search embeds the query with the same embedding function as
	// stored items and returns the n nearest items by distance,
	// ascending. n is clamped to [1, MaxSearchResults]. An empty index
	// returns an empty slice, not an error.
	Search(ctx context.Context, query string, n int) ([]domain.RetrievalResult, error)

	// ListAll returns every stored item. Iteration order is stable
	// within one process lifetime but otherwise unspecified.
	ListAll(ctx context.Context) ([]domain.IndexedItem, error)

	// Reset deletes the whole collection.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
