package driving

import (
	"context"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
)

// IndexService exposes the question index to external actors.
type IndexService interface {
	// Add indexes a single question text and returns its id.
	Add(ctx context.Context, text string, metadata map[string]any) (string, error)

	// AddFile indexes every question found in a file. Files may use the
	// <question> tag format or one question per line. Returns the ids
	// of the indexed questions.
	AddFile(ctx context.Context, path string, metadata map[string]any) ([]string, error)

	// Search returns the n nearest questions to the query.
	Search(ctx context.Context, query string, n int) ([]domain.RetrievalResult, error)

	// List returns all indexed questions.
	List(ctx context.Context) ([]domain.IndexedItem, error)

	// Reset deletes the whole collection.
	Reset(ctx context.Context) error
}
