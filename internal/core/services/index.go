package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quizgen-cli/internal/ingest"
	"github.com/custodia-labs/quizgen-cli/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService exposes question index management to the CLI.
type IndexService struct {
	index driven.QuestionIndex
}

// NewIndexService creates a new index service.
func NewIndexService(index driven.QuestionIndex) *IndexService {
	return &IndexService{index: index}
}

// Add indexes a single question text.
func (s *IndexService) Add(ctx context.Context, text string, metadata map[string]any) (string, error) {
	if s.index == nil {
		return "", domain.ErrIndexUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty question text", domain.ErrInvalidInput)
	}
	return s.index.Add(ctx, text, metadata)
}

// AddFile indexes every question found in a file. Caller-supplied
// metadata is merged over the per-question file metadata.
func (s *IndexService) AddFile(ctx context.Context, path string, metadata map[string]any) ([]string, error) {
	if s.index == nil {
		return nil, domain.ErrIndexUnavailable
	}

	questions, err := ingest.ParseFile(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("Parsed %d questions from %s", len(questions), path)

	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		merged := q.Metadata
		for k, v := range metadata {
			merged[k] = v
		}

		id, err := s.index.Add(ctx, q.Text, merged)
		if err != nil {
			return ids, fmt.Errorf("index question from %s: %w", path, err)
		}
		ids = append(ids, id)
	}

	logger.Info("Indexed %d questions from %s", len(ids), path)
	return ids, nil
}

// Search returns the n nearest questions to the query.
func (s *IndexService) Search(ctx context.Context, query string, n int) ([]domain.RetrievalResult, error) {
	if s.index == nil {
		return nil, domain.ErrIndexUnavailable
	}
	return s.index.Search(ctx, query, n)
}

// List returns all indexed questions.
func (s *IndexService) List(ctx context.Context) ([]domain.IndexedItem, error) {
	if s.index == nil {
		return nil, domain.ErrIndexUnavailable
	}
	return s.index.ListAll(ctx)
}

// Reset deletes the whole collection.
func (s *IndexService) Reset(ctx context.Context) error {
	if s.index == nil {
		return domain.ErrIndexUnavailable
	}
	return s.index.Reset(ctx)
}
