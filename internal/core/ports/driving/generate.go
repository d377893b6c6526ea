package driving

import (
	"context"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
)

// GenerateService produces validated quiz questions.
type GenerateService interface {
	// Generate builds a prompt from the question type, topic and
	// retrieved context, invokes the generative model once, and returns
	// a fully validated record with shuffled options. On failure it
	// returns a *domain.GenerationError; no partial record is ever
	// returned.
	Generate(ctx context.Context, questionType, topic string) (*domain.QuestionRecord, error)
}
