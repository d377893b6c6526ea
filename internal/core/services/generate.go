package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driven"
	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driving"
	"github.com/custodia-labs/quizgen-cli/internal/logger"
)

// Ensure GenerateService implements the interface.
var _ driving.GenerateService = (*GenerateService)(nil)

// Generation parameters.
const (
	// contextResults is how many retrieved questions seed the prompt.
	contextResults = 3

	// generateMaxTokens bounds a single model response.
	generateMaxTokens = 1000

	// generateTemperature keeps output varied but coherent.
	generateTemperature = 0.7
)

// GenerateService is the question generation pipeline: retrieve context,
// build the prompt, call the model once, recover a validated record,
// shuffle its options, and feed the result back into the index so later
// generations can retrieve it as a style example.
type GenerateService struct {
	index    driven.QuestionIndex
	llm      driven.LLMService
	prompts  *PromptBuilder
	parser   *RecoveryParser
	shuffler *OptionShuffler
}

// NewGenerateService creates a generation pipeline. The index parameter
// is optional (can be nil); generation then runs without retrieved
// context and skips persistence.
func NewGenerateService(index driven.QuestionIndex, llm driven.LLMService) *GenerateService {
	return &GenerateService{
		index:    index,
		llm:      llm,
		prompts:  NewPromptBuilder(),
		parser:   NewRecoveryParser(),
		shuffler: NewOptionShuffler(),
	}
}

// SetPromptStore sets the prompt store for customisable prompt templates.
func (s *GenerateService) SetPromptStore(store driven.PromptStore) {
	s.prompts.SetPromptStore(store)
}

// Generate produces one validated, shuffled question record.
// Exactly one model call is made; retrying on failure is the caller's
// policy. All failures surface as *domain.GenerationError carrying the
// raw response when one was received.
func (s *GenerateService) Generate(ctx context.Context, questionType, topic string) (*domain.QuestionRecord, error) {
	logger.Section("Question Generation")
	logger.Debug("Type: %q, topic: %q", questionType, topic)

	if s.llm == nil {
		return nil, domain.NewGenerationError(domain.GenerationReasonUpstream, "", domain.ErrLLMUnavailable)
	}

	contextTexts := s.retrieveContext(ctx, questionType, topic)
	prompt := s.prompts.Build(questionType, topic, contextTexts)

	raw, err := s.llm.Chat(ctx, []driven.ChatMessage{
		{Role: "system", Content: s.prompts.System()},
		{Role: "user", Content: prompt},
	}, driven.ChatOptions{
		MaxTokens:   generateMaxTokens,
		Temperature: generateTemperature,
	})
	if err != nil {
		logger.Warn("Model call failed: %v", err)
		// Only an expired deadline is a timeout; cancellation is the
		// caller abandoning the call, not the model running long.
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, domain.NewGenerationError(domain.GenerationReasonTimeout, "", err)
		}
		return nil, domain.NewGenerationError(domain.GenerationReasonUpstream, "", err)
	}

	logger.Debug("Model returned %d bytes", len(raw))

	rec, err := s.parser.Parse(raw)
	if err != nil {
		return nil, wrapParseFailure(raw, err)
	}

	shuffled, err := s.shuffler.Shuffle(rec)
	if err != nil {
		// Shuffle only fails on internal invariant violations; those are
		// bugs and must not be dressed up as generation failures.
		return nil, fmt.Errorf("shuffle options: %w", err)
	}
	shuffled.ID = uuid.New().String()

	s.persist(ctx, shuffled, questionType, topic)

	logger.Info("Generated question %s (correct: %s -> index %d)",
		shuffled.ID, shuffled.CorrectAnswerLetter, shuffled.CorrectAnswerIndex)
	return shuffled, nil
}

// retrieveContext searches the index for similar questions to seed the
// prompt. Retrieval failures degrade to an uncontexted prompt rather
// than failing generation.
func (s *GenerateService) retrieveContext(ctx context.Context, questionType, topic string) []string {
	if s.index == nil {
		logger.Debug("No index configured, generating without context")
		return nil
	}

	query := questionType
	if strings.TrimSpace(topic) != "" {
		query = fmt.Sprintf("%s question about %s", questionType, topic)
	}

	results, err := s.index.Search(ctx, query, contextResults)
	if err != nil {
		logger.Warn("Context retrieval failed: %v (continuing without context)", err)
		return nil
	}

	logger.Debug("Retrieved %d context questions", len(results))
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Item.Text)
	}
	return texts
}

// persist feeds the accepted question back into the index. Best effort:
// a storage failure loses a future context example, not the record.
func (s *GenerateService) persist(ctx context.Context, rec *domain.QuestionRecord, questionType, topic string) {
	if s.index == nil {
		return
	}

	id, err := s.index.Add(ctx, rec.Question, map[string]any{
		"question_type": questionType,
		"topic":         topic,
	})
	if err != nil {
		logger.Warn("Failed to index generated question: %v", err)
		return
	}
	logger.Debug("Indexed generated question as %s", id)
}

// wrapParseFailure converts parser failures into the caller-facing
// generation taxonomy. An empty response is an upstream failure from the
// pipeline's point of view: the model gave us nothing to work with.
func wrapParseFailure(raw string, err error) error {
	var parseErr *domain.ParseError
	if !errors.As(err, &parseErr) {
		return domain.NewGenerationError(domain.GenerationReasonUpstream, raw, err)
	}

	switch parseErr.Reason {
	case domain.ParseReasonEmptyResponse:
		return domain.NewGenerationError(domain.GenerationReasonUpstream, raw, err)
	case domain.ParseReasonSchemaViolation:
		return domain.NewGenerationError(domain.GenerationReasonSchemaViolation, raw, err)
	default:
		return domain.NewGenerationError(domain.GenerationReasonMalformedPayload, raw, err)
	}
}
