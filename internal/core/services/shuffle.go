package services

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
)

// OptionShuffler reorders answer options while preserving correctness
// tracking. The correct option is re-located by value after the
// permutation rather than tracked through it, which keeps the shuffle
// generic and the tracking independently testable.
type OptionShuffler struct {
	rng *rand.Rand
}

// NewOptionShuffler creates a shuffler with its own random source.
func NewOptionShuffler() *OptionShuffler {
	return &OptionShuffler{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// NewOptionShufflerWithSource creates a shuffler with a caller-supplied
// random source, for deterministic tests.
func NewOptionShufflerWithSource(src rand.Source) *OptionShuffler {
	return &OptionShuffler{rng: rand.New(src)}
}

// Shuffle returns a copy of the record with options uniformly randomly
// permuted and CorrectAnswerIndex pointing at the same option text as
// before. If the correct text appears more than once among the options
// (a data-quality anomaly from the generative source), the first match
// after shuffling is adopted - an accepted ambiguity, not an error.
func (s *OptionShuffler) Shuffle(rec *domain.QuestionRecord) (*domain.QuestionRecord, error) {
	if rec == nil {
		return nil, domain.ErrInvalidInput
	}
	if rec.CorrectAnswerIndex < 0 || rec.CorrectAnswerIndex >= len(rec.Options) {
		return nil, fmt.Errorf("%w: correct answer index %d out of range for %d options",
			domain.ErrInvariantViolation, rec.CorrectAnswerIndex, len(rec.Options))
	}

	correctText := rec.Options[rec.CorrectAnswerIndex]

	shuffled := *rec
	shuffled.Options = slices.Clone(rec.Options)
	s.rng.Shuffle(len(shuffled.Options), func(i, j int) {
		shuffled.Options[i], shuffled.Options[j] = shuffled.Options[j], shuffled.Options[i]
	})

	// The correct text came from the array being permuted, so absence
	// here means memory corruption or a concurrent mutation.
	index := slices.Index(shuffled.Options, correctText)
	if index < 0 {
		return nil, fmt.Errorf("%w: correct option %q vanished during shuffle",
			domain.ErrInvariantViolation, correctText)
	}

	shuffled.CorrectAnswerIndex = index
	return &shuffled, nil
}
