package domain

// OptionCount is the required number of answer options per question.
const OptionCount = 4

// AnswerLetters are the valid correct-answer letters, in option order.
var AnswerLetters = []string{"A", "B", "C", "D"}

// QuestionRecord is a validated quiz question produced by the generation
// pipeline. The JSON field names are a serialisation boundary: downstream
// consumers (rendering, grading, audio) depend on this exact shape.
type QuestionRecord struct {
	// ID is assigned by the pipeline for audit purposes.
	ID string `json:"id,omitempty"`

	// Introduction is the situational setup. May be empty.
	Introduction string `json:"introduction"`

	// Conversation is multi-line dialogue text. Each line is one turn;
	// internal newlines are significant and survive cleaning.
	Conversation string `json:"conversation"`

	// Question is the prompt question text.
	Question string `json:"question"`

	// Options are exactly four answer choices, in presentation order.
	Options []string `json:"options"`

	// CorrectAnswerLetter is A-D, indexing the pre-shuffle options.
	CorrectAnswerLetter string `json:"correct_answer_letter"`

	// CorrectAnswerIndex indexes the current Options slice. This is the
	// authoritative pointer after any reordering.
	CorrectAnswerIndex int `json:"correct_answer_index"`

	// RawResponse is the unprocessed model output, kept for audit.
	RawResponse string `json:"raw_response"`
}

// CorrectOption returns the option text the record marks as correct.
func (r *QuestionRecord) CorrectOption() string {
	if r.CorrectAnswerIndex < 0 || r.CorrectAnswerIndex >= len(r.Options) {
		return ""
	}
	return r.Options[r.CorrectAnswerIndex]
}

// LetterIndex maps a correct-answer letter to its zero-based option index.
// Returns -1 for anything outside A-D (case-sensitive; callers normalise).
func LetterIndex(letter string) int {
	for i, l := range AnswerLetters {
		if l == letter {
			return i
		}
	}
	return -1
}
