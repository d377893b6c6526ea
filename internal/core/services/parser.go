package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
	"github.com/custodia-labs/quizgen-cli/internal/logger"
)

// Markers bracketing the structured payload the model is instructed to emit.
const (
	questionOpenMarker  = "<question>"
	questionCloseMarker = "</question>"
)

// jsonObjectRe finds the first {...} span in a candidate, greedily and
// across newlines. Used as a last-resort rescue when decode fails.
var jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)

// rawRecord holds the validated payload fields before cleaning.
type rawRecord struct {
	Introduction        string
	Conversation        string
	Question            string
	Options             []string
	CorrectAnswerLetter string
}

// requiredKeys are the payload keys that must all be present before any
// field is read.
var requiredKeys = []string{
	"introduction", "conversation", "question", "options", "correct_answer_letter",
}

// RecoveryParser turns an unreliable free-text model response into a
// validated QuestionRecord through a cascade of extraction strategies.
//
// Each strategy is a pure text transform tried in a fixed order; the
// first that yields a structurally decodable candidate wins. Once decode
// succeeds there is no backtracking: a schema violation at that point is
// reported, never repaired.
type RecoveryParser struct{}

// NewRecoveryParser creates a recovery parser.
func NewRecoveryParser() *RecoveryParser {
	return &RecoveryParser{}
}

// Parse recovers a QuestionRecord from raw model output.
// Failures are *domain.ParseError values tagged empty_response,
// malformed_payload or schema_violation. Nothing is retried internally;
// re-invoking generation is a caller-level policy.
func (p *RecoveryParser) Parse(raw string) (*domain.QuestionRecord, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, domain.NewParseError(domain.ParseReasonEmptyResponse, "")
	}

	// Strategy 1: bracketed extraction; strategy 2: whole-response
	// fallback. The prompt instructs the model to emit only the payload,
	// so the whole response is often the payload itself.
	candidate, found := extractMarked(raw)
	if found {
		logger.Debug("Parser: extracted %d bytes between markers", len(candidate))
	} else {
		logger.Debug("Parser: no markers found, using whole response")
		candidate = raw
	}

	// Strategy 3: fence stripping, applied to either strategy's output.
	candidate = stripFences(candidate)

	// Strategy 4: brace-boundary repair for truncated or padded output.
	repaired := repairBraces(candidate)

	// Strategy 5: structural decode, with a single substring rescue on
	// the pre-repair candidate if the repaired form won't decode.
	payload, err := decodePayload(repaired)
	if err != nil {
		logger.Debug("Parser: decode failed (%v), attempting substring rescue", err)
		rescued, ok := rescueObject(candidate)
		if !ok {
			return nil, domain.NewParseError(domain.ParseReasonMalformedPayload, "no JSON object found")
		}
		payload, err = decodePayload(rescued)
		if err != nil {
			return nil, domain.NewParseError(domain.ParseReasonMalformedPayload, err.Error())
		}
	}

	// Strategy 6: schema validation. Violations are reported, not
	// repaired - decode already succeeded, so the cascade is over.
	rec, err := validatePayload(payload)
	if err != nil {
		return nil, err
	}

	// Strategy 7: field cleaning. Conversation is cleaned per line so
	// turn boundaries survive.
	introduction := Clean(rec.Introduction)
	conversation := CleanConversation(rec.Conversation)
	question := Clean(rec.Question)
	options := make([]string, len(rec.Options))
	for i, opt := range rec.Options {
		options[i] = Clean(opt)
	}
	letter := strings.ToUpper(strings.TrimSpace(rec.CorrectAnswerLetter))

	// Strategy 8: letter/index reconciliation. Validation guarantees the
	// letter resolves; anything else is a bug, not bad input.
	index := domain.LetterIndex(letter)
	if index < 0 || index >= len(options) {
		return nil, fmt.Errorf("%w: letter %q does not index %d options",
			domain.ErrInvariantViolation, letter, len(options))
	}

	return &domain.QuestionRecord{
		Introduction:        introduction,
		Conversation:        conversation,
		Question:            question,
		Options:             options,
		CorrectAnswerLetter: letter,
		CorrectAnswerIndex:  index,
		RawResponse:         raw,
	}, nil
}

// extractMarked returns the text between the question markers, if both
// are present in order.
func extractMarked(text string) (string, bool) {
	start := strings.Index(text, questionOpenMarker)
	if start < 0 {
		return "", false
	}
	rest := text[start+len(questionOpenMarker):]
	end := strings.Index(rest, questionCloseMarker)
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// stripFences removes code-fence wrapping: a leading fence marker line
// and a trailing fence marker line. Anything else passes through.
func stripFences(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return text
	}

	// Drop the opening fence line (which may carry a language tag).
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// repairBraces trims narration before the first opening brace and
// truncates after the last closing brace. A missing closing brace is
// appended as a best-effort repair for truncated generation.
func repairBraces(text string) string {
	trimmed := strings.TrimSpace(text)

	if !strings.HasPrefix(trimmed, "{") {
		if i := strings.Index(trimmed, "{"); i >= 0 {
			trimmed = trimmed[i:]
		}
	}

	if strings.HasPrefix(trimmed, "{") && !strings.HasSuffix(trimmed, "}") {
		if i := strings.LastIndex(trimmed, "}"); i >= 0 {
			trimmed = trimmed[:i+1]
		} else {
			trimmed += "}"
		}
	}

	return trimmed
}

// rescueObject returns the first {...} span of the candidate, greedy and
// spanning newlines.
func rescueObject(text string) (string, bool) {
	match := jsonObjectRe.FindString(text)
	return match, match != ""
}

// decodePayload decodes a candidate into a key/value payload, requiring
// a JSON object. Keys are lowered so that wrong-cased keys from the
// model still resolve.
func decodePayload(text string) (map[string]json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &obj); err != nil {
		return nil, err
	}

	payload := make(map[string]json.RawMessage, len(obj))
	for key, value := range obj {
		payload[strings.ToLower(key)] = value
	}
	return payload, nil
}

// validatePayload enforces the payload schema: all five keys present
// before any field is read, exactly four string options, and a
// resolvable answer letter. Wrong field types are schema violations,
// not decode failures - the structure decoded fine.
func validatePayload(payload map[string]json.RawMessage) (*rawRecord, error) {
	for _, key := range requiredKeys {
		if _, ok := payload[key]; !ok {
			return nil, domain.NewParseError(domain.ParseReasonSchemaViolation,
				fmt.Sprintf("missing required key %q", key))
		}
	}

	var rec rawRecord
	for key, dst := range map[string]*string{
		"introduction":          &rec.Introduction,
		"conversation":          &rec.Conversation,
		"question":              &rec.Question,
		"correct_answer_letter": &rec.CorrectAnswerLetter,
	} {
		if err := json.Unmarshal(payload[key], dst); err != nil {
			return nil, domain.NewParseError(domain.ParseReasonSchemaViolation,
				fmt.Sprintf("%s is not a string", key))
		}
	}

	if err := json.Unmarshal(payload["options"], &rec.Options); err != nil {
		return nil, domain.NewParseError(domain.ParseReasonSchemaViolation,
			"options is not a sequence of strings")
	}
	if len(rec.Options) != domain.OptionCount {
		return nil, domain.NewParseError(domain.ParseReasonSchemaViolation,
			fmt.Sprintf("expected %d options, got %d", domain.OptionCount, len(rec.Options)))
	}

	letter := strings.ToUpper(strings.TrimSpace(rec.CorrectAnswerLetter))
	if domain.LetterIndex(letter) < 0 {
		return nil, domain.NewParseError(domain.ParseReasonSchemaViolation,
			fmt.Sprintf("correct_answer_letter %q is not one of A-D", rec.CorrectAnswerLetter))
	}

	return &rec, nil
}
