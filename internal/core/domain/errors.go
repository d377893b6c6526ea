package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question generation is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// The question index cannot store or search without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the question index is not configured.
	ErrIndexUnavailable = errors.New("question index unavailable")

	// ErrStorageUnavailable indicates the index persistence medium failed.
	// Fatal for the call, not for the process.
	ErrStorageUnavailable = errors.New("index storage unavailable")

	// ErrInvariantViolation indicates internal state that should be impossible.
	// Callers must treat this as a bug, never as recoverable input error.
	ErrInvariantViolation = errors.New("internal invariant violation")
)

// ParseReason tags a parse failure with its cause.
type ParseReason string

// Parse failure reasons.
const (
	// ParseReasonEmptyResponse means the model returned no usable text.
	ParseReasonEmptyResponse ParseReason = "empty_response"

	// ParseReasonMalformedPayload means no decodable record could be
	// recovered from the response, even after repair.
	ParseReasonMalformedPayload ParseReason = "malformed_payload"

	// ParseReasonSchemaViolation means a record decoded but failed
	// schema validation. Schema violations are reported, never repaired.
	ParseReasonSchemaViolation ParseReason = "schema_violation"
)

// ParseError is returned when a model response cannot be turned into a
// valid QuestionRecord. It is recoverable only by re-invoking generation.
type ParseError struct {
	// Reason tags the failure cause.
	Reason ParseReason

	// Detail describes the specific violation for diagnostics.
	Detail string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("parse failed: %s", e.Reason)
	}
	return fmt.Sprintf("parse failed: %s: %s", e.Reason, e.Detail)
}

// NewParseError creates a tagged parse failure.
func NewParseError(reason ParseReason, detail string) *ParseError {
	return &ParseError{Reason: reason, Detail: detail}
}

// GenerationReason tags a generation failure with its cause.
type GenerationReason string

// Generation failure reasons.
const (
	// GenerationReasonUpstream means the LLM call itself failed or
	// returned an empty response.
	GenerationReasonUpstream GenerationReason = "upstream_error"

	// GenerationReasonTimeout means the caller's deadline expired.
	GenerationReasonTimeout GenerationReason = "timeout"

	// GenerationReasonMalformedPayload wraps ParseReasonMalformedPayload.
	GenerationReasonMalformedPayload GenerationReason = "malformed_payload"

	// GenerationReasonSchemaViolation wraps ParseReasonSchemaViolation.
	GenerationReasonSchemaViolation GenerationReason = "schema_violation"
)

// GenerationError is the caller-facing failure of the question pipeline.
// It always carries the raw model response when one was received, so
// callers can log it for diagnostics. No partial record accompanies it.
type GenerationError struct {
	// Reason tags the failure cause.
	Reason GenerationReason

	// RawResponse is the unprocessed model output, if any was received.
	RawResponse string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface.
func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a tagged generation failure.
func NewGenerationError(reason GenerationReason, rawResponse string, err error) *GenerationError {
	return &GenerationError{Reason: reason, RawResponse: rawResponse, Err: err}
}
