// Package hash provides a deterministic, offline embedding service.
// Texts are embedded by hashing character n-grams into a fixed-size
// vector. The embeddings carry no semantic meaning, but identical
// texts always map to identical vectors and similar texts share
// n-grams, which is enough for exercising the index without a model
// server.
package hash

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"

	"github.com/custodia-labs/quizgen-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the vector size used when none is configured.
const DefaultDimensions = 256

const ngramSize = 3

// EmbeddingService embeds texts by hashing character n-grams.
type EmbeddingService struct {
	dimensions int
}

// NewEmbeddingService creates a hash embedding service. A dimensions
// value of zero or less falls back to DefaultDimensions.
func NewEmbeddingService(dimensions int) *EmbeddingService {
	if dimensions <= 0 {
		dimensions = DefaultDimensions
	}
	return &EmbeddingService{dimensions: dimensions}
}

// Embed generates a deterministic vector for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dimensions)

	runes := []rune(text)
	if len(runes) == 0 {
		return vec, nil
	}

	for i := 0; i <= len(runes)-1; i++ {
		end := i + ngramSize
		if end > len(runes) {
			end = len(runes)
		}
		bucket, sign := hashNgram(string(runes[i:end]), s.dimensions)
		vec[bucket] += sign
	}

	normalise(vec)
	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		vec, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = vec
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return "hash-ngram"
}

// Ping always succeeds. There is no external service to reach.
func (s *EmbeddingService) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// hashNgram maps an n-gram to a bucket index and a +1/-1 sign. The
// sign bit reduces collisions cancelling each other out, the same
// trick feature-hashing vectorisers use.
func hashNgram(ngram string, dimensions int) (int, float32) {
	sum := sha256.Sum256([]byte(ngram))
	bucket := int(binary.LittleEndian.Uint32(sum[:4]) % uint32(dimensions))
	sign := float32(1)
	if sum[4]&1 == 1 {
		sign = -1
	}
	return bucket, sign
}

// normalise scales the vector to unit length in place.
func normalise(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
