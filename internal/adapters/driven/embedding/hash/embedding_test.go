package hash

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbed_Deterministic(t *testing.T) {
	service := NewEmbeddingService(0)
	ctx := context.Background()

	a, err := service.Embed(ctx, "駅はどこですか。")
	require.NoError(t, err)
	b, err := service.Embed(ctx, "駅はどこですか。")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, DefaultDimensions)
}

func TestEmbed_DifferentTextsDiffer(t *testing.T) {
	service := NewEmbeddingService(64)
	ctx := context.Background()

	a, err := service.Embed(ctx, "何時に起きますか。")
	require.NoError(t, err)
	b, err := service.Embed(ctx, "昼ご飯は何を食べますか。")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestEmbed_UnitLength(t *testing.T) {
	service := NewEmbeddingService(128)

	vec, err := service.Embed(context.Background(), "こんにちは")
	require.NoError(t, err)

	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-5)
}

func TestEmbed_EmptyText(t *testing.T) {
	service := NewEmbeddingService(32)

	vec, err := service.Embed(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, vec, 32)
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestEmbedBatch(t *testing.T) {
	service := NewEmbeddingService(64)

	vecs, err := service.EmbedBatch(context.Background(), []string{"一", "二", "三"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	for _, vec := range vecs {
		assert.Len(t, vec, 64)
	}
}

func TestMetadata(t *testing.T) {
	service := NewEmbeddingService(0)

	assert.Equal(t, DefaultDimensions, service.Dimensions())
	assert.Equal(t, "hash-ngram", service.ModelName())
	assert.NoError(t, service.Ping(context.Background()))
	assert.NoError(t, service.Close())
}

func TestNormalise_ZeroVector(t *testing.T) {
	vec := make([]float32, 8)
	normalise(vec)
	for _, v := range vec {
		assert.False(t, math.IsNaN(float64(v)))
	}
}
