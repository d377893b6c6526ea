package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quizgen-cli/internal/adapters/driven/embedding/hash"
	"github.com/custodia-labs/quizgen-cli/internal/core/domain"
)

func newTestIndex(t *testing.T) *QuestionIndex {
	t.Helper()
	index, err := NewQuestionIndex(t.TempDir(), hash.NewEmbeddingService(64))
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })
	return index
}

func TestAdd_IdempotentUpsert(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	id1, err := index.Add(ctx, "駅はどこですか。", map[string]any{"round": 1})
	require.NoError(t, err)
	id2, err := index.Add(ctx, "駅はどこですか。", map[string]any{"round": 2})
	require.NoError(t, err)

	assert.Equal(t, id1, id2)

	items, err := index.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	// JSON round-trip turns ints into float64.
	assert.Equal(t, float64(2), items[0].Metadata["round"])
}

func TestGet(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	id, err := index.Add(ctx, "何時に起きますか。", map[string]any{"source": "manual"})
	require.NoError(t, err)

	item, err := index.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "何時に起きますか。", item.Text)
	assert.Equal(t, "manual", item.Metadata["source"])
}

func TestGet_NotFound(t *testing.T) {
	index := newTestIndex(t)

	_, err := index.Get(context.Background(), "qmissing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSearch(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	_, err := index.Add(ctx, "駅はどこですか。", nil)
	require.NoError(t, err)
	_, err = index.Add(ctx, "何時に起きますか。", nil)
	require.NoError(t, err)
	_, err = index.Add(ctx, "ビールをください。", nil)
	require.NoError(t, err)

	results, err := index.Search(ctx, "駅はどこですか。", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "駅はどこですか。", results[0].Item.Text)
	assert.InDelta(t, 0, results[0].Distance, 1e-6)
	assert.LessOrEqual(t, results[0].Distance, results[1].Distance)
}

func TestSearch_EmptyIndex(t *testing.T) {
	index := newTestIndex(t)

	results, err := index.Search(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_ClampsN(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	_, err := index.Add(ctx, "一", nil)
	require.NoError(t, err)
	_, err = index.Add(ctx, "二", nil)
	require.NoError(t, err)

	results, err := index.Search(ctx, "一", -3)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestReset(t *testing.T) {
	index := newTestIndex(t)
	ctx := context.Background()

	_, err := index.Add(ctx, "一", nil)
	require.NoError(t, err)

	require.NoError(t, index.Reset(ctx))

	items, err := index.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestReopen_PersistsItems(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	index, err := NewQuestionIndex(dir, hash.NewEmbeddingService(64))
	require.NoError(t, err)

	id, err := index.Add(ctx, "駅はどこですか。", nil)
	require.NoError(t, err)
	require.NoError(t, index.Close())

	reopened, err := NewQuestionIndex(dir, hash.NewEmbeddingService(64))
	require.NoError(t, err)
	defer reopened.Close()

	item, err := reopened.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "駅はどこですか。", item.Text)
}

func TestStorageFailureSurfacesSentinel(t *testing.T) {
	index, err := NewQuestionIndex(t.TempDir(), hash.NewEmbeddingService(64))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = index.Add(ctx, "一", nil)
	require.NoError(t, err)

	// Pull the database out from under the adapter.
	require.NoError(t, index.db.Close())

	_, err = index.Add(ctx, "二", nil)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, err = index.Get(ctx, "qwhatever")
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, err = index.Search(ctx, "一", 1)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	_, err = index.ListAll(ctx)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)

	assert.ErrorIs(t, index.Reset(ctx), domain.ErrStorageUnavailable)
}

func TestFloat32BlobRoundTrip(t *testing.T) {
	original := []float32{0.1, -0.5, 3.25, 0}
	assert.Equal(t, original, bytesToFloat32Slice(float32SliceToBytes(original)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
