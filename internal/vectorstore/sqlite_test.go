package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raghavkh/manualqa/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func chunk(id, text, source, hash string, num int, embedding []float32) models.Chunk {
	return models.Chunk{
		ID:        id,
		Text:      text,
		Embedding: embedding,
		Metadata: map[string]interface{}{
			models.MetaSourceFile: source,
			models.MetaFileHash:   hash,
			models.MetaChunkNum:   num,
		},
	}
}

func TestSQLiteAddAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	err := store.Add(ctx,
		chunk("a", "first", "m.pdf", "h1", 0, []float32{1, 0}),
		chunk("b", "second", "m.pdf", "h1", 1, []float32{0, 1}),
	)
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestSQLiteAddIsUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, chunk("a", "old", "m.pdf", "h1", 0, []float32{1})))
	require.NoError(t, store.Add(ctx, chunk("a", "new", "m.pdf", "h2", 0, []float32{1})))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	chunks, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", chunks[0].Text)
}

func TestSQLiteSearchRanksByCosine(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx,
		chunk("a", "about wattage", "m.pdf", "h", 0, []float32{1, 0}),
		chunk("b", "about chargers", "m.pdf", "h", 1, []float32{0, 1}),
		chunk("c", "mixed topics", "m.pdf", "h", 2, []float32{0.7, 0.7}),
	))

	docs, err := store.Search(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "about wattage", docs[0].Content)
	assert.Equal(t, "mixed topics", docs[1].Content)
	assert.Greater(t, docs[0].Score, docs[1].Score)
	assert.Equal(t, "m.pdf", docs[0].Source)
}

// Scores are cosine similarity in [-1, 1]; an identical vector scores 1,
// an orthogonal one 0, an opposite one -1. The chroma backend reports the
// same scale because its collection is created in cosine space.
func TestSQLiteSearchScoresAreCosineSimilarity(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx,
		chunk("same", "identical direction", "m.pdf", "h", 0, []float32{2, 0}),
		chunk("orth", "orthogonal direction", "m.pdf", "h", 1, []float32{0, 3}),
		chunk("oppo", "opposite direction", "m.pdf", "h", 2, []float32{-1, 0}),
	))

	docs, err := store.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, docs, 3)

	assert.InDelta(t, 1.0, docs[0].Score, 1e-6)
	assert.InDelta(t, 0.0, docs[1].Score, 1e-6)
	assert.InDelta(t, -1.0, docs[2].Score, 1e-6)
}

func TestSQLiteSearchSkipsDimensionMismatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx,
		chunk("a", "three dims", "m.pdf", "h", 0, []float32{1, 0, 0}),
		chunk("b", "two dims", "m.pdf", "h", 1, []float32{1, 0}),
	))

	docs, err := store.Search(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "two dims", docs[0].Content)
}

func TestSQLiteDeleteBySource(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx,
		chunk("a", "keep", "keep.pdf", "h1", 0, []float32{1}),
		chunk("b", "drop", "drop.pdf", "h2", 0, []float32{1}),
	))

	require.NoError(t, store.DeleteBySource(ctx, "drop.pdf"))

	chunks, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "keep", chunks[0].Text)
}

func TestSQLiteIndexState(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx,
		chunk("a", "c0", "m1.pdf", "hash1", 0, []float32{1}),
		chunk("b", "c1", "m1.pdf", "hash1", 1, []float32{1}),
		chunk("c", "c0", "m2.pdf", "hash2", 0, []float32{1}),
	))

	state, err := store.IndexState(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"m1.pdf": "hash1", "m2.pdf": "hash2"}, state)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
