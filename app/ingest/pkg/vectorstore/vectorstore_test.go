package vectorstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder returns canned vectors for known texts and a zero-ish default
// otherwise, counting how many texts it was asked to embed.
type stubEmbedder struct {
	mu       sync.Mutex
	vectors  map[string][]float64
	embedded int
}

var _ embedding.Embedder = (*stubEmbedder)(nil)

func newStubEmbedder() *stubEmbedder {
	return &stubEmbedder{vectors: map[string][]float64{}}
}

func (e *stubEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.embedded += len(texts)
	out := make([][]float64, len(texts))
	for i, t := range texts {
		if v, ok := e.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float64{1, 0, 0}
		}
	}
	return out, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestSkipsUnchangedFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	storeDir := filepath.Join(dir, "store")
	doc := writeFile(t, dir, "guide.pdf", "원본 내용")

	emb := newStubEmbedder()
	store, err := Open(storeDir, emb)
	require.NoError(t, err)

	dirty, hash, err := store.NeedsUpdate(doc)
	require.NoError(t, err)
	assert.True(t, dirty)
	require.NoError(t, store.Put(ctx, doc, hash, []string{"청크 하나", "청크 둘"}))
	require.NoError(t, store.Save())
	assert.Equal(t, 2, emb.embedded)

	// A fresh open over the same directory sees the file as clean.
	store2, err := Open(storeDir, emb)
	require.NoError(t, err)
	assert.Equal(t, 2, store2.Len())
	dirty, _, err = store2.NeedsUpdate(doc)
	require.NoError(t, err)
	assert.False(t, dirty)

	// Changing the content makes it dirty again.
	require.NoError(t, os.WriteFile(doc, []byte("수정된 내용"), 0o644))
	dirty, _, err = store2.NeedsUpdate(doc)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestPutReplacesPreviousRecords(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	doc := writeFile(t, dir, "guide.pdf", "v1")

	store, err := Open(filepath.Join(dir, "store"), newStubEmbedder())
	require.NoError(t, err)

	_, hash, err := store.NeedsUpdate(doc)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, doc, hash, []string{"a", "b", "c"}))
	assert.Equal(t, 3, store.Len())

	require.NoError(t, os.WriteFile(doc, []byte("v2"), 0o644))
	_, hash, err = store.NeedsUpdate(doc)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, doc, hash, []string{"d"}))
	assert.Equal(t, 1, store.Len())
}

func TestPutRejectsEmptyChunks(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "guide.pdf", "내용")

	store, err := Open(filepath.Join(dir, "store"), newStubEmbedder())
	require.NoError(t, err)

	_, hash, err := store.NeedsUpdate(doc)
	require.NoError(t, err)
	assert.Error(t, store.Put(context.Background(), doc, hash, nil))
}

func TestPruneDropsDeletedSources(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	keep := writeFile(t, dir, "keep.pdf", "유지")
	gone := writeFile(t, dir, "gone.pdf", "삭제 예정")

	store, err := Open(filepath.Join(dir, "store"), newStubEmbedder())
	require.NoError(t, err)
	for _, doc := range []string{keep, gone} {
		_, hash, err := store.NeedsUpdate(doc)
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, doc, hash, []string{"청크"}))
	}
	require.Equal(t, 2, store.Len())

	removed := store.Prune(map[string]bool{"keep.pdf": true})
	assert.Equal(t, []string{"gone.pdf"}, removed)
	assert.Equal(t, 1, store.Len())

	// Pruning again is a no-op.
	assert.Empty(t, store.Prune(map[string]bool{"keep.pdf": true}))
}

func TestSearchRanksByCosine(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	doc := writeFile(t, dir, "guide.pdf", "내용")

	emb := newStubEmbedder()
	emb.vectors["임대료 정보"] = []float64{1, 0, 0}
	emb.vectors["유동인구 정보"] = []float64{0, 1, 0}
	emb.vectors["트렌드 정보"] = []float64{0.9, 0.1, 0}
	emb.vectors["임대료는 얼마인가"] = []float64{1, 0, 0}

	store, err := Open(filepath.Join(dir, "store"), emb)
	require.NoError(t, err)
	_, hash, err := store.NeedsUpdate(doc)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, doc, hash, []string{"임대료 정보", "유동인구 정보", "트렌드 정보"}))

	hits, err := store.Search(ctx, "임대료는 얼마인가", 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "임대료 정보", hits[0].Content)
	assert.Equal(t, "트렌드 정보", hits[1].Content)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float64{1, 2}, []float64{2, 4}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float64{1, 0}, []float64{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float64{1, 0}, []float64{1}))
	assert.Equal(t, 0.0, cosine(nil, nil))
	assert.Equal(t, 0.0, cosine([]float64{0, 0}, []float64{1, 1}))
}
