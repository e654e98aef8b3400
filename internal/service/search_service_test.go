package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Unit vectors for controlled cosine geometry: e1 is "about alpha",
// e2 orthogonal, near1 close to e1.
var (
	e1    = []float32{1, 0, 0, 0, 0, 0, 0, 0}
	e2    = []float32{0, 1, 0, 0, 0, 0, 0, 0}
	near1 = []float32{0.9, 0.43589, 0, 0, 0, 0, 0, 0}
)

func (h *harness) seedCorpus(t *testing.T, userId uuid.UUID) (kbId string) {
	t.Helper()
	kbId = h.createKnowledgeBase(t, userId, "corpus")

	h.provider.vectors["alpha systems overview"] = e1
	h.provider.vectors["gamma deployment guide"] = near1
	h.provider.vectors["unrelated cooking recipes"] = e2

	h.ingest(t, userId, kbId, "alpha.txt", "txt", []byte("alpha systems overview"))
	h.ingest(t, userId, kbId, "gamma.txt", "txt", []byte("gamma deployment guide"))
	h.ingest(t, userId, kbId, "cooking.txt", "txt", []byte("unrelated cooking recipes"))
	return kbId
}

func TestSemanticSearchRanksByCosine(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()
	kbId := h.seedCorpus(t, userId)

	h.provider.vectors["alpha"] = e1
	results, err := h.search.SemanticSearch(ctx, userId, kbId, "alpha", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2, "orthogonal chunk must fall under the threshold")

	assert.Equal(t, "alpha.txt", results[0].FileName)
	assert.InDelta(t, 1.0, results[0].VectorSimilarity, 1e-4)
	assert.Equal(t, "gamma.txt", results[1].FileName)
	assert.InDelta(t, 0.9, results[1].VectorSimilarity, 1e-3)
}

func TestSemanticSearchTenantIsolation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	owner := uuid.New()
	h.seedCorpus(t, owner)

	h.provider.vectors["alpha"] = e1
	results, err := h.search.GlobalSearch(ctx, uuid.New(), "alpha", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results, "another tenant's chunks must be invisible")
}

func TestKeywordSearchMatchesExactWord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()
	kbId := h.seedCorpus(t, userId)

	results, err := h.search.KeywordSearch(ctx, userId, kbId, "cooking", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "cooking.txt", results[0].FileName)
	assert.Greater(t, results[0].KeywordSimilarity, 0.3)
	assert.Zero(t, results[0].VectorSimilarity)
}

func TestHybridSearchFusesBothSignals(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()
	kbId := h.seedCorpus(t, userId)

	// "alpha" hits alpha.txt in both lists (vector + keyword) and
	// gamma.txt in the vector list only.
	h.provider.vectors["alpha"] = e1
	results, err := h.search.HybridSearch(ctx, userId, kbId, "alpha", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "alpha.txt", results[0].FileName)
	assert.Greater(t, results[0].VectorSimilarity, 0.0)
	assert.Greater(t, results[0].KeywordSimilarity, 0.0)

	assert.Equal(t, "gamma.txt", results[1].FileName)
	assert.Zero(t, results[1].KeywordSimilarity)

	// Two rank contributions always beat one.
	assert.Greater(t, results[0].RankScore, results[1].RankScore)
}

func TestHybridSearchNoMatchesIsEmptyNotError(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()
	kbId := h.seedCorpus(t, userId)

	h.provider.vectors["zzz"] = []float32{0, 0, 0, 0, 0, 0, 0, 1}
	results, err := h.search.HybridSearch(ctx, userId, kbId, "zzz", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestHybridSearchRespectsLimit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()
	kbId := h.seedCorpus(t, userId)

	h.provider.vectors["alpha"] = e1
	results, err := h.search.HybridSearch(ctx, userId, kbId, "alpha", SearchOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "alpha.txt", results[0].FileName)
}

func TestSearchScopedToKnowledgeBase(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()
	h.seedCorpus(t, userId)

	otherKb := h.createKnowledgeBase(t, userId, "empty")

	h.provider.vectors["alpha"] = e1
	scoped, err := h.search.SemanticSearch(ctx, userId, otherKb, "alpha", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, scoped, "scoped search must not leak across knowledge bases")

	global, err := h.search.GlobalSearch(ctx, userId, "alpha", SearchOptions{})
	require.NoError(t, err)
	assert.NotEmpty(t, global, "global search covers all of the user's chunks")
}

func TestSearchExcludesContentWhenAsked(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()
	kbId := h.seedCorpus(t, userId)

	h.provider.vectors["alpha"] = e1
	include := false
	results, err := h.search.SemanticSearch(ctx, userId, kbId, "alpha", SearchOptions{IncludeContent: &include})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Empty(t, results[0].Content)
	assert.Equal(t, "alpha.txt", results[0].FileName)
}

func TestGetRelevantContextFormat(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	userId := uuid.New()
	kbId := h.seedCorpus(t, userId)

	h.provider.vectors["alpha"] = e1
	resp, err := h.search.GetRelevantContext(ctx, userId, kbId, "alpha", 5)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 2, resp.Sources)

	assert.True(t, strings.HasPrefix(resp.Context, "[source 1: alpha.txt - alpha.txt]\n"),
		"context starts with the top source header, got %q", resp.Context)
	assert.Contains(t, resp.Context, "\n\n---\n\n")
	assert.Contains(t, resp.Context, "[source 2: gamma.txt - gamma.txt]")
	assert.Contains(t, resp.Context, "alpha systems overview")
}
