package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"kb-platform-be/internal/dto"
	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/internal/repository/unitofwork"
	"kb-platform-be/pkg/embedding"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSearchLimit     = 10
	DefaultSearchThreshold = 0.3

	// Reciprocal rank fusion constant. Larger k flattens the rank
	// contribution curve.
	rrfK = 60

	queryEmbeddingTTL = 15 * time.Minute
)

type SearchOptions struct {
	Limit          int
	Threshold      *float64
	IncludeContent *bool
}

func (o SearchOptions) normalized() (limit int, threshold float64, includeContent bool) {
	limit = o.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	threshold = DefaultSearchThreshold
	if o.Threshold != nil {
		threshold = *o.Threshold
	}
	includeContent = true
	if o.IncludeContent != nil {
		includeContent = *o.IncludeContent
	}
	return limit, threshold, includeContent
}

type ISearchService interface {
	SemanticSearch(ctx context.Context, userId uuid.UUID, knowledgeBaseId, query string, opts SearchOptions) ([]*dto.SearchResultItem, error)
	KeywordSearch(ctx context.Context, userId uuid.UUID, knowledgeBaseId, query string, opts SearchOptions) ([]*dto.SearchResultItem, error)
	HybridSearch(ctx context.Context, userId uuid.UUID, knowledgeBaseId, query string, opts SearchOptions) ([]*dto.SearchResultItem, error)
	GlobalSearch(ctx context.Context, userId uuid.UUID, query string, opts SearchOptions) ([]*dto.SearchResultItem, error)
	GetRelevantContext(ctx context.Context, userId uuid.UUID, knowledgeBaseId, query string, maxChunks int) (*dto.RelevantContextResponse, error)
}

type searchService struct {
	uowFactory unitofwork.RepositoryFactory
	embedder   *embedding.Embedder
	redis      *redis.Client // optional query-embedding cache
}

func NewSearchService(
	uowFactory unitofwork.RepositoryFactory,
	embedder *embedding.Embedder,
	redisClient *redis.Client,
) ISearchService {
	return &searchService{
		uowFactory: uowFactory,
		embedder:   embedder,
		redis:      redisClient,
	}
}

// embedQuery embeds the query text, going through redis when available
// so repeated questions skip the provider round trip.
func (s *searchService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	var cacheKey string
	if s.redis != nil {
		cacheKey = fmt.Sprintf("qemb:%s:%x", s.embedder.Model(), sha256.Sum256([]byte(query)))
		if raw, err := s.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var vec []float32
			if err := json.Unmarshal(raw, &vec); err == nil && len(vec) == s.embedder.Dimensions() {
				return vec, nil
			}
		}
	}

	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if raw, err := json.Marshal(vec); err == nil {
			if err := s.redis.Set(ctx, cacheKey, raw, queryEmbeddingTTL).Err(); err != nil {
				log.Printf("[WARN] Failed to cache query embedding: %v", err)
			}
		}
	}
	return vec, nil
}

func (s *searchService) scope(knowledgeBaseId string) *contract.SearchScope {
	if knowledgeBaseId == "" {
		return nil
	}
	return &contract.SearchScope{KnowledgeBaseId: knowledgeBaseId}
}

func (s *searchService) SemanticSearch(ctx context.Context, userId uuid.UUID, knowledgeBaseId, query string, opts SearchOptions) ([]*dto.SearchResultItem, error) {
	limit, threshold, includeContent := opts.normalized()

	vec, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	hits, err := uow.SearchRepository().VectorSearch(ctx, userId, vec, s.scope(knowledgeBaseId), limit, threshold)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.SearchResultItem, len(hits))
	for i, hit := range hits {
		item := toResultItem(hit, includeContent)
		item.VectorSimilarity = hit.Similarity
		item.Similarity = hit.Similarity
		results[i] = item
	}
	return results, nil
}

func (s *searchService) KeywordSearch(ctx context.Context, userId uuid.UUID, knowledgeBaseId, query string, opts SearchOptions) ([]*dto.SearchResultItem, error) {
	limit, threshold, includeContent := opts.normalized()

	uow := s.uowFactory.NewUnitOfWork(ctx)
	hits, err := uow.SearchRepository().KeywordSearch(ctx, userId, query, s.scope(knowledgeBaseId), limit, threshold)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.SearchResultItem, len(hits))
	for i, hit := range hits {
		item := toResultItem(hit, includeContent)
		item.KeywordSimilarity = hit.Similarity
		item.Similarity = hit.Similarity
		results[i] = item
	}
	return results, nil
}

// HybridSearch runs the vector and keyword searches concurrently and
// fuses them with reciprocal rank fusion: each list contributes
// 1/(k+rank) with 1-based ranks. The fused RankScore orders results
// but is not a 0..1 similarity.
func (s *searchService) HybridSearch(ctx context.Context, userId uuid.UUID, knowledgeBaseId, query string, opts SearchOptions) ([]*dto.SearchResultItem, error) {
	limit, threshold, includeContent := opts.normalized()

	vec, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	scope := s.scope(knowledgeBaseId)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	var vectorHits, keywordHits []*contract.SearchHit
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		vectorHits, err = uow.SearchRepository().VectorSearch(gctx, userId, vec, scope, limit, threshold)
		return err
	})
	g.Go(func() error {
		var err error
		keywordHits, err = uow.SearchRepository().KeywordSearch(gctx, userId, query, scope, limit, threshold)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return fuseHits(vectorHits, keywordHits, limit, includeContent), nil
}

func (s *searchService) GlobalSearch(ctx context.Context, userId uuid.UUID, query string, opts SearchOptions) ([]*dto.SearchResultItem, error) {
	return s.SemanticSearch(ctx, userId, "", query, opts)
}

const DefaultContextChunks = 5

// GetRelevantContext assembles the top hybrid hits into one prompt-ready
// context block with per-source headers.
func (s *searchService) GetRelevantContext(ctx context.Context, userId uuid.UUID, knowledgeBaseId, query string, maxChunks int) (*dto.RelevantContextResponse, error) {
	if maxChunks <= 0 {
		maxChunks = DefaultContextChunks
	}

	results, err := s.HybridSearch(ctx, userId, knowledgeBaseId, query, SearchOptions{Limit: maxChunks})
	if err != nil {
		return nil, err
	}

	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("[source %d: %s - %s]\n%s", i+1, r.FileName, r.DocumentTitle, r.Content)
	}

	return &dto.RelevantContextResponse{
		Context: strings.Join(blocks, "\n\n---\n\n"),
		Sources: len(results),
	}, nil
}

func toResultItem(hit *contract.SearchHit, includeContent bool) *dto.SearchResultItem {
	item := &dto.SearchResultItem{
		ChunkId:       hit.ChunkId,
		ChunkIndex:    hit.ChunkIndex,
		DocumentId:    hit.DocumentId,
		DocumentTitle: hit.DocumentTitle,
		FileId:        hit.FileId,
		FileName:      hit.FileName,
	}
	if includeContent {
		item.Content = hit.Content
	}
	return item
}

func fuseHits(vectorHits, keywordHits []*contract.SearchHit, limit int, includeContent bool) []*dto.SearchResultItem {
	fused := make(map[uuid.UUID]*dto.SearchResultItem)

	for rank, hit := range vectorHits {
		item := toResultItem(hit, includeContent)
		item.VectorSimilarity = hit.Similarity
		item.RankScore = 1.0 / float64(rrfK+rank+1)
		fused[hit.ChunkId] = item
	}
	for rank, hit := range keywordHits {
		if item, ok := fused[hit.ChunkId]; ok {
			item.KeywordSimilarity = hit.Similarity
			item.RankScore += 1.0 / float64(rrfK+rank+1)
			continue
		}
		item := toResultItem(hit, includeContent)
		item.KeywordSimilarity = hit.Similarity
		item.RankScore = 1.0 / float64(rrfK+rank+1)
		fused[hit.ChunkId] = item
	}

	results := make([]*dto.SearchResultItem, 0, len(fused))
	for _, item := range fused {
		item.Similarity = item.RankScore
		results = append(results, item)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].RankScore != results[j].RankScore {
			return results[i].RankScore > results[j].RankScore
		}
		if results[i].VectorSimilarity != results[j].VectorSimilarity {
			return results[i].VectorSimilarity > results[j].VectorSimilarity
		}
		return results[i].ChunkId.String() < results[j].ChunkId.String()
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}
