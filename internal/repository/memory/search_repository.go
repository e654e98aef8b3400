package memory

import (
	"context"
	"sort"
	"strings"

	"kb-platform-be/internal/repository/contract"
	"kb-platform-be/pkg/embedding"

	"github.com/google/uuid"
)

type SearchRepository struct {
	store *Store
}

func NewSearchRepository(store *Store) contract.SearchRepository {
	return &SearchRepository{store: store}
}

// chunkContext is a chunk joined up to its file, the in-memory version
// of the SQL join chain.
type chunkContext struct {
	chunkId       uuid.UUID
	content       string
	chunkIndex    int
	documentId    string
	documentTitle string
	fileId        string
	fileName      string
}

func (r *SearchRepository) visibleChunks(userId uuid.UUID, scope *contract.SearchScope) []chunkContext {
	scoped := map[string]bool{}
	if scope != nil && scope.KnowledgeBaseId != "" {
		for _, l := range r.store.kbFiles {
			if l.KnowledgeBaseId == scope.KnowledgeBaseId {
				scoped[l.FileId] = true
			}
		}
	}

	var out []chunkContext
	for _, link := range r.store.documentChunks {
		chunk, ok := r.store.chunks[link.ChunkId]
		if !ok {
			continue
		}
		doc, ok := r.store.documents[link.DocumentId]
		if !ok {
			continue
		}
		file, ok := r.store.files[doc.FileId]
		if !ok || file.UserId != userId {
			continue
		}
		if scope != nil && scope.KnowledgeBaseId != "" && !scoped[file.Id] {
			continue
		}
		out = append(out, chunkContext{
			chunkId:       chunk.Id,
			content:       chunk.Text,
			chunkIndex:    chunk.Index,
			documentId:    doc.Id,
			documentTitle: doc.Title,
			fileId:        file.Id,
			fileName:      file.Name,
		})
	}
	return out
}

func (r *SearchRepository) VectorSearch(ctx context.Context, userId uuid.UUID, queryVector []float32, scope *contract.SearchScope, limit int, threshold float64) ([]*contract.SearchHit, error) {
	if limit <= 0 {
		limit = 10
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	vectors := make(map[uuid.UUID][]float32, len(r.store.embeddings))
	for _, e := range r.store.embeddings {
		vectors[e.ChunkId] = e.Embeddings
	}

	var hits []*contract.SearchHit
	for _, cc := range r.visibleChunks(userId, scope) {
		vec, ok := vectors[cc.chunkId]
		if !ok {
			continue
		}
		sim, err := embedding.CosineSimilarity(queryVector, vec)
		if err != nil {
			return nil, err
		}
		if sim < threshold {
			continue
		}
		hits = append(hits, cc.toHit(sim))
	}

	sortAndTrim(&hits, limit)
	return hits, nil
}

func (r *SearchRepository) KeywordSearch(ctx context.Context, userId uuid.UUID, query string, scope *contract.SearchScope, limit int, threshold float64) ([]*contract.SearchHit, error) {
	if limit <= 0 {
		limit = 10
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var hits []*contract.SearchHit
	for _, cc := range r.visibleChunks(userId, scope) {
		sim := wordSimilarity(query, cc.content)
		if sim < threshold {
			continue
		}
		hits = append(hits, cc.toHit(sim))
	}

	sortAndTrim(&hits, limit)
	return hits, nil
}

func (cc chunkContext) toHit(similarity float64) *contract.SearchHit {
	return &contract.SearchHit{
		ChunkId:       cc.chunkId,
		Content:       cc.content,
		ChunkIndex:    cc.chunkIndex,
		DocumentId:    cc.documentId,
		DocumentTitle: cc.documentTitle,
		FileId:        cc.fileId,
		FileName:      cc.fileName,
		Similarity:    similarity,
	}
}

func sortAndTrim(hits *[]*contract.SearchHit, limit int) {
	sort.SliceStable(*hits, func(i, j int) bool {
		return (*hits)[i].Similarity > (*hits)[j].Similarity
	})
	if len(*hits) > limit {
		*hits = (*hits)[:limit]
	}
}

// wordSimilarity approximates pg_trgm word_similarity: the query's
// trigram set against its best-matching word in the text. Close enough
// for tests that exercise thresholds and ranking, not a faithful port.
func wordSimilarity(query, text string) float64 {
	queryTrigrams := trigramSet(query)
	if len(queryTrigrams) == 0 {
		return 0
	}

	best := 0.0
	for _, word := range strings.Fields(strings.ToLower(text)) {
		wordTrigrams := trigramSet(word)
		shared := 0
		for t := range queryTrigrams {
			if wordTrigrams[t] {
				shared++
			}
		}
		union := len(queryTrigrams) + len(wordTrigrams) - shared
		if union == 0 {
			continue
		}
		if sim := float64(shared) / float64(union); sim > best {
			best = sim
		}
	}
	return best
}

func trigramSet(s string) map[string]bool {
	set := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(s)) {
		// pg_trgm pads each word with two leading and one trailing space
		padded := "  " + word + " "
		runes := []rune(padded)
		for i := 0; i+3 <= len(runes); i++ {
			set[string(runes[i:i+3])] = true
		}
	}
	return set
}
