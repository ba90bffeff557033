package retrieval

import (
	"context"
	"fmt"
	"sort"

	"github.com/IgorPBorja/rag-for-competitive-programming/internal/semantic"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/textindex"
)

// HybridRetriever combines vector similarity and keyword matching over the
// same corpus. The underlying vector index keeps its fixed L2 metric; the
// blend happens on top of both indexes' scores.
type HybridRetriever struct {
	semIndex  *semantic.Index
	textIndex *textindex.Index
	source    semantic.PageSource
}

// NewHybridRetriever creates a new hybrid retriever. textIndex may be nil,
// in which case searches are vector-only regardless of weights.
func NewHybridRetriever(semIndex *semantic.Index, textIndex *textindex.Index, source semantic.PageSource) *HybridRetriever {
	return &HybridRetriever{
		semIndex:  semIndex,
		textIndex: textIndex,
		source:    source,
	}
}

// SearchOptions configures search behavior
type SearchOptions struct {
	TopK          int     // Number of results to return
	VectorWeight  float32 // Weight for vector similarity (0-1)
	KeywordWeight float32 // Weight for keyword matching (0-1)
}

// DefaultSearchOptions returns default search options
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		TopK:          5,
		VectorWeight:  0.7,
		KeywordWeight: 0.3,
	}
}

// SearchResult represents a combined search result
type SearchResult struct {
	Page          store.Page
	VectorScore   float32 // Relevance score from the vector index
	KeywordScore  float32 // Rank-normalized keyword score
	CombinedScore float32 // Final weighted score
}

// Search performs hybrid search
func (h *HybridRetriever) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}

	// Normalize weights
	totalWeight := opts.VectorWeight + opts.KeywordWeight
	if totalWeight == 0 || h.textIndex == nil {
		opts.VectorWeight = 1.0
		opts.KeywordWeight = 0.0
		totalWeight = 1.0
	}
	opts.VectorWeight /= totalWeight
	opts.KeywordWeight /= totalWeight

	merged := make(map[int64]*SearchResult)

	// Step 1: vector search, over-fetched so the merge has candidates
	if opts.VectorWeight > 0 {
		vResults, err := h.semIndex.Search(ctx, query, opts.TopK*2)
		if err != nil {
			return nil, fmt.Errorf("vector search failed: %w", err)
		}
		for _, r := range vResults {
			merged[r.Page.ID] = &SearchResult{
				Page:        r.Page,
				VectorScore: r.Score,
			}
		}
	}

	// Step 2: keyword search, scored by rank
	if opts.KeywordWeight > 0 {
		hits, err := h.textIndex.Search(query, opts.TopK*2)
		if err != nil {
			return nil, fmt.Errorf("keyword search failed: %w", err)
		}

		var missing []int64
		for i, hit := range hits {
			score := float32(1.0 - float64(i)/float64(len(hits)))
			if r, ok := merged[hit.ID]; ok {
				r.KeywordScore = score
				continue
			}
			merged[hit.ID] = &SearchResult{KeywordScore: score}
			missing = append(missing, hit.ID)
		}

		// Resolve pages the vector pass did not load; unresolvable ids drop out
		if len(missing) > 0 {
			pages, err := h.source.GetByIDs(missing)
			if err != nil {
				return nil, fmt.Errorf("failed to resolve keyword results: %w", err)
			}
			for _, page := range pages {
				if r, ok := merged[page.ID]; ok {
					r.Page = page
				}
			}
		}
	}

	// Step 3: combine and rank
	results := make([]SearchResult, 0, len(merged))
	for _, r := range merged {
		if r.Page.ID == 0 {
			continue
		}
		r.CombinedScore = opts.VectorWeight*r.VectorScore + opts.KeywordWeight*r.KeywordScore
		results = append(results, *r)
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].CombinedScore > results[b].CombinedScore
	})

	if len(results) > opts.TopK {
		results = results[:opts.TopK]
	}

	return results, nil
}
