package retrieval

import (
	"context"
	"testing"

	"github.com/IgorPBorja/rag-for-competitive-programming/internal/semantic"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/textindex"
)

type memCorpus struct {
	pages []store.Page
}

func (c *memCorpus) Count() (int, error) {
	return len(c.pages), nil
}

func (c *memCorpus) PageAfter(cursor int64, limit int) ([]store.Page, error) {
	var out []store.Page
	for _, p := range c.pages {
		if p.ID > cursor {
			out = append(out, p)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (c *memCorpus) GetByIDs(ids []int64) ([]store.Page, error) {
	var out []store.Page
	for _, id := range ids {
		for _, p := range c.pages {
			if p.ID == id {
				out = append(out, p)
			}
		}
	}
	return out, nil
}

// charClient embeds text as letter-frequency vectors, so identical texts are
// exact matches and related texts land nearby.
type charClient struct{}

func (charClient) Model() string { return "char-model" }

func charVec(text string) []float32 {
	vec := make([]float32, 26)
	for _, r := range text {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return vec
}

func (charClient) Embed(ctx context.Context, text string) ([]float32, error) {
	return charVec(text), nil
}

func (charClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = charVec(text)
	}
	return out, nil
}

func newTestRetriever(t *testing.T) (*HybridRetriever, *memCorpus) {
	t.Helper()

	corpus := &memCorpus{pages: []store.Page{
		{ID: 1, Content: "dijkstra shortest path algorithm", PageType: store.PageTypeCPAlgo},
		{ID: 2, Content: "segment tree range queries", PageType: store.PageTypeCPAlgo},
		{ID: 3, Content: "shortest path with bellman ford", PageType: store.PageTypeCPAlgo},
	}}

	semIndex, err := semantic.Build(context.Background(), corpus, charClient{}, 2, nil)
	if err != nil {
		t.Fatalf("semantic.Build() failed: %v", err)
	}

	textIndex, err := textindex.New()
	if err != nil {
		t.Fatalf("textindex.New() failed: %v", err)
	}
	t.Cleanup(func() { textIndex.Close() })
	if err := textIndex.IndexPages(corpus.pages); err != nil {
		t.Fatalf("IndexPages() failed: %v", err)
	}

	return NewHybridRetriever(semIndex, textIndex, corpus), corpus
}

func TestHybridRetriever_Search(t *testing.T) {
	retriever, _ := newTestRetriever(t)

	results, err := retriever.Search(context.Background(), "shortest path", DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Search() returned no results")
	}

	top := results[0]
	if top.Page.ID != 1 && top.Page.ID != 3 {
		t.Errorf("top result id = %d, want a shortest-path page (1 or 3)", top.Page.ID)
	}
	for i := 1; i < len(results); i++ {
		if results[i].CombinedScore > results[i-1].CombinedScore {
			t.Errorf("results not sorted by combined score: %v then %v", results[i-1].CombinedScore, results[i].CombinedScore)
		}
	}
}

func TestHybridRetriever_VectorOnly(t *testing.T) {
	retriever, _ := newTestRetriever(t)

	opts := SearchOptions{TopK: 3, VectorWeight: 1.0, KeywordWeight: 0.0}
	results, err := retriever.Search(context.Background(), "segment tree range queries", opts)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("Search() returned no results")
	}
	if results[0].Page.ID != 2 {
		t.Errorf("top result id = %d, want 2 (exact content match)", results[0].Page.ID)
	}
	for _, r := range results {
		if r.KeywordScore != 0 {
			t.Errorf("keyword score = %v with zero keyword weight", r.KeywordScore)
		}
	}
}

func TestHybridRetriever_RespectsTopK(t *testing.T) {
	retriever, _ := newTestRetriever(t)

	opts := DefaultSearchOptions()
	opts.TopK = 1
	results, err := retriever.Search(context.Background(), "shortest path", opts)
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) != 1 {
		t.Errorf("Search() returned %d results, want 1", len(results))
	}
}

func TestHybridRetriever_NilTextIndexFallsBackToVector(t *testing.T) {
	_, corpus := newTestRetriever(t)

	semIndex, err := semantic.Build(context.Background(), corpus, charClient{}, 2, nil)
	if err != nil {
		t.Fatalf("semantic.Build() failed: %v", err)
	}
	retriever := NewHybridRetriever(semIndex, nil, corpus)

	results, err := retriever.Search(context.Background(), "dijkstra shortest path algorithm", DefaultSearchOptions())
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(results) == 0 || results[0].Page.ID != 1 {
		t.Fatalf("Search() top result = %+v, want page 1", results)
	}
}
