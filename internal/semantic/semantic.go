package semantic

import (
	"context"
	"errors"
	"fmt"

	"github.com/IgorPBorja/rag-for-competitive-programming/internal/embedding"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
)

// ErrEmptyCorpus is returned when a build is attempted on a corpus with no
// pages. No index is produced.
var ErrEmptyCorpus = errors.New("empty corpus: nothing to index")

// PageSource is the narrow read contract the semantic index consumes.
// *store.PageStore satisfies it.
type PageSource interface {
	Count() (int, error)
	PageAfter(cursor int64, limit int) ([]store.Page, error)
	GetByIDs(ids []int64) ([]store.Page, error)
}

// ProgressReporter receives build progress, one increment per indexed page
type ProgressReporter interface {
	Start(total int)
	Increment()
	Finish()
}

// BuildOptions configures optional build behavior
type BuildOptions struct {
	Progress ProgressReporter
}

// Result is one search hit: a corpus page with its relevance score
type Result struct {
	Score float32
	Page  store.Page
}

// Index answers semantic top-k queries over a corpus snapshot. It owns one
// FlatIndex populated by a single build pass; queries are read-only and may
// run concurrently once Build has returned.
type Index struct {
	client embedding.Client
	source PageSource
	flat   *FlatIndex
	size   int
}

// Build embeds the whole corpus in batches and populates a fresh vector
// index. The embedding model is the one bound to client; batchSize bounds
// peak memory. A provider failure aborts the build and no index is returned.
func Build(ctx context.Context, source PageSource, client embedding.Client, batchSize int, opts *BuildOptions) (*Index, error) {
	count, err := source.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count corpus: %w", err)
	}
	if count == 0 {
		return nil, ErrEmptyCorpus
	}

	// Probe the model's dimensionality with a single page before any bulk work
	sample, err := source.PageAfter(0, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sample page: %w", err)
	}
	if len(sample) == 0 {
		return nil, ErrEmptyCorpus
	}
	probe, err := embedding.EmbedPages(ctx, client, sample)
	if err != nil {
		return nil, err
	}

	idx := &Index{
		client: client,
		source: source,
		flat:   NewFlatIndex(probe.Dim),
	}

	var progress ProgressReporter
	if opts != nil && opts.Progress != nil {
		progress = opts.Progress
		progress.Start(count)
		defer progress.Finish()
	}

	it, err := embedding.EmbedCorpus(source, client, batchSize)
	if err != nil {
		return nil, err
	}
	for {
		batch, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if batch == nil {
			break
		}

		ids := make([]int64, batch.Len())
		for i, page := range batch.Pages {
			ids[i] = page.ID
		}
		idx.flat.Add(ids, batch.Vectors)
		idx.size += batch.Len()

		if progress != nil {
			for i := 0; i < batch.Len(); i++ {
				progress.Increment()
			}
		}
	}

	return idx, nil
}

// Size returns the number of pages inserted during the build pass
func (idx *Index) Size() int {
	return idx.size
}

// Dim returns the embedding dimensionality of the index
func (idx *Index) Dim() int {
	return idx.flat.Dim()
}

// Model returns the embedding model the index was built with
func (idx *Index) Model() string {
	return idx.client.Model()
}

// Search embeds the query with the index's model and returns up to topK
// pages ranked by descending relevance score, where score = 1/(1+distance).
// Ids that no longer resolve in the corpus are dropped silently, so fewer
// than topK results may be returned.
func (idx *Index) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	queryVec, err := idx.client.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryVec) != idx.flat.Dim() {
		return nil, &embedding.ProviderError{
			Provider: idx.client.Model(),
			Err:      fmt.Errorf("query vector has dimension %d, index dimension is %d", len(queryVec), idx.flat.Dim()),
		}
	}

	distances, ids := idx.flat.Search(queryVec, topK)
	if len(ids) == 0 {
		return nil, nil
	}

	pages, err := idx.source.GetByIDs(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve result pages: %w", err)
	}
	pageByID := make(map[int64]store.Page, len(pages))
	for _, page := range pages {
		pageByID[page.ID] = page
	}

	// Preserve index return order (ascending distance)
	results := make([]Result, 0, len(ids))
	for i, id := range ids {
		page, ok := pageByID[id]
		if !ok {
			continue
		}
		results = append(results, Result{
			Score: 1.0 / (1.0 + distances[i]),
			Page:  page,
		})
	}

	return results, nil
}
