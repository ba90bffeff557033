package embedding

import (
	"context"
	"fmt"

	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
)

// PageSource yields pages of the corpus in ascending-id order.
// *store.PageStore satisfies it.
type PageSource interface {
	PageAfter(cursor int64, limit int) ([]store.Page, error)
}

// CorpusIterator lazily embeds a whole corpus one batch at a time. It keeps
// only the current page of documents and vectors in memory, so peak memory is
// bounded by batchSize regardless of corpus size. The sequence is finite,
// single-pass and non-restartable; rebuilding requires a fresh iterator.
//
// Pagination advances a strictly-greater-than id cursor over ascending-id
// pages. A record inserted below the advancing cursor during iteration is
// never visited; this is an accepted boundary condition, not a snapshot scan.
type CorpusIterator struct {
	source    PageSource
	client    Client
	batchSize int
	cursor    int64
	done      bool
}

// EmbedCorpus returns a lazy iterator over embedded batches of the corpus.
func EmbedCorpus(source PageSource, client Client, batchSize int) (*CorpusIterator, error) {
	if batchSize <= 0 {
		return nil, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}
	return &CorpusIterator{
		source:    source,
		client:    client,
		batchSize: batchSize,
	}, nil
}

// Next fetches and embeds the next batch of pages. It returns (nil, nil) once
// the corpus is exhausted. Provider and store errors propagate unchanged and
// terminate the iteration.
func (it *CorpusIterator) Next(ctx context.Context) (*Batch, error) {
	if it.done {
		return nil, nil
	}

	pages, err := it.source.PageAfter(it.cursor, it.batchSize)
	if err != nil {
		it.done = true
		return nil, fmt.Errorf("failed to fetch corpus page: %w", err)
	}
	if len(pages) == 0 {
		it.done = true
		return nil, nil
	}

	it.cursor = pages[len(pages)-1].ID

	batch, err := EmbedPages(ctx, it.client, pages)
	if err != nil {
		it.done = true
		return nil, err
	}

	return batch, nil
}
