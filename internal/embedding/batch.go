package embedding

import (
	"context"

	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
)

// Batch pairs the embedding matrix for one batch of pages with the pages
// themselves. Row i of Vectors corresponds to Pages[i]; every row has
// length Dim. Batches are ephemeral: produced per page fetch and consumed
// immediately by the index builder.
type Batch struct {
	Vectors [][]float32
	Pages   []store.Page
	Dim     int
}

// Len returns the number of pages in the batch
func (b *Batch) Len() int {
	return len(b.Pages)
}

// EmbedPages embeds a batch of pages in a single provider call, preserving
// positional correspondence between pages and vectors.
func EmbedPages(ctx context.Context, client Client, pages []store.Page) (*Batch, error) {
	contents := make([]string, len(pages))
	for i, page := range pages {
		contents[i] = page.Content
	}

	vectors, err := client.EmbedBatch(ctx, contents)
	if err != nil {
		return nil, err
	}

	if len(vectors) != len(pages) {
		return nil, providerErrorf(client.Model(), "expected %d vectors, got %d", len(pages), len(vectors))
	}

	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, providerErrorf(client.Model(), "vector %d has dimension %d, want %d", i, len(vec), dim)
		}
	}

	return &Batch{Vectors: vectors, Pages: pages, Dim: dim}, nil
}
