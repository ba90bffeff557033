// Package textindex provides an in-memory keyword index over corpus pages,
// used to complement the vector index in hybrid search.
package textindex

import (
	"fmt"
	"strconv"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
)

// Index is a bleve full-text index keyed by page id. Like the vector index
// it is rebuilt from the corpus on each run; there is no on-disk form.
type Index struct {
	index bleve.Index
}

// pageDoc is the shape bleve indexes per page
type pageDoc struct {
	Content string `json:"content"`
}

// Hit is one keyword match
type Hit struct {
	ID    int64
	Score float64
}

// New creates an empty in-memory text index.
func New() (*Index, error) {
	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create text index: %w", err)
	}
	return &Index{index: index}, nil
}

// IndexPages adds a batch of pages to the index.
func (idx *Index) IndexPages(pages []store.Page) error {
	batch := idx.index.NewBatch()
	for _, page := range pages {
		doc := pageDoc{Content: page.Content}
		if err := batch.Index(strconv.FormatInt(page.ID, 10), doc); err != nil {
			return fmt.Errorf("index page %d: %w", page.ID, err)
		}
	}
	if err := idx.index.Batch(batch); err != nil {
		return fmt.Errorf("commit text index batch: %w", err)
	}
	return nil
}

// Search returns up to topK keyword matches, best first.
func (idx *Index) Search(query string, topK int) ([]Hit, error) {
	if topK <= 0 {
		return nil, nil
	}

	matchQuery := bleve.NewMatchQuery(query)
	matchQuery.SetField("content")

	req := bleve.NewSearchRequestOptions(matchQuery, topK, 0, false)
	res, err := idx.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, hit := range res.Hits {
		id, err := strconv.ParseInt(hit.ID, 10, 64)
		if err != nil {
			continue // Skip malformed ids
		}
		hits = append(hits, Hit{ID: id, Score: hit.Score})
	}
	return hits, nil
}

// Close releases index resources.
func (idx *Index) Close() error {
	return idx.index.Close()
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = "en"
	indexMapping.DefaultField = "content"

	docMapping := bleve.NewDocumentMapping()

	contentField := bleve.NewTextFieldMapping()
	contentField.Store = false
	contentField.Index = true
	docMapping.AddFieldMappingsAt("content", contentField)

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
