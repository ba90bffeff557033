package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/IgorPBorja/rag-for-competitive-programming/cmd/cprag/internal"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/config"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/embedding"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/retrieval"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/semantic"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/textindex"
)

// handleSearch implements the search subcommand
func handleSearch(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("search", flag.ExitOnError)

	var topK int
	var vectorOnly, keywordOnly, jsonOutput, verbose, noProgress bool

	fs.IntVar(&topK, "k", cfg.Search.DefaultTopK, "Number of results to return")
	fs.BoolVar(&vectorOnly, "vector-only", false, "Use vector search only")
	fs.BoolVar(&keywordOnly, "keyword-only", false, "Use keyword search only")
	fs.BoolVar(&jsonOutput, "json", false, "Output results as JSON")
	fs.BoolVar(&verbose, "v", false, "Verbose output (show per-signal scores)")
	fs.BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    cprag search [options] "<query>"

DESCRIPTION:
    Search the crawled article corpus using a natural language query.
    Combines embedding similarity with keyword matching.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Natural language search
    cprag search "minimum spanning tree"

    # Vector-only search
    cprag search "z function" -vector-only

    # Top 10 results as JSON
    cprag search "convex hull trick" -k 10 -json
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	if vectorOnly && keywordOnly {
		fmt.Fprintf(os.Stderr, "Error: -vector-only and -keyword-only are mutually exclusive\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: search query is required\n\n")
		fs.Usage()
		os.Exit(1)
	}
	query := fs.Arg(0)

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	urls := store.NewURLStore(db)
	pages := store.NewPageStore(db)

	ctx := context.Background()
	progressEnabled := !noProgress && internal.DefaultProgressEnabled()

	var semIndex *semantic.Index
	if !keywordOnly {
		client, err := embedding.NewOllamaClient(&cfg.Embedding)
		if err != nil {
			log.Fatalf("Failed to create embedding client: %v", err)
		}

		buildOpts := &semantic.BuildOptions{}
		if bar := internal.NewBarProgress(progressEnabled, "embedding"); bar != nil {
			buildOpts.Progress = bar
		}

		semIndex, err = semantic.Build(ctx, pages, client, cfg.Embedding.BatchSize, buildOpts)
		if err != nil {
			if errors.Is(err, semantic.ErrEmptyCorpus) {
				log.Fatalf("The corpus is empty. Run 'cprag crawl' first.")
			}
			log.Fatalf("Failed to build vector index: %v", err)
		}
	}

	if keywordOnly {
		n, err := pages.Count()
		if err != nil {
			log.Fatalf("Failed to count pages: %v", err)
		}
		if n == 0 {
			log.Fatalf("The corpus is empty. Run 'cprag crawl' first.")
		}
	}

	var textIdx *textindex.Index
	if !vectorOnly {
		stop := internal.StartSpinner(progressEnabled, "indexing keywords")
		textIdx, err = buildTextIndex(pages)
		stop()
		if err != nil {
			log.Fatalf("Failed to build keyword index: %v", err)
		}
		defer textIdx.Close()
	}

	retriever := retrieval.NewHybridRetriever(semIndex, textIdx, pages)

	opts := retrieval.DefaultSearchOptions()
	opts.TopK = topK
	opts.VectorWeight = cfg.Search.VectorWeight
	opts.KeywordWeight = cfg.Search.KeywordWeight
	if vectorOnly {
		opts.VectorWeight = 1.0
		opts.KeywordWeight = 0.0
	} else if keywordOnly {
		opts.VectorWeight = 0.0
		opts.KeywordWeight = 1.0
	}

	results, err := retriever.Search(ctx, query, opts)
	if err != nil {
		log.Fatalf("Search failed: %v", err)
	}

	if jsonOutput {
		outputJSON(results, query)
	} else {
		outputText(results, query, urls, verbose)
	}
}

// buildTextIndex loads the whole corpus into an in-memory keyword index
func buildTextIndex(pages *store.PageStore) (*textindex.Index, error) {
	idx, err := textindex.New()
	if err != nil {
		return nil, err
	}

	var cursor int64
	for {
		batch, err := pages.PageAfter(cursor, 500)
		if err != nil {
			idx.Close()
			return nil, err
		}
		if len(batch) == 0 {
			return idx, nil
		}
		if err := idx.IndexPages(batch); err != nil {
			idx.Close()
			return nil, err
		}
		cursor = batch[len(batch)-1].ID
	}
}

// outputText prints search results as human-readable text
func outputText(results []retrieval.SearchResult, query string, urls *store.URLStore, verbose bool) {
	if len(results) == 0 {
		fmt.Println("No results found")
		return
	}

	fmt.Printf("Found %d result(s) for: %s\n\n", len(results), query)

	for i, result := range results {
		title := pageTitle(result.Page.Content)
		fmt.Printf("%d. %s\n", i+1, title)

		if u, err := urls.GetByID(result.Page.URLID); err == nil && u != nil {
			fmt.Printf("   URL:     %s\n", u.URL)
		}

		if verbose {
			if result.VectorScore > 0 {
				fmt.Printf("   Vector:  %.3f\n", result.VectorScore)
			}
			if result.KeywordScore > 0 {
				fmt.Printf("   Keyword: %.3f\n", result.KeywordScore)
			}
		}
		fmt.Printf("   Score:   %.3f\n", result.CombinedScore)

		if excerptText := excerpt(result.Page.Content, 120); excerptText != "" {
			fmt.Printf("   %s\n", excerptText)
		}

		fmt.Println()
	}
}

// outputJSON prints search results as JSON
func outputJSON(results []retrieval.SearchResult, query string) {
	output := map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	}

	jsonData, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal results: %v", err)
	}

	fmt.Println(string(jsonData))
}

// pageTitle returns the first markdown heading of a page, or a placeholder
func pageTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return strings.TrimSpace(strings.TrimLeft(line, "#"))
		}
	}
	return "(untitled)"
}

// excerpt returns the first body line of a page, truncated to maxLen
func excerpt(content string, maxLen int) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") {
			continue
		}
		if len(line) > maxLen {
			return line[:maxLen] + "..."
		}
		return line
	}
	return ""
}
