package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/IgorPBorja/rag-for-competitive-programming/internal/config"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
)

// handleStats implements the stats subcommand
func handleStats(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	var jsonOutput bool
	fs.BoolVar(&jsonOutput, "json", false, "Output as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    cprag stats [options]

DESCRIPTION:
    Show statistics about the crawled corpus.

OPTIONS:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pages := store.NewPageStore(db)
	urls := store.NewURLStore(db)

	pageCount, err := pages.Count()
	if err != nil {
		log.Fatalf("Failed to count pages: %v", err)
	}

	byStatus, err := urls.CountByStatus()
	if err != nil {
		log.Fatalf("Failed to count urls: %v", err)
	}

	totalURLs := 0
	for _, n := range byStatus {
		totalURLs += n
	}

	if jsonOutput {
		output := map[string]interface{}{
			"database":        cfg.Database.Path,
			"pages":           pageCount,
			"urls":            totalURLs,
			"urls_pending":    byStatus[store.CrawlStatusPending],
			"urls_queued":     byStatus[store.CrawlStatusQueued],
			"urls_done":       byStatus[store.CrawlStatusDone],
			"embedding_model": cfg.Embedding.Model,
		}
		jsonData, err := json.MarshalIndent(output, "", "  ")
		if err != nil {
			log.Fatalf("Failed to marshal stats: %v", err)
		}
		fmt.Println(string(jsonData))
		return
	}

	fmt.Println("Corpus Statistics")
	fmt.Println("=================")
	fmt.Printf("Database:        %s\n", cfg.Database.Path)
	fmt.Printf("Pages:           %d\n", pageCount)
	fmt.Printf("URLs:            %d\n", totalURLs)
	fmt.Printf("  pending:       %d\n", byStatus[store.CrawlStatusPending])
	fmt.Printf("  queued:        %d\n", byStatus[store.CrawlStatusQueued])
	fmt.Printf("  done:          %d\n", byStatus[store.CrawlStatusDone])
	fmt.Printf("Embedding model: %s\n", cfg.Embedding.Model)
}
