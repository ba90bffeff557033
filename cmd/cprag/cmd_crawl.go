package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/IgorPBorja/rag-for-competitive-programming/cmd/cprag/internal"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/config"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/crawler"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
)

// handleCrawl implements the crawl subcommand
func handleCrawl(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("crawl", flag.ExitOnError)

	var discoverOnly, requeue, noProgress bool
	fs.BoolVar(&discoverOnly, "discover-only", false, "Discover article URLs without downloading them")
	fs.BoolVar(&requeue, "requeue", false, "Also crawl URLs left queued by an earlier run")
	fs.BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `USAGE:
    cprag crawl [options]

DESCRIPTION:
    Discover article URLs from the configured navigation page, then download
    and store every pending article in the local corpus database.

OPTIONS:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
EXAMPLES:
    # Discover and crawl everything pending
    cprag crawl

    # Only refresh the URL list
    cprag crawl -discover-only

    # Pick up URLs whose previous attempt did not finish
    cprag crawl -requeue
`)
	}

	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	db, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	urls := store.NewURLStore(db)
	pages := store.NewPageStore(db)
	c := crawler.New(cfg.Crawler, urls, pages)

	ctx := context.Background()

	discovered, err := c.DiscoverURLs(ctx)
	if err != nil {
		log.Fatalf("Failed to discover URLs: %v", err)
	}
	fmt.Printf("Discovered %d new URL(s) from %s\n", len(discovered), cfg.Crawler.NavigationURL)

	if discoverOnly {
		return
	}

	pending, err := urls.ListByStatus(store.CrawlStatusPending)
	if err != nil {
		log.Fatalf("Failed to list pending URLs: %v", err)
	}
	targets := pending
	if requeue {
		queued, err := urls.ListByStatus(store.CrawlStatusQueued)
		if err != nil {
			log.Fatalf("Failed to list queued URLs: %v", err)
		}
		targets = append(targets, queued...)
	}

	if len(targets) == 0 {
		fmt.Println("Nothing to crawl")
		return
	}

	var reporter crawler.ProgressReporter
	if bar := internal.NewBarProgress(!noProgress && internal.DefaultProgressEnabled(), "crawling"); bar != nil {
		reporter = bar
	}

	stats, err := c.Crawl(ctx, targets, reporter)
	if err != nil {
		log.Fatalf("Crawl failed: %v", err)
	}

	fmt.Printf("Crawled %d URL(s): %d succeeded, %d failed\n",
		stats.Total, stats.Succeeded, stats.Failed)
}
