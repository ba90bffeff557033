// Package crawler fetches cp-algorithms articles into the corpus store.
package crawler

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/IgorPBorja/rag-for-competitive-programming/internal/config"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/crawler/cpalgo"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
)

// ProgressReporter receives crawl progress, one increment per finished URL
type ProgressReporter interface {
	Start(total int)
	Increment()
	Finish()
}

// Stats summarizes one crawl run
type Stats struct {
	Total     int
	Succeeded int
	Failed    int
	Skipped   int
}

// Crawler downloads article pages and stores their markdown content.
// HTTP fetching and parsing run on a bounded worker pool; all store writes
// happen on the caller's goroutine.
type Crawler struct {
	cfg    config.CrawlerConfig
	urls   *store.URLStore
	pages  *store.PageStore
	filter *urlFilter
	client *http.Client
}

// New creates a crawler over the given stores.
func New(cfg config.CrawlerConfig, urls *store.URLStore, pages *store.PageStore) *Crawler {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Crawler{
		cfg:    cfg,
		urls:   urls,
		pages:  pages,
		filter: newURLFilter(cfg.Exclude),
		client: &http.Client{Timeout: timeout},
	}
}

// DiscoverURLs fetches the navigation page and registers every article link
// as a pending URL. Already-known URLs keep their crawl status.
func (c *Crawler) DiscoverURLs(ctx context.Context) ([]store.URL, error) {
	body, err := c.fetch(ctx, c.cfg.NavigationURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch navigation page: %w", err)
	}

	links, err := cpalgo.ParseNavigation(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(c.cfg.NavigationURL)
	if err != nil {
		return nil, fmt.Errorf("invalid navigation url: %w", err)
	}

	var discovered []store.URL
	for _, link := range links {
		resolved, err := resolveLink(base, link.Href)
		if err != nil {
			log.Printf("Skipping malformed link %q: %v", link.Href, err)
			continue
		}
		if !c.filter.ShouldCrawl(resolved) {
			continue
		}

		item, created, err := c.urls.GetOrCreate(resolved, link.Title)
		if err != nil {
			return nil, err
		}
		if created {
			log.Printf("Discovered %s", resolved)
		}
		discovered = append(discovered, *item)
	}

	return discovered, nil
}

// crawlResult carries one fetched-and-parsed page back to the storing loop
type crawlResult struct {
	url     store.URL
	content string
	err     error
}

// Crawl downloads the given URLs with a bounded worker pool, parses each
// article to markdown and stores it as a page. Per-URL failures are logged
// and counted, never fatal to the run.
func (c *Crawler) Crawl(ctx context.Context, urls []store.URL, reporter ProgressReporter) (*Stats, error) {
	stats := &Stats{Total: len(urls)}
	if len(urls) == 0 {
		return stats, nil
	}

	for _, item := range urls {
		if err := c.urls.SetStatus(item.ID, store.CrawlStatusQueued); err != nil {
			return nil, err
		}
	}

	if reporter != nil {
		reporter.Start(len(urls))
		defer reporter.Finish()
	}

	workers := c.cfg.MaxPoolSize
	if workers <= 0 {
		workers = 1
	}
	if workers > len(urls) {
		workers = len(urls)
	}

	jobs := make(chan store.URL, workers*2)
	results := make(chan crawlResult, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				content, err := c.fetchArticle(ctx, item.URL)
				results <- crawlResult{url: item, content: content, err: err}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, item := range urls {
			select {
			case jobs <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		if reporter != nil {
			reporter.Increment()
		}
		if res.err != nil {
			stats.Failed++
			log.Printf("Crawling url=%q went wrong: %v", res.url.URL, res.err)
			continue
		}

		page := &store.Page{
			URLID:    res.url.ID,
			Content:  res.content,
			PageType: store.PageTypeCPAlgo,
		}
		if err := c.pages.Insert(page); err != nil {
			stats.Failed++
			log.Printf("Failed to store page for url=%q: %v", res.url.URL, err)
			continue
		}
		if err := c.urls.SetStatus(res.url.ID, store.CrawlStatusDone); err != nil {
			log.Printf("Failed to mark url=%q done: %v", res.url.URL, err)
		}
		stats.Succeeded++
	}

	log.Printf("Crawled %d URLs: %d OK, %d failed", stats.Total, stats.Succeeded, stats.Failed)
	return stats, ctx.Err()
}

// fetchArticle downloads one article page and converts it to markdown
func (c *Crawler) fetchArticle(ctx context.Context, rawURL string) (string, error) {
	body, err := c.fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return cpalgo.ParseArticle(strings.NewReader(body))
}

// fetch performs one GET request and returns the response body
func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d for %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}

// resolveLink resolves an article href against the navigation page URL
func resolveLink(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawQuery = ""
	return resolved.String(), nil
}
