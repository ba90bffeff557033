package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/IgorPBorja/rag-for-competitive-programming/internal/config"
	"github.com/IgorPBorja/rag-for-competitive-programming/internal/store"
)

func TestURLFilter(t *testing.T) {
	filter := newURLFilter([]string{"navigation.html", "img/**", "**/*.png"})

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "article passes", url: "https://cp-algorithms.com/graph/dijkstra.html", want: true},
		{name: "navigation excluded by basename", url: "https://cp-algorithms.com/navigation.html", want: false},
		{name: "image dir excluded", url: "https://cp-algorithms.com/img/tree/diagram.svg", want: false},
		{name: "png excluded anywhere", url: "https://cp-algorithms.com/graph/flow.png", want: false},
		{name: "malformed url rejected", url: "http://%zz", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filter.ShouldCrawl(tt.url); got != tt.want {
				t.Errorf("ShouldCrawl(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}

func newCrawlTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/navigation.html", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="binary_search.html">Binary Search</a>
			<a href="dijkstra.html">Dijkstra</a>
			<a href="broken.html">Broken</a>
			<a href="#anchor">anchor</a>
		</body></html>`)
	})
	article := func(title string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<html><body><article><h1>%s</h1><p>Content about %s.</p></article></body></html>`, title, title)
		}
	}
	mux.HandleFunc("/binary_search.html", article("Binary Search"))
	mux.HandleFunc("/dijkstra.html", article("Dijkstra"))
	mux.HandleFunc("/broken.html", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusInternalServerError)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCrawler_DiscoverAndCrawl(t *testing.T) {
	srv := newCrawlTestServer(t)

	db, err := store.Open(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	defer db.Close()

	urls := store.NewURLStore(db)
	pages := store.NewPageStore(db)

	c := New(config.CrawlerConfig{
		NavigationURL: srv.URL + "/navigation.html",
		MaxPoolSize:   2,
		Exclude:       []string{"navigation.html"},
	}, urls, pages)

	discovered, err := c.DiscoverURLs(context.Background())
	if err != nil {
		t.Fatalf("DiscoverURLs() failed: %v", err)
	}
	if len(discovered) != 3 {
		t.Fatalf("DiscoverURLs() found %d urls, want 3", len(discovered))
	}

	stats, err := c.Crawl(context.Background(), discovered, nil)
	if err != nil {
		t.Fatalf("Crawl() failed: %v", err)
	}
	if stats.Succeeded != 2 {
		t.Errorf("stats.Succeeded = %d, want 2", stats.Succeeded)
	}
	if stats.Failed != 1 {
		t.Errorf("stats.Failed = %d, want 1 (server error page)", stats.Failed)
	}

	count, err := pages.Count()
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("corpus has %d pages, want 2", count)
	}

	done, err := urls.ListByStatus(store.CrawlStatusDone)
	if err != nil {
		t.Fatalf("ListByStatus() failed: %v", err)
	}
	if len(done) != 2 {
		t.Errorf("%d urls marked done, want 2", len(done))
	}

	// Re-discovery keeps existing records
	again, err := c.DiscoverURLs(context.Background())
	if err != nil {
		t.Fatalf("second DiscoverURLs() failed: %v", err)
	}
	if len(again) != 3 {
		t.Errorf("second DiscoverURLs() found %d urls, want 3", len(again))
	}
}

func TestCrawler_CrawlEmpty(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "corpus.db"))
	if err != nil {
		t.Fatalf("store.Open() failed: %v", err)
	}
	defer db.Close()

	c := New(config.CrawlerConfig{MaxPoolSize: 2}, store.NewURLStore(db), store.NewPageStore(db))

	stats, err := c.Crawl(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Crawl() failed: %v", err)
	}
	if stats.Total != 0 || stats.Succeeded != 0 || stats.Failed != 0 {
		t.Errorf("stats = %+v, want all zero", stats)
	}
}
