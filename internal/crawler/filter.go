package crawler

import (
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// urlFilter decides which discovered URLs get crawled, based on doublestar
// glob patterns matched against the URL path.
type urlFilter struct {
	exclude []string
}

func newURLFilter(exclude []string) *urlFilter {
	return &urlFilter{exclude: exclude}
}

// ShouldCrawl reports whether a URL passes the exclude patterns. Patterns are
// matched against the path with the leading slash stripped, and against the
// final path segment.
func (f *urlFilter) ShouldCrawl(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	path := strings.TrimPrefix(parsed.Path, "/")
	base := path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		base = path[i+1:]
	}

	for _, pattern := range f.exclude {
		if matched, _ := doublestar.Match(pattern, path); matched {
			return false
		}
		if matched, _ := doublestar.Match(pattern, base); matched {
			return false
		}
	}
	return true
}
