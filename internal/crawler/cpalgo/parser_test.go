package cpalgo

import (
	"strings"
	"testing"
)

const sampleArticle = `
<html><body>
<article>
  <nav>breadcrumbs to skip</nav>
  <p>Edit this page banner, also skipped</p>
  <h1>Binary Search</h1>
  <p>Binary search works on <strong>sorted</strong> arrays in <code>O(log n)</code> time.</p>
  <h2>Implementation</h2>
  <div class="highlight"><pre><code><span class="kt">int</span><span class="w"></span><span class="n">lo</span><span class="w"></span><span class="o">=</span><span class="w"></span><span class="mi">0</span><span class="p">;</span></code></pre></div>
  <p>See also <a href="ternary_search.html">ternary search</a>.</p>
  <ul>
    <li>lower bound</li>
    <li>upper bound</li>
  </ul>
</article>
</body></html>
`

func TestParseArticle(t *testing.T) {
	content, err := ParseArticle(strings.NewReader(sampleArticle))
	if err != nil {
		t.Fatalf("ParseArticle() failed: %v", err)
	}

	wantFragments := []string{
		"# Binary Search",
		"## Implementation",
		"**sorted**",
		"`O(log n)`",
		"```\nint lo = 0;\n```",
		"[ternary search](ternary_search.html)",
		"- lower bound",
		"- upper bound",
	}
	for _, fragment := range wantFragments {
		if !strings.Contains(content, fragment) {
			t.Errorf("ParseArticle() output missing %q\ngot:\n%s", fragment, content)
		}
	}

	if strings.Contains(content, "breadcrumbs") {
		t.Error("ParseArticle() kept content before the first h1")
	}
	if strings.Contains(content, "Edit this page") {
		t.Error("ParseArticle() kept pre-title banner content")
	}
}

func TestParseArticle_NoArticleTag(t *testing.T) {
	_, err := ParseArticle(strings.NewReader("<html><body><p>nothing here</p></body></html>"))
	if err == nil {
		t.Error("ParseArticle() succeeded without an article tag, want error")
	}
}

func TestParseNavigation(t *testing.T) {
	nav := `
<html><body>
<nav>
  <a href="num_methods/binary_search.html">Binary Search</a>
  <a href="graph/dijkstra.html">Dijkstra</a>
  <a href="graph/dijkstra.html">Dijkstra duplicate</a>
  <a href="#section">anchor link</a>
  <a href="https://github.com/cp-algorithms">external</a>
  <a href="https://cp-algorithms.com/string/prefix-function.html">Prefix function</a>
</nav>
</body></html>
`
	links, err := ParseNavigation(strings.NewReader(nav))
	if err != nil {
		t.Fatalf("ParseNavigation() failed: %v", err)
	}

	want := map[string]string{
		"num_methods/binary_search.html":                        "Binary Search",
		"graph/dijkstra.html":                                   "Dijkstra",
		"https://cp-algorithms.com/string/prefix-function.html": "Prefix function",
	}
	if len(links) != len(want) {
		t.Fatalf("ParseNavigation() returned %d links, want %d: %v", len(links), len(want), links)
	}
	for _, link := range links {
		title, ok := want[link.Href]
		if !ok {
			t.Errorf("unexpected link %q", link.Href)
			continue
		}
		if link.Title != title {
			t.Errorf("link %q has title %q, want %q", link.Href, link.Title, title)
		}
	}
}

func TestIsArticleHref(t *testing.T) {
	tests := []struct {
		name string
		href string
		want bool
	}{
		{name: "relative article", href: "graph/dijkstra.html", want: true},
		{name: "absolute same site", href: "https://cp-algorithms.com/graph/dijkstra.html", want: true},
		{name: "with fragment", href: "graph/dijkstra.html#proof", want: true},
		{name: "anchor only", href: "#toc", want: false},
		{name: "external site", href: "https://codeforces.com/blog/1", want: false},
		{name: "non-html", href: "img/tree.png", want: false},
		{name: "empty", href: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isArticleHref(tt.href); got != tt.want {
				t.Errorf("isArticleHref(%q) = %v, want %v", tt.href, got, tt.want)
			}
		})
	}
}
