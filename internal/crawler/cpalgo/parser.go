// Package cpalgo parses cp-algorithms.com pages: the navigation page into
// article links and article pages into markdown suitable for embedding.
package cpalgo

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Link is one article reference found on the navigation page
type Link struct {
	Href  string
	Title string
}

// ParseNavigation extracts article links from the navigation page. Only
// same-site .html links are returned; anchors and external links are skipped.
func ParseNavigation(r io.Reader) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse navigation html: %w", err)
	}

	var links []Link
	seen := make(map[string]bool)

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			href := attr(n, "href")
			if isArticleHref(href) && !seen[href] {
				seen[href] = true
				links = append(links, Link{
					Href:  href,
					Title: strings.TrimSpace(textContent(n)),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

// isArticleHref reports whether an href points at an article page
func isArticleHref(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return false
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		if !strings.Contains(href, "cp-algorithms.com") {
			return false
		}
	}
	// Strip fragment and query before checking the extension
	if i := strings.IndexAny(href, "#?"); i >= 0 {
		href = href[:i]
	}
	return strings.HasSuffix(href, ".html")
}

// ParseArticle converts an article page to markdown. The main content lives
// in the <article> tag; everything before the first h1 is navigation noise
// and is dropped.
func ParseArticle(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse article html: %w", err)
	}

	article := findElement(doc, "article")
	if article == nil {
		return "", fmt.Errorf("no article tag found")
	}

	var b strings.Builder
	started := false
	for c := article.FirstChild; c != nil; c = c.NextSibling {
		if !started {
			if c.Type == html.ElementNode && c.Data == "h1" {
				started = true
			} else {
				continue
			}
		}
		renderBlock(&b, c)
	}

	content := collapseBlankLines(b.String())
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("article has no content after first h1")
	}
	return content, nil
}

// renderBlock writes one block-level node as markdown
func renderBlock(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		b.WriteString(strings.Repeat("#", level))
		b.WriteString(" ")
		b.WriteString(strings.TrimSpace(renderInline(n)))
		b.WriteString("\n\n")
	case "p":
		text := strings.TrimSpace(renderInline(n))
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	case "div":
		if hasClass(n, "highlight") {
			renderCodeBlock(b, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderBlock(b, c)
		}
	case "pre":
		renderCodeBlock(b, n)
	case "ul", "ol":
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == "li" {
				b.WriteString("- ")
				b.WriteString(strings.TrimSpace(renderInline(c)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	case "table", "blockquote", "section", "details":
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			renderBlock(b, c)
		}
	case "script", "style", "nav", "footer":
		// skip
	default:
		text := strings.TrimSpace(renderInline(n))
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n\n")
		}
	}
}

// renderCodeBlock writes a highlighted code block as a fenced markdown block.
// Syntax highlighting wraps every token in a span; spans with class "w" are
// whitespace.
func renderCodeBlock(b *strings.Builder, n *html.Node) {
	code := findElement(n, "code")
	if code == nil {
		code = n
	}

	var tokens []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			tokens = append(tokens, n.Data)
		case n.Type == html.ElementNode && n.Data == "span" && hasClass(n, "w"):
			tokens = append(tokens, " ")
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	}
	for c := code.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}

	b.WriteString("```\n")
	b.WriteString(strings.TrimRight(strings.Join(tokens, ""), "\n"))
	b.WriteString("\n```\n\n")
}

// renderInline flattens inline content to markdown text
func renderInline(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "a":
			b.WriteString("[")
			b.WriteString(textContent(n))
			b.WriteString("](")
			b.WriteString(attr(n, "href"))
			b.WriteString(")")
		case n.Type == html.ElementNode && n.Data == "code":
			b.WriteString("`")
			b.WriteString(textContent(n))
			b.WriteString("`")
		case n.Type == html.ElementNode && (n.Data == "strong" || n.Data == "b"):
			b.WriteString("**")
			b.WriteString(textContent(n))
			b.WriteString("**")
		case n.Type == html.ElementNode && (n.Data == "em" || n.Data == "i"):
			b.WriteString("*")
			b.WriteString(textContent(n))
			b.WriteString("*")
		case n.Type == html.ElementNode && n.Data == "script":
			// skip
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c)
	}
	return b.String()
}

// textContent returns the concatenated text of a subtree
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// findElement returns the first element with the given tag in a subtree
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// attr returns the value of an attribute, empty when absent
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// hasClass reports whether an element carries a CSS class
func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

// collapseBlankLines squeezes runs of blank lines down to one
func collapseBlankLines(s string) string {
	for strings.Contains(s, "\n\n\n") {
		s = strings.ReplaceAll(s, "\n\n\n", "\n\n")
	}
	return strings.TrimSpace(s) + "\n"
}
