// Package analyzer derives content and structure metrics from HTML documents.
// A document is parsed once and all metrics are computed from the same tree,
// independently of each other.
package analyzer

import (
	"bytes"
	"fmt"
	"math"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Metrics is the fixed set of per-page content metrics.
type Metrics struct {
	TitleLength         int     // Length of the trimmed <title> text, 0 if absent
	WordCount           int     // Whitespace-delimited tokens in visible body text
	InternalLinks       int     // Anchors whose resolved host matches the site host
	ExternalLinks       int     // Anchors whose resolved host differs
	ImagesWithoutAlt    int     // <img> elements lacking a non-empty alt attribute
	ExternalScriptRatio float64 // Percentage of <script src> on foreign hosts, 0-100
	H1Count             int
	H2Count             int
	H3Count             int
	HasFavicon          bool // Any <link rel> containing "icon"
	MetaKeywordsCount   int  // Non-empty comma-separated tokens in <meta name="keywords">
}

// HTMLAnalyzer computes Metrics for documents belonging to one site.
type HTMLAnalyzer struct {
	baseURL *url.URL
}

// NewHTMLAnalyzer creates an analyzer that classifies links and scripts as
// internal or external relative to the given base URL's host.
func NewHTMLAnalyzer(baseURL string) (*HTMLAnalyzer, error) {
	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if parsedURL.Host == "" {
		return nil, fmt.Errorf("base URL %q has no host", baseURL)
	}

	return &HTMLAnalyzer{baseURL: parsedURL}, nil
}

// Analyze parses the HTML once and derives all metrics. Malformed markup
// degrades to zero values for the affected fields; it is never an error.
func (a *HTMLAnalyzer) Analyze(body []byte) (*Metrics, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	c := &counts{}
	a.traverse(doc, c, false)

	m := &Metrics{
		TitleLength:       c.titleLength,
		WordCount:         c.wordCount,
		InternalLinks:     c.internalLinks,
		ExternalLinks:     c.externalLinks,
		ImagesWithoutAlt:  c.imagesWithoutAlt,
		H1Count:           c.h1Count,
		H2Count:           c.h2Count,
		H3Count:           c.h3Count,
		HasFavicon:        c.hasFavicon,
		MetaKeywordsCount: c.metaKeywordsCount,
	}

	// Percentage of externally hosted scripts, 0 when the page has no
	// <script src> at all
	if c.scriptsTotal > 0 {
		ratio := float64(c.scriptsExternal) / float64(c.scriptsTotal) * 100
		m.ExternalScriptRatio = math.Round(ratio*100) / 100
	}

	return m, nil
}

// counts accumulates raw tallies during the tree walk
type counts struct {
	titleLength       int
	wordCount         int
	internalLinks     int
	externalLinks     int
	imagesWithoutAlt  int
	scriptsTotal      int
	scriptsExternal   int
	h1Count           int
	h2Count           int
	h3Count           int
	hasFavicon        bool
	metaKeywordsCount int
}

// traverse recursively walks the HTML tree. inBody tracks whether the node
// is inside <body>; only body text counts toward the word count.
func (a *HTMLAnalyzer) traverse(n *html.Node, c *counts, inBody bool) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "body":
			inBody = true

		case "title":
			c.titleLength = len(strings.TrimSpace(extractText(n)))

		case "meta":
			a.parseMeta(n, c)

		case "link":
			a.parseLinkRel(n, c)

		case "a":
			a.parseAnchor(n, c)

		case "img":
			if strings.TrimSpace(attrValue(n, "alt")) == "" {
				c.imagesWithoutAlt++
			}

		case "script":
			a.parseScript(n, c)
			return // script text is not visible content

		case "style":
			return

		case "h1":
			c.h1Count++
		case "h2":
			c.h2Count++
		case "h3":
			c.h3Count++
		}
	}

	if n.Type == html.TextNode && inBody {
		c.wordCount += len(strings.Fields(n.Data))
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		a.traverse(child, c, inBody)
	}
}

// parseMeta counts keyword tokens from meta keywords tags
func (a *HTMLAnalyzer) parseMeta(n *html.Node, c *counts) {
	if !strings.EqualFold(attrValue(n, "name"), "keywords") {
		return
	}

	for _, token := range strings.Split(attrValue(n, "content"), ",") {
		if strings.TrimSpace(token) != "" {
			c.metaKeywordsCount++
		}
	}
}

// parseLinkRel detects favicon declarations
func (a *HTMLAnalyzer) parseLinkRel(n *html.Node, c *counts) {
	rel := strings.ToLower(attrValue(n, "rel"))
	if strings.Contains(rel, "icon") {
		c.hasFavicon = true
	}
}

// parseAnchor classifies anchor targets as internal or external by exact
// host comparison after resolving against the base URL. Fragment-only and
// non-HTTP pseudo-links are ignored.
func (a *HTMLAnalyzer) parseAnchor(n *html.Node, c *counts) {
	href := attrValue(n, "href")
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
		return
	}

	if a.isExternal(href) {
		c.externalLinks++
	} else {
		c.internalLinks++
	}
}

// parseScript tallies script elements that load from a src
func (a *HTMLAnalyzer) parseScript(n *html.Node, c *counts) {
	src := attrValue(n, "src")
	if src == "" {
		return
	}

	c.scriptsTotal++
	if a.isExternal(src) {
		c.scriptsExternal++
	}
}

// isExternal reports whether the reference resolves to a host other than
// the base URL's. Hosts are compared exactly, not by substring, so
// "example.com.evil.com" never passes as internal for "example.com".
func (a *HTMLAnalyzer) isExternal(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}

	resolved := a.baseURL.ResolveReference(u)
	return resolved.Host != a.baseURL.Host
}

// attrValue returns the value of the named attribute, or ""
func attrValue(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// extractText recursively extracts text content from a node
func extractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}

	var parts []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if text := extractText(c); text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, " ")
}
