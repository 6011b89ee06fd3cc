package analyzer

import (
	"testing"
)

func TestAnalyzeFullDocument(t *testing.T) {
	htmlContent := `
<!DOCTYPE html>
<html>
<head>
	<title> My Page </title>
	<meta name="keywords" content="go, web, metrics">
	<link rel="shortcut icon" href="/f.ico">
	<script src="/js/app.js"></script>
	<script src="https://cdn.example.net/lib.js"></script>
	<script>var inline = true;</script>
</head>
<body>
	<h1>Heading One</h1>
	<h2>First Section</h2>
	<h2>Second Section</h2>
	<h3>Detail</h3>
	<p>Some body content here</p>
	<a href="/about">About</a>
	<a href="https://example.com/contact">Contact</a>
	<a href="https://external.org/page">Elsewhere</a>
	<a href="#top">Top</a>
	<a href="mailto:info@example.com">Mail</a>
	<img src="/a.png">
	<img src="/b.png" alt="">
	<img src="/c.png" alt="described">
</body>
</html>
`

	a, err := NewHTMLAnalyzer("https://example.com")
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	m, err := a.Analyze([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}

	if m.TitleLength != 7 {
		t.Errorf("Expected title length 7 (trimmed 'My Page'), got %d", m.TitleLength)
	}

	if m.MetaKeywordsCount != 3 {
		t.Errorf("Expected 3 meta keywords, got %d", m.MetaKeywordsCount)
	}

	if !m.HasFavicon {
		t.Error("Expected favicon to be detected")
	}

	// One of two sourced scripts is external; the inline script does not count
	if m.ExternalScriptRatio != 50.0 {
		t.Errorf("Expected external script ratio 50.0, got %v", m.ExternalScriptRatio)
	}

	if m.H1Count != 1 || m.H2Count != 2 || m.H3Count != 1 {
		t.Errorf("Expected heading counts 1/2/1, got %d/%d/%d", m.H1Count, m.H2Count, m.H3Count)
	}

	// Fragment and mailto links are not counted at all
	if m.InternalLinks != 2 {
		t.Errorf("Expected 2 internal links, got %d", m.InternalLinks)
	}
	if m.ExternalLinks != 1 {
		t.Errorf("Expected 1 external link, got %d", m.ExternalLinks)
	}

	if m.ImagesWithoutAlt != 2 {
		t.Errorf("Expected 2 images without alt, got %d", m.ImagesWithoutAlt)
	}

	// Heading and paragraph text: 2+2+2+1+4+anchor texts 1+1+1+1+1
	if m.WordCount == 0 {
		t.Error("Expected non-zero word count")
	}
}

func TestAnalyzeWordCount(t *testing.T) {
	a, err := NewHTMLAnalyzer("https://example.com")
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	m, err := a.Analyze([]byte("<p>Hello   world</p>"))
	if err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}

	if m.WordCount != 2 {
		t.Errorf("Expected word count 2, got %d", m.WordCount)
	}
}

func TestAnalyzeWordCountExcludesHeadAndScripts(t *testing.T) {
	htmlContent := `
<html>
<head><title>Example Domain</title><style>body { color: red; }</style></head>
<body>
	<p>visible words only</p>
	<script>var hidden = "not words";</script>
</body>
</html>
`

	a, err := NewHTMLAnalyzer("https://example.com")
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	m, err := a.Analyze([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}

	if m.WordCount != 3 {
		t.Errorf("Expected word count 3, got %d", m.WordCount)
	}
}

func TestAnalyzeReferenceDocument(t *testing.T) {
	// The canonical example.com-style document
	htmlContent := `<html><head><title>Example Domain</title></head><body><p>Example Domain</p></body></html>`

	a, err := NewHTMLAnalyzer("https://example.com")
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	m, err := a.Analyze([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}

	if m.TitleLength != 14 {
		t.Errorf("Expected title length 14, got %d", m.TitleLength)
	}
	if m.WordCount != 2 {
		t.Errorf("Expected word count 2, got %d", m.WordCount)
	}
	if m.H1Count != 0 {
		t.Errorf("Expected 0 h1 elements, got %d", m.H1Count)
	}
	if m.HasFavicon {
		t.Error("Expected no favicon")
	}
	if m.ImagesWithoutAlt != 0 {
		t.Errorf("Expected 0 images without alt, got %d", m.ImagesWithoutAlt)
	}
}

func TestAnalyzeScriptRatioNoScripts(t *testing.T) {
	a, err := NewHTMLAnalyzer("https://example.com")
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	m, err := a.Analyze([]byte("<html><body><p>No scripts here</p></body></html>"))
	if err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}

	if m.ExternalScriptRatio != 0 {
		t.Errorf("Expected script ratio 0 with no sourced scripts, got %v", m.ExternalScriptRatio)
	}
}

func TestAnalyzeExactHostComparison(t *testing.T) {
	// A host that merely contains the site's domain as a substring must
	// still classify as external.
	htmlContent := `
<body>
	<a href="https://example.com.evil.com/login">Phish</a>
	<a href="https://example.com/safe">Safe</a>
</body>
`

	a, err := NewHTMLAnalyzer("https://example.com")
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	m, err := a.Analyze([]byte(htmlContent))
	if err != nil {
		t.Fatalf("Failed to analyze: %v", err)
	}

	if m.InternalLinks != 1 {
		t.Errorf("Expected 1 internal link, got %d", m.InternalLinks)
	}
	if m.ExternalLinks != 1 {
		t.Errorf("Expected 1 external link, got %d", m.ExternalLinks)
	}
}

func TestAnalyzeMetaKeywordsEdgeCases(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected int
	}{
		{"no meta keywords", `<html><head></head></html>`, 0},
		{"empty content", `<meta name="keywords" content="">`, 0},
		{"trailing comma", `<meta name="keywords" content="a, b,">`, 2},
		{"single keyword", `<meta name="keywords" content="seo">`, 1},
	}

	a, err := NewHTMLAnalyzer("https://example.com")
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := a.Analyze([]byte(tt.html))
			if err != nil {
				t.Fatalf("Failed to analyze: %v", err)
			}
			if m.MetaKeywordsCount != tt.expected {
				t.Errorf("Expected %d keywords, got %d", tt.expected, m.MetaKeywordsCount)
			}
		})
	}
}

func TestAnalyzeMalformedHTML(t *testing.T) {
	a, err := NewHTMLAnalyzer("https://example.com")
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	// Unclosed tags and stray markup must degrade to defaults, not fail
	m, err := a.Analyze([]byte("<div><p>broken <a href='/x'>link"))
	if err != nil {
		t.Fatalf("Expected graceful parse of malformed HTML, got error: %v", err)
	}

	if m.WordCount != 2 {
		t.Errorf("Expected word count 2, got %d", m.WordCount)
	}
	if m.InternalLinks != 1 {
		t.Errorf("Expected 1 internal link, got %d", m.InternalLinks)
	}
	if m.TitleLength != 0 {
		t.Errorf("Expected title length 0, got %d", m.TitleLength)
	}
}

func TestAnalyzeEmptyDocument(t *testing.T) {
	a, err := NewHTMLAnalyzer("https://example.com")
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}

	m, err := a.Analyze([]byte(""))
	if err != nil {
		t.Fatalf("Failed to analyze empty document: %v", err)
	}

	if m.TitleLength != 0 || m.WordCount != 0 || m.InternalLinks != 0 ||
		m.ExternalLinks != 0 || m.HasFavicon || m.ExternalScriptRatio != 0 {
		t.Errorf("Expected zero-valued metrics for empty document, got %+v", m)
	}
}

func TestNewHTMLAnalyzerInvalidBase(t *testing.T) {
	if _, err := NewHTMLAnalyzer("not-a-url"); err == nil {
		t.Error("Expected error for base URL without host")
	}
}
