package reducer

import (
	"log/slog"
	"net/url"
	"strings"

	"safefetch/internal/usecase/fetch"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// mainContentSelectors are tried in order; the first that matches wins.
var mainContentSelectors = []string{
	"article",
	"main",
	`[class="content"]`,
	`[id="content"]`,
}

// mainContent returns the visible text (text-only mode) or inner HTML of the
// first element matched by the highest-priority selector. It returns "" when
// nothing matches, unless the readability fallback is enabled.
func (r *HTMLReducer) mainContent(doc *goquery.Document, cleanedHTML string, opts fetch.ReduceOptions) string {
	for _, sel := range mainContentSelectors {
		match := doc.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		if opts.TextOnly {
			return VisibleText(match.Nodes[0])
		}
		inner, err := match.Html()
		if err != nil {
			slog.Debug("render main content failed", slog.String("selector", sel), slog.Any("error", err))
			return ""
		}
		return strings.TrimSpace(inner)
	}

	if r.readabilityFallback {
		return readabilityContent(cleanedHTML, opts)
	}
	return ""
}

// readabilityContent runs Mozilla Readability over the cleaned document.
// Failures yield "" rather than an error.
func readabilityContent(cleanedHTML string, opts fetch.ReduceOptions) string {
	pageURL := opts.PageURL
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(cleanedHTML), pageURL)
	if err != nil {
		slog.Debug("readability extraction failed", slog.Any("error", err))
		return ""
	}
	if opts.TextOnly {
		return Normalize(angleEscaper.Replace(article.TextContent))
	}
	return strings.TrimSpace(article.Content)
}
