// Package reducer turns fetched HTML into cleaned content, page metadata and
// a main-content excerpt. Documents are parsed with golang.org/x/net/html via
// goquery; scripts are stripped as opaque text and never executed.
package reducer

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"safefetch/internal/usecase/fetch"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Option configures an HTMLReducer.
type Option func(*HTMLReducer)

// WithReadabilityFallback enables Mozilla Readability extraction when none of
// the main-content selectors match.
func WithReadabilityFallback(enabled bool) Option {
	return func(r *HTMLReducer) {
		r.readabilityFallback = enabled
	}
}

// HTMLReducer implements fetch.Reducer.
//
// Thread safety: HTMLReducer is stateless after construction and safe for concurrent use.
type HTMLReducer struct {
	readabilityFallback bool
}

// New creates an HTMLReducer.
func New(opts ...Option) *HTMLReducer {
	r := &HTMLReducer{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reduce cleans body and extracts metadata, content and main content.
//
// The body is decoded using the charset declared in contentType (or sniffed
// from the document) before parsing. Malformed markup is recovered by the
// parser. Non-HTML bodies go through the same pipeline and yield little text.
func (r *HTMLReducer) Reduce(body []byte, contentType string, opts fetch.ReduceOptions) (*fetch.Reduction, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return &fetch.Reduction{Keywords: []string{}}, nil
	}

	reader, err := charset.NewReader(bytes.NewReader(body), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	clean(doc)

	meta := extractMetadata(doc)
	out := &fetch.Reduction{
		Title:       meta.title,
		Description: meta.description,
		Keywords:    meta.keywords,
	}

	cleanedHTML, err := doc.Html()
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}

	switch {
	case opts.TextOnly:
		out.Content = VisibleText(textRoot(doc))
	case opts.Markdown:
		out.Content, err = toMarkdown(cleanedHTML, opts)
		if err != nil {
			return nil, err
		}
	default:
		out.Content = cleanedHTML
	}

	if opts.ExtractMainContent {
		out.MainContent = r.mainContent(doc, cleanedHTML, opts)
	}

	return out, nil
}

func toMarkdown(cleanedHTML string, opts fetch.ReduceOptions) (string, error) {
	var convOpts []converter.ConvertOptionFunc
	if opts.PageURL != nil {
		convOpts = append(convOpts, converter.WithDomain(opts.PageURL.Scheme+"://"+opts.PageURL.Host))
	}
	md, err := htmltomarkdown.ConvertString(cleanedHTML, convOpts...)
	if err != nil {
		slog.Debug("markdown conversion failed", slog.Any("error", err))
		return "", fmt.Errorf("convert to markdown: %w", err)
	}
	return strings.TrimSpace(md), nil
}
