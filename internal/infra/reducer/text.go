package reducer

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockElements start a new line in extracted text.
var blockElements = map[string]bool{
	"p": true, "div": true, "article": true, "section": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "br": true, "hr": true,
	"blockquote": true, "pre": true, "table": true, "tr": true,
	"dl": true, "dt": true, "dd": true, "figure": true, "figcaption": true,
}

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n(\s*\n)+`)

	angleEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")
)

// textRoot returns the body element, or the document root if there is none.
func textRoot(doc *goquery.Document) *html.Node {
	if body := doc.Find("body"); body.Length() > 0 {
		return body.Nodes[0]
	}
	return doc.Nodes[0]
}

// VisibleText extracts the text of n and its descendants, skipping hidden
// subtrees, breaking lines at block elements and normalizing whitespace.
func VisibleText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	writeVisibleText(&sb, n)
	return Normalize(sb.String())
}

func writeVisibleText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(angleEscaper.Replace(n.Data))
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if isHidden(n) {
			return
		}
		if blockElements[n.Data] {
			sb.WriteByte('\n')
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeVisibleText(sb, c)
	}
}

// isHidden reports whether the inline style hides the element. Only the
// spellings "display: none" and "visibility: hidden" are recognized; a value
// written without the space after the colon is treated as visible.
func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Namespace != "" || !strings.EqualFold(a.Key, "style") {
			continue
		}
		style := strings.ToLower(a.Val)
		if strings.Contains(style, "display: none") || strings.Contains(style, "visibility: hidden") {
			return true
		}
	}
	return false
}

// Normalize collapses runs of spaces and tabs to one space and runs of blank
// lines to a single newline, then trims the result. It is idempotent.
func Normalize(s string) string {
	s = spaceRun.ReplaceAllString(s, " ")
	s = newlineRun.ReplaceAllString(s, "\n")
	return strings.TrimSpace(s)
}
