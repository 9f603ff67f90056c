package reducer

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type metadata struct {
	title       string
	description string
	keywords    []string
}

func extractMetadata(doc *goquery.Document) metadata {
	m := metadata{
		title:    strings.TrimSpace(doc.Find("title").First().Text()),
		keywords: []string{},
	}

	var haveDescription, haveKeywords bool
	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		content, _ := s.Attr("content")
		switch {
		case !haveDescription && strings.EqualFold(name, "description"):
			m.description = content
			haveDescription = true
		case !haveKeywords && strings.EqualFold(name, "keywords"):
			m.keywords = splitKeywords(content)
			haveKeywords = true
		}
	})

	return m
}

// splitKeywords splits a comma-separated list, trimming pieces and dropping
// empty ones. Order and duplicates are preserved.
func splitKeywords(s string) []string {
	out := []string{}
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
