package reducer

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// removedSelector lists elements that never carry page content. They are
// removed with all descendants before any extraction runs.
const removedSelector = "script, style, nav, header, footer, aside, form, iframe, noscript"

// clean removes non-content elements and every comment node.
func clean(doc *goquery.Document) {
	doc.Find(removedSelector).Remove()
	for _, n := range doc.Nodes {
		removeComments(n)
	}
}

func removeComments(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.CommentNode {
			n.RemoveChild(c)
		} else {
			removeComments(c)
		}
		c = next
	}
}
