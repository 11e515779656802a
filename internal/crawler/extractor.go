package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// MainContentNotFound is returned in place of a body when a page has no usable content root.
const MainContentNotFound = "Main content not found"

const (
	bulkHeader     = "### Bulk:\n\n"
	metadataHeader = "\n\n### Metadata:\n\n"

	noiseSelector = "script, style, meta, link, header, nav, footer"
	blockSelector = "p, h1, h2, h3, h4, h5, h6, li"
	spanSelector  = "span, a"
)

// Normalize strips structural boilerplate from markup and renders the remaining
// narrative as a Bulk section followed by a Metadata section of span and link text.
func Normalize(markup string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return "", err
	}

	doc.Find(noiseSelector).Remove()
	removeComments(doc.Selection)

	root := doc.Find("main").First()
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		return MainContentNotFound, nil
	}

	blocks := collectText(root.Find(blockSelector))
	spans := collectText(root.Find(spanSelector))
	// The parser synthesizes a body for any input, so a page with nothing
	// but chrome, or text only outside blocks and spans, lands here too.
	if len(blocks) == 0 && len(spans) == 0 {
		return MainContentNotFound, nil
	}

	var sb strings.Builder
	sb.WriteString(bulkHeader)
	sb.WriteString(strings.Join(blocks, "\n\n"))
	sb.WriteString(metadataHeader)
	sb.WriteString(strings.Join(spans, "\n"))
	return sb.String(), nil
}

func collectText(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if text := nodeText(s); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// nodeText joins every descendant text token with a single space.
func nodeText(s *goquery.Selection) string {
	var tokens []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			tokens = append(tokens, strings.Fields(n.Data)...)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return strings.Join(tokens, " ")
}

func removeComments(s *goquery.Selection) {
	var comments []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode {
			comments = append(comments, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	for _, c := range comments {
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
	}
}
