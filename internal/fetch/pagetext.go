package fetch

import (
	"strings"

	markdown "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/net/html"
)

const pageTextMax = 300

// noiseTags never contribute readable page text.
var noiseTags = map[string]struct{}{
	"head":     {},
	"iframe":   {},
	"noscript": {},
	"object":   {},
	"script":   {},
	"style":    {},
	"svg":      {},
	"template": {},
}

// PageRenderer turns an HTML response that parsed to no entries into a line
// of readable text for the attempt log.
type PageRenderer struct {
	converter *markdown.Converter
}

func NewPageRenderer() *PageRenderer {
	return &PageRenderer{converter: markdown.NewConverter("", true, nil)}
}

// Text returns at most max runes of the page's visible text rendered as
// markdown on a single line. Non-HTML bodies yield "".
func (r *PageRenderer) Text(body, contentType string, max int) string {
	if !looksLikeHTML(body, contentType) {
		return ""
	}
	visible := stripNoise(body)
	if strings.TrimSpace(visible) == "" {
		return ""
	}
	out, err := r.converter.ConvertString(visible)
	if err != nil {
		out = visible
	}
	return prefix(compactText(out, 0), max)
}

func stripNoise(raw string) string {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	var body *html.Node
	eachElement(doc, "body", func(n *html.Node) bool {
		body = n
		return false
	})
	if body == nil {
		return ""
	}
	dropNoise(body)

	var b strings.Builder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&b, c)
	}
	return b.String()
}

func dropNoise(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case html.CommentNode:
			n.RemoveChild(c)
		case html.ElementNode:
			if _, noisy := noiseTags[strings.ToLower(c.Data)]; noisy {
				n.RemoveChild(c)
			} else {
				dropNoise(c)
			}
		}
		c = next
	}
}
