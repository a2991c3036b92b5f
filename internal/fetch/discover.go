package fetch

import (
	"bytes"
	"net/url"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// FeedHints lists feed links advertised by an HTML page (<link
// rel="alternate" type="application/rss+xml" ...>), resolved against pageURL.
// The resolver only reports them; they are never fetched.
func FeedHints(body, contentType, pageURL string) []string {
	if !looksLikeHTML(body, contentType) {
		return nil
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	return discoverFeedCandidates([]byte(body), base)
}

func looksLikeHTML(body, contentType string) bool {
	if strings.Contains(strings.ToLower(contentType), "html") {
		return true
	}
	head := strings.ToLower(prefix(strings.TrimSpace(body), 512))
	return strings.HasPrefix(head, "<!doctype html") || strings.Contains(head, "<html")
}

func discoverFeedCandidates(body []byte, page *url.URL) []string {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	base := page
	if href := firstBaseHref(root); href != "" {
		if u, err := url.Parse(href); err == nil {
			base = page.ResolveReference(u)
		}
	}

	var hints []string
	seen := map[string]struct{}{}
	eachElement(root, "link", func(n *html.Node) bool {
		href, ok := alternateFeedHref(n)
		if !ok {
			return true
		}
		u, err := url.Parse(href)
		if err != nil {
			return true
		}
		abs := base.ResolveReference(u).String()
		if _, dup := seen[abs]; !dup {
			seen[abs] = struct{}{}
			hints = append(hints, abs)
		}
		return true
	})
	return hints
}

// eachElement visits element nodes named tag in document order until visit
// returns false.
func eachElement(n *html.Node, tag string, visit func(*html.Node) bool) bool {
	if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
		if !visit(n) {
			return false
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !eachElement(c, tag, visit) {
			return false
		}
	}
	return true
}

func firstBaseHref(root *html.Node) string {
	var href string
	eachElement(root, "base", func(n *html.Node) bool {
		href = strings.TrimSpace(attr(n, "href"))
		return href == ""
	})
	return href
}

func alternateFeedHref(n *html.Node) (string, bool) {
	rel := strings.Fields(strings.ToLower(attr(n, "rel")))
	alternate := false
	for _, token := range rel {
		if token == "alternate" {
			alternate = true
		}
	}
	href := strings.TrimSpace(attr(n, "href"))
	if !alternate || href == "" {
		return "", false
	}
	typ := strings.ToLower(strings.TrimSpace(attr(n, "type")))
	// WordPress advertises its REST API as application/json alternates.
	if typ == "application/json" && strings.Contains(strings.ToLower(href), "/wp-json/") {
		return "", false
	}
	return href, isFeedType(typ, href)
}

func isFeedType(typ, href string) bool {
	switch typ {
	case "application/rss+xml", "application/atom+xml", "application/feed+json", "application/json", "application/xml", "text/xml":
		return true
	case "":
	default:
		return strings.Contains(typ, "rss") || strings.Contains(typ, "atom") || strings.Contains(typ, "feed")
	}

	lower := strings.ToLower(href)
	p := lower
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		p = strings.ToLower(u.Path)
	}
	switch path.Ext(p) {
	case ".rss", ".atom", ".xml", ".json":
		return true
	}
	return strings.Contains(lower, "/feed") || strings.Contains(lower, "rss") || strings.Contains(lower, "atom")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}
