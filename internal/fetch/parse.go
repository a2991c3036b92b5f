package fetch

import (
	"strings"

	"github.com/mmcdole/gofeed"
)

// ParseResult is what the feed parser made of one response body. Items may
// be non-empty even when Malformed is set; they are still usable.
type ParseResult struct {
	Items     []*gofeed.Item
	Malformed bool
	Detail    string
}

// ParseFeed runs body through gofeed. Non-feed text such as an HTML page
// comes back as zero items with Malformed set.
func ParseFeed(body string) ParseResult {
	if strings.TrimSpace(body) == "" {
		return ParseResult{Malformed: true, Detail: "empty document"}
	}
	feed, err := gofeed.NewParser().ParseString(body)
	out := ParseResult{}
	if err != nil {
		out.Malformed = true
		out.Detail = err.Error()
	}
	if feed != nil {
		out.Items = feed.Items
	}
	return out
}
