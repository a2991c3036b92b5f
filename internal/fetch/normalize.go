package fetch

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/mmcdole/gofeed"

	"github.com/odysseus0/headlines/internal/model"
)

// NormalizeItem maps one parsed feed item to a Headline attributed to source.
// Missing fields stay empty; an unparseable date leaves PublishedAt nil.
func NormalizeItem(item *gofeed.Item, source string) model.Headline {
	h := model.Headline{Source: source}
	if item == nil {
		return h
	}
	h.Title = unixNewlines(strings.TrimSpace(item.Title))
	h.Link = unixNewlines(strings.TrimSpace(item.Link))
	h.Published = unixNewlines(fallback(item.Published, item.Updated))
	if strings.TrimSpace(h.Published) == "" {
		h.Published = ""
	}

	switch {
	case item.PublishedParsed != nil && !item.PublishedParsed.IsZero():
		t := *item.PublishedParsed
		h.PublishedAt = &t
	case h.Published != "":
		h.PublishedAt = parseDate(h.Published)
	}
	return h
}

func parseDate(v string) *time.Time {
	t, err := dateparse.ParseAny(strings.TrimSpace(v))
	if err != nil || t.IsZero() {
		return nil
	}
	return &t
}

// unixNewlines folds CRLF and lone CR to LF; a CSV reader does the same to
// quoted fields, so stored text reads back unchanged.
func unixNewlines(v string) string {
	if !strings.Contains(v, "\r") {
		return v
	}
	return strings.ReplaceAll(strings.ReplaceAll(v, "\r\n", "\n"), "\r", "\n")
}
