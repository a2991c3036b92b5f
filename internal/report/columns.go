package report

import (
	"time"

	"github.com/odysseus0/headlines/internal/model"
)

// Columns is the header shared by the CSV and XLSX outputs.
var Columns = []string{"source", "title", "link", "published", "published_dt_iso", "scraped_at"}

func formatPublishedAt(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func formatScrapedAt(t time.Time) string {
	return t.Format(time.RFC3339)
}

func row(h model.Headline, scrapedAt string) []string {
	return []string{h.Source, h.Title, h.Link, h.Published, formatPublishedAt(h.PublishedAt), scrapedAt}
}
