package report

import (
	"fmt"
	"io"

	"github.com/odysseus0/headlines/internal/model"
)

// WriteSummary prints the first n headlines as short text blocks.
func WriteSummary(w io.Writer, headlines []model.Headline, n int) {
	fmt.Fprintf(w, "\n=== Top %d Headlines (formatted summary) ===\n", n)
	if n > len(headlines) {
		n = len(headlines)
	}
	for i, h := range headlines[:max(n, 0)] {
		date := h.Published
		if date == "" {
			date = formatPublishedAt(h.PublishedAt)
		}
		fmt.Fprintf(w, "\n[%d] %s\nSource : %s\nLink   : %s\nDate   : %s\n", i+1, h.Title, h.Source, h.Link, date)
	}
}
