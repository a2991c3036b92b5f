package fetch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/odysseus0/headlines/internal/config"
	"github.com/odysseus0/headlines/internal/model"
)

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	cfg := config.Default()
	cfg.HTTPTimeout = 5 * time.Second
	return NewFetcher(cfg)
}

// rssWithItems builds an RSS document with n dated items, newest first.
func rssWithItems(prefix string, n int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>T</title><link>https://example.com</link>`)
	base := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<item><title>%s %d</title><link>https://example.com/%s/%d</link><pubDate>%s</pubDate></item>`,
			prefix, i, prefix, i, base.Add(-time.Duration(i)*time.Hour).Format(time.RFC1123Z))
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

const htmlInterstitial = `<!DOCTYPE html><html><head><title>Please wait</title>
<link rel="alternate" type="application/rss+xml" href="/rss/topstories.cms">
</head><body>
<p>Checking your browser</p></body></html>`

// stubGetter answers from a fixed URL -> result table and records call order.
type stubGetter struct {
	mu      sync.Mutex
	results map[string]model.FetchResult
	calls   []string
}

func (s *stubGetter) Get(_ context.Context, rawURL string) model.FetchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, rawURL)
	if res, ok := s.results[rawURL]; ok {
		return res
	}
	return model.FetchResult{Kind: model.FetchTransportFailure, Err: "dial tcp: no such host"}
}

func (s *stubGetter) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func feedResult(body string) model.FetchResult {
	return model.FetchResult{Kind: model.FetchSuccess, StatusCode: 200, Body: body, ContentType: "application/rss+xml"}
}
