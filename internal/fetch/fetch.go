package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/odysseus0/headlines/internal/config"
	"github.com/odysseus0/headlines/internal/model"
)

const maxBodyBytes = 16 << 20

const acceptHeader = "application/rss+xml, application/atom+xml, application/xml;q=0.9, text/xml;q=0.9, text/html;q=0.8, */*;q=0.7"

// Fetcher issues single GET requests for candidate feed URLs. It never
// retries and never returns a Go error: every outcome is a model.FetchResult.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

func NewFetcher(cfg config.Config) *Fetcher {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        20,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     30 * time.Second,
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = config.DefaultUserAgent
	}
	return &Fetcher{
		client: &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: transport,
		},
		userAgent: userAgent,
	}
}

func (f *Fetcher) Get(ctx context.Context, rawURL string) model.FetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return transportFailure(err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return transportFailure(fmt.Errorf("read body: %w", err))
	}

	kind := model.FetchSuccess
	if resp.StatusCode >= 400 {
		kind = model.FetchHTTPError
	}
	return model.FetchResult{
		Kind:        kind,
		StatusCode:  resp.StatusCode,
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
	}
}

func transportFailure(err error) model.FetchResult {
	return model.FetchResult{
		Kind: model.FetchTransportFailure,
		Err:  err.Error(),
	}
}
