package model

import (
	"strings"
	"time"
)

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputOPML  OutputFormat = "opml"
)

// Mode selects how the final headline set is chosen for one run.
type Mode string

const (
	ModePerSource Mode = "per_source"
	ModeGlobalTop Mode = "global_top"
)

// ParseMode maps the optional positional token of a run to a Mode.
// Anything other than "global" or "global_top" (case-insensitive) is per-source.
func ParseMode(token string) Mode {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "global", "global_top":
		return ModeGlobalTop
	default:
		return ModePerSource
	}
}

type Source struct {
	Name string   `json:"name" toml:"name"`
	URLs []string `json:"urls" toml:"urls"`
}

type FetchKind int

const (
	FetchSuccess FetchKind = iota
	FetchHTTPError
	FetchTransportFailure
)

func (k FetchKind) String() string {
	switch k {
	case FetchSuccess:
		return "success"
	case FetchHTTPError:
		return "http_error"
	case FetchTransportFailure:
		return "transport_failure"
	default:
		return "unknown"
	}
}

// FetchResult is the outcome of one GET. Success and HTTPError both carry the
// response body; TransportFailure carries only Err.
type FetchResult struct {
	Kind        FetchKind
	StatusCode  int
	Body        string
	ContentType string
	Err         string
}

// HasBody reports whether the result carries usable response text.
func (r FetchResult) HasBody() bool {
	return r.Kind != FetchTransportFailure && r.Body != ""
}

type Headline struct {
	Source      string     `json:"source"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	Published   string     `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
}

// DedupKey is the link when present, else the title. Empty means unusable.
func (h Headline) DedupKey() string {
	if v := strings.TrimSpace(h.Link); v != "" {
		return v
	}
	return strings.TrimSpace(h.Title)
}

type Attempt struct {
	URL         string    `json:"url"`
	Kind        FetchKind `json:"kind"`
	StatusCode  int       `json:"status_code,omitempty"`
	ContentType string    `json:"content_type,omitempty"`
	Malformed   bool      `json:"malformed"`
	Detail      string    `json:"detail,omitempty"`
	Entries     int       `json:"entries"`
	Snippet     string    `json:"snippet,omitempty"`
	PageText    string    `json:"page_text,omitempty"`
	FeedHints   []string  `json:"feed_hints,omitempty"`
}

type SourceResult struct {
	Source    string     `json:"source"`
	Attempts  []Attempt  `json:"attempts"`
	Headlines []Headline `json:"headlines"`
}

type RunReport struct {
	Mode      Mode           `json:"mode"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   time.Time      `json:"ended_at"`
	ScrapedAt time.Time      `json:"scraped_at"`
	Sources   []SourceResult `json:"sources"`
	Headlines []Headline     `json:"headlines"`
}

type ArchivedHeadline struct {
	RunID     int64     `json:"run_id"`
	Mode      Mode      `json:"mode"`
	ScrapedAt time.Time `json:"scraped_at"`
	Headline
}

// ArchivedRun is one run as recorded in the history database.
type ArchivedRun struct {
	ID            int64       `json:"id"`
	Mode          Mode        `json:"mode"`
	StartedAt     time.Time   `json:"started_at"`
	EndedAt       time.Time   `json:"ended_at"`
	ScrapedAt     time.Time   `json:"scraped_at"`
	HeadlineCount int         `json:"headline_count"`
	Sources       []RunSource `json:"sources,omitempty"`
}

type RunSource struct {
	Source      string `json:"source"`
	ResolvedURL string `json:"resolved_url,omitempty"`
	Attempts    int    `json:"attempts"`
	Fetched     int    `json:"fetched"`
}

type HistoryOptions struct {
	RunID  int64
	Source string
	Search string
	Limit  int
}
