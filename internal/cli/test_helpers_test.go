package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/odysseus0/headlines/internal/config"
	"github.com/odysseus0/headlines/internal/model"
)

func setEnvForTest(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func unsetEnvForTest(t *testing.T, key string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(key, old)
		} else {
			_ = os.Unsetenv(key)
		}
	})
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"HOME",
		"XDG_CONFIG_HOME",
		"HEADLINES_OUT_DIR",
		"HEADLINES_DB_PATH",
		"HEADLINES_SOURCES_OPML",
		"HEADLINES_HTTP_TIMEOUT_SECONDS",
		"HEADLINES_USER_AGENT",
		"HEADLINES_FETCH_CONCURRENCY",
		"HEADLINES_PER_SOURCE_LIMIT",
		"HEADLINES_GLOBAL_FETCH_LIMIT",
		"HEADLINES_GLOBAL_TOP_LIMIT",
	} {
		unsetEnvForTest(t, key)
	}
}

// rssFeed renders n dated items, newest first, starting one hour before base
// shifted by offset hours.
func rssFeed(prefix string, n int, offset int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?><rss version="2.0"><channel><title>` + prefix + `</title><link>https://example.com</link>`)
	base := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC).Add(time.Duration(offset) * time.Hour)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<item><title>%s story %d</title><link>https://example.com/%s/%d</link><pubDate>%s</pubDate></item>`,
			prefix, i, prefix, i, base.Add(-time.Duration(i+1)*time.Hour).Format(time.RFC1123Z))
	}
	b.WriteString(`</channel></rss>`)
	return b.String()
}

// newFeedServer serves the given path -> body table as RSS. "/reset" drops
// the connection and unknown paths are 404 with an empty body.
func newFeedServer(t *testing.T, feeds map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/reset" {
			panic(http.ErrAbortHandler)
		}
		body, ok := feeds[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if strings.HasPrefix(strings.TrimSpace(body), "<!DOCTYPE html") {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		} else {
			w.Header().Set("Content-Type", "application/rss+xml")
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(outDir string, sources ...model.Source) config.Config {
	cfg := config.Default()
	cfg.OutDir = outDir
	cfg.HTTPTimeout = 5 * time.Second
	cfg.UserAgent = "headlines-test/1.0"
	cfg.Sources = sources
	return cfg
}

type cliResult struct {
	stdout string
	stderr string
	err    error
}

func runCLI(t *testing.T, cfg config.Config, args ...string) cliResult {
	t.Helper()
	root := NewRootCmd(cfg)
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func mustRunCLI(t *testing.T, cfg config.Config, args ...string) cliResult {
	t.Helper()
	res := runCLI(t, cfg, args...)
	if res.err != nil {
		t.Fatalf("command failed (%v): %v\nstderr: %s", args, res.err, res.stderr)
	}
	return res
}
