package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/odysseus0/headlines/internal/model"
)

func TestSaveRunAndGetRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	scraped := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

	id := mustSaveRun(t, s, testReport(model.ModePerSource, scraped, "alpha", "beta"))

	run, err := s.GetRun(ctx, id)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Mode != model.ModePerSource || run.HeadlineCount != 2 || !run.ScrapedAt.Equal(scraped) {
		t.Fatalf("unexpected run: %+v", run)
	}
	if len(run.Sources) != 2 {
		t.Fatalf("expected 2 run sources, got %+v", run.Sources)
	}
	first := run.Sources[0]
	if first.Source != "alpha" || first.ResolvedURL != "https://alpha.example/feed" || first.Attempts != 2 || first.Fetched != 1 {
		t.Fatalf("unexpected run source: %+v", first)
	}

	_, err = s.GetRun(ctx, id+100)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveRunRecordsEmptySourceWithoutURL(t *testing.T) {
	s := newTestStore(t)
	report := testReport(model.ModeGlobalTop, time.Now().UTC(), "alpha")
	report.Sources = append(report.Sources, model.SourceResult{
		Source:    "down",
		Attempts:  []model.Attempt{{URL: "https://down.example/feed", Kind: model.FetchHTTPError, StatusCode: 503}},
		Headlines: []model.Headline{},
	})

	id := mustSaveRun(t, s, report)
	run, err := s.GetRun(context.Background(), id)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if got := run.Sources[1]; got.ResolvedURL != "" || got.Fetched != 0 || got.Attempts != 1 {
		t.Fatalf("unexpected failed source record: %+v", got)
	}
}

func TestListHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

	first := mustSaveRun(t, s, testReport(model.ModePerSource, base, "alpha", "beta"))
	second := mustSaveRun(t, s, testReport(model.ModeGlobalTop, base.Add(time.Hour), "gamma", "alpha"))

	all, err := s.ListHistory(ctx, HistoryOptions{})
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	if len(all) != 4 {
		t.Fatalf("expected 4 archived headlines, got %d", len(all))
	}
	if all[0].RunID != second || all[0].Source != "gamma" || all[1].Source != "alpha" || all[2].RunID != first {
		t.Fatalf("unexpected order: %+v", all)
	}
	if all[0].Mode != model.ModeGlobalTop || all[0].PublishedAt == nil {
		t.Fatalf("expected mode and published_at on archived row: %+v", all[0])
	}

	bySource, err := s.ListHistory(ctx, HistoryOptions{Source: "alpha"})
	if err != nil {
		t.Fatalf("list by source: %v", err)
	}
	if len(bySource) != 2 {
		t.Fatalf("expected 2 alpha rows, got %d", len(bySource))
	}

	byRun, err := s.ListHistory(ctx, HistoryOptions{RunID: first, Limit: 1})
	if err != nil {
		t.Fatalf("list by run: %v", err)
	}
	if len(byRun) != 1 || byRun[0].RunID != first || byRun[0].Source != "alpha" {
		t.Fatalf("unexpected run filter result: %+v", byRun)
	}

	search, err := s.ListHistory(ctx, HistoryOptions{Search: "beta"})
	if err != nil {
		t.Fatalf("search history: %v", err)
	}
	if len(search) != 1 || search[0].Title != "beta headline" {
		t.Fatalf("unexpected search result: %+v", search)
	}

	if _, err := s.ListHistory(ctx, HistoryOptions{RunID: 999}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown run, got %v", err)
	}
	if _, err := s.ListHistory(ctx, HistoryOptions{RunID: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative run, got %v", err)
	}
}

func TestListRuns(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC)

	mustSaveRun(t, s, testReport(model.ModePerSource, base, "alpha"))
	last := mustSaveRun(t, s, testReport(model.ModeGlobalTop, base.Add(time.Hour), "alpha", "beta", "gamma"))

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != last || runs[0].HeadlineCount != 3 || runs[1].HeadlineCount != 1 {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}
