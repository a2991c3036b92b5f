package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/odysseus0/headlines/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	db, err := OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewStore(db)
}

func testReport(mode model.Mode, scraped time.Time, sources ...string) model.RunReport {
	report := model.RunReport{
		Mode:      mode,
		StartedAt: scraped.Add(-2 * time.Second),
		EndedAt:   scraped,
		ScrapedAt: scraped,
	}
	for i, name := range sources {
		published := scraped.Add(-time.Duration(i+1) * time.Hour)
		h := model.Headline{
			Source:      name,
			Title:       fmt.Sprintf("%s headline", name),
			Link:        fmt.Sprintf("https://%s.example/1", name),
			Published:   published.Format(time.RFC1123Z),
			PublishedAt: &published,
		}
		report.Sources = append(report.Sources, model.SourceResult{
			Source: name,
			Attempts: []model.Attempt{
				{URL: "https://" + name + ".example/broken", Kind: model.FetchTransportFailure},
				{URL: "https://" + name + ".example/feed", Kind: model.FetchSuccess, Entries: 1},
			},
			Headlines: []model.Headline{h},
		})
		report.Headlines = append(report.Headlines, h)
	}
	return report
}

func mustSaveRun(t *testing.T, s *Store, report model.RunReport) int64 {
	t.Helper()
	id, err := s.SaveRun(context.Background(), report)
	if err != nil {
		t.Fatalf("save run: %v", err)
	}
	return id
}
