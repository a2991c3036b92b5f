package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/odysseus0/headlines/internal/model"
)

// WriteCSV overwrites path with one row per headline.
func WriteCSV(path string, headlines []model.Headline, scrapedAt time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := EncodeCSV(f, headlines, scrapedAt); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func EncodeCSV(w io.Writer, headlines []model.Headline, scrapedAt time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	stamp := formatScrapedAt(scrapedAt)
	for _, h := range headlines {
		if err := cw.Write(row(h, stamp)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Row is one line of a headlines table as read back from disk.
type Row struct {
	model.Headline
	ScrapedAt time.Time
}

// ReadCSV parses a file written by WriteCSV.
func ReadCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeCSV(f)
}

func DecodeCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	if strings.Join(header, ",") != strings.Join(Columns, ",") {
		return nil, fmt.Errorf("unexpected csv header %q", strings.Join(header, ","))
	}

	var rows []Row
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		out, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		rows = append(rows, out)
	}
	return rows, nil
}

func parseRow(rec []string) (Row, error) {
	out := Row{Headline: model.Headline{
		Source:    rec[0],
		Title:     rec[1],
		Link:      rec[2],
		Published: rec[3],
	}}
	if v := rec[4]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return Row{}, fmt.Errorf("published_dt_iso: %w", err)
		}
		out.PublishedAt = &t
	}
	t, err := time.Parse(time.RFC3339, rec[5])
	if err != nil {
		return Row{}, fmt.Errorf("scraped_at: %w", err)
	}
	out.ScrapedAt = t
	return out, nil
}
