package store

import (
	"database/sql"
)

// Store is the append-only run archive. Nothing in it is consulted while a
// run is fetching.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(scanner rowScanner) (ArchivedRun, error) {
	var r ArchivedRun
	var mode, startedAt, endedAt, scrapedAt string
	if err := scanner.Scan(&r.ID, &mode, &startedAt, &endedAt, &scrapedAt, &r.HeadlineCount); err != nil {
		return ArchivedRun{}, err
	}
	r.Mode = Mode(mode)
	if t, err := parseDBTime(startedAt); err == nil {
		r.StartedAt = t
	}
	if t, err := parseDBTime(endedAt); err == nil {
		r.EndedAt = t
	}
	if t, err := parseDBTime(scrapedAt); err == nil {
		r.ScrapedAt = t
	}
	return r, nil
}

func scanArchivedHeadline(scanner rowScanner) (ArchivedHeadline, error) {
	var h ArchivedHeadline
	var mode, scrapedAt string
	var title, link, published, publishedAt sql.NullString
	if err := scanner.Scan(
		&h.RunID,
		&mode,
		&scrapedAt,
		&h.Source,
		&title,
		&link,
		&published,
		&publishedAt,
	); err != nil {
		return ArchivedHeadline{}, err
	}
	h.Mode = Mode(mode)
	h.Title = title.String
	h.Link = link.String
	h.Published = published.String
	if t, err := parseDBTime(scrapedAt); err == nil {
		h.ScrapedAt = t
	}
	if publishedAt.Valid {
		if t, err := parseDBTime(publishedAt.String); err == nil {
			h.PublishedAt = &t
		}
	}
	return h, nil
}
