package cli

import (
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/odysseus0/headlines/internal/config"
	"github.com/odysseus0/headlines/internal/fetch"
	"github.com/odysseus0/headlines/internal/headline"
	"github.com/odysseus0/headlines/internal/store"
)

type App struct {
	cfg      config.Config
	log      *logrus.Logger
	db       *sql.DB
	store    *store.Store
	fetcher  *fetch.Fetcher
	resolver *fetch.Resolver
	runner   *headline.Runner
}

// NewApp wires the run pipeline. The history store is opened only when
// cfg.DBPath is set.
func NewApp(cfg config.Config, log *logrus.Logger) (*App, error) {
	app := &App{cfg: cfg, log: log}
	if cfg.DBPath != "" {
		db, err := store.OpenDB(cfg.DBPath)
		if err != nil {
			return nil, err
		}
		app.db = db
		app.store = store.NewStore(db)
	}
	app.fetcher = fetch.NewFetcher(cfg)
	app.resolver = fetch.NewResolver(app.fetcher, log)
	app.runner = headline.NewRunner(cfg, app.resolver, log)
	return app, nil
}

func (a *App) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}
