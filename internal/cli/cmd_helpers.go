package cli

import (
	"errors"
	"fmt"

	"github.com/odysseus0/headlines/internal/store"
)

func requireApp(getApp func() *App) (*App, error) {
	app := getApp()
	if app == nil {
		return nil, errors.New("app not initialized")
	}
	return app, nil
}

func requireStore(app *App) (*store.Store, error) {
	if app.store == nil {
		return nil, fmt.Errorf("%w: history needs a database; set --db or db_path", store.ErrInvalidInput)
	}
	return app.store, nil
}
