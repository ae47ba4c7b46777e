package main

import (
	"net/http"

	"github.com/fraatlas/fraportal/internal/errors"
)

// healthy responds with a JSON object indicating that the server and its database are usable.
func (app *application) healthy(w http.ResponseWriter, r *http.Request) {
	if err := app.db.ReadOnly.PingContext(r.Context()); err != nil {
		app.serverError(w, r, errors.Wrap(err, "ping database"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
