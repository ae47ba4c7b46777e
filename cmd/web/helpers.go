package main

import (
	"log/slog"
	"net/http"

	"github.com/fraatlas/fraportal/internal/errors"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error",
		slog.String("method", method), slog.String("uri", uri), errors.SlogError(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (app *application) clientError(w http.ResponseWriter, r *http.Request, status int) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.LogAttrs(r.Context(), slog.LevelDebug, http.StatusText(status),
		slog.String("method", method), slog.String("uri", uri))
	http.Error(w, http.StatusText(status), status)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.clientError(w, r, http.StatusNotFound)
}

// redirectToLogin sends the browser to the sign-in page. htmx requests get the HX-Redirect header instead of a 303 so
// that the whole page is replaced rather than the swap target.
func (app *application) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	if app.htmx.NewHandler(w, r).Request().HxRequest {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// sessionExpired handles a claims API that no longer accepts the session's token.
func (app *application) sessionExpired(w http.ResponseWriter, r *http.Request) {
	app.logger.LogAttrs(r.Context(), slog.LevelInfo, "claims API rejected session token, signing out")
	if err := app.signOut(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.redirectToLogin(w, r)
}
