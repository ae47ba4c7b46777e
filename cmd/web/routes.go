package main

import (
	"net/http"
	"time"

	"github.com/donseba/go-htmx/middleware"
	"github.com/fraatlas/fraportal/ui"
	"github.com/justinas/alice"
)

func (app *application) routes(timeout time.Duration) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /static/", cacheStaticHeaders(http.FileServerFS(ui.Files)))
	mux.HandleFunc("GET /api/healthy", app.healthy)

	session := alice.New(app.sessionManager.LoadAndSave, noSurf, commonContext, app.authenticate)
	protected := session.Append(app.requireAuthentication)

	mux.Handle("GET /{$}", protected.ThenFunc(app.home))
	mux.Handle("GET /claims/track", protected.ThenFunc(app.trackClaim))
	mux.Handle("GET /claims/submit", protected.ThenFunc(app.submitClaimForm))
	mux.Handle("POST /claims/submit", protected.ThenFunc(app.submitClaim))
	mux.Handle("GET /reports", protected.ThenFunc(app.reports))

	mux.Handle("GET /login", session.ThenFunc(app.login))
	mux.Handle("POST /login", session.ThenFunc(app.loginPost))
	mux.Handle("POST /logout", session.ThenFunc(app.logout))

	mux.Handle("/", session.ThenFunc(app.notFound))

	common := alice.New(app.recoverPanic, app.logRequest, app.secureHeaders, middleware.MiddleWare)
	return common.Then(timeoutHandler(mux, timeout))
}
