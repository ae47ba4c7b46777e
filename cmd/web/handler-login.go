package main

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/contexthelpers"
	"github.com/fraatlas/fraportal/internal/errors"
)

type loginTemplateData struct {
	BaseTemplateData

	Email string
	Error string
}

func (app *application) login(w http.ResponseWriter, r *http.Request) {
	if contexthelpers.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	data := loginTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Email:            "",
		Error:            "",
	}
	app.render(w, r, http.StatusOK, "login", data)
}

// loginPost exchanges the credentials for a claims API token and keeps it in the server-side session.
func (app *application) loginPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostForm.Get("email"))
	password := r.PostForm.Get("password")

	sess, err := app.claims.Login(ctx, email, password)
	if err != nil {
		data := loginTemplateData{
			BaseTemplateData: newBaseTemplateData(r),
			Email:            email,
			Error:            "Sign in failed. Please try again later.",
		}
		status := http.StatusBadGateway
		if errors.Is(err, claimsapi.ErrUnauthorized) {
			data.Error = "Invalid email or password."
			status = http.StatusUnauthorized
			app.logger.LogAttrs(ctx, slog.LevelInfo, "sign in rejected", errors.SlogError(err))
		} else {
			app.logger.LogAttrs(ctx, slog.LevelError, "sign in failed", errors.SlogError(err))
		}
		app.render(w, r, status, "login", data)
		return
	}

	if err = app.signIn(ctx, sess); err != nil {
		app.serverError(w, r, err)
		return
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "signed in", slog.String("user_id", sess.User.ID))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (app *application) logout(w http.ResponseWriter, r *http.Request) {
	if err := app.signOut(r.Context()); err != nil {
		app.serverError(w, r, err)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
