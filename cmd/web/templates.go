package main

import (
	"net/http"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/contexthelpers"
)

type BaseTemplateData struct {
	Authenticated bool
	User          claims.User
	CurrentPath   string
}

func newBaseTemplateData(r *http.Request) BaseTemplateData {
	ctx := r.Context()
	sess, ok := contexthelpers.AuthenticatedSession(ctx)
	return BaseTemplateData{
		Authenticated: ok,
		User:          sess.User,
		CurrentPath:   contexthelpers.CurrentPath(ctx),
	}
}
