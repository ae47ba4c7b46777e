package main

import (
	"context"
	"encoding/gob"
	"net/http"

	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/errors"
)

type sessionKey string

// claimsSessionKey holds the claimsapi.Session of the signed-in user.
const claimsSessionKey = sessionKey("claims")

func init() {
	gob.Register(claimsapi.Session{})
}

// claimsSession returns the claims API session stored in the server-side session.
func (app *application) claimsSession(ctx context.Context) (claimsapi.Session, bool) {
	sess, ok := app.sessionManager.Get(ctx, string(claimsSessionKey)).(claimsapi.Session)
	return sess, ok && sess.Token != ""
}

// signIn stores sess in a fresh server-side session.
func (app *application) signIn(ctx context.Context, sess claimsapi.Session) error {
	app.tracker.Forget(app.sessionManager.Token(ctx))
	if err := app.sessionManager.RenewToken(ctx); err != nil {
		return errors.Wrap(err, "renew session token")
	}
	app.sessionManager.Put(ctx, string(claimsSessionKey), sess)
	return nil
}

// signOut drops the server-side session and the tracker slot bound to it.
func (app *application) signOut(ctx context.Context) error {
	app.tracker.Forget(app.sessionManager.Token(ctx))
	if err := app.sessionManager.Destroy(ctx); err != nil {
		return errors.Wrap(err, "destroy session")
	}
	return nil
}

// trackerKey identifies the browser session in the tracker.
func (app *application) trackerKey(r *http.Request) string {
	return app.sessionManager.Token(r.Context())
}
