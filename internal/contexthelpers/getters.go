package contexthelpers

import (
	"context"

	"github.com/fraatlas/fraportal/internal/claimsapi"
)

func IsAuthenticated(ctx context.Context) bool {
	_, ok := AuthenticatedSession(ctx)
	return ok
}

// AuthenticatedSession returns the claims API session of the signed-in user.
func AuthenticatedSession(ctx context.Context) (claimsapi.Session, bool) {
	sess, ok := ctx.Value(authenticatedSessionContextKey).(claimsapi.Session)
	return sess, ok
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(currentPathContextKey).(string)
	if !ok {
		return ""
	}

	return currentPath
}

func CSRFToken(ctx context.Context) string {
	csrfToken, ok := ctx.Value(csrfTokenContextKey).(string)
	if !ok {
		return ""
	}

	return csrfToken
}

func CSPNonce(ctx context.Context) string {
	nonce, ok := ctx.Value(cspNonceContextKey).(string)
	if !ok {
		return ""
	}

	return nonce
}

func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
