package contexthelpers

type contextKey string

const (
	authenticatedSessionContextKey = contextKey("authenticatedSession")
	currentPathContextKey          = contextKey("currentPath")
	csrfTokenContextKey            = contextKey("csrfToken")
	cspNonceContextKey             = contextKey("cspNonce")
	requestIDContextKey            = contextKey("requestID")
)
