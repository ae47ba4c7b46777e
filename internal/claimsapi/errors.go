package claimsapi

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fraatlas/fraportal/internal/errors"
)

var (
	// ErrNotFound is returned when the API answers 404.
	ErrNotFound = errors.NewSentinel("not found")
	// ErrUnauthorized is returned when the API rejects the bearer token or the credentials.
	ErrUnauthorized = errors.NewSentinel("unauthorized")
	// ErrForbidden is returned when the user lacks the permission for the operation.
	ErrForbidden = errors.NewSentinel("forbidden")
	// ErrUnexpectedStatus is returned for any other non-2xx response.
	ErrUnexpectedStatus = errors.NewSentinel("unexpected status")
	// ErrDecode is returned when a response body does not have the expected shape.
	ErrDecode = errors.NewSentinel("decode response")
	// ErrTransport is returned when the request could not be completed.
	ErrTransport = errors.NewSentinel("transport")
)

const invalidTokenMessage = "Invalid or expired token"

// mark tags err with the sentinel so that both can be detected with errors.Is.
func mark(sentinel, err error) error {
	return fmt.Errorf("%w: %w", sentinel, err)
}

// statusError classifies a non-2xx response.
//
// The claims API answers 403 both for invalid or expired tokens and for missing permissions. Only the former carries
// the "Invalid or expired token" message, so it is the only 403 treated as unauthorized.
func statusError(resp *http.Response) error {
	attrs := []slog.Attr{slog.Int("status", resp.StatusCode), slog.String("url", resp.Request.URL.Path)}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.Wrap(ErrNotFound, "claims API", attrs...)
	case http.StatusUnauthorized:
		return errors.Wrap(ErrUnauthorized, "claims API", attrs...)
	case http.StatusForbidden:
		var body struct {
			Error string `json:"error"`
		}
		if err := decodeJSON(resp.Body, &body); err == nil && body.Error == invalidTokenMessage {
			return errors.Wrap(ErrUnauthorized, "claims API", attrs...)
		}
		return errors.Wrap(ErrForbidden, "claims API", attrs...)
	}
	return errors.Wrap(ErrUnexpectedStatus, "claims API", attrs...)
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}
