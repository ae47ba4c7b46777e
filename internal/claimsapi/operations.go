package claimsapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/reports"
	gocache "github.com/patrickmn/go-cache"
)

// TrackClaim looks up a claim by its number.
func (c *Client) TrackClaim(ctx context.Context, sess Session, q claims.Query) (claims.Record, error) {
	attrs := slog.String("claim_number", string(q))
	resp, err := c.do(ctx, http.MethodGet, "/claims/track/"+url.PathEscape(string(q)), &sess, nil)
	if err != nil {
		return claims.Record{}, errors.Wrap(err, "track claim", attrs)
	}
	defer c.closeBody(ctx, resp)

	if resp.StatusCode != http.StatusOK {
		return claims.Record{}, errors.Wrap(statusError(resp), "track claim", attrs)
	}

	var body trackResponseJSON
	if err = decodeJSON(resp.Body, &body); err != nil {
		return claims.Record{}, errors.Wrap(err, "track claim", attrs)
	}
	record, err := body.record()
	if err != nil {
		return claims.Record{}, errors.Wrap(err, "track claim", attrs)
	}
	return record, nil
}

// SubmitClaim files a new claim and returns the claim number assigned by the API. The claim number is empty when the
// response body does not carry one; any 2xx response counts as success.
func (c *Client) SubmitClaim(ctx context.Context, sess Session, s claims.Submission) (string, error) {
	resp, err := c.do(ctx, http.MethodPost, "/claims/submit", &sess, newSubmissionJSON(s))
	if err != nil {
		return "", errors.Wrap(err, "submit claim")
	}
	defer c.closeBody(ctx, resp)

	if !isSuccess(resp.StatusCode) {
		return "", errors.Wrap(statusError(resp), "submit claim")
	}

	var body submitResponseJSON
	if err = decodeJSON(resp.Body, &body); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelDebug, "submit response without claim body", errors.SlogError(err))
		return "", nil
	}
	return body.Claim.ClaimNumber, nil
}

// ReportSummary fetches the aggregate report. Summaries are cached per user for the configured TTL.
func (c *Client) ReportSummary(ctx context.Context, sess Session) (reports.Summary, error) {
	cacheKey := "summary:" + sess.User.ID
	if c.summaryTTL > 0 {
		if cached, ok := c.summaries.Get(cacheKey); ok {
			if summary, isSummary := cached.(reports.Summary); isSummary {
				return summary, nil
			}
		}
	}

	resp, err := c.do(ctx, http.MethodGet, "/fra/reports/summary", &sess, nil)
	if err != nil {
		return reports.Summary{}, errors.Wrap(err, "report summary")
	}
	defer c.closeBody(ctx, resp)

	if resp.StatusCode != http.StatusOK {
		return reports.Summary{}, errors.Wrap(statusError(resp), "report summary")
	}

	var body summaryJSON
	if err = decodeJSON(resp.Body, &body); err != nil {
		return reports.Summary{}, errors.Wrap(err, "report summary")
	}
	summary := body.summary()
	if c.summaryTTL > 0 {
		c.summaries.Set(cacheKey, summary, gocache.DefaultExpiration)
	}
	return summary, nil
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	attrs := slog.String("email", email)
	resp, err := c.do(ctx, http.MethodPost, "/auth/login", nil, loginRequestJSON{Email: email, Password: password})
	if err != nil {
		return Session{}, errors.Wrap(err, "login", attrs)
	}
	defer c.closeBody(ctx, resp)

	if resp.StatusCode != http.StatusOK {
		return Session{}, errors.Wrap(statusError(resp), "login", attrs)
	}

	var body loginResponseJSON
	if err = decodeJSON(resp.Body, &body); err != nil {
		return Session{}, errors.Wrap(err, "login", attrs)
	}
	if body.Token == "" || body.User == nil {
		return Session{}, errors.Wrap(mark(ErrDecode, errors.New("token or user missing")), "login", attrs)
	}
	return Session{
		Token: body.Token,
		User: claims.User{
			ID:       body.User.ID,
			Username: body.User.Username,
			Email:    body.User.Email,
			Role:     body.User.Role,
			State:    body.User.State,
			District: body.User.District,
			Block:    body.User.Block,
		},
	}, nil
}
