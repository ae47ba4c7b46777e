package main

import (
	"log/slog"
	"net/http"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/contexthelpers"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/tracker"
)

type trackTemplateData struct {
	BaseTemplateData

	// Query is the value of the claim number field.
	Query string
	// Record is set when the claim table is shown.
	Record *claims.Record
	// NotFound is set when the not-found notice is shown.
	NotFound bool
	Legend   []claims.LegendEntry
}

func newTrackTemplateData(r *http.Request, query string, res tracker.Result) trackTemplateData {
	data := trackTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Query:            query,
		Record:           nil,
		NotFound:         false,
		Legend:           claims.Legend,
	}
	switch claims.ViewFor(res.Outcome, query, res.InFlight) {
	case claims.ViewRecord:
		record, _ := res.Outcome.Record()
		data.Record = &record
	case claims.ViewNotFoundNotice:
		data.NotFound = true
	case claims.ViewNothing:
	}
	return data
}

// trackClaim looks up ?claim_number= and renders the outcome. htmx requests get only the result fragment.
func (app *application) trackClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := contexthelpers.AuthenticatedSession(ctx)
	hx := app.htmx.NewHandler(w, r)
	raw := r.URL.Query().Get("claim_number")

	res := app.tracker.Search(ctx, app.trackerKey(r), sess, raw)

	if res.Stale && hx.Request().HxRequest {
		// A newer search of this session owns the result area. Leave it alone.
		app.logger.LogAttrs(ctx, slog.LevelDebug, "superseded search", slog.Uint64("seq", res.Seq))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if !res.Stale && errors.Is(res.Err, claimsapi.ErrUnauthorized) {
		app.sessionExpired(w, r)
		return
	}

	// The field shows the query of the outcome on display so that a record is never shown next to another number.
	query := string(res.Query)
	if res.Seq == 0 {
		// Nothing was searched for. The slot belongs to an earlier query and is not shown.
		query = ""
		res.Outcome = claims.Idle()
	}
	data := newTrackTemplateData(r, query, res)

	if hx.Request().HxRequest {
		app.renderFragment(w, r, http.StatusOK, "track", "result", data)
		return
	}
	app.render(w, r, http.StatusOK, "track", data)
}
