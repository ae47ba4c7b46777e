package main

import (
	"log/slog"
	"net/http"

	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/contexthelpers"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/reports"
	"github.com/fraatlas/fraportal/internal/repositories"
)

const recentReceiptsLimit = 10

type homeTemplateData struct {
	BaseTemplateData

	NoData    bool
	Headlines reports.Headlines
	Receipts  []repositories.Receipt
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := contexthelpers.AuthenticatedSession(ctx)

	summary, err := app.claims.ReportSummary(ctx, sess)
	if err != nil {
		if errors.Is(err, claimsapi.ErrUnauthorized) {
			app.sessionExpired(w, r)
			return
		}
		app.logger.LogAttrs(ctx, slog.LevelWarn, "could not fetch report summary", errors.SlogError(err))
	}

	receipts, err := app.receipts.ListByUser(ctx, sess.User.ID, recentReceiptsLimit)
	if err != nil {
		app.serverError(w, r, errors.Wrap(err, "list receipts"))
		return
	}

	data := homeTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		NoData:           summary.Empty(),
		Headlines:        reports.ComputeHeadlines(summary),
		Receipts:         receipts,
	}
	app.render(w, r, http.StatusOK, "home", data)
}
