package main

import (
	"log/slog"
	"net/http"

	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/contexthelpers"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/reports"
)

type reportsTemplateData struct {
	BaseTemplateData

	NoData    bool
	Monthly   []reports.Bar
	ByType    []reports.Bar
	Districts []reports.Bar
	// Insight is the optional narrative summary. Empty when insights are disabled or failed.
	Insight string
}

func (app *application) reports(w http.ResponseWriter, r *http.Request) {
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

	data := reportsTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		NoData:           summary.Empty(),
		Monthly:          reports.MonthlyBars(summary),
		ByType:           reports.TypeBars(summary),
		Districts:        reports.DistrictBars(summary),
		Insight:          "",
	}

	if app.insights.Enabled() && !data.NoData {
		if data.Insight, err = app.insights.SummarizeReport(ctx, summary); err != nil {
			app.logger.LogAttrs(ctx, slog.LevelWarn, "could not generate report insight", errors.SlogError(err))
		}
	}

	app.render(w, r, http.StatusOK, "reports", data)
}
