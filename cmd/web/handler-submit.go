package main

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/contexthelpers"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/repositories"
)

// claimForm holds the entered values so that the form can be shown again after a parse error.
type claimForm struct {
	ClaimType     claims.Type
	ApplicantName string
	Village       string
	Area          string
	Errors        map[string]string
}

func emptyClaimForm() claimForm {
	return claimForm{
		ClaimType:     claims.TypeIFR,
		ApplicantName: "",
		Village:       "",
		Area:          "",
		Errors:        map[string]string{},
	}
}

type submitTemplateData struct {
	BaseTemplateData

	Form     claimForm
	Types    []claims.Type
	Receipts []repositories.Receipt
	// Submitted is set after the claims API accepted the claim. SubmittedNumber is empty when the API did not return
	// one.
	Submitted       bool
	SubmittedNumber string
	Failed          bool
}

// parseClaimForm reads the submitted form. ok is false when a field could not be parsed.
func parseClaimForm(r *http.Request, user claims.User) (claimForm, claims.Submission, bool) {
	form := claimForm{
		ClaimType:     claims.Type(r.PostForm.Get("claim_type")),
		ApplicantName: strings.TrimSpace(r.PostForm.Get("applicant_name")),
		Village:       strings.TrimSpace(r.PostForm.Get("village")),
		Area:          strings.TrimSpace(r.PostForm.Get("area")),
		Errors:        map[string]string{},
	}

	if !form.ClaimType.Valid() {
		form.Errors["claim_type"] = "Select a claim type"
	}
	area, err := strconv.ParseFloat(form.Area, 64)
	if err != nil || math.IsNaN(area) || math.IsInf(area, 0) {
		form.Errors["area"] = "Enter the area in hectares, e.g. 2.5"
	}
	if len(form.Errors) > 0 {
		return form, claims.Submission{}, false //nolint:exhaustruct // not submitted
	}

	return form, claims.Submission{
		ClaimType:     form.ClaimType,
		ApplicantName: form.ApplicantName,
		Village:       form.Village,
		Area:          area,
		Documents:     nil,
		District:      user.District,
		State:         user.State,
	}, true
}

func (app *application) newSubmitTemplateData(r *http.Request, form claimForm) (submitTemplateData, error) {
	ctx := r.Context()
	sess, _ := contexthelpers.AuthenticatedSession(ctx)
	receipts, err := app.receipts.ListByUser(ctx, sess.User.ID, recentReceiptsLimit)
	if err != nil {
		return submitTemplateData{}, errors.Wrap(err, "list receipts")
	}
	return submitTemplateData{
		BaseTemplateData: newBaseTemplateData(r),
		Form:             form,
		Types:            claims.Types,
		Receipts:         receipts,
		Submitted:        false,
		SubmittedNumber:  "",
		Failed:           false,
	}, nil
}

func (app *application) submitClaimForm(w http.ResponseWriter, r *http.Request) {
	data, err := app.newSubmitTemplateData(r, emptyClaimForm())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	app.render(w, r, http.StatusOK, "submit", data)
}

func (app *application) submitClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, _ := contexthelpers.AuthenticatedSession(ctx)
	if err := r.ParseForm(); err != nil {
		app.clientError(w, r, http.StatusBadRequest)
		return
	}

	form, submission, ok := parseClaimForm(r, sess.User)
	if !ok {
		data, err := app.newSubmitTemplateData(r, form)
		if err != nil {
			app.serverError(w, r, err)
			return
		}
		app.render(w, r, http.StatusUnprocessableEntity, "submit", data)
		return
	}

	claimNumber, err := app.claims.SubmitClaim(ctx, sess, submission)
	if err != nil {
		if errors.Is(err, claimsapi.ErrUnauthorized) {
			app.sessionExpired(w, r)
			return
		}
		app.logger.LogAttrs(ctx, slog.LevelError, "claim submission failed", errors.SlogError(err))
		data, dataErr := app.newSubmitTemplateData(r, form)
		if dataErr != nil {
			app.serverError(w, r, dataErr)
			return
		}
		data.Failed = true
		app.render(w, r, http.StatusBadGateway, "submit", data)
		return
	}

	if _, err = app.receipts.Create(ctx, sess.User.ID, claimNumber, submission); err != nil {
		// The claim is filed with the API. Only the local history is missing it.
		app.logger.LogAttrs(ctx, slog.LevelError, "could not store receipt",
			slog.String("claim_number", claimNumber), errors.SlogError(err))
	}
	app.logger.LogAttrs(ctx, slog.LevelInfo, "claim submitted", slog.String("claim_number", claimNumber))

	data, err := app.newSubmitTemplateData(r, emptyClaimForm())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	data.Submitted = true
	data.SubmittedNumber = claimNumber
	app.render(w, r, http.StatusOK, "submit", data)
}
