package claims_test

import (
	"testing"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestStatusColor(t *testing.T) {
	tests := []struct {
		status string
		want   claims.Color
	}{
		{status: "submitted", want: claims.ColorInfo},
		{status: "under_review", want: claims.ColorWarning},
		{status: "digitized", want: claims.ColorSecondary},
		{status: "approved", want: claims.ColorSuccess},
		{status: "rejected", want: claims.ColorError},
		{status: "pending_gis_validation", want: claims.ColorWarning},
		{status: "", want: claims.ColorDefault},
		{status: "APPROVED", want: claims.ColorDefault},
		{status: "archived", want: claims.ColorDefault},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			require.Equal(t, tt.want, claims.StatusColor(tt.status))
			require.Equal(t, tt.want, claims.Status(tt.status).Color())
		})
	}
}

func TestStatus_Label(t *testing.T) {
	require.Equal(t, "APPROVED", claims.StatusApproved.Label())
	require.Equal(t, "UNDER REVIEW", claims.StatusUnderReview.Label())
	require.Equal(t, "PENDING GIS VALIDATION", claims.StatusPendingGISValidation.Label())
}

func TestParseQuery(t *testing.T) {
	tests := []struct {
		raw    string
		want   claims.Query
		wantOK bool
	}{
		{raw: "MP001234567890", want: "MP001234567890", wantOK: true},
		{raw: "  MP001234567890\t", want: "MP001234567890", wantOK: true},
		{raw: "", want: "", wantOK: false},
		{raw: " \t\n ", want: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := claims.ParseQuery(tt.raw)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOutcome(t *testing.T) {
	record := claims.Record{ClaimNumber: "MP001", Status: claims.StatusApproved} //nolint:exhaustruct // partial fixture

	var zero claims.Outcome
	require.Equal(t, claims.OutcomeIdle, zero.Kind())

	found := claims.Found(record)
	got, ok := found.Record()
	require.True(t, ok)
	require.Equal(t, record, got)
	require.NoError(t, found.Cause())

	cause := errors.NewSentinel("claim not found")
	notFound := claims.NotFound(cause)
	_, ok = notFound.Record()
	require.False(t, ok)
	require.ErrorIs(t, notFound.Cause(), cause)
}

func TestViewFor(t *testing.T) {
	found := claims.Found(claims.Record{ClaimNumber: "MP001"}) //nolint:exhaustruct // partial fixture
	notFound := claims.NotFound(errors.NewSentinel("boom"))
	tests := []struct {
		name     string
		outcome  claims.Outcome
		query    string
		inFlight bool
		want     claims.View
	}{
		{name: "found", outcome: found, query: "MP001", want: claims.ViewRecord},
		{name: "found while next lookup in flight", outcome: found, query: "MP002", inFlight: true, want: claims.ViewRecord},
		{name: "not found with query", outcome: notFound, query: "BOGUS", want: claims.ViewNotFoundNotice},
		{name: "not found with empty query", outcome: notFound, query: "", want: claims.ViewNothing},
		{name: "not found with blank query", outcome: notFound, query: "   ", want: claims.ViewNothing},
		{name: "not found while in flight", outcome: notFound, query: "BOGUS", inFlight: true, want: claims.ViewNothing},
		{name: "idle", outcome: claims.Idle(), query: "MP001", want: claims.ViewNothing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, claims.ViewFor(tt.outcome, tt.query, tt.inFlight))
		})
	}
}

func TestFormatArea(t *testing.T) {
	require.Equal(t, "2.5 ha", claims.FormatArea(2.5))
	require.Equal(t, "10 ha", claims.FormatArea(10))
}
