package claimsapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/claimsapi"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func newClient(baseURL string, summaryTTL time.Duration) *claimsapi.Client {
	return claimsapi.NewClient(claimsapi.Config{
		BaseURL:           baseURL,
		Timeout:           5 * time.Second,
		RequestsPerSecond: 0,
		Burst:             0,
		SummaryTTL:        summaryTTL,
	}, testhelpers.NewLogger(io.Discard))
}

func session() claimsapi.Session {
	return claimsapi.Session{Token: testhelpers.FakeToken, User: claims.User{ID: "2"}} //nolint:exhaustruct // partial
}

func TestClient_TrackClaim(t *testing.T) {
	api := testhelpers.NewFakeClaimsAPI()
	t.Cleanup(api.Close)
	client := newClient(api.URL(), 0)
	ctx := context.Background()

	record, err := client.TrackClaim(ctx, session(), "MP001234567890")
	require.NoError(t, err)
	require.Equal(t, "MP001234567890", record.ClaimNumber)
	require.Equal(t, claims.TypeIFR, record.ClaimType)
	require.Equal(t, "Ramesh Kumar", record.ApplicantName)
	require.Equal(t, "Khatia", record.Village)
	require.Equal(t, "Mandla", record.District)
	require.InDelta(t, 2.5, record.Area, 0.0001)
	require.Equal(t, claims.StatusApproved, record.Status)
	require.True(t, time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC).Equal(record.SubmittedDate))
	require.Len(t, record.History, 2)
	require.Equal(t, claims.StatusSubmitted, record.History[0].Status)

	_, err = client.TrackClaim(ctx, session(), "BOGUS")
	require.ErrorIs(t, err, claimsapi.ErrNotFound)

	api.RespondWith("MP500", http.StatusInternalServerError)
	_, err = client.TrackClaim(ctx, session(), "MP500")
	require.ErrorIs(t, err, claimsapi.ErrUnexpectedStatus)

	_, err = client.TrackClaim(ctx, claimsapi.Session{Token: "", User: claims.User{}}, "MP001234567890") //nolint:exhaustruct // empty user
	require.ErrorIs(t, err, claimsapi.ErrUnauthorized)

	_, err = client.TrackClaim(ctx, claimsapi.Session{Token: "expired", User: claims.User{}}, "MP001234567890") //nolint:exhaustruct // empty user
	require.ErrorIs(t, err, claimsapi.ErrUnauthorized)

	require.Contains(t, api.Requests(), "GET /api/claims/track/MP001234567890")
}

func TestClient_TrackClaim_Decode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		check   func(t *testing.T, r claims.Record)
	}{
		{
			name: "numeric area and plain date",
			body: `{"claim":{"claim_number":"CG1","claim_type":"CFR","applicant_name":"Gram Sabha","village":"Pandaria",` +
				`"area":12.75,"status":"pending_gis_validation","submitted_date":"2024-03-01"}}`,
			check: func(t *testing.T, r claims.Record) {
				t.Helper()
				require.InDelta(t, 12.75, r.Area, 0.0001)
				require.Equal(t, claims.StatusPendingGISValidation, r.Status)
				require.Equal(t, 2024, r.SubmittedDate.Year())
				require.Empty(t, r.History)
			},
		},
		{
			name: "unknown status is kept",
			body: `{"claim":{"claim_number":"CG2","claim_type":"CR","applicant_name":"A","village":"V",` +
				`"area":"1","status":"archived","submitted_date":"2024-03-01T00:00:00Z"}}`,
			check: func(t *testing.T, r claims.Record) {
				t.Helper()
				require.Equal(t, claims.Status("archived"), r.Status)
				require.Equal(t, claims.ColorDefault, r.Status.Color())
			},
		},
		{name: "missing claim", body: `{}`, wantErr: true},
		{name: "not JSON", body: `<html>oops</html>`, wantErr: true},
		{
			name: "invalid claim type",
			body: `{"claim":{"claim_number":"X","claim_type":"ABC","area":1,"status":"submitted",` +
				`"submitted_date":"2024-03-01"}}`,
			wantErr: true,
		},
		{
			name: "area not numeric",
			body: `{"claim":{"claim_number":"X","claim_type":"IFR","area":"lots","status":"submitted",` +
				`"submitted_date":"2024-03-01"}}`,
			wantErr: true,
		},
		{
			name:    "missing submitted date",
			body:    `{"claim":{"claim_number":"X","claim_type":"IFR","area":1,"status":"submitted"}}`,
			wantErr: true,
		},
		{
			name: "negative area",
			body: `{"claim":{"claim_number":"X","claim_type":"IFR","area":-1,"status":"submitted",` +
				`"submitted_date":"2024-03-01"}}`,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			t.Cleanup(server.Close)

			record, err := newClient(server.URL, 0).TrackClaim(context.Background(), session(), "X")
			if tt.wantErr {
				require.ErrorIs(t, err, claimsapi.ErrDecode)
				return
			}
			require.NoError(t, err)
			tt.check(t, record)
		})
	}
}

func TestClient_TrackClaim_Transport(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newClient(url, 0).TrackClaim(context.Background(), session(), "MP1")
	require.ErrorIs(t, err, claimsapi.ErrTransport)
}

func TestClient_SubmitClaim(t *testing.T) {
	api := testhelpers.NewFakeClaimsAPI()
	t.Cleanup(api.Close)
	client := newClient(api.URL(), 0)

	number, err := client.SubmitClaim(context.Background(), session(), claims.Submission{
		ClaimType:     claims.TypeCFR,
		ApplicantName: "Gram Sabha Khatia",
		Village:       "Khatia",
		Area:          12.5,
		Documents:     nil,
		District:      "Mandla",
		State:         "Madhya Pradesh",
	})
	require.NoError(t, err)
	require.NotEmpty(t, number)

	submissions := api.Submissions()
	require.Len(t, submissions, 1)
	require.Equal(t, map[string]any{
		"claim_type":     "CFR",
		"applicant_name": "Gram Sabha Khatia",
		"village":        "Khatia",
		"area":           12.5,
		"documents":      []any{},
		"district":       "Mandla",
		"state":          "Madhya Pradesh",
	}, submissions[0])
}

func TestClient_SubmitClaim_AnySuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(server.Close)

	number, err := newClient(server.URL, 0).SubmitClaim(context.Background(), session(), claims.Submission{}) //nolint:exhaustruct // empty
	require.NoError(t, err)
	require.Empty(t, number)
}

func TestClient_SubmitClaim_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	_, err := newClient(server.URL, 0).SubmitClaim(context.Background(), session(), claims.Submission{}) //nolint:exhaustruct // empty
	require.ErrorIs(t, err, claimsapi.ErrUnexpectedStatus)
}

func TestClient_ReportSummary(t *testing.T) {
	api := testhelpers.NewFakeClaimsAPI()
	t.Cleanup(api.Close)
	client := newClient(api.URL(), time.Minute)
	ctx := context.Background()

	summary, err := client.ReportSummary(ctx, session())
	require.NoError(t, err)
	require.Len(t, summary.Timeseries, 3)
	require.Equal(t, "Mar", summary.Timeseries[2].Month)
	require.Equal(t, 600, summary.Timeseries[2].Beneficiaries)
	require.Equal(t, "Granted", summary.ByType[0].Type)
	require.Equal(t, "Mandla", summary.TopDistricts[0].Name)

	_, err = client.ReportSummary(ctx, session())
	require.NoError(t, err)
	require.Equal(t, 1, api.SummaryHits(), "second call is served from cache")
}

func TestClient_ReportSummary_NoCache(t *testing.T) {
	api := testhelpers.NewFakeClaimsAPI()
	t.Cleanup(api.Close)
	client := newClient(api.URL(), 0)

	for range 2 {
		_, err := client.ReportSummary(context.Background(), session())
		require.NoError(t, err)
	}
	require.Equal(t, 2, api.SummaryHits())
}

func TestClient_Login(t *testing.T) {
	api := testhelpers.NewFakeClaimsAPI()
	t.Cleanup(api.Close)
	client := newClient(api.URL(), 0)
	ctx := context.Background()

	sess, err := client.Login(ctx, testhelpers.FakeEmail, testhelpers.FakePassword)
	require.NoError(t, err)
	require.Equal(t, testhelpers.FakeToken, sess.Token)
	require.Equal(t, "2", sess.User.ID)
	require.Equal(t, "Madhya Pradesh", sess.User.State)
	require.Equal(t, "Mandla", sess.User.District)

	_, err = client.Login(ctx, testhelpers.FakeEmail, "wrong")
	require.ErrorIs(t, err, claimsapi.ErrUnauthorized)
	require.True(t, errors.Is(err, claimsapi.ErrUnauthorized))
}

func TestClient_RateLimit(t *testing.T) {
	api := testhelpers.NewFakeClaimsAPI()
	t.Cleanup(api.Close)
	client := claimsapi.NewClient(claimsapi.Config{
		BaseURL:           api.URL(),
		Timeout:           time.Second,
		RequestsPerSecond: 1,
		Burst:             1,
		SummaryTTL:        0,
	}, testhelpers.NewLogger(io.Discard))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := client.TrackClaim(ctx, session(), "MP001234567890")
	require.NoError(t, err)
	_, err = client.TrackClaim(ctx, session(), "MP001234567890")
	require.ErrorIs(t, err, claimsapi.ErrTransport, "second call cannot get a token before the deadline")
}
