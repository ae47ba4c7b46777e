package main

import (
	"io"
	"net/http"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fraatlas/fraportal/internal/e2etest"
	"github.com/fraatlas/fraportal/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

// startTestServer runs the application against api on a random port with an in-memory database. env overrides the
// environment.
func startTestServer(t *testing.T, api *testhelpers.FakeClaimsAPI, env map[string]string) *e2etest.Server {
	t.Helper()
	lookupEnv := func(key string) (string, bool) {
		if value, ok := env[key]; ok {
			return value, true
		}
		switch key {
		case "FRAPORTAL_ADDR":
			return "localhost:0", true
		case "FRAPORTAL_SQLITE_URL":
			return ":memory:", true
		case "FRAPORTAL_API_URL":
			return api.URL(), true
		default:
			return "", false
		}
	}
	server, err := e2etest.StartServer(t.Context(), io.Discard, lookupEnv, run)
	require.NoError(t, err)
	return server
}

func newFakeClaimsAPI(t *testing.T) *testhelpers.FakeClaimsAPI {
	t.Helper()
	api := testhelpers.NewFakeClaimsAPI()
	t.Cleanup(api.Close)
	return api
}

// login signs in as the fake user and returns the dashboard document.
func login(t *testing.T, client *e2etest.Client) *goquery.Document {
	t.Helper()
	doc, err := client.Login(t.Context(), testhelpers.FakeEmail, testhelpers.FakePassword)
	require.NoError(t, err)
	return doc
}

// readDoc parses and closes the response body.
func readDoc(t *testing.T, resp *http.Response) *goquery.Document {
	t.Helper()
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)
	return doc
}

func countRequests(api *testhelpers.FakeClaimsAPI, request string) int {
	n := 0
	for _, r := range api.Requests() {
		if r == request {
			n++
		}
	}
	return n
}
