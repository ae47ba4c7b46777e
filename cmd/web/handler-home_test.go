package main

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/fraatlas/fraportal/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

func Test_application_home(t *testing.T) {
	api := newFakeClaimsAPI(t)
	server := startTestServer(t, api, nil)
	client := server.Client()
	ctx := t.Context()

	// Anonymous users land on the sign-in page.
	doc, err := client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/login']").Length())
	require.Equal(t, 1, doc.Find("button:contains('Sign in')").Length())
	require.Equal(t, 0, doc.Find("button:contains('Log out')").Length())

	doc = login(t, client)
	require.Equal(t, 1, doc.Find("button:contains('Log out')").Length())
	require.Contains(t, doc.Find(".user").Text(), "testuser")
	require.Contains(t, doc.Find(".user").Text(), "Mandla, Madhya Pradesh")

	latest := doc.Find("#latest-beneficiaries")
	require.Contains(t, latest.Find(".stat-label").Text(), "Mar")
	require.Equal(t, "600", strings.TrimSpace(latest.Find(".stat-value").Text()))
	require.Contains(t, latest.Find(".stat-note").Text(), "+100.0%")
	require.Equal(t, "60.0%", strings.TrimSpace(doc.Find("#granted-share .stat-value").Text()))
	require.Equal(t, "Mandla", strings.TrimSpace(doc.Find("#top-district .stat-value").Text()))
	require.Contains(t, doc.Text(), "No claims submitted yet.")

	doc, err = client.Logout(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("button:contains('Sign in')").Length())

	// The session is gone for good.
	doc, err = client.GetDoc(ctx, "/")
	require.NoError(t, err)
	require.Equal(t, 1, doc.Find("form[action='/login']").Length())
}

func Test_application_login_invalidCredentials(t *testing.T) {
	api := newFakeClaimsAPI(t)
	server := startTestServer(t, api, nil)
	client := server.Client()

	resp, err := client.PostForm(t.Context(), "/login", "/login", url.Values{
		"email":    {testhelpers.FakeEmail},
		"password": {"wrong"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	doc := readDoc(t, resp)
	require.Equal(t, "Invalid email or password.", strings.TrimSpace(doc.Find(".alert-error").Text()))
	require.Equal(t, testhelpers.FakeEmail, doc.Find("#email").AttrOr("value", ""))
}
