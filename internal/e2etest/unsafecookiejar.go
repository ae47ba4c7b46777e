package e2etest

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/fraatlas/fraportal/internal/errors"
)

// insecureJar stores Secure cookies as plain ones because the test server speaks HTTP.
type insecureJar struct {
	*cookiejar.Jar
}

func newUnsafeCookieJar() (http.CookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "new cookie jar")
	}
	return insecureJar{Jar: jar}, nil
}

func (j insecureJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	j.Jar.SetCookies(u, cookies)
}
