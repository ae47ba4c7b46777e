package main

import (
	"net/http"
	"time"
)

const timeoutBody = `<!DOCTYPE html>
<html lang="en">
<head><title>Timeout · FRA Atlas</title><link rel="stylesheet" href="/static/style.css"></head>
<body>
<main>
<section class="card narrow">
    <h1>The request took too long</h1>
    <p>The claims service did not answer in time.</p>
    <a class="btn btn-primary" href="">Try again</a>
</section>
</main>
</body>
</html>
`

// timeoutHandler responds with a 503 Service Unavailable error when the handler does not meet the deadline.
func timeoutHandler(h http.Handler, defaultTimeout time.Duration) http.Handler {
	// The deadline is a little shorter than the server's write timeout so that the
	// timeout page is sent before the server closes the connection.
	httpHandlerTimeout := defaultTimeout - 500*time.Millisecond //nolint:mnd // 500ms
	return http.TimeoutHandler(h, httpHandlerTimeout, timeoutBody)
}
