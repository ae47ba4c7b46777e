package ssr_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fraatlas/fraportal/internal/ssr"
	"github.com/stretchr/testify/require"
)

func TestReplaceCustomElementsInFragment(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "approved chip",
			input: `<status-chip status="approved"></status-chip>`,
			want:  `<span class="chip chip-success" data-status="approved">APPROVED</span>`,
		},
		{
			name:  "chip keeps classes",
			input: `<status-chip class="small" status="under_review"></status-chip>`,
			want:  `<span class="small chip chip-warning" data-status="under_review">UNDER REVIEW</span>`,
		},
		{
			name:  "unknown status",
			input: `<status-chip status="archived"></status-chip>`,
			want:  `<span class="chip chip-default" data-status="archived">ARCHIVED</span>`,
		},
		{
			name:  "primary button inside as",
			input: `<button as="button-primary" type="submit">Track</button>`,
			want:  `<button type="submit" class="btn btn-primary">Track</button>`,
		},
		{
			name:  "primary button element",
			input: `<button-primary class="wide">Track</button-primary>`,
			want:  `<button class="wide btn btn-primary">Track</button>`,
		},
		{
			name:  "plain html untouched",
			input: `<p>Hello <b>world</b></p>`,
			want:  `<p>Hello <b>world</b></p>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, ssr.ReplaceCustomElementsInFragment(&out, strings.NewReader(tt.input)))
			require.Equal(t, tt.want, out.String())
		})
	}
}

func TestReplaceCustomElements(t *testing.T) {
	input := `<!DOCTYPE html><html lang="en"><head><title>Track</title></head>` +
		`<body><table><tr><td><status-chip status="rejected"></status-chip></td></tr></table></body></html>`
	var out bytes.Buffer
	require.NoError(t, ssr.ReplaceCustomElements(&out, strings.NewReader(input)))
	require.True(t, strings.HasPrefix(out.String(), "<!DOCTYPE html>"))

	doc, err := goquery.NewDocumentFromReader(&out)
	require.NoError(t, err)
	require.Equal(t, "Track", doc.Find("title").Text())
	chip := doc.Find("td span.chip")
	require.Equal(t, 1, chip.Length())
	require.True(t, chip.HasClass("chip-error"))
	require.Equal(t, "REJECTED", chip.Text())
	require.Equal(t, 0, doc.Find("status-chip").Length())
}
