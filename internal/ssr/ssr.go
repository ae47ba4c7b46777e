// Package ssr expands the custom elements used in the page templates into plain HTML before it is sent.
//
// Supported elements:
//
//	<status-chip status="under_review"></status-chip>
//	    -> <span class="chip chip-warning" data-status="under_review">UNDER REVIEW</span>
//	<button-primary>Submit</button-primary> and <button as="button-primary">Submit</button>
//	    -> <button class="btn btn-primary">Submit</button>
package ssr

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/errors"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const primaryButtonClass = "btn btn-primary"

// ReplaceCustomElements expands the custom elements of a full HTML document.
func ReplaceCustomElements(writer io.Writer, reader io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return errors.Wrap(err, "parse document")
	}
	expand(doc)
	if err = html.Render(writer, doc.Nodes[0]); err != nil {
		return errors.Wrap(err, "render html")
	}
	return nil
}

// ReplaceCustomElementsInFragment expands the custom elements of an HTML fragment such as an htmx partial.
func ReplaceCustomElementsInFragment(writer io.Writer, reader io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return errors.Wrap(err, "parse fragment")
	}
	expand(doc)

	// The parser wraps the fragment in html and body elements. Only the body's children are written back.
	body := doc.Find("body")
	if len(body.Nodes) > 0 {
		for c := body.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
			if err = html.Render(writer, c); err != nil {
				return errors.Wrap(err, "render html")
			}
		}
	}
	return nil
}

func expand(doc *goquery.Document) {
	doc.Find("status-chip").Each(func(_ int, s *goquery.Selection) {
		status := claims.Status(s.AttrOr("status", ""))
		s.RemoveAttr("status")
		rename(s, atom.Span)
		s.AddClass("chip", "chip-"+string(status.Color()))
		normalizeClass(s)
		s.SetAttr("data-status", string(status))
		s.SetText(status.Label())
	})

	doc.Find("button-primary").Each(func(_ int, s *goquery.Selection) {
		rename(s, atom.Button)
		s.AddClass(primaryButtonClass)
		normalizeClass(s)
	})
	doc.Find(`[as="button-primary"]`).Each(func(_ int, s *goquery.Selection) {
		s.RemoveAttr("as")
		s.AddClass(primaryButtonClass)
		normalizeClass(s)
	})
}

// normalizeClass collapses the whitespace AddClass leaves behind when appending to an existing class list.
func normalizeClass(s *goquery.Selection) {
	s.Each(func(_ int, el *goquery.Selection) {
		if class, ok := el.Attr("class"); ok {
			el.SetAttr("class", strings.Join(strings.Fields(class), " "))
		}
	})
}

func rename(s *goquery.Selection, a atom.Atom) {
	for _, n := range s.Nodes {
		n.DataAtom = a
		n.Data = a.String()
	}
}
