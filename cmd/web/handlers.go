package main

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fraatlas/fraportal/internal/claims"
	"github.com/fraatlas/fraportal/internal/contexthelpers"
	"github.com/fraatlas/fraportal/internal/errors"
	"github.com/fraatlas/fraportal/internal/ssr"
	"github.com/fraatlas/fraportal/ui"
)

// pageTemplate returns a template for the given page name.
//
// pageName corresponds to directory inside ui/templates/pages folder. It has to include templates named "title" and
// "main".
func (app *application) pageTemplate(pageName string) (*template.Template, error) {
	patterns := []string{
		"templates/base.gohtml",
		"templates/partials/*.gohtml",
		fmt.Sprintf("templates/pages/%s/*.gohtml", pageName),
	}

	// We need to initialize the FuncMap before parsing the files. These will be overridden in the render function.
	t, err := template.New(pageName).Funcs(template.FuncMap{
		"nonce": func() string {
			panic("not implemented")
		},
		"csrf": func() string {
			panic("not implemented")
		},
		"formatArea":   claims.FormatArea,
		"formatNumber": formatNumber,
	}).ParseFS(ui.Files, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "parse page templates", slog.String("page", pageName))
	}
	return t, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// execute runs the named template of the page with the per-request functions bound.
func (app *application) execute(r *http.Request, page, name string, data any) (*bytes.Buffer, error) {
	var (
		err error
		t   *template.Template
	)

	if t, err = app.pageTemplate(page); err != nil {
		return nil, err
	}

	buf := new(bytes.Buffer)
	ctx := r.Context()
	nonce := fmt.Sprintf("nonce=\"%s\"", contexthelpers.CSPNonce(ctx))
	csrf := fmt.Sprintf("<input type=\"hidden\" name=\"csrf_token\" value=\"%s\"/>", contexthelpers.CSRFToken(ctx))
	t.Funcs(template.FuncMap{
		"nonce": func() template.HTMLAttr {
			return template.HTMLAttr(nonce) //nolint:gosec // we trust the nonce since it's not provided by user.
		},
		"csrf": func() template.HTML {
			return template.HTML(csrf) //nolint:gosec // we trust the csrf since it's not provided by user.
		},
	})
	if err = t.ExecuteTemplate(buf, name, data); err != nil {
		return nil, errors.Wrap(err, "execute template", slog.String("page", page), slog.String("template", name))
	}
	return buf, nil
}

// render writes the full page with the custom elements expanded.
func (app *application) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	buf, err := app.execute(r, page, "base", data)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	out := new(bytes.Buffer)
	if err = ssr.ReplaceCustomElements(out, buf); err != nil {
		app.serverError(w, r, errors.Wrap(err, "replace custom elements", slog.String("page", page)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = out.WriteTo(w)
}

// renderFragment writes only the named template of the page, e.g. for swapping a part of the page with htmx.
func (app *application) renderFragment(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	page string,
	name string,
	data any,
) {
	buf, err := app.execute(r, page, name, data)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	out := new(bytes.Buffer)
	if err = ssr.ReplaceCustomElementsInFragment(out, buf); err != nil {
		app.serverError(w, r, errors.Wrap(err, "replace custom elements", slog.String("page", page)))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = out.WriteTo(w)
}
