// Package web embeds the page templates, the browser client and the
// fallback decoration assets.
package web

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/kyiku/hackz-valentine-back/internal/summary"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed assets
var assetFS embed.FS

// funcs are available to every page template.
var funcs = template.FuncMap{
	// summaryRows renders the final page rows. Values are escaped by
	// summary.RowsHTML.
	"summaryRows": func(rows []summary.Row) template.HTML {
		return template.HTML(summary.RowsHTML(rows))
	},
}

// Templates parses every page template. Each page is addressed by its file
// name, e.g. "question.html".
func Templates() (*template.Template, error) {
	return template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

// Static returns the script and stylesheet files.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // embedded directory is fixed at build time
	}
	return sub
}

// Assets returns the decoration images used when S3 is not configured.
func Assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
