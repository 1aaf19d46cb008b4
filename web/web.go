// Package web holds the storefront's HTML templates and static assets,
// compiled into the binary.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	html "github.com/gofiber/template/html/v2"
	"github.com/shopspring/decimal"

	"menuboard/internal/pricing"
)

//go:embed templates
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Engine returns the view engine over the embedded templates. Template names
// are paths without the extension, e.g. "menu" or "partials/header".
func Engine() *html.Engine {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic(err)
	}
	e := html.NewFileSystem(http.FS(sub), ".html")
	e.AddFunc("money", func(v float64) string {
		return pricing.Format(decimal.NewFromFloat(v))
	})
	e.AddFunc("spicy", func(level int) []struct{} {
		return make([]struct{}, max(level, 0))
	})
	return e
}

// Static is the embedded static directory, rooted at its contents.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
