// Package web holds the embedded page templates and static assets together
// with the helpers they need to build site-relative URLs.
package web

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// DefaultFaviconPath is the icon shown for links without a stored favicon.
const DefaultFaviconPath = "/static/default-favicon.svg"

// Site carries the branding and base path every page is rendered with.
type Site struct {
	AppName  string
	BasePath string
}

// Href prefixes a root-relative location with the site base path.
func (s Site) Href(loc string) string {
	return s.BasePath + loc
}

// AbsoluteHref turns a root-relative location into a full URL for the host
// that served r. X-Forwarded-Proto is honoured when running behind a proxy.
func (s Site) AbsoluteHref(r *http.Request, loc string) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	return scheme + "://" + r.Host + s.Href(loc)
}

// Title builds the <title> text, prefixing an optional page description.
func (s Site) Title(desc string) string {
	if desc == "" {
		return s.AppName
	}
	return desc + " - " + s.AppName
}

// Templates parses every embedded page and fragment template.
func Templates() (*template.Template, error) {
	return template.New("").ParseFS(templateFS, "templates/*.html")
}

// Static returns the embedded static asset tree rooted at its top directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is the data handed to every full-page template.
type Page struct {
	Site    Site
	Title   string
	Current string
	CSRF    template.HTML
	Content template.HTML
	Data    any
}

// SiteTitle is used by the layout header.
func (p Page) SiteTitle() string {
	return p.Site.Title(p.Title)
}
