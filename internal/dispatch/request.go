package dispatch

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"

	"github.com/mrlokans/linkdepot/internal/render"
	"github.com/mrlokans/linkdepot/internal/web"
)

// Request is the per-request state handed to handlers.
type Request struct {
	c *gin.Context
	d *Dispatcher

	Method Method
	Action string
	Format Format

	rawFormat string
}

// Context exposes the underlying gin context.
func (r *Request) Context() *gin.Context {
	return r.c
}

// Site returns the branding and base path the dispatcher renders with.
func (r *Request) Site() web.Site {
	return r.d.site
}

// Query returns a URL query parameter.
func (r *Request) Query(name string) (string, bool) {
	return r.c.GetQuery(name)
}

// Param returns a request parameter. Submitted form values take precedence
// over the query string.
func (r *Request) Param(name string) (string, bool) {
	if v, ok := r.c.GetPostForm(name); ok {
		return v, true
	}
	return r.c.GetQuery(name)
}

// ParamOr returns a request parameter or def when it is absent.
func (r *Request) ParamOr(name, def string) string {
	if v, ok := r.Param(name); ok {
		return v
	}
	return def
}

// Required fails with 400 naming every parameter that is absent or blank.
func (r *Request) Required(names ...string) error {
	var missing []string
	for _, name := range names {
		if v, ok := r.Param(name); !ok || strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	if len(missing) == 1 {
		return Errorf(http.StatusBadRequest, "Required parameter %s wasn't set", missing[0])
	}
	return Errorf(http.StatusBadRequest, "Required parameters %s weren't set", strings.Join(missing, ", "))
}

// ID parses the id query parameter.
func (r *Request) ID() (uint, error) {
	raw, ok := r.Query("id")
	if !ok || raw == "" {
		return 0, NewError(http.StatusBadRequest, "Required parameter id wasn't set")
	}
	return parseID("id", raw)
}

func parseID(name, raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || id == 0 {
		return 0, Errorf(http.StatusBadRequest, "Invalid %s parameter %q", name, raw)
	}
	return uint(id), nil
}

// Expand reports whether nested relations were asked for.
func (r *Request) Expand() bool {
	v, _ := r.Query("expand")
	return IsEnabled(v)
}

// IsEnabled accepts 1, true, on and yes in any case.
func IsEnabled(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	default:
		return false
	}
}

// OnlyHTML fails with 400 when the request asked for a machine format.
func (r *Request) OnlyHTML() error {
	if r.Format != FormatHTML {
		return Errorf(http.StatusBadRequest, "Action %s is only available as HTML", r.Action)
	}
	return nil
}

// Page prepares the layout data for a full HTML page.
func (r *Request) Page(title string, data any) web.Page {
	return web.Page{
		Site:    r.d.site,
		Title:   title,
		Current: r.d.nav,
		CSRF:    csrf.TemplateField(r.c.Request),
		Data:    data,
	}
}

// HTML renders a page template.
func (r *Request) HTML(code int, name string, page web.Page) error {
	r.c.HTML(code, name, page)
	return nil
}

// JSON writes a key-ordered structured body.
func (r *Request) JSON(code int, fields *render.Fields) error {
	body, err := fields.MarshalJSON()
	if err != nil {
		return WrapError(http.StatusInternalServerError, "Unable to encode the response", err)
	}
	r.c.Data(code, FormatJSON.ContentType(), body)
	return nil
}

// XML writes root as a standalone document.
func (r *Request) XML(code int, root *etree.Element) error {
	body, err := render.XMLDocument(root)
	if err != nil {
		return WrapError(http.StatusInternalServerError, "Unable to encode the response", err)
	}
	r.c.Data(code, FormatXML.ContentType(), body)
	return nil
}

// RenderDefault renders an entity in the resolved format: HTML with its
// management menu inside the layout, JSON and XML fully expanded. Calling it
// with an unresolved format is a programming error and panics.
func (r *Request) RenderDefault(v render.Renderable) error {
	switch r.Format {
	case FormatHTML:
		content, err := v.AsHTML(true)
		if err != nil {
			return WrapError(http.StatusInternalServerError, "Unable to render the page", err)
		}
		page := r.Page("", nil)
		page.Content = content
		return r.HTML(http.StatusOK, pageFor(v), page)
	case FormatJSON:
		body, err := render.AsJSON(v, true)
		if err != nil {
			return WrapError(http.StatusInternalServerError, "Unable to encode the response", err)
		}
		r.c.Data(http.StatusOK, FormatJSON.ContentType(), body)
		return nil
	case FormatXML:
		el, err := v.AsXML(nil, true)
		if err != nil {
			return WrapError(http.StatusInternalServerError, "Unable to encode the response", err)
		}
		return r.XML(http.StatusOK, el)
	default:
		panic(fmt.Sprintf("dispatch: cannot render in format %s", r.Format))
	}
}

// pageFor picks the wrapper template: link rows need a surrounding table.
func pageFor(v render.Renderable) string {
	switch v.(type) {
	case *render.Link:
		return "link_view.html"
	case *render.Shelf:
		return "entity.html"
	default:
		return "entity.html"
	}
}
