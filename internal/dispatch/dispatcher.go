// Package dispatch routes a request to the handler registered for its
// (method, action) pair, resolves the response format from the format
// parameter and owns the single error boundary.
//
// # Usage
//
//	d := dispatch.New(site, "link", log)
//	d.AddHandler(dispatch.MethodGet, "view", controller.View)
//	d.AddHandler(dispatch.MethodGet, "favicon", controller.Favicon, dispatch.AnyFormat())
//	router.Any("/link", d.Handle)
//
// Handlers pull their own parameters from the Request and either write a
// response or return an error. Returned errors are rendered by the
// dispatcher exactly once, in the requested format.
package dispatch

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkdepot/internal/logger"
	"github.com/mrlokans/linkdepot/internal/web"
)

// HandlerFunc handles one (method, action) pair.
type HandlerFunc func(*Request) error

type route struct {
	handler   HandlerFunc
	anyFormat bool
}

// Option customizes a registered handler.
type Option func(*route)

// AnyFormat lets a handler run even when the format parameter is not
// recognized. Used by endpoints that stream raw bytes.
func AnyFormat() Option {
	return func(r *route) {
		r.anyFormat = true
	}
}

// Dispatcher is the (method, action) handler table for one endpoint.
type Dispatcher struct {
	handlers map[Method]map[string]route
	site     web.Site
	nav      string
	log      logger.Logger
}

// New creates a dispatcher. nav names the navigation entry that is not
// linked while one of its pages is shown.
func New(site web.Site, nav string, log logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.NewNop()
	}
	return &Dispatcher{
		handlers: map[Method]map[string]route{
			MethodGet:    {},
			MethodPost:   {},
			MethodPut:    {},
			MethodDelete: {},
		},
		site: site,
		nav:  nav,
		log:  log,
	}
}

// AddHandler registers h for the pair, replacing any previous handler.
func (d *Dispatcher) AddHandler(method Method, action string, h HandlerFunc, opts ...Option) {
	r := route{handler: h}
	for _, opt := range opts {
		opt(&r)
	}
	d.handlers[method][strings.ToLower(action)] = r
}

func (d *Dispatcher) lookup(method Method, action string) (route, bool) {
	actions, ok := d.handlers[method]
	if !ok {
		return route{}, false
	}
	r, ok := actions[action]
	return r, ok
}

// Handle is the gin entry point for the endpoint.
func (d *Dispatcher) Handle(c *gin.Context) {
	req := d.newRequest(c)

	method, ok := ParseMethod(c.Request.Method)
	if !ok {
		d.fail(req, NewError(http.StatusMethodNotAllowed, "Method not allowed"))
		return
	}
	req.Method = method

	r, ok := d.lookup(method, req.Action)
	if !ok {
		d.fail(req, Errorf(http.StatusMethodNotAllowed,
			"No %s handler for action %q", method, req.Action))
		return
	}

	if req.Format == FormatUnknown && !r.anyFormat {
		d.fail(req, Errorf(http.StatusBadRequest, "Format %q isn't supported", req.rawFormat))
		return
	}

	if err := r.handler(req); err != nil {
		d.fail(req, err)
	}
}

func (d *Dispatcher) newRequest(c *gin.Context) *Request {
	rawFormat := c.Query("format")
	return &Request{
		c:         c,
		d:         d,
		Action:    strings.ToLower(c.Query("action")),
		Format:    ParseFormat(rawFormat),
		rawFormat: rawFormat,
	}
}
