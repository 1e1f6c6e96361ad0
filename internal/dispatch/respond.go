package dispatch

import (
	"fmt"
	"net/http"

	"github.com/beevik/etree"

	"github.com/mrlokans/linkdepot/internal/logger"
	"github.com/mrlokans/linkdepot/internal/render"
)

type errorView struct {
	Message string
	Report  string
}

// fail is the error boundary. It logs the error and writes one response
// in the resolved format, then aborts the gin chain.
func (d *Dispatcher) fail(req *Request, err error) {
	e := asError(err)
	c := req.c

	fields := []logger.Field{
		logger.String("method", c.Request.Method),
		logger.String("path", c.Request.URL.Path),
		logger.String("action", req.Action),
		logger.String("format", req.Format.String()),
		logger.Int("status", e.Code),
	}
	if e.Fault != nil {
		fields = append(fields, logger.Error(e.Fault))
	}
	if e.Code >= http.StatusInternalServerError {
		d.log.Error(e.Message, fields...)
	} else {
		d.log.Warn(e.Message, fields...)
	}

	if c.Writer.Written() {
		c.Abort()
		return
	}

	switch req.Format {
	case FormatHTML:
		d.errorHTML(req, e)
	case FormatJSON:
		d.errorJSON(req, e)
	case FormatXML:
		d.errorXML(req, e)
	default:
		d.errorPlain(req, e)
	}
	c.Abort()
}

func (d *Dispatcher) errorPlain(req *Request, e *Error) {
	body := "Error: " + e.Message
	if e.Fault != nil {
		body += "\n\n" + Report(e.Fault)
	}
	req.c.Data(e.Code, FormatUnknown.ContentType(), []byte(body))
}

func (d *Dispatcher) errorHTML(req *Request, e *Error) {
	page := req.Page("Error", errorView{Message: e.Message, Report: Report(e.Fault)})
	req.c.HTML(e.Code, "error.html", page)
}

func (d *Dispatcher) errorJSON(req *Request, e *Error) {
	inner := render.NewFields()
	inner.Set("message", e.Message)

	if e.Fault != nil {
		trace := make([]*render.Fields, 0)
		for _, f := range Frames(e.Fault) {
			frame := render.NewFields()
			frame.Set("file", f.File)
			frame.Set("line", f.Line)
			frame.Set("function", f.Function)
			trace = append(trace, frame)
		}

		exception := render.NewFields()
		exception.Set("report", Report(e.Fault))
		exception.Set("message", e.Fault.Error())
		exception.Set("trace", trace)
		inner.Set("exception", exception)
	}

	outer := render.NewFields()
	outer.Set("error", inner)

	body, err := outer.MarshalJSON()
	if err != nil {
		d.errorPlain(req, e)
		return
	}
	req.c.Data(e.Code, FormatJSON.ContentType(), body)
}

func (d *Dispatcher) errorXML(req *Request, e *Error) {
	root := etree.NewElement("error")
	root.CreateElement("message").SetText(e.Message)

	if e.Fault != nil {
		exception := root.CreateElement("exception")
		exception.CreateElement("report").SetText(Report(e.Fault))
		exception.CreateElement("message").SetText(e.Fault.Error())

		stack := exception.CreateElement("stacktrace")
		for _, f := range Frames(e.Fault) {
			frame := stack.CreateElement("frame")
			frame.CreateAttr("file", f.File)
			frame.CreateAttr("line", fmt.Sprint(f.Line))
			frame.CreateAttr("function", f.Function)
		}
	}

	body, err := render.XMLDocument(root)
	if err != nil {
		d.errorPlain(req, e)
		return
	}
	req.c.Data(e.Code, FormatXML.ContentType(), body)
}
