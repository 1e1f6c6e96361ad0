package dispatch

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/beevik/etree"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/linkdepot/internal/entities"
	"github.com/mrlokans/linkdepot/internal/logger"
	"github.com/mrlokans/linkdepot/internal/render"
	"github.com/mrlokans/linkdepot/internal/web"
)

var testSite = web.Site{AppName: "Link Depot", BasePath: ""}

func setupRouter(t *testing.T) (*gin.Engine, *Dispatcher) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.Use(gin.Recovery())
	router.SetHTMLTemplate(tmpl)

	d := New(testSite, "link", logger.NewNop())
	router.Any("/link", d.Handle)
	return router, d
}

func serve(router *gin.Engine, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
	}{
		{"", FormatHTML},
		{"html", FormatHTML},
		{"HTML", FormatHTML},
		{"json", FormatJSON},
		{"Json", FormatJSON},
		{"xml", FormatXML},
		{"XML", FormatXML},
		{"yaml", FormatUnknown},
		{"csv", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseFormat(tt.input))
		})
	}
}

func TestParseMethod(t *testing.T) {
	m, ok := ParseMethod("post")
	assert.True(t, ok)
	assert.Equal(t, MethodPost, m)
	assert.Equal(t, "POST", m.String())

	_, ok = ParseMethod("PATCH")
	assert.False(t, ok)
}

func TestDispatcher_InvokesRegisteredHandlerOnce(t *testing.T) {
	router, d := setupRouter(t)

	calls := 0
	d.AddHandler(MethodPost, "add", func(r *Request) error {
		calls++
		r.Context().String(http.StatusOK, "added")
		return nil
	})

	w := serve(router, "POST", "/link?action=add", url.Values{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "added", w.Body.String())
	assert.Equal(t, 1, calls)

	w = serve(router, "GET", "/link?action=add", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, 1, calls)
}

func TestDispatcher_ActionIsCaseInsensitive(t *testing.T) {
	router, d := setupRouter(t)

	d.AddHandler(MethodGet, "View", func(r *Request) error {
		r.Context().String(http.StatusOK, r.Action)
		return nil
	})

	w := serve(router, "GET", "/link?action=VIEW", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "view", w.Body.String())
}

func TestDispatcher_AddHandlerOverwrites(t *testing.T) {
	router, d := setupRouter(t)

	d.AddHandler(MethodGet, "view", func(r *Request) error {
		r.Context().String(http.StatusOK, "first")
		return nil
	})
	d.AddHandler(MethodGet, "view", func(r *Request) error {
		r.Context().String(http.StatusOK, "second")
		return nil
	})

	w := serve(router, "GET", "/link?action=view", nil)
	assert.Equal(t, "second", w.Body.String())
}

func TestDispatcher_UnsupportedMethod(t *testing.T) {
	router, d := setupRouter(t)
	d.AddHandler(MethodGet, "view", func(r *Request) error { return nil })

	w := serve(router, "PATCH", "/link?action=view&format=json", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.JSONEq(t, `{"error":{"message":"Method not allowed"}}`, w.Body.String())
}

func TestDispatcher_UnknownFormat(t *testing.T) {
	router, d := setupRouter(t)

	called := false
	d.AddHandler(MethodGet, "view", func(r *Request) error {
		called = true
		return nil
	})
	d.AddHandler(MethodGet, "favicon", func(r *Request) error {
		r.Context().Data(http.StatusOK, "image/png", []byte("png"))
		return nil
	}, AnyFormat())

	w := serve(router, "GET", "/link?action=view&format=yaml", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, called)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `Error: Format "yaml" isn't supported`, w.Body.String())

	w = serve(router, "GET", "/link?action=favicon&format=yaml", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}

func TestDispatcher_ErrorContract(t *testing.T) {
	router, d := setupRouter(t)
	d.AddHandler(MethodGet, "missing", func(r *Request) error {
		return NewError(http.StatusNotFound, "not found")
	})

	t.Run("json", func(t *testing.T) {
		w := serve(router, "GET", "/link?action=missing&format=json", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Equal(t, `{"error":{"message":"not found"}}`, w.Body.String())
	})

	t.Run("xml", func(t *testing.T) {
		w := serve(router, "GET", "/link?action=missing&format=xml", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/xml; charset=utf-8", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Body.String(), "<error><message>not found</message></error>")
		assert.NotContains(t, w.Body.String(), "<exception>")
	})

	t.Run("html", func(t *testing.T) {
		w := serve(router, "GET", "/link?action=missing", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), "<p><b>Error:</b> not found.</p>")
		assert.Contains(t, w.Body.String(), `id="navbar"`)
		assert.NotContains(t, w.Body.String(), "<pre>")
	})
}

func TestDispatcher_FaultIsReported(t *testing.T) {
	router, d := setupRouter(t)
	d.AddHandler(MethodPost, "add", func(r *Request) error {
		return WrapError(http.StatusInternalServerError,
			"Something went wrong while trying to commit changes to the database",
			errors.New("database is locked"))
	})

	t.Run("json", func(t *testing.T) {
		w := serve(router, "POST", "/link?action=add&format=json", url.Values{})
		require.Equal(t, http.StatusInternalServerError, w.Code)

		var body struct {
			Error struct {
				Message   string `json:"message"`
				Exception struct {
					Report  string `json:"report"`
					Message string `json:"message"`
					Trace   []struct {
						File     string `json:"file"`
						Line     int    `json:"line"`
						Function string `json:"function"`
					} `json:"trace"`
				} `json:"exception"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Something went wrong while trying to commit changes to the database", body.Error.Message)
		assert.Equal(t, "database is locked", body.Error.Exception.Message)
		assert.Contains(t, body.Error.Exception.Report, "database is locked")
		require.NotEmpty(t, body.Error.Exception.Trace)
		assert.NotEmpty(t, body.Error.Exception.Trace[0].Function)
		assert.Positive(t, body.Error.Exception.Trace[0].Line)
	})

	t.Run("xml", func(t *testing.T) {
		w := serve(router, "POST", "/link?action=add&format=xml", url.Values{})
		require.Equal(t, http.StatusInternalServerError, w.Code)

		doc := etree.NewDocument()
		require.NoError(t, doc.ReadFromBytes(w.Body.Bytes()))
		exception := doc.FindElement("/error/exception")
		require.NotNil(t, exception)
		assert.Equal(t, "database is locked", exception.SelectElement("message").Text())
		frames := exception.FindElements("stacktrace/frame")
		require.NotEmpty(t, frames)
		assert.NotEmpty(t, frames[0].SelectAttrValue("function", ""))
	})

	t.Run("plain", func(t *testing.T) {
		d.AddHandler(MethodGet, "raw", func(r *Request) error {
			return WrapError(http.StatusInternalServerError, "boom", errors.New("cause"))
		}, AnyFormat())
		w := serve(router, "GET", "/link?action=raw&format=csv", nil)
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.True(t, strings.HasPrefix(w.Body.String(), "Error: boom\n\ncause"))
	})

	t.Run("html", func(t *testing.T) {
		w := serve(router, "POST", "/link?action=add", url.Values{})
		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "<pre><code>database is locked")
	})
}

func TestDispatcher_PlainErrorsBecomeInternal(t *testing.T) {
	router, d := setupRouter(t)
	d.AddHandler(MethodGet, "view", func(r *Request) error {
		return errors.New("unexpected")
	})

	w := serve(router, "GET", "/link?action=view&format=json", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Internal server error"`)
	assert.Contains(t, w.Body.String(), `"message":"unexpected"`)
}

func TestDispatcher_ErrorAfterWriteIsNotDuplicated(t *testing.T) {
	router, d := setupRouter(t)
	d.AddHandler(MethodGet, "view", func(r *Request) error {
		r.Context().String(http.StatusOK, "partial")
		return errors.New("late failure")
	})

	w := serve(router, "GET", "/link?action=view", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestRequest_Params(t *testing.T) {
	router, d := setupRouter(t)

	var got struct {
		title    string
		fromForm string
		missing  bool
		expand   bool
		required error
	}
	d.AddHandler(MethodPost, "add", func(r *Request) error {
		got.title, _ = r.Param("title")
		got.fromForm, _ = r.Param("url")
		_, ok := r.Param("favicon")
		got.missing = !ok
		got.expand = r.Expand()
		got.required = r.Required("url", "title", "shelf", "favicon")
		r.Context().Status(http.StatusNoContent)
		return nil
	})

	form := url.Values{"title": {"From form"}, "url": {"https://go.dev"}, "shelf": {"  "}}
	w := serve(router, "POST", "/link?action=add&title=From+query&expand=YES", form)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, "From form", got.title)
	assert.Equal(t, "https://go.dev", got.fromForm)
	assert.True(t, got.missing)
	assert.True(t, got.expand)

	var e *Error
	require.True(t, errors.As(got.required, &e))
	assert.Equal(t, http.StatusBadRequest, e.Code)
	assert.Equal(t, "Required parameters shelf, favicon weren't set", e.Message)
}

func TestRequest_ID(t *testing.T) {
	router, d := setupRouter(t)
	d.AddHandler(MethodGet, "view", func(r *Request) error {
		id, err := r.ID()
		if err != nil {
			return err
		}
		r.Context().String(http.StatusOK, "%d", id)
		return nil
	})

	w := serve(router, "GET", "/link?action=view&id=42", nil)
	assert.Equal(t, "42", w.Body.String())

	w = serve(router, "GET", "/link?action=view&format=json", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":{"message":"Required parameter id wasn't set"}}`, w.Body.String())

	w = serve(router, "GET", "/link?action=view&id=abc&format=json", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, "GET", "/link?action=view&id=0&format=json", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequest_OnlyHTML(t *testing.T) {
	router, d := setupRouter(t)
	d.AddHandler(MethodGet, "add", func(r *Request) error {
		if err := r.OnlyHTML(); err != nil {
			return err
		}
		r.Context().String(http.StatusOK, "form")
		return nil
	})

	assert.Equal(t, http.StatusOK, serve(router, "GET", "/link?action=add", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, "GET", "/link?action=add&format=json", nil).Code)
	assert.Equal(t, http.StatusBadRequest, serve(router, "GET", "/link?action=add&format=xml", nil).Code)
}

type staticLinks map[uint][]entities.Link

func (s staticLinks) ListForShelf(id uint) ([]entities.Link, error) { return s[id], nil }

func TestRequest_RenderDefault(t *testing.T) {
	router, d := setupRouter(t)

	tmpl, err := web.Templates()
	require.NoError(t, err)
	shelf := &entities.Shelf{ID: 1, Title: "Reading"}
	link := entities.Link{ID: 2, Title: "Go", URL: "https://go.dev", ShelfID: 1}
	renderer := render.NewRenderer(tmpl, testSite, staticLinks{1: {link}})

	d.AddHandler(MethodGet, "view", func(r *Request) error {
		return r.RenderDefault(renderer.Shelf(shelf))
	})
	d.AddHandler(MethodGet, "link", func(r *Request) error {
		return r.RenderDefault(renderer.Link(&link))
	})

	w := serve(router, "GET", "/link?action=view&format=json", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"id":1,"title":"Reading","starred":false,"links":[{"id":2,"title":"Go","url":"https://go.dev","favicon":null}]}`, w.Body.String())

	w = serve(router, "GET", "/link?action=view&format=xml", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<shelf id="1" starred="false"><title>Reading</title><links><link id="2">`)

	w = serve(router, "GET", "/link?action=view", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="link-shelf" id="shelf-1"`)
	assert.Contains(t, w.Body.String(), `class="link-actions"`)

	w = serve(router, "GET", "/link?action=link", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<table class="link-box">`)
	assert.Contains(t, w.Body.String(), `class="link-item"`)
}

func TestRequest_RenderDefaultPanicsOnUnknownFormat(t *testing.T) {
	req := &Request{Format: FormatUnknown}
	assert.Panics(t, func() {
		_ = req.RenderDefault(nil)
	})
}

func TestIsEnabled(t *testing.T) {
	for _, v := range []string{"1", "true", "TRUE", "on", "yes", " Yes "} {
		assert.True(t, IsEnabled(v), v)
	}
	for _, v := range []string{"", "0", "false", "off", "no", "maybe"} {
		assert.False(t, IsEnabled(v), v)
	}
}

func TestWrapError_KeepsExistingStack(t *testing.T) {
	inner := WrapError(http.StatusInternalServerError, "first", errors.New("root"))
	outer := WrapError(http.StatusInternalServerError, "second", inner.Fault)
	assert.Same(t, inner.Fault, outer.Fault)
	assert.Len(t, Frames(outer.Fault), len(Frames(inner.Fault)))
	assert.Empty(t, Frames(errors.New("no stack")))
	assert.Equal(t, "", Report(nil))
}
