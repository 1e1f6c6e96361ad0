package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/linkdepot/internal/dispatch"
	"github.com/mrlokans/linkdepot/internal/render"
	"github.com/mrlokans/linkdepot/internal/security"
	"github.com/mrlokans/linkdepot/internal/web"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Every route lives under cfg.Site.BasePath.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	log := cfg.Logger

	router := gin.New()
	router.Use(RequestIDMiddleware())
	if log != nil {
		router.Use(AccessLogMiddleware(log))
	}
	router.Use(gin.Recovery())

	router.Use(security.HeadersMiddleware())
	if cfg.SecureCookies {
		router.Use(security.StrictTransportSecurityMiddleware())
	}

	// CSRF must run before the session so the session context is layered on
	// top of the request CSRF hands back.
	if cfg.CSRFSecret != "" {
		csrfMiddleware, err := security.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies)
		if err != nil {
			return nil, fmt.Errorf("csrf: %w", err)
		}
		router.Use(csrfMiddleware)
	}

	var memory ShelfMemory
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.LoadSave())
		memory = cfg.SessionManager
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	site := cfg.Site
	base := router.Group(site.BasePath)

	if cfg.StaticPath != "" {
		base.Static("/static", cfg.StaticPath)
	} else {
		base.StaticFS("/static", http.FS(web.Static()))
	}

	renderer := render.NewRenderer(tmpl, site, cfg.Links)
	links := NewLinkController(cfg.Shelves, cfg.Links, renderer, cfg.Favicons, memory, log)
	shelves := NewShelfController(cfg.Shelves, renderer, memory, log)
	pages := NewPagesController(cfg.Shelves, renderer)
	health := NewHealthController(cfg.Database, cfg.Shelves, cfg.Links, cfg.Version)

	// Health endpoints
	base.GET("/health", health.Status)
	base.GET("/ping", Ping)

	// Entity endpoints, dispatched on method + action
	linkDispatcher := dispatch.New(site, "link", log)
	links.Register(linkDispatcher)
	base.Any("/link", linkDispatcher.Handle)

	shelfDispatcher := dispatch.New(site, "shelves", log)
	shelves.Register(shelfDispatcher)
	base.Any("/shelf", shelfDispatcher.Handle)

	// Pages
	indexDispatcher := dispatch.New(site, "index", log)
	indexDispatcher.AddHandler(dispatch.MethodGet, "", pages.Index)
	base.GET("/", indexDispatcher.Handle)

	shelvesDispatcher := dispatch.New(site, "shelves", log)
	shelvesDispatcher.AddHandler(dispatch.MethodGet, "", shelves.List)
	base.GET("/shelves", shelvesDispatcher.Handle)

	aboutDispatcher := dispatch.New(site, "about", log)
	aboutDispatcher.AddHandler(dispatch.MethodGet, "", pages.About)
	base.GET("/about", aboutDispatcher.Handle)

	return router, nil
}
