package http

import (
	"github.com/mrlokans/linkdepot/internal/database"
	"github.com/mrlokans/linkdepot/internal/logger"
	"github.com/mrlokans/linkdepot/internal/session"
	"github.com/mrlokans/linkdepot/internal/web"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database
	Shelves  ShelfStore
	Links    LinkStore
	Logger   logger.Logger

	// Favicon downloads, queued or inline (optional)
	Favicons FaviconEnqueuer

	// Sessions (optional)
	SessionManager *session.Manager

	// Security
	CSRFSecret    string
	SecureCookies bool

	// Site branding and base path
	Site web.Site

	// Serve static assets from disk instead of the embedded copy
	StaticPath string

	// Application info
	Version string
}
