package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/linkdepot/internal/database/links"
	"github.com/mrlokans/linkdepot/internal/database/shelves"
	"github.com/mrlokans/linkdepot/internal/favicon"
	"github.com/mrlokans/linkdepot/internal/http"
	"github.com/mrlokans/linkdepot/internal/importers"
	"github.com/mrlokans/linkdepot/internal/render"
	"github.com/mrlokans/linkdepot/internal/scheduler"
	"github.com/mrlokans/linkdepot/internal/session"
	"github.com/mrlokans/linkdepot/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// ShelfStore implementations
var _ http.ShelfStore = (*shelves.Repository)(nil)
var _ importers.ShelfStore = (*shelves.Repository)(nil)

// LinkStore implementations
var _ http.LinkStore = (*links.Repository)(nil)
var _ importers.LinkStore = (*links.Repository)(nil)
var _ render.LinkLister = (*links.Repository)(nil)

// =============================================================================
// Favicons
// =============================================================================

// FaviconStore / FaviconFetcher implementations
var _ tasks.FaviconStore = (*links.Repository)(nil)
var _ tasks.FaviconFetcher = (*favicon.Fetcher)(nil)

// FaviconEnqueuer implementations
var _ http.FaviconEnqueuer = (*tasks.Client)(nil)
var _ http.FaviconEnqueuer = (*tasks.Inline)(nil)
var _ importers.FaviconEnqueuer = (*tasks.Client)(nil)
var _ scheduler.FaviconEnqueuer = (*tasks.Inline)(nil)
var _ scheduler.MissingFaviconLister = (*links.Repository)(nil)

// =============================================================================
// Sessions
// =============================================================================

// ShelfMemory implementations
var _ http.ShelfMemory = (*session.Manager)(nil)

// =============================================================================
// Renderable contract
// =============================================================================

var _ render.Renderable = (*render.Shelf)(nil)
var _ render.Renderable = (*render.Link)(nil)

// =============================================================================
// Import Pipeline
// =============================================================================

// Converter implementations
var _ importers.Converter = (*importers.Document)(nil)
var _ importers.Converter = (*importers.CSVConverter)(nil)
