// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - ShelfStore: shelf queries and mutations (internal/http/stores.go)
//   - LinkStore: link queries and mutations (internal/http/stores.go)
//   - LinkLister: links of a shelf for rendering (internal/render/render.go)
//   - FaviconStore: favicon bytes of a link (internal/tasks/fetch_favicon.go)
//
// ## Rendering
//
//   - Renderable: the HTML, structured and XML forms of a shelf or link
//     (internal/render/render.go). The set is closed: only *render.Shelf and
//     *render.Link implement it.
//
// ## Background Work
//
//   - FaviconEnqueuer: queue or inline favicon download (internal/http/stores.go)
//   - FaviconFetcher: HTTP favicon download (internal/tasks/fetch_favicon.go)
//   - MissingFaviconLister: backfill candidates (internal/scheduler/favicon_backfill.go)
//
// # Adding a New Import Source
//
//  1. Create a converter in internal/importers/
//
//     type PinboardConverter struct {
//         Posts []PinboardPost
//     }
//
//     func (c *PinboardConverter) Convert() ([]importers.RawBookmark, importers.Source) {
//         // one RawBookmark per post, tags mapped to shelves
//     }
//
//  2. Add a compile-time check to checks.go
//
//  3. Pick it by file extension in importers.Parse
//
// # Adding a New Endpoint Action
//
//  1. Write a handler: func(r *dispatch.Request) error
//  2. Register it in the controller's Register method with the HTTP method
//     and action name
//  3. Return *dispatch.Error values for failures; the dispatcher renders
//     them in the requested format
package interfaces
