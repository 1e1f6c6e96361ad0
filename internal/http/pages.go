package http

import (
	"html/template"
	"net/http"

	"github.com/mrlokans/linkdepot/internal/dispatch"
	"github.com/mrlokans/linkdepot/internal/render"
)

// PagesController serves the favorites index and the about page.
type PagesController struct {
	shelves  ShelfStore
	renderer *render.Renderer
}

func NewPagesController(shelves ShelfStore, renderer *render.Renderer) *PagesController {
	return &PagesController{shelves: shelves, renderer: renderer}
}

// Index lists the favorite shelves. JSON and XML clients get the same
// collection shape as the shelf list.
func (pc *PagesController) Index(r *dispatch.Request) error {
	shelves, err := pc.shelves.ListFavorites()
	if err != nil {
		return loadError("the favorite shelves", err)
	}
	return renderCollection(r, pc.renderer.Shelves(shelves), "index.html", "")
}

// About shows the overview and the bookmarklet.
func (pc *PagesController) About(r *dispatch.Request) error {
	if err := r.OnlyHTML(); err != nil {
		return err
	}
	view := struct {
		Bookmarklet template.URL
	}{r.Site().Bookmarklet(r.Context().Request)}
	return r.HTML(http.StatusOK, "about.html", r.Page("About", view))
}
