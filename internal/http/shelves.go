package http

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/mrlokans/linkdepot/internal/dispatch"
	"github.com/mrlokans/linkdepot/internal/entities"
	"github.com/mrlokans/linkdepot/internal/logger"
	"github.com/mrlokans/linkdepot/internal/render"
)

// ShelfController serves the /shelf endpoint and the shelves page.
type ShelfController struct {
	shelves  ShelfStore
	renderer *render.Renderer
	memory   ShelfMemory
	log      logger.Logger
}

// NewShelfController creates the controller. memory is optional.
func NewShelfController(shelves ShelfStore, renderer *render.Renderer, memory ShelfMemory, log logger.Logger) *ShelfController {
	if log == nil {
		log = logger.NewNop()
	}
	return &ShelfController{
		shelves:  shelves,
		renderer: renderer,
		memory:   memory,
		log:      log,
	}
}

// Register adds the shelf handlers to d.
func (sc *ShelfController) Register(d *dispatch.Dispatcher) {
	d.AddHandler(dispatch.MethodGet, "list", sc.List)
	d.AddHandler(dispatch.MethodGet, "view", sc.View)
	d.AddHandler(dispatch.MethodPost, "add", sc.Add)
	d.AddHandler(dispatch.MethodPost, "edit", sc.Edit)
	d.AddHandler(dispatch.MethodGet, "delete", sc.DeleteConfirm)
	d.AddHandler(dispatch.MethodPost, "delete", sc.Delete)
	d.AddHandler(dispatch.MethodGet, "favorite", sc.FavoriteConfirm)
	d.AddHandler(dispatch.MethodPost, "favorite", sc.Favorite)
	d.AddHandler(dispatch.MethodGet, "unfavorite", sc.FavoriteConfirm)
	d.AddHandler(dispatch.MethodPost, "unfavorite", sc.Favorite)
}

// List renders every shelf: the shelves page for HTML, a shelves
// collection for JSON and XML with links nested when expand is set.
func (sc *ShelfController) List(r *dispatch.Request) error {
	shelves, err := sc.shelves.List()
	if err != nil {
		return loadError("the shelves", err)
	}
	return renderCollection(r, sc.renderer.Shelves(shelves), "shelves.html", "Shelves")
}

// renderCollection writes a list of shelves in the resolved format.
func renderCollection(r *dispatch.Request, coll *render.Collection, page, title string) error {
	switch r.Format {
	case dispatch.FormatJSON:
		fields, err := coll.AsStructured(r.Expand())
		if err != nil {
			return dispatch.WrapError(http.StatusInternalServerError, "Unable to encode the response", err)
		}
		return r.JSON(http.StatusOK, fields)
	case dispatch.FormatXML:
		el, err := coll.AsXML(nil, r.Expand())
		if err != nil {
			return dispatch.WrapError(http.StatusInternalServerError, "Unable to encode the response", err)
		}
		return r.XML(http.StatusOK, el)
	default:
		boxes, err := coll.Boxes(true)
		if err != nil {
			return dispatch.WrapError(http.StatusInternalServerError, "Unable to render the page", err)
		}
		return r.HTML(http.StatusOK, page, r.Page(title, shelfBoxes{Shelves: boxes}))
	}
}

// View shows one shelf. The HTML page is the manage page with a title form
// above the shelf box.
func (sc *ShelfController) View(r *dispatch.Request) error {
	shelf, err := requestedShelf(r, sc.shelves)
	if err != nil {
		return err
	}
	if r.Format != dispatch.FormatHTML {
		return r.RenderDefault(sc.renderer.Shelf(shelf))
	}

	box, err := sc.renderer.Shelf(shelf).AsHTML(true)
	if err != nil {
		return dispatch.WrapError(http.StatusInternalServerError, "Unable to render the page", err)
	}
	page := r.Page(shelf.Title, shelf)
	page.Content = box
	return r.HTML(http.StatusOK, "shelf_manage.html", page)
}

// Add creates a shelf.
func (sc *ShelfController) Add(r *dispatch.Request) error {
	form, err := bindShelfForm(r)
	if err != nil {
		return err
	}

	shelf := &entities.Shelf{Title: form.Title}
	if err := sc.shelves.Save(shelf); err != nil {
		return commitError(err)
	}
	sc.log.Info("Shelf added", logger.Uint("shelf_id", shelf.ID), logger.String("title", shelf.Title))

	return sc.respondSaved(r, shelf)
}

// Edit renames a shelf.
func (sc *ShelfController) Edit(r *dispatch.Request) error {
	shelf, err := requestedShelf(r, sc.shelves)
	if err != nil {
		return err
	}
	form, err := bindShelfForm(r)
	if err != nil {
		return err
	}

	shelf.Title = form.Title
	if err := sc.shelves.Save(shelf); err != nil {
		return commitError(err)
	}
	return sc.respondSaved(r, shelf)
}

func (sc *ShelfController) respondSaved(r *dispatch.Request, shelf *entities.Shelf) error {
	if r.Format == dispatch.FormatHTML {
		return seeOther(r, fmt.Sprintf("/shelf?action=view&id=%d", shelf.ID))
	}
	return r.RenderDefault(sc.renderer.Shelf(shelf))
}

// DeleteConfirm asks before deleting a shelf and its links.
func (sc *ShelfController) DeleteConfirm(r *dispatch.Request) error {
	return sc.confirm(r, "Delete")
}

// Delete removes a shelf together with its links.
func (sc *ShelfController) Delete(r *dispatch.Request) error {
	shelf, err := requestedShelf(r, sc.shelves)
	if err != nil {
		return err
	}
	id := shelf.ID
	if err := sc.shelves.Delete(shelf); err != nil {
		return deleteError(err)
	}
	if sc.memory != nil {
		sc.memory.ForgetShelf(r.Context().Request, id)
	}

	sc.log.Info("Shelf deleted", logger.Uint("shelf_id", id), logger.String("title", shelf.Title))

	if r.Format == dispatch.FormatHTML {
		return r.HTML(http.StatusOK, "shelf_deleted.html", r.Page("Shelf Deleted", shelf))
	}
	return r.RenderDefault(sc.renderer.Shelf(shelf))
}

// FavoriteConfirm asks before starring or unstarring a shelf.
func (sc *ShelfController) FavoriteConfirm(r *dispatch.Request) error {
	label := "Favorite"
	if r.Action == "unfavorite" {
		label = "Unfavorite"
	}
	return sc.confirm(r, label)
}

// Favorite stars the shelf for action=favorite and unstars it for
// action=unfavorite.
func (sc *ShelfController) Favorite(r *dispatch.Request) error {
	shelf, err := requestedShelf(r, sc.shelves)
	if err != nil {
		return err
	}
	starred := r.Action == "favorite"
	if err := sc.shelves.SetStarred(shelf.ID, starred); err != nil {
		return commitError(err)
	}
	shelf.Starred = starred

	if r.Format == dispatch.FormatHTML {
		return seeOther(r, "/")
	}
	return r.RenderDefault(sc.renderer.Shelf(shelf))
}

func (sc *ShelfController) confirm(r *dispatch.Request, label string) error {
	if err := r.OnlyHTML(); err != nil {
		return err
	}
	shelf, err := requestedShelf(r, sc.shelves)
	if err != nil {
		return err
	}
	view := struct {
		Action string
		Shelf  *entities.Shelf
		Label  string
	}{r.Action, shelf, label}
	return r.HTML(http.StatusOK, "shelf_confirm.html", r.Page(label+" Shelf", view))
}

// shelfBoxes feeds index.html and shelves.html.
type shelfBoxes struct {
	Shelves []template.HTML
}
