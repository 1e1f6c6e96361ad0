package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/mrlokans/linkdepot/internal/dispatch"
	"github.com/mrlokans/linkdepot/internal/entities"
	"github.com/mrlokans/linkdepot/internal/favicon"
	"github.com/mrlokans/linkdepot/internal/logger"
	"github.com/mrlokans/linkdepot/internal/render"
)

// LinkController serves the /link endpoint.
type LinkController struct {
	shelves  ShelfStore
	links    LinkStore
	renderer *render.Renderer
	favicons FaviconEnqueuer
	memory   ShelfMemory
	log      logger.Logger
}

// NewLinkController creates the controller. favicons and memory are optional.
func NewLinkController(shelves ShelfStore, links LinkStore, renderer *render.Renderer,
	favicons FaviconEnqueuer, memory ShelfMemory, log logger.Logger) *LinkController {
	if log == nil {
		log = logger.NewNop()
	}
	return &LinkController{
		shelves:  shelves,
		links:    links,
		renderer: renderer,
		favicons: favicons,
		memory:   memory,
		log:      log,
	}
}

// Register adds the link handlers to d.
func (lc *LinkController) Register(d *dispatch.Dispatcher) {
	d.AddHandler(dispatch.MethodGet, "add", lc.AddForm)
	d.AddHandler(dispatch.MethodPost, "add", lc.Add)
	d.AddHandler(dispatch.MethodGet, "edit", lc.EditForm)
	d.AddHandler(dispatch.MethodPost, "edit", lc.Edit)
	d.AddHandler(dispatch.MethodGet, "view", lc.View)
	d.AddHandler(dispatch.MethodGet, "favicon", lc.Favicon, dispatch.AnyFormat())
	d.AddHandler(dispatch.MethodGet, "delete", lc.DeleteConfirm)
	d.AddHandler(dispatch.MethodPost, "delete", lc.Delete)
}

// AddForm shows the add-link form, pre-filled from the query string. The
// bookmarklet lands here with url and title set.
func (lc *LinkController) AddForm(r *dispatch.Request) error {
	if err := r.OnlyHTML(); err != nil {
		return err
	}

	shelves, err := lc.shelves.List()
	if err != nil {
		return loadError("the shelves", err)
	}

	view := linkFormView{
		Action:     "add",
		FormAction: r.Site().Href("/link?action=add"),
		ShelfID:    lc.preselectedShelf(r),
		Shelves:    shelves,
		URL:        r.ParamOr("url", ""),
		LinkTitle:  r.ParamOr("title", ""),
		Favicon:    r.ParamOr("favicon", ""),
	}
	return r.HTML(http.StatusOK, "link_form.html", r.Page("Add Link", view))
}

func (lc *LinkController) preselectedShelf(r *dispatch.Request) uint {
	if raw, ok := r.Query("shelf"); ok {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			return uint(id)
		}
	}
	if lc.memory != nil {
		return lc.memory.LastShelf(r.Context().Request)
	}
	return 0
}

// Add creates a link.
func (lc *LinkController) Add(r *dispatch.Request) error {
	form, err := bindLinkForm(r)
	if err != nil {
		return err
	}
	shelf, err := lc.formShelf(form)
	if err != nil {
		return err
	}

	link := &entities.Link{Title: form.Title, URL: form.URL}
	link.AttachShelf(shelf)
	if err := lc.links.Save(link); err != nil {
		return commitError(err)
	}
	link = lc.fetchFavicon(link, form.Favicon, true)
	lc.remember(r, shelf.ID)

	lc.log.Info("Link added",
		logger.Uint("link_id", link.ID),
		logger.Uint("shelf_id", shelf.ID))

	return lc.respondSaved(r, "add", link)
}

// EditForm shows the edit-link form pre-filled with the stored values.
func (lc *LinkController) EditForm(r *dispatch.Request) error {
	if err := r.OnlyHTML(); err != nil {
		return err
	}
	link, err := requestedLink(r, lc.links)
	if err != nil {
		return err
	}
	shelves, err := lc.shelves.List()
	if err != nil {
		return loadError("the shelves", err)
	}

	view := linkFormView{
		Action:     "edit",
		FormAction: r.Site().Href(fmt.Sprintf("/link?action=edit&id=%d", link.ID)),
		ShelfID:    link.ShelfID,
		Shelves:    shelves,
		URL:        link.URL,
		LinkTitle:  link.Title,
	}
	return r.HTML(http.StatusOK, "link_form.html", r.Page("Edit Link", view))
}

// Edit updates a link. The favicon is only refetched when a new icon URL
// was submitted.
func (lc *LinkController) Edit(r *dispatch.Request) error {
	link, err := requestedLink(r, lc.links)
	if err != nil {
		return err
	}
	form, err := bindLinkForm(r)
	if err != nil {
		return err
	}
	shelf, err := lc.formShelf(form)
	if err != nil {
		return err
	}

	link.Title = form.Title
	link.URL = form.URL
	link.AttachShelf(shelf)
	if err := lc.links.Save(link); err != nil {
		return commitError(err)
	}
	if form.Favicon != "" {
		link = lc.fetchFavicon(link, form.Favicon, false)
	}
	lc.remember(r, shelf.ID)

	return lc.respondSaved(r, "edit", link)
}

// formShelf resolves the submitted shelf, reporting unknown ids as a
// validation failure.
func (lc *LinkController) formShelf(form linkForm) (*entities.Shelf, error) {
	shelf, err := lc.shelves.FromID(form.ShelfID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dispatch.Errorf(http.StatusBadRequest, "Shelf ID %d doesn't exist", form.ShelfID)
	}
	if err != nil {
		return nil, loadError("the shelf", err)
	}
	return shelf, nil
}

// fetchFavicon hands the download to the favicon queue and reloads the link
// so a synchronous fetch shows up in the response. Failures never fail the
// request: the link is already saved and the backfill job retries later.
func (lc *LinkController) fetchFavicon(link *entities.Link, faviconURL string, derive bool) *entities.Link {
	if lc.favicons == nil || (faviconURL == "" && !derive) {
		return link
	}
	if err := lc.favicons.EnqueueFavicon(link.ID, faviconURL); err != nil {
		lc.log.Warn("Favicon fetch failed",
			logger.Uint("link_id", link.ID),
			logger.Error(err))
		return link
	}
	fresh, err := lc.links.FromID(link.ID)
	if err != nil {
		return link
	}
	return fresh
}

func (lc *LinkController) remember(r *dispatch.Request, shelfID uint) {
	if lc.memory != nil {
		lc.memory.RememberShelf(r.Context().Request, shelfID)
	}
}

func (lc *LinkController) respondSaved(r *dispatch.Request, action string, link *entities.Link) error {
	if r.Format != dispatch.FormatHTML {
		return r.RenderDefault(lc.renderer.Link(link))
	}

	row, err := lc.renderer.Link(link).AsHTML(false)
	if err != nil {
		return dispatch.WrapError(http.StatusInternalServerError, "Unable to render the page", err)
	}
	title := "Link Added"
	if action == "edit" {
		title = "Link Updated"
	}
	page := r.Page(title, struct {
		Action string
		Shelf  *entities.Shelf
	}{action, link.Shelf})
	page.Content = row
	return r.HTML(http.StatusOK, "link_success.html", page)
}

// View renders one link.
func (lc *LinkController) View(r *dispatch.Request) error {
	link, err := requestedLink(r, lc.links)
	if err != nil {
		return err
	}
	return r.RenderDefault(lc.renderer.Link(link))
}

// Favicon streams the stored icon with its sniffed content type. It ignores
// the format parameter.
func (lc *LinkController) Favicon(r *dispatch.Request) error {
	id, err := r.ID()
	if err != nil {
		return err
	}
	link, err := lc.links.FromID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return dispatch.NewError(http.StatusBadRequest, "Invalid link ID")
	}
	if err != nil {
		return loadError("the link", err)
	}
	if !link.HasFavicon() {
		return dispatch.NewError(http.StatusNotFound, "No favicon associated with this link")
	}

	c := r.Context()
	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, favicon.MIMEType(link.Favicon), link.Favicon)
	return nil
}

// DeleteConfirm asks before deleting a link.
func (lc *LinkController) DeleteConfirm(r *dispatch.Request) error {
	if err := r.OnlyHTML(); err != nil {
		return err
	}
	link, err := requestedLink(r, lc.links)
	if err != nil {
		return err
	}
	return r.HTML(http.StatusOK, "link_delete.html", r.Page("Delete Link", link))
}

// Delete removes a link. Machine formats get the deleted link back with a
// null id.
func (lc *LinkController) Delete(r *dispatch.Request) error {
	link, err := requestedLink(r, lc.links)
	if err != nil {
		return err
	}
	if err := lc.links.Delete(link); err != nil {
		return deleteError(err)
	}

	lc.log.Info("Link deleted", logger.String("url", link.URL))

	if r.Format == dispatch.FormatHTML {
		return r.HTML(http.StatusOK, "link_deleted.html", r.Page("Link Deleted", link))
	}
	return r.RenderDefault(lc.renderer.Link(link))
}
