package http

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/mrlokans/linkdepot/internal/dispatch"
	"github.com/mrlokans/linkdepot/internal/entities"
)

// Persistence failures reported to clients.
const (
	msgCommitFailed = "Something went wrong while trying to commit changes to the database"
	msgDeleteFailed = "Something went wrong while trying to delete the item from the database"
)

func commitError(err error) error {
	return dispatch.WrapError(http.StatusInternalServerError, msgCommitFailed, err)
}

func deleteError(err error) error {
	return dispatch.WrapError(http.StatusInternalServerError, msgDeleteFailed, err)
}

func loadError(what string, err error) error {
	return dispatch.WrapError(http.StatusInternalServerError, "Unable to load "+what, err)
}

// requestedShelf loads the shelf named by the id query parameter.
func requestedShelf(r *dispatch.Request, shelves ShelfStore) (*entities.Shelf, error) {
	id, err := r.ID()
	if err != nil {
		return nil, err
	}
	shelf, err := shelves.FromID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dispatch.Errorf(http.StatusNotFound, "Shelf ID %d doesn't exist", id)
	}
	if err != nil {
		return nil, loadError("the shelf", err)
	}
	return shelf, nil
}

// requestedLink loads the link named by the id query parameter.
func requestedLink(r *dispatch.Request, links LinkStore) (*entities.Link, error) {
	id, err := r.ID()
	if err != nil {
		return nil, err
	}
	link, err := links.FromID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, dispatch.Errorf(http.StatusNotFound, "Link ID %d doesn't exist", id)
	}
	if err != nil {
		return nil, loadError("the link", err)
	}
	return link, nil
}

// seeOther ends an HTML form post by sending the browser to loc.
func seeOther(r *dispatch.Request, loc string) error {
	r.Context().Redirect(http.StatusSeeOther, r.Site().Href(loc))
	return nil
}
