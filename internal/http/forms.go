package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/mrlokans/linkdepot/internal/dispatch"
	"github.com/mrlokans/linkdepot/internal/entities"
)

// linkForm is a validated link create/edit submission.
type linkForm struct {
	URL     string
	Title   string
	ShelfID uint
	Favicon string
}

func bindLinkForm(r *dispatch.Request) (linkForm, error) {
	if err := r.Required("url", "title", "shelf"); err != nil {
		return linkForm{}, err
	}

	raw, _ := r.Param("shelf")
	shelfID, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 32)
	if err != nil || shelfID == 0 {
		return linkForm{}, dispatch.Errorf(http.StatusBadRequest, "Shelf ID %s doesn't exist", raw)
	}

	url, _ := r.Param("url")
	title, _ := r.Param("title")
	return linkForm{
		URL:     strings.TrimSpace(url),
		Title:   strings.TrimSpace(title),
		ShelfID: uint(shelfID),
		Favicon: strings.TrimSpace(r.ParamOr("favicon", "")),
	}, nil
}

// shelfForm is a validated shelf create/edit submission.
type shelfForm struct {
	Title string
}

func bindShelfForm(r *dispatch.Request) (shelfForm, error) {
	if err := r.Required("title"); err != nil {
		return shelfForm{}, err
	}
	title, _ := r.Param("title")
	return shelfForm{Title: strings.TrimSpace(title)}, nil
}

// linkFormView feeds link_form.html.
type linkFormView struct {
	Action     string
	FormAction string
	ShelfID    uint
	Shelves    []entities.Shelf
	URL        string
	LinkTitle  string
	Favicon    string
}
