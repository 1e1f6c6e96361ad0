package http

import (
	"net/http"

	"github.com/mrlokans/linkdepot/internal/entities"
)

// ShelfStore is the persistence the shelf endpoints and pages need.
type ShelfStore interface {
	List() ([]entities.Shelf, error)
	ListFavorites() ([]entities.Shelf, error)
	FromID(id uint) (*entities.Shelf, error)
	Save(shelf *entities.Shelf) error
	SetStarred(id uint, starred bool) error
	Delete(shelf *entities.Shelf) error
	Count() (int64, error)
}

// LinkStore is the persistence the link endpoints need.
type LinkStore interface {
	FromID(id uint) (*entities.Link, error)
	ListForShelf(shelfID uint) ([]entities.Link, error)
	Save(link *entities.Link) error
	Delete(link *entities.Link) error
	Count() (int64, error)
}

// Counter reports how many rows a store holds.
type Counter interface {
	Count() (int64, error)
}

// FaviconEnqueuer schedules a favicon download for a saved link. The queue
// client runs it on a worker, the inline variant runs it before returning.
type FaviconEnqueuer interface {
	EnqueueFavicon(linkID uint, faviconURL string) error
}

// ShelfMemory remembers the shelf a browser last saved a link to.
type ShelfMemory interface {
	LastShelf(r *http.Request) uint
	RememberShelf(r *http.Request, shelfID uint)
	ForgetShelf(r *http.Request, shelfID uint)
}
