// Package links provides database operations for link management.
package links

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/linkdepot/internal/entities"
)

var (
	// ErrShelfRequired is returned when saving a link whose shelf was never stored.
	ErrShelfRequired = errors.New("link must belong to a saved shelf")
	// ErrNotPersisted is returned when an operation needs a stored link.
	ErrNotPersisted = errors.New("link has not been saved")
)

// Repository handles all link database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new links repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FromID retrieves a link with its shelf. A missing row yields
// gorm.ErrRecordNotFound.
func (r *Repository) FromID(id uint) (*entities.Link, error) {
	var link entities.Link
	if err := r.db.Preload("Shelf").First(&link, id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListForShelf returns the links owned by a shelf in insertion order. It is
// queried on every call.
func (r *Repository) ListForShelf(shelfID uint) ([]entities.Link, error) {
	var links []entities.Link
	err := r.db.Where("shelf_id = ?", shelfID).Order("id ASC").Find(&links).Error
	return links, err
}

// Save inserts a new link or updates an existing one. The owning shelf must
// already be persisted.
func (r *Repository) Save(link *entities.Link) error {
	if link.Shelf != nil {
		link.ShelfID = link.Shelf.ID
	}
	if link.ShelfID == 0 {
		return ErrShelfRequired
	}

	if link.IsPersisted() {
		return r.db.Omit("Shelf").Save(link).Error
	}
	return r.db.Omit("Shelf").Create(link).Error
}

// Delete removes the link and resets its in-memory ID.
func (r *Repository) Delete(link *entities.Link) error {
	if !link.IsPersisted() {
		return ErrNotPersisted
	}
	if err := r.db.Delete(&entities.Link{}, link.ID).Error; err != nil {
		return err
	}
	link.ID = 0
	return nil
}

// SetFavicon stores icon bytes for a link without touching its other columns.
func (r *Repository) SetFavicon(id uint, favicon []byte) error {
	result := r.db.Model(&entities.Link{}).Where("id = ?", id).Update("favicon", favicon)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListMissingFavicons returns up to limit links that have no stored icon.
// A limit of zero or less returns all of them.
func (r *Repository) ListMissingFavicons(limit int) ([]entities.Link, error) {
	var links []entities.Link
	query := r.db.Where("favicon IS NULL OR length(favicon) = 0").Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&links).Error
	return links, err
}

// Count returns the number of stored links.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Link{}).Count(&count).Error
	return count, err
}
