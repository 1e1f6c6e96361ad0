// Package shelves provides database operations for shelf management.
//
// Deleting a shelf removes the links it owns in the same transaction.
// The favorites query treats any value that is not explicitly false as
// starred, so rows written before the column gained its NOT NULL default
// are still listed.
package shelves

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/linkdepot/internal/entities"
)

// ErrNotPersisted is returned when an operation needs a stored shelf.
var ErrNotPersisted = errors.New("shelf has not been saved")

// Repository handles all shelf database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new shelves repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns every shelf in insertion order.
func (r *Repository) List() ([]entities.Shelf, error) {
	var shelves []entities.Shelf
	err := r.db.Order("id ASC").Find(&shelves).Error
	return shelves, err
}

// ListFavorites returns the starred shelves.
func (r *Repository) ListFavorites() ([]entities.Shelf, error) {
	var shelves []entities.Shelf
	err := r.db.Where("starred IS NOT FALSE").Order("id ASC").Find(&shelves).Error
	return shelves, err
}

// FromID retrieves a shelf by ID. A missing row yields gorm.ErrRecordNotFound.
func (r *Repository) FromID(id uint) (*entities.Shelf, error) {
	var shelf entities.Shelf
	if err := r.db.First(&shelf, id).Error; err != nil {
		return nil, err
	}
	return &shelf, nil
}

// Save inserts a new shelf, assigning its ID, or updates an existing one.
func (r *Repository) Save(shelf *entities.Shelf) error {
	if shelf.IsPersisted() {
		return r.db.Save(shelf).Error
	}
	return r.db.Create(shelf).Error
}

// SetStarred flips the favorite flag of a single shelf.
func (r *Repository) SetStarred(id uint, starred bool) error {
	result := r.db.Model(&entities.Shelf{}).Where("id = ?", id).Update("starred", starred)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the shelf and all of its links, then resets the in-memory ID.
func (r *Repository) Delete(shelf *entities.Shelf) error {
	if !shelf.IsPersisted() {
		return ErrNotPersisted
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("shelf_id = ?", shelf.ID).Delete(&entities.Link{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entities.Shelf{}, shelf.ID).Error
	})
	if err != nil {
		return err
	}

	shelf.ID = 0
	return nil
}

// Count returns the number of stored shelves.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Shelf{}).Count(&count).Error
	return count, err
}
