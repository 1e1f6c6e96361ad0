package entities

// Shelf is a named collection of links. A shelf with ID 0 has not been
// persisted yet.
type Shelf struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:255;not null" json:"title"`
	Starred bool   `gorm:"not null;default:false" json:"starred"`
}

func (Shelf) TableName() string {
	return "shelves"
}

// IsPersisted reports whether the shelf has a row in storage.
func (s *Shelf) IsPersisted() bool {
	return s != nil && s.ID != 0
}

// FavoriteAction is the shelf action that toggles the starred flag.
func (s *Shelf) FavoriteAction() string {
	if s.Starred {
		return "unfavorite"
	}
	return "favorite"
}
