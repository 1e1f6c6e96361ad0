package entities

// Link is a single bookmarked URL owned by exactly one shelf.
type Link struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Title   string `gorm:"size:1024" json:"title"`
	URL     string `gorm:"column:url;size:2048" json:"url"`
	Favicon []byte `gorm:"type:blob" json:"favicon,omitempty"`
	ShelfID uint   `gorm:"not null;index" json:"shelf_id"`
	Shelf   *Shelf `gorm:"foreignKey:ShelfID" json:"-"`
}

func (Link) TableName() string {
	return "links"
}

// IsPersisted reports whether the link has a row in storage.
func (l *Link) IsPersisted() bool {
	return l != nil && l.ID != 0
}

// HasFavicon reports whether icon bytes are stored inline with the link.
func (l *Link) HasFavicon() bool {
	return len(l.Favicon) > 0
}

// AttachShelf points the link at a shelf, keeping the foreign key in sync.
func (l *Link) AttachShelf(s *Shelf) {
	l.Shelf = s
	if s != nil {
		l.ShelfID = s.ID
	}
}
