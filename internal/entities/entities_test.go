package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShelf_IsPersisted(t *testing.T) {
	var nilShelf *Shelf
	assert.False(t, nilShelf.IsPersisted())
	assert.False(t, (&Shelf{Title: "New"}).IsPersisted())
	assert.True(t, (&Shelf{ID: 3}).IsPersisted())
}

func TestShelf_FavoriteAction(t *testing.T) {
	assert.Equal(t, "favorite", (&Shelf{}).FavoriteAction())
	assert.Equal(t, "unfavorite", (&Shelf{Starred: true}).FavoriteAction())
}

func TestLink_AttachShelf(t *testing.T) {
	link := &Link{Title: "Go", URL: "https://go.dev"}
	shelf := &Shelf{ID: 7, Title: "Programming"}

	link.AttachShelf(shelf)

	assert.Equal(t, uint(7), link.ShelfID)
	assert.Same(t, shelf, link.Shelf)
}

func TestLink_HasFavicon(t *testing.T) {
	assert.False(t, (&Link{}).HasFavicon())
	assert.False(t, (&Link{Favicon: []byte{}}).HasFavicon())
	assert.True(t, (&Link{Favicon: []byte{0x89, 'P', 'N', 'G'}}).HasFavicon())
}
