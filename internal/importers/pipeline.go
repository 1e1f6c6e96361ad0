package importers

import (
	"fmt"
	"strings"

	"github.com/mrlokans/linkdepot/internal/entities"
)

// RawBookmark represents a bookmark from any import source. An entry with
// a shelf but no URL declares the shelf without adding a link to it.
type RawBookmark struct {
	Shelf   string
	Starred bool
	Title   string
	URL     string
	Favicon string
	// Icon holds favicon bytes carried by the source itself.
	Icon []byte
}

// Source provides metadata about the import source.
type Source struct {
	Name     string
	FilePath string
}

// Converter transforms source data into RawBookmarks.
//
// Implementations:
//   - Document (document.go) - YAML/JSON shelf documents
//   - CSVConverter (csv.go) - flat CSV rows
type Converter interface {
	Convert() ([]RawBookmark, Source)
}

// ShelfStore finds and creates shelves.
type ShelfStore interface {
	List() ([]entities.Shelf, error)
	Save(shelf *entities.Shelf) error
}

// LinkStore lists and saves links.
type LinkStore interface {
	ListForShelf(shelfID uint) ([]entities.Link, error)
	Save(link *entities.Link) error
}

// FaviconEnqueuer schedules favicon downloads for imported links.
type FaviconEnqueuer interface {
	EnqueueFavicon(linkID uint, faviconURL string) error
}

// Result summarizes an import.
type Result struct {
	Source         string
	ShelvesCreated int
	LinksImported  int
	LinksSkipped   int
	FaviconErrors  int
}

// Pipeline handles the common import workflow:
// convert → group by shelf → deduplicate → save.
type Pipeline struct {
	shelves  ShelfStore
	links    LinkStore
	favicons FaviconEnqueuer
}

// NewPipeline creates an import pipeline. favicons may be nil.
func NewPipeline(shelves ShelfStore, links LinkStore, favicons FaviconEnqueuer) *Pipeline {
	return &Pipeline{shelves: shelves, links: links, favicons: favicons}
}

// Import processes bookmarks from a converter and saves them.
func (p *Pipeline) Import(converter Converter) (Result, error) {
	bookmarks, source := converter.Convert()
	result := Result{Source: source.Name}

	if len(bookmarks) == 0 {
		return result, nil
	}

	existing, err := p.shelves.List()
	if err != nil {
		return result, fmt.Errorf("list shelves: %w", err)
	}
	byTitle := make(map[string]*entities.Shelf, len(existing))
	for i := range existing {
		byTitle[shelfKey(existing[i].Title)] = &existing[i]
	}

	for _, group := range groupByShelf(bookmarks) {
		shelf, ok := byTitle[shelfKey(group.title)]
		if !ok {
			shelf = &entities.Shelf{Title: group.title, Starred: group.starred}
			if err := p.shelves.Save(shelf); err != nil {
				return result, fmt.Errorf("save shelf %q: %w", group.title, err)
			}
			byTitle[shelfKey(group.title)] = shelf
			result.ShelvesCreated++
		}

		if len(group.bookmarks) == 0 {
			continue
		}
		if err := p.importLinks(shelf, group.bookmarks, &result); err != nil {
			return result, err
		}
	}

	return result, nil
}

func (p *Pipeline) importLinks(shelf *entities.Shelf, bookmarks []RawBookmark, result *Result) error {
	current, err := p.links.ListForShelf(shelf.ID)
	if err != nil {
		return fmt.Errorf("list links of shelf %d: %w", shelf.ID, err)
	}
	seen := make(map[string]bool, len(current))
	for _, l := range current {
		seen[l.URL] = true
	}

	for _, b := range bookmarks {
		if seen[b.URL] {
			result.LinksSkipped++
			continue
		}
		seen[b.URL] = true

		link := &entities.Link{Title: b.Title, URL: b.URL, Favicon: b.Icon}
		link.AttachShelf(shelf)
		if err := p.links.Save(link); err != nil {
			return fmt.Errorf("save link %q: %w", b.URL, err)
		}
		result.LinksImported++

		if p.favicons != nil && !link.HasFavicon() {
			if err := p.favicons.EnqueueFavicon(link.ID, b.Favicon); err != nil {
				result.FaviconErrors++
			}
		}
	}
	return nil
}

type shelfGroup struct {
	title     string
	starred   bool
	bookmarks []RawBookmark
}

// groupByShelf groups bookmarks by shelf title keeping the order in which
// shelves first appear. Entries without a shelf are dropped, entries without
// a URL only open their shelf, and a missing title falls back to the URL.
func groupByShelf(bookmarks []RawBookmark) []*shelfGroup {
	var groups []*shelfGroup
	index := make(map[string]*shelfGroup)

	for _, b := range bookmarks {
		b.Shelf = strings.TrimSpace(b.Shelf)
		b.URL = strings.TrimSpace(b.URL)
		b.Title = strings.TrimSpace(b.Title)
		b.Favicon = strings.TrimSpace(b.Favicon)
		if b.Shelf == "" {
			continue
		}

		key := shelfKey(b.Shelf)
		g, ok := index[key]
		if !ok {
			g = &shelfGroup{title: b.Shelf}
			index[key] = g
			groups = append(groups, g)
		}
		g.starred = g.starred || b.Starred

		if b.URL == "" {
			continue
		}
		if b.Title == "" {
			b.Title = b.URL
		}
		g.bookmarks = append(g.bookmarks, b)
	}
	return groups
}

func shelfKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
