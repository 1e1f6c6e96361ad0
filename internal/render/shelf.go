package render

import (
	"html/template"

	"github.com/beevik/etree"

	"github.com/mrlokans/linkdepot/internal/entities"
	"github.com/mrlokans/linkdepot/internal/web"
)

// Shelf renders a collection of links.
type Shelf struct {
	r     *Renderer
	shelf *entities.Shelf
}

func (*Shelf) renderable() {}

type shelfBox struct {
	Site  web.Site
	Shelf *entities.Shelf
	Rows  []template.HTML
}

func (s *Shelf) links() ([]entities.Link, error) {
	if s.r.links == nil || !s.shelf.IsPersisted() {
		return nil, nil
	}
	return s.r.links.ListForShelf(s.shelf.ID)
}

// AsHTML renders the shelf box: header actions followed by one row per link,
// with a spacer between rows but none after the last.
func (s *Shelf) AsHTML(hasMenu bool) (template.HTML, error) {
	links, err := s.links()
	if err != nil {
		return "", err
	}

	rows := make([]template.HTML, 0, len(links))
	for i := range links {
		row, err := s.r.Link(&links[i]).Row(hasMenu, i < len(links)-1)
		if err != nil {
			return "", err
		}
		rows = append(rows, row)
	}

	return s.r.execute("shelf_box", shelfBox{
		Site:  s.r.site,
		Shelf: s.shelf,
		Rows:  rows,
	})
}

// AsStructured returns id, title and starred; expand adds the links, each
// rendered without expansion.
func (s *Shelf) AsStructured(expand bool) (*Fields, error) {
	fields := NewFields()
	fields.Set("id", idValue(s.shelf.ID))
	fields.Set("title", s.shelf.Title)
	fields.Set("starred", s.shelf.Starred)

	if expand {
		links, err := s.links()
		if err != nil {
			return nil, err
		}
		items := make([]*Fields, 0, len(links))
		for i := range links {
			item, err := s.r.Link(&links[i]).AsStructured(false)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		fields.Set("links", items)
	}

	return fields, nil
}

// AsXML mirrors AsStructured as a <shelf> element with id and starred attributes.
func (s *Shelf) AsXML(parent *etree.Element, expand bool) (*etree.Element, error) {
	el := newElement(parent, "shelf")
	el.CreateAttr("id", idText(s.shelf.ID))
	if s.shelf.Starred {
		el.CreateAttr("starred", "true")
	} else {
		el.CreateAttr("starred", "false")
	}
	el.CreateElement("title").SetText(s.shelf.Title)

	if expand {
		links, err := s.links()
		if err != nil {
			return nil, err
		}
		node := el.CreateElement("links")
		for i := range links {
			if _, err := s.r.Link(&links[i]).AsXML(node, false); err != nil {
				return nil, err
			}
		}
	}

	return el, nil
}
