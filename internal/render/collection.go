package render

import (
	"html/template"

	"github.com/beevik/etree"

	"github.com/mrlokans/linkdepot/internal/entities"
)

// Collection renders a list of shelves for the shelf listing.
type Collection struct {
	r       *Renderer
	shelves []entities.Shelf
}

// Boxes renders every shelf box in order.
func (c *Collection) Boxes(hasMenu bool) ([]template.HTML, error) {
	boxes := make([]template.HTML, 0, len(c.shelves))
	for i := range c.shelves {
		box, err := c.r.Shelf(&c.shelves[i]).AsHTML(hasMenu)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}
	return boxes, nil
}

// AsStructured returns {"shelves": [...]}.
func (c *Collection) AsStructured(expand bool) (*Fields, error) {
	items := make([]*Fields, 0, len(c.shelves))
	for i := range c.shelves {
		item, err := c.r.Shelf(&c.shelves[i]).AsStructured(expand)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	fields := NewFields()
	fields.Set("shelves", items)
	return fields, nil
}

// AsXML returns a <shelves> element holding one <shelf> per entry.
func (c *Collection) AsXML(parent *etree.Element, expand bool) (*etree.Element, error) {
	el := newElement(parent, "shelves")
	for i := range c.shelves {
		if _, err := c.r.Shelf(&c.shelves[i]).AsXML(el, expand); err != nil {
			return nil, err
		}
	}
	return el, nil
}
