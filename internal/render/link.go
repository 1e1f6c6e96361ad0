package render

import (
	"fmt"
	"html/template"

	"github.com/beevik/etree"

	"github.com/mrlokans/linkdepot/internal/entities"
	"github.com/mrlokans/linkdepot/internal/web"
)

// Link renders a single bookmarked URL.
type Link struct {
	r    *Renderer
	link *entities.Link
}

func (*Link) renderable() {}

type linkRow struct {
	Site       web.Site
	Link       *entities.Link
	FaviconSrc string
	HasMenu    bool
	Spacer     bool
}

// AsHTML renders the link as a link-box table row.
func (l *Link) AsHTML(hasMenu bool) (template.HTML, error) {
	return l.Row(hasMenu, false)
}

// Row renders the table row, optionally followed by a spacer row.
func (l *Link) Row(hasMenu, spacer bool) (template.HTML, error) {
	return l.r.execute("link_row", linkRow{
		Site:       l.r.site,
		Link:       l.link,
		FaviconSrc: l.FaviconSrc(),
		HasMenu:    hasMenu,
		Spacer:     spacer,
	})
}

// FaviconSrc is the image location for the link's icon.
func (l *Link) FaviconSrc() string {
	if !l.link.HasFavicon() {
		return l.r.site.Href(web.DefaultFaviconPath)
	}
	return l.r.site.Href(fmt.Sprintf("/link?action=favicon&id=%d", l.link.ID))
}

// AsStructured returns id, title, url and favicon; expand adds the owning shelf.
func (l *Link) AsStructured(expand bool) (*Fields, error) {
	fields := NewFields()
	fields.Set("id", idValue(l.link.ID))
	fields.Set("title", l.link.Title)
	fields.Set("url", l.link.URL)
	fields.Set("favicon", faviconValue(l.link.Favicon))

	if expand {
		if l.link.Shelf == nil {
			fields.Set("shelf", nil)
		} else {
			shelf, err := l.r.Shelf(l.link.Shelf).AsStructured(false)
			if err != nil {
				return nil, err
			}
			fields.Set("shelf", shelf)
		}
	}

	return fields, nil
}

// AsXML mirrors AsStructured as a <link> element.
func (l *Link) AsXML(parent *etree.Element, expand bool) (*etree.Element, error) {
	el := newElement(parent, "link")
	el.CreateAttr("id", idText(l.link.ID))
	el.CreateElement("title").SetText(l.link.Title)
	el.CreateElement("url").SetText(l.link.URL)

	favicon := el.CreateElement("favicon")
	if s, ok := faviconValue(l.link.Favicon).(string); ok {
		favicon.SetText(s)
	}

	if expand && l.link.Shelf != nil {
		if _, err := l.r.Shelf(l.link.Shelf).AsXML(el, false); err != nil {
			return nil, err
		}
	}

	return el, nil
}
