// Package render turns shelves and links into HTML fragments, key-ordered
// structured data and XML element trees. JSON is always derived from the
// structured form.
//
// # Usage
//
//	r := render.NewRenderer(tmpl, site, linkRepo)
//	html, err := r.Shelf(shelf).AsHTML(true)
//	body, err := render.AsJSON(r.Link(link), true)
package render

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/beevik/etree"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/mrlokans/linkdepot/internal/entities"
	"github.com/mrlokans/linkdepot/internal/web"
)

// Fields is the ordered key-value form shared by JSON and tests.
type Fields = orderedmap.OrderedMap[string, any]

// NewFields returns an empty ordered field set.
func NewFields() *Fields {
	return orderedmap.New[string, any]()
}

// Renderable is implemented by the closed set of entity views: *Shelf and *Link.
type Renderable interface {
	AsHTML(hasMenu bool) (template.HTML, error)
	AsStructured(expand bool) (*Fields, error)
	AsXML(parent *etree.Element, expand bool) (*etree.Element, error)

	renderable()
}

// LinkLister loads the links that belong to a shelf.
type LinkLister interface {
	ListForShelf(shelfID uint) ([]entities.Link, error)
}

// Renderer builds entity views bound to the page templates and site paths.
type Renderer struct {
	tmpl  *template.Template
	site  web.Site
	links LinkLister
}

func NewRenderer(tmpl *template.Template, site web.Site, links LinkLister) *Renderer {
	return &Renderer{tmpl: tmpl, site: site, links: links}
}

// Link wraps a link entity for rendering.
func (r *Renderer) Link(l *entities.Link) *Link {
	return &Link{r: r, link: l}
}

// Shelf wraps a shelf entity for rendering. Its links are fetched from
// storage every time they are needed.
func (r *Renderer) Shelf(s *entities.Shelf) *Shelf {
	return &Shelf{r: r, shelf: s}
}

// Shelves wraps a list of shelves for the collection views.
func (r *Renderer) Shelves(shelves []entities.Shelf) *Collection {
	return &Collection{r: r, shelves: shelves}
}

func (r *Renderer) execute(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return template.HTML(buf.String()), nil
}

// AsJSON serializes the structured form of any renderable, keeping key order.
func AsJSON(r Renderable, expand bool) ([]byte, error) {
	fields, err := r.AsStructured(expand)
	if err != nil {
		return nil, err
	}
	return json.Marshal(fields)
}

// XMLDocument wraps a root element into a standalone document.
func XMLDocument(root *etree.Element) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	doc.SetRoot(root)
	return doc.WriteToBytes()
}

func newElement(parent *etree.Element, tag string) *etree.Element {
	if parent == nil {
		return etree.NewElement(tag)
	}
	return parent.CreateElement(tag)
}

// idValue keeps unsaved entities distinguishable: their ID renders as null.
func idValue(id uint) any {
	if id == 0 {
		return nil
	}
	return id
}

func idText(id uint) string {
	if id == 0 {
		return ""
	}
	return fmt.Sprint(id)
}

func faviconValue(favicon []byte) any {
	if len(favicon) == 0 {
		return nil
	}
	return base64.StdEncoding.EncodeToString(favicon)
}
