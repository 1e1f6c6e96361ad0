package importers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a shelf document. JSON documents match the output of
// /shelf?action=list&format=json&expand=1, so an export can be imported back.
type Document struct {
	Shelves []DocumentShelf `yaml:"shelves" json:"shelves"`

	source Source
}

type DocumentShelf struct {
	Title   string         `yaml:"title" json:"title"`
	Starred bool           `yaml:"starred" json:"starred"`
	Links   []DocumentLink `yaml:"links" json:"links"`
}

// DocumentLink.Favicon is either an icon URL or base64 encoded icon bytes.
type DocumentLink struct {
	Title   string `yaml:"title" json:"title"`
	URL     string `yaml:"url" json:"url"`
	Favicon string `yaml:"favicon" json:"favicon"`
}

// ParseYAML decodes a YAML shelf document.
func ParseYAML(data []byte, path string) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml %s: %w", path, err)
	}
	doc.source = Source{Name: "yaml", FilePath: path}
	return &doc, nil
}

// ParseJSON decodes a JSON shelf document.
func ParseJSON(data []byte, path string) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse json %s: %w", path, err)
	}
	doc.source = Source{Name: "json", FilePath: path}
	return &doc, nil
}

// Convert implements Converter interface.
func (d *Document) Convert() ([]RawBookmark, Source) {
	var bookmarks []RawBookmark
	for _, s := range d.Shelves {
		if len(s.Links) == 0 {
			bookmarks = append(bookmarks, RawBookmark{Shelf: s.Title, Starred: s.Starred})
			continue
		}
		for _, l := range s.Links {
			b := RawBookmark{
				Shelf:   s.Title,
				Starred: s.Starred,
				Title:   l.Title,
				URL:     l.URL,
			}
			if isRemote(l.Favicon) {
				b.Favicon = l.Favicon
			} else if icon, err := base64.StdEncoding.DecodeString(l.Favicon); err == nil && len(icon) > 0 {
				b.Icon = icon
			}
			bookmarks = append(bookmarks, b)
		}
	}
	return bookmarks, d.source
}

func isRemote(s string) bool {
	s = strings.ToLower(s)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// Parse picks the decoder from the file extension: .json, .csv, anything
// else is read as YAML.
func Parse(data []byte, path string) (Converter, error) {
	var (
		conv Converter
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		conv, err = ParseJSON(data, path)
	case ".csv":
		conv, err = ParseCSV(bytes.NewReader(data), path)
	default:
		conv, err = ParseYAML(data, path)
	}
	if err != nil {
		return nil, err
	}
	return conv, nil
}
