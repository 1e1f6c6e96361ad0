package importers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVConverter converts CSV rows to the common format. The header row must
// name shelf, title and url columns; favicon and starred are optional.
type CSVConverter struct {
	Rows []RawBookmark

	source Source
}

// ParseCSV reads all rows of a CSV bookmark export.
func ParseCSV(r io.Reader, path string) (*CSVConverter, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header %s: %w", path, err)
	}
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"shelf", "title", "url"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv %s: missing %q column", path, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return record[i]
	}

	var rows []RawBookmark
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv %s: %w", path, err)
		}
		rows = append(rows, RawBookmark{
			Shelf:   field(record, "shelf"),
			Title:   field(record, "title"),
			URL:     field(record, "url"),
			Favicon: field(record, "favicon"),
			Starred: parseBool(field(record, "starred")),
		})
	}

	return &CSVConverter{Rows: rows, source: Source{Name: "csv", FilePath: path}}, nil
}

// Convert implements Converter interface.
func (c *CSVConverter) Convert() ([]RawBookmark, Source) {
	return c.Rows, c.source
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

// Compile-time checks
var (
	_ Converter = (*Document)(nil)
	_ Converter = (*CSVConverter)(nil)
)
