// Package importers provides a unified pipeline for importing bookmarks from
// files.
//
// # Architecture
//
//	File → Converter → RawBookmark → Pipeline → shelves + links → Storage
//
// Each source implements the Converter interface, which transforms its data
// into RawBookmarks. The Pipeline groups them by shelf title, reuses shelves
// that already exist (matching titles case-insensitively), skips URLs that are
// already on the target shelf and saves the rest.
//
// # Existing Converters
//
//   - Document: the YAML and JSON shelf document, the same shape the shelf
//     list returns with format=json&expand=1
//   - CSVConverter: one bookmark per row with a shelf,title,url[,favicon] header
//
// # Example Usage
//
//	doc, err := importers.ParseYAML(data, "bookmarks.yaml")
//	pipeline := importers.NewPipeline(shelfRepo, linkRepo, nil)
//	result, err := pipeline.Import(doc)
package importers
