// Package product models product rows and the sources they are read from.
package product

import "strings"

// Well-known source column names.
const (
	ColumnTitle       = "Title"
	ColumnBrand       = "Brand"
	ColumnCategory    = "Categories: Root"
	ColumnBuyBoxPrice = "Buy Box 🚚: Current"
	ColumnNewPrice    = "New: Current"
	ColumnListPrice   = "List Price: Current"
	ColumnRating      = "Reviews: Rating"
	ColumnASIN        = "ASIN"
	ColumnImage       = "Image"
)

// Row is one product row from any source: a title, the image URLs in source
// order, and the raw source fields keyed by column name. Rows are read once
// per run and never mutated.
type Row struct {
	Title     string
	ImageURLs []string
	Fields    map[string]string
}

// Field returns the raw source field for name, or "" when absent.
func (r Row) Field(name string) string {
	return r.Fields[name]
}

// FromRecord builds a Row from a spreadsheet record. The title comes from
// the "Title" column; image URLs come from every column whose name starts
// with "url" (case-insensitive), in header order.
func FromRecord(headers []string, record map[string]string) Row {
	row := Row{
		Title:  strings.TrimSpace(record[ColumnTitle]),
		Fields: record,
	}

	for _, h := range headers {
		if !strings.HasPrefix(strings.ToLower(h), "url") {
			continue
		}
		if v := strings.TrimSpace(record[h]); v != "" {
			row.ImageURLs = append(row.ImageURLs, v)
		}
	}

	return row
}
