package meta

// Record is the derived marketing metadata for one product row. All fields
// are computed from the source row; nothing is carried over verbatim except
// the title, brand, category, and price inputs.
type Record struct {
	Title            string
	SEOTitle         string
	MetaDescription  string
	ShortDescription string
	LongDescription  string
	Keywords         string
	Category         string
	Gender           string
	Brand            string
	ImageFolder      string
	MainImageFile    string
	Price            string
	MainImageSource  string
}

// Headers returns the export column names in their fixed construction
// order. (Record).Values returns cells in the same order.
func Headers() []string {
	return []string{
		"Product Title",
		"SEO Title (<=60)",
		"Meta Description (<=160)",
		"Short Description",
		"Long Description",
		"Keywords",
		"Category (Suggested)",
		"Target Gender",
		"Brand",
		"Image Folder",
		"Main Image File",
		"Price",
		"Main Image Source",
	}
}

// Values returns the record's cells in header order.
func (r Record) Values() []string {
	return []string{
		r.Title,
		r.SEOTitle,
		r.MetaDescription,
		r.ShortDescription,
		r.LongDescription,
		r.Keywords,
		r.Category,
		r.Gender,
		r.Brand,
		r.ImageFolder,
		r.MainImageFile,
		r.Price,
		r.MainImageSource,
	}
}

// BuildGrid turns records into a spreadsheet grid: one header row followed
// by one row per record, cells in header order.
func BuildGrid(records []Record) [][]string {
	grid := make([][]string, 0, len(records)+1)
	grid = append(grid, Headers())
	for _, r := range records {
		grid = append(grid, r.Values())
	}
	return grid
}
