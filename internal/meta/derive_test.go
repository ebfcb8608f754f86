package meta

import (
	"strings"
	"testing"

	"github.com/listinglab/listinglab/internal/product"
)

func TestNormalisePrice(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain number", "19.99", "£19.99"},
		{"integer", "5", "£5.00"},
		{"already prefixed", "£5", "£5"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"unparseable passes through", "abc", "abc"},
		{"range passes through", "10-20", "10-20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalisePrice(tt.input); got != tt.expected {
				t.Errorf("NormalisePrice(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTrimToLength(t *testing.T) {
	t.Run("short text unchanged", func(t *testing.T) {
		if got := TrimToLength("  hello world  ", 60); got != "hello world" {
			t.Errorf("got %q, want %q", got, "hello world")
		}
	})

	t.Run("breaks on word boundary with ellipsis", func(t *testing.T) {
		got := TrimToLength("The quick brown fox", 10)
		if got != "The quick"+Ellipsis {
			t.Errorf("got %q, want %q", got, "The quick"+Ellipsis)
		}
		if n := len([]rune(got)); n > 10 {
			t.Errorf("length = %d, want <= 10", n)
		}
	})

	t.Run("strips trailing punctuation before ellipsis", func(t *testing.T) {
		got := TrimToLength("Great deal, yes, really amazing offer", 12)
		if strings.Contains(got, ","+Ellipsis) {
			t.Errorf("got %q, trailing punctuation not stripped", got)
		}
		if !strings.HasSuffix(got, Ellipsis) {
			t.Errorf("got %q, want ellipsis suffix", got)
		}
	})
}

func TestDetectGender(t *testing.T) {
	d := NewDeriver()

	tests := []struct {
		title    string
		expected string
	}{
		{"Women's Running Shoes", "Women"},
		{"Ladies Leather Wallet", "Women"},
		{"Men's Razor Set", "Men"},
		{"Boys Football Boots", "Men"},
		{"Kids Backpack", "Unisex"},
		{"Wireless Mouse", "Unisex"},
		// Whole-word matching: "menthol" must not match "men".
		{"Menthol Shower Gel", "Unisex"},
		// First match in table order wins.
		{"Women and Men Gloves", "Women"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := d.DetectGender(tt.title); got != tt.expected {
				t.Errorf("DetectGender(%q) = %q, want %q", tt.title, got, tt.expected)
			}
		})
	}
}

func TestDetectGender_CustomTable(t *testing.T) {
	d := NewDeriverWith(DefaultStopWords(), []GenderKeyword{{"petite", "Women"}})

	if got := d.DetectGender("Petite Summer Dress"); got != "Women" {
		t.Errorf("got %q, want Women", got)
	}
	if got := d.DetectGender("Women's Dress"); got != "Unisex" {
		t.Errorf("got %q, want Unisex with custom table", got)
	}
}

func TestBuildKeywords(t *testing.T) {
	d := NewDeriver()

	got := d.BuildKeywords("Super Pack", "BrandX", "Tools")

	// Brand tokens come first; "pack" is a stop word.
	if got != "brandx, super, tools" {
		t.Errorf("BuildKeywords() = %q, want %q", got, "brandx, super, tools")
	}
}

func TestBuildKeywords_Rules(t *testing.T) {
	d := NewDeriver()

	t.Run("short tokens excluded", func(t *testing.T) {
		got := d.BuildKeywords("XL 4K TV Stand", "AB", "TV Mounts")
		for _, kw := range strings.Split(got, ", ") {
			if len(kw) < 3 {
				t.Errorf("keyword %q shorter than 3 chars in %q", kw, got)
			}
		}
	})

	t.Run("deduplicated first-seen order", func(t *testing.T) {
		got := d.BuildKeywords("Shampoo Shampoo Coconut", "Coconut", "Haircare")
		if got != "coconut, shampoo, haircare" {
			t.Errorf("got %q, want %q", got, "coconut, shampoo, haircare")
		}
	})

	t.Run("capped at 15", func(t *testing.T) {
		title := "alpha bravo charlie delta echo foxtrot golf hotel india juliett kilo lima mike november oscar papa quebec"
		got := d.BuildKeywords(title, "", "")
		if n := len(strings.Split(got, ", ")); n != MaxKeywords {
			t.Errorf("got %d keywords, want %d", n, MaxKeywords)
		}
	})
}

func TestMainImage(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single url", "http://a/1.jpg", "http://a/1.jpg"},
		{"first of several", "http://a/1.jpg;http://a/2.jpg", "http://a/1.jpg"},
		{"leading empties skipped", " ; ;http://a/2.jpg", "http://a/2.jpg"},
		{"empty field", "", ""},
		{"separators only", ";;", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MainImage(tt.input); got != tt.expected {
				t.Errorf("MainImage(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func testRow(fields map[string]string) product.Row {
	return product.Row{Title: strings.TrimSpace(fields[product.ColumnTitle]), Fields: fields}
}

func TestDerive(t *testing.T) {
	d := NewDeriver()

	row := testRow(map[string]string{
		product.ColumnTitle:       "Women's Running Shoes",
		product.ColumnBrand:       "FleetFoot",
		product.ColumnCategory:    "Sports",
		product.ColumnBuyBoxPrice: "49.99",
		product.ColumnRating:      "4.5",
		product.ColumnASIN:        "B00TEST123",
		product.ColumnImage:       "http://img/1.jpg;http://img/2.jpg",
	})

	rec, ok := d.Derive(row)
	if !ok {
		t.Fatal("Derive() skipped a valid row")
	}

	if rec.Title != "Women's Running Shoes" {
		t.Errorf("Title = %q", rec.Title)
	}
	if rec.SEOTitle != "Women's Running Shoes" {
		t.Errorf("SEOTitle = %q, want unchanged short title", rec.SEOTitle)
	}
	if n := len([]rune(rec.MetaDescription)); n > MetaDescriptionLimit {
		t.Errorf("MetaDescription length = %d, want <= %d", n, MetaDescriptionLimit)
	}
	if want := "FleetFoot Women's Running Shoes | Sports essential | Priced at £49.99"; rec.ShortDescription != want {
		t.Errorf("ShortDescription = %q, want %q", rec.ShortDescription, want)
	}
	if !strings.Contains(rec.LongDescription, "Customers rate it 4.5 out of 5") {
		t.Errorf("LongDescription missing rating sentence: %q", rec.LongDescription)
	}
	if !strings.Contains(rec.LongDescription, "ASIN: B00TEST123") {
		t.Errorf("LongDescription missing ASIN line: %q", rec.LongDescription)
	}
	if rec.Gender != "Women" {
		t.Errorf("Gender = %q, want Women", rec.Gender)
	}
	if rec.ImageFolder != "images/womens-running-shoes" {
		t.Errorf("ImageFolder = %q", rec.ImageFolder)
	}
	if rec.MainImageFile != "1.webp" {
		t.Errorf("MainImageFile = %q", rec.MainImageFile)
	}
	if rec.Price != "£49.99" {
		t.Errorf("Price = %q", rec.Price)
	}
	if rec.MainImageSource != "http://img/1.jpg" {
		t.Errorf("MainImageSource = %q", rec.MainImageSource)
	}
}

func TestDerive_Defaults(t *testing.T) {
	d := NewDeriver()

	rec, ok := d.Derive(testRow(map[string]string{product.ColumnTitle: "Plain Widget"}))
	if !ok {
		t.Fatal("Derive() skipped a valid row")
	}

	if rec.Brand != "Unknown" {
		t.Errorf("Brand = %q, want Unknown", rec.Brand)
	}
	if rec.Category != "General" {
		t.Errorf("Category = %q, want General", rec.Category)
	}
	if rec.Price != "" {
		t.Errorf("Price = %q, want empty", rec.Price)
	}
	// No price clause in the short description.
	if strings.Contains(rec.ShortDescription, "Priced at") {
		t.Errorf("ShortDescription = %q, unexpected price clause", rec.ShortDescription)
	}
	// No rating or ASIN sentences in the long description.
	if strings.Contains(rec.LongDescription, "out of 5") || strings.Contains(rec.LongDescription, "ASIN:") {
		t.Errorf("LongDescription = %q, unexpected optional sentences", rec.LongDescription)
	}
}

func TestDerive_SkipsEmptyTitle(t *testing.T) {
	d := NewDeriver()

	for _, title := range []string{"", "   ", "\t"} {
		if _, ok := d.Derive(testRow(map[string]string{product.ColumnTitle: title})); ok {
			t.Errorf("Derive() with title %q: expected skip", title)
		}
	}
}

func TestBestPrice_Priority(t *testing.T) {
	d := NewDeriver()

	tests := []struct {
		name     string
		fields   map[string]string
		expected string
	}{
		{
			"buy box wins",
			map[string]string{
				product.ColumnBuyBoxPrice: "10",
				product.ColumnNewPrice:    "20",
				product.ColumnListPrice:   "30",
			},
			"£10.00",
		},
		{
			"falls back to new",
			map[string]string{
				product.ColumnNewPrice:  "20",
				product.ColumnListPrice: "30",
			},
			"£20.00",
		},
		{
			"falls back to list",
			map[string]string{product.ColumnListPrice: "30"},
			"£30.00",
		},
		{
			"all empty",
			map[string]string{},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.BestPrice(testRow(tt.fields)); got != tt.expected {
				t.Errorf("BestPrice() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildGrid(t *testing.T) {
	d := NewDeriver()
	rec, _ := d.Derive(testRow(map[string]string{product.ColumnTitle: "Widget"}))

	grid := BuildGrid([]Record{rec})

	if len(grid) != 2 {
		t.Fatalf("grid rows = %d, want 2", len(grid))
	}
	if grid[0][0] != "Product Title" {
		t.Errorf("first header = %q, want %q", grid[0][0], "Product Title")
	}
	if len(grid[0]) != len(grid[1]) {
		t.Errorf("header cells = %d, data cells = %d", len(grid[0]), len(grid[1]))
	}
	if grid[1][0] != "Widget" {
		t.Errorf("first cell = %q, want Widget", grid[1][0])
	}
}
