// Package meta derives marketing metadata records from product rows.
package meta

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/listinglab/listinglab/internal/product"
	"github.com/listinglab/listinglab/internal/util"
)

// Limits applied to derived text fields.
const (
	SEOTitleLimit        = 60
	MetaDescriptionLimit = 160
	MaxKeywords          = 15
	minKeywordLen        = 3
)

// Ellipsis is appended when a text field is trimmed.
const Ellipsis = "…"

// CurrencyPrefix is prepended to normalized numeric prices.
const CurrencyPrefix = "£"

// GenderKeyword maps a title token to a target-gender label. Matching is
// whole-word against the lowercased title; list order decides ties.
type GenderKeyword struct {
	Token string
	Label string
}

// DefaultGenderKeywords returns the default ordered token→label table.
func DefaultGenderKeywords() []GenderKeyword {
	return []GenderKeyword{
		{"women", "Women"},
		{"woman", "Women"},
		{"ladies", "Women"},
		{"female", "Women"},
		{"girls", "Women"},
		{"men", "Men"},
		{"man's", "Men"},
		{"male", "Men"},
		{"boys", "Men"},
		{"kids", "Unisex"},
		{"children", "Unisex"},
		{"unisex", "Unisex"},
	}
}

// DefaultStopWords returns the default keyword stop-word set.
func DefaultStopWords() []string {
	return []string{
		"the", "and", "with", "for", "from", "into", "your", "this", "that",
		"a", "an", "of", "to", "on", "ml", "pack", "set",
	}
}

// keywordTokenRe matches alphanumeric runs, keeping apostrophes inside words.
var keywordTokenRe = regexp.MustCompile(`[A-Za-z0-9']+`)

// Deriver turns product rows into metadata records. Stop words and gender
// keywords are injected so they can be swapped and tested in isolation.
type Deriver struct {
	stopWords map[string]struct{}
	genders   []genderMatcher
}

type genderMatcher struct {
	re    *regexp.Regexp
	label string
}

// NewDeriver creates a Deriver with the default stop-word and gender tables.
func NewDeriver() *Deriver {
	return NewDeriverWith(DefaultStopWords(), DefaultGenderKeywords())
}

// NewDeriverWith creates a Deriver with custom tables.
func NewDeriverWith(stopWords []string, genderKeywords []GenderKeyword) *Deriver {
	d := &Deriver{
		stopWords: make(map[string]struct{}, len(stopWords)),
	}
	for _, w := range stopWords {
		d.stopWords[w] = struct{}{}
	}
	for _, gk := range genderKeywords {
		d.genders = append(d.genders, genderMatcher{
			re:    regexp.MustCompile(`\b` + regexp.QuoteMeta(gk.Token) + `\b`),
			label: gk.Label,
		})
	}
	return d
}

// Derive builds a metadata record for row. The second return value is false
// when the row is skipped (empty or whitespace-only title).
func (d *Deriver) Derive(row product.Row) (Record, bool) {
	title := strings.TrimSpace(row.Field(product.ColumnTitle))
	if title == "" {
		return Record{}, false
	}

	brand := strings.TrimSpace(row.Field(product.ColumnBrand))
	if brand == "" {
		brand = "Unknown"
	}
	category := strings.TrimSpace(row.Field(product.ColumnCategory))
	if category == "" {
		category = "General"
	}
	price := d.BestPrice(row)
	rating := strings.TrimSpace(row.Field(product.ColumnRating))
	asin := strings.TrimSpace(row.Field(product.ColumnASIN))
	slug := util.TitleSlug(title)

	return Record{
		Title:            title,
		SEOTitle:         TrimToLength(title, SEOTitleLimit),
		MetaDescription:  TrimToLength(metaDescription(title, brand, category), MetaDescriptionLimit),
		ShortDescription: shortDescription(title, brand, category, price),
		LongDescription:  longDescription(title, brand, category, rating, asin),
		Keywords:         d.BuildKeywords(title, brand, category),
		Category:         category,
		Gender:           d.DetectGender(title),
		Brand:            brand,
		ImageFolder:      "images/" + slug,
		MainImageFile:    "1.webp",
		Price:            price,
		MainImageSource:  MainImage(row.Field(product.ColumnImage)),
	}, true
}

// BestPrice picks the first non-empty normalized price among the buy-box,
// "new", and list-price columns, in that priority order.
func (d *Deriver) BestPrice(row product.Row) string {
	for _, col := range []string{product.ColumnBuyBoxPrice, product.ColumnNewPrice, product.ColumnListPrice} {
		if p := NormalisePrice(row.Field(col)); p != "" {
			return p
		}
	}
	return ""
}

// BuildKeywords tokenizes brand, title, and category, lowercases the
// tokens, drops stop words and tokens shorter than 3 characters,
// deduplicates preserving first-seen order, and joins the first 15 with
// ", ".
func (d *Deriver) BuildKeywords(title, brand, category string) string {
	tokens := keywordTokenRe.FindAllString(fmt.Sprintf("%s %s %s", brand, title, category), -1)

	var keywords []string
	seen := make(map[string]struct{})
	for _, token := range tokens {
		normalised := strings.ToLower(token)
		if _, stop := d.stopWords[normalised]; stop || len(normalised) < minKeywordLen {
			continue
		}
		if _, dup := seen[normalised]; dup {
			continue
		}
		keywords = append(keywords, normalised)
		seen[normalised] = struct{}{}
		if len(keywords) == MaxKeywords {
			break
		}
	}

	return strings.Join(keywords, ", ")
}

// DetectGender scans the lowercased title for gendered keywords, whole
// words only. First match in table order wins; the default is "Unisex".
func (d *Deriver) DetectGender(title string) string {
	lower := strings.ToLower(title)
	for _, g := range d.genders {
		if g.re.MatchString(lower) {
			return g.label
		}
	}
	return "Unisex"
}

// TrimToLength trims text to at most limit characters, preferring a whole
// word boundary. Truncated text has trailing punctuation stripped and the
// ellipsis marker appended; text that already fits is returned unchanged
// apart from surrounding whitespace.
func TrimToLength(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len([]rune(text)) <= limit {
		return text
	}

	var trimmed []string
	total := 0
	for _, word := range strings.Fields(text) {
		extra := len([]rune(word))
		if len(trimmed) > 0 {
			extra++ // joining space
		}
		if total+extra > limit-1 {
			break
		}
		trimmed = append(trimmed, word)
		total += extra
	}

	return strings.TrimRight(strings.Join(trimmed, " "), ",.;:-") + Ellipsis
}

// NormalisePrice formats a raw price value. Values already carrying the
// currency prefix pass through; parseable numbers are formatted to two
// decimal places with the prefix; anything unparseable passes through
// unchanged. Empty input yields empty output.
func NormalisePrice(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if strings.HasPrefix(value, CurrencyPrefix) {
		return value
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return fmt.Sprintf("%s%.2f", CurrencyPrefix, f)
	}
	return value
}

// MainImage returns the first non-empty trimmed entry of a
// semicolon-separated image URL field, or "".
func MainImage(raw string) string {
	for _, part := range strings.Split(raw, ";") {
		if part = strings.TrimSpace(part); part != "" {
			return part
		}
	}
	return ""
}

// shortDescription joins "<brand> <title>", "<category> essential", and an
// optional price clause with " | ", omitting empty parts.
func shortDescription(title, brand, category, price string) string {
	parts := []string{
		strings.TrimSpace(brand + " " + title),
		strings.TrimSpace(category + " essential"),
	}
	if price != "" {
		parts = append(parts, "Priced at "+price)
	}

	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " | ")
}

// longDescription composes the templated long-form copy, with optional
// rating and ASIN sentences.
func longDescription(title, brand, category, rating, asin string) string {
	lines := []string{
		fmt.Sprintf("Experience %s from %s—a trusted %s favourite.", title, brand, strings.ToLower(category)),
	}
	if rating != "" {
		lines = append(lines, fmt.Sprintf("Customers rate it %s out of 5 for quality and results.", rating))
	}
	lines = append(lines, "Perfect for Amazon FBA listings with reliable performance data.")
	if asin != "" {
		lines = append(lines, "ASIN: "+asin)
	}
	return strings.Join(lines, " ")
}

func metaDescription(title, brand, category string) string {
	return fmt.Sprintf(
		"Shop %s by %s, a standout in %s on Amazon. Great choice for FBA sellers seeking steady demand.",
		title, brand, strings.ToLower(category),
	)
}
