// Package util provides common utility functions.
package util

import (
	"regexp"
	"strings"
)

// Defaults for TitleSlug.
const (
	SlugMaxWords = 6
	SlugMaxLen   = 48

	// SlugFallback is returned when nothing usable survives normalization.
	SlugFallback = "product"
)

var (
	// Matches characters that are not letters, digits, underscores, whitespace, or dashes.
	disallowedRe = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	// Matches runs of whitespace (for collapsing to single spaces).
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Matches multiple consecutive dashes.
	multipleDashRe = regexp.MustCompile(`-{2,}`)
)

// TitleSlug converts a product title to a short, filesystem-safe folder name.
// Equivalent to TitleSlugN with the default word and length caps.
//
// Examples:
//
//	"Blue Cotton T-Shirt"       → "blue-cotton-t-shirt"
//	"  Super!  Deal (2 Pack)  " → "super-deal-2-pack"
//	"!!!"                       → "product"
func TitleSlug(title string) string {
	return TitleSlugN(title, SlugMaxWords, SlugMaxLen)
}

// TitleSlugN derives a slug from title, keeping at most maxWords words and
// maxLen characters. Deterministic for identical input.
//
// Normalization rules:
//  1. Trim surrounding whitespace
//  2. Drop characters that are not letters, digits, underscores, whitespace, or dashes
//  3. Collapse whitespace runs to single spaces
//  4. Keep the first maxWords words, join with dashes, lowercase
//  5. Collapse multiple dashes and trim leading/trailing dashes
//  6. Cap at maxLen characters, trimming any dash left dangling
func TitleSlugN(title string, maxWords, maxLen int) string {
	s := strings.TrimSpace(title)

	s = disallowedRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))

	words := strings.Split(s, " ")
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	s = strings.ToLower(strings.Join(words, "-"))

	s = multipleDashRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen])
	}
	s = strings.TrimRight(s, "-")

	if s == "" {
		return SlugFallback
	}
	return s
}
