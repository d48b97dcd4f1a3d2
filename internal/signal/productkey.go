package signal

import (
	"regexp"
	"strings"
)

var (
	nonAlnum   = regexp.MustCompile(`[^a-z0-9 ]+`)
	whitespace = regexp.MustCompile(`\s+`)
)

// NormalizeTitle canonicalizes a product title for identity purposes:
// lowercase, trim, collapse whitespace, strip non-alphanumerics (keeping
// spaces), collapse again. Titles differing only in whitespace or
// punctuation normalize identically.
func NormalizeTitle(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = whitespace.ReplaceAllString(s, " ")
	s = nonAlnum.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// ProductKey builds the composite identity used for duplicate suppression:
// marketID::productType::normalizedTitle.
func ProductKey(marketID, productType, title string) string {
	return marketID + "::" + productType + "::" + NormalizeTitle(title)
}
