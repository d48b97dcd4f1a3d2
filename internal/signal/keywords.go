// Package signal implements the derived-state engine: pure, deterministic
// transforms from a batch of markets to ranked demand signals, synthesized
// product listings, merchandising plans, and fallback ad copy. Nothing in
// this package performs I/O or holds state.
package signal

import "strings"

// vocabulary maps each keyword category to the substrings that trigger it.
// Categories are checked in a fixed order; the first match is the primary
// category used for product typing, pricing templates, and audiences.
var vocabulary = []struct {
	category string
	terms    []string
}{
	{"crypto", []string{"bitcoin", "btc", "crypto", "ethereum", "eth"}},
	{"stocks", []string{"stock", "s&p", "nasdaq", "dow", "tesla", "apple"}},
	{"tech", []string{"ai", "artificial intelligence", "agi", "tech"}},
	{"politics", []string{"president", "election", "politics", "fed", "government"}},
	{"economics", []string{"recession", "economy", "gdp", "inflation"}},
}

// CategoryGeneral is assigned when no vocabulary term matches.
const CategoryGeneral = "general"

// ExtractKeywords returns the keyword categories matched by substring search
// over the lowercased question, in vocabulary order. It never returns an
// empty slice; an unmatched question yields ["general"].
func ExtractKeywords(question string) []string {
	lower := strings.ToLower(question)

	var keywords []string
	for _, entry := range vocabulary {
		for _, term := range entry.terms {
			if strings.Contains(lower, term) {
				keywords = append(keywords, entry.category)
				break
			}
		}
	}

	if len(keywords) == 0 {
		return []string{CategoryGeneral}
	}
	return keywords
}

// PrimaryCategory returns the first matched keyword category for a question.
func PrimaryCategory(question string) string {
	return ExtractKeywords(question)[0]
}

// productTypes maps a primary category to the product type used for the
// premium listing.
var productTypes = map[string]string{
	"crypto":    "Apparel",
	"stocks":    "Accessories",
	"tech":      "Electronics",
	"politics":  "Apparel",
	"economics": "Accessories",
	"general":   "Merchandise",
}

// ProductType returns the product type for a category, defaulting to
// "Merchandise" for unknown categories.
func ProductType(category string) string {
	if t, ok := productTypes[category]; ok {
		return t
	}
	return "Merchandise"
}

// titleCase upper-cases the first byte of a category name for display.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
