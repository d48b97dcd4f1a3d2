package signal

import (
	"reflect"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		question string
		want     []string
	}{
		{"Will Bitcoin reach $200k?", []string{"crypto"}},
		{"Will Tesla stock double after the election?", []string{"stocks", "politics"}},
		{"Will AGI arrive before a recession?", []string{"tech", "economics"}},
		{"Will it snow tomorrow?", []string{"general"}},
		{"", []string{"general"}},
	}
	for _, tt := range tests {
		if got := ExtractKeywords(tt.question); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.question, got, tt.want)
		}
	}
}

func TestProductTypeMapping(t *testing.T) {
	tests := []struct {
		category string
		want     string
	}{
		{"crypto", "Apparel"},
		{"stocks", "Accessories"},
		{"tech", "Electronics"},
		{"politics", "Apparel"},
		{"economics", "Accessories"},
		{"general", "Merchandise"},
		{"unheard-of", "Merchandise"},
	}
	for _, tt := range tests {
		if got := ProductType(tt.category); got != tt.want {
			t.Errorf("ProductType(%q) = %q, want %q", tt.category, got, tt.want)
		}
	}
}
