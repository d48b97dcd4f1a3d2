package signal

import (
	"fmt"

	"github.com/prophetlabs/signal2store/internal/domain"
)

// FallbackCopy generates deterministic ad copy from the question and the
// operator's top keywords. It is the copy of record whenever the LLM is
// unconfigured or fails; callers must be able to reach it without any
// network dependency.
func FallbackCopy(question string, topKeywords []string) domain.AdCopy {
	category := "trending"
	if len(topKeywords) > 0 && topKeywords[0] != "" {
		category = topKeywords[0]
	}

	return domain.AdCopy{
		Headline:    fmt.Sprintf("%s trend merch drop", titleCase(category)),
		Description: "Limited edition products inspired by current market signals. Get yours now.",
		WhyBundle:   "Bundle saves 15% and targets the same audience for maximum impact.",
	}
}
