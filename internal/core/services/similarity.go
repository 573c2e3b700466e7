package services

import (
	"unicode"
)

// Similarity returns the Jaccard-max score of two texts: the number of
// distinct shared tokens divided by the larger distinct token count.
//
// Tokens are maximal runs of letters, digits and underscore. Case is
// preserved. Two token-less texts score 0.
func Similarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)

	larger := max(len(setA), len(setB))
	if larger == 0 {
		return 0
	}

	small, big := setA, setB
	if len(small) > len(big) {
		small, big = big, small
	}

	shared := 0
	for tok := range small {
		if _, ok := big[tok]; ok {
			shared++
		}
	}

	return float64(shared) / float64(larger)
}

// tokenSet splits text on runs of non-word characters and deduplicates.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	start := -1
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			set[text[start:i]] = struct{}{}
			start = -1
		}
	}
	if start >= 0 {
		set[text[start:]] = struct{}{}
	}
	return set
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
