package classifier

import (
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Similarity scores how far apart two strings are, from 0 (identical) to 1
// (nothing in common).
type Similarity interface {
	Distance(a, b string) float64
}

// SimilarityFunc adapts a plain function to Similarity.
type SimilarityFunc func(a, b string) float64

// Distance calls f(a, b).
func (f SimilarityFunc) Distance(a, b string) float64 { return f(a, b) }

// EditDistance is the optimal string alignment Damerau-Levenshtein distance
// divided by the longer string's length, so "macdonalds" vs "mcdonalds" is 0.1.
type EditDistance struct{}

// Distance implements Similarity.
func (EditDistance) Distance(a, b string) float64 {
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 0
	}
	d := edlib.OSADamerauLevenshteinDistance(a, b)
	return min(float64(d)/float64(longest), 1)
}
