package voice

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	currencyRe     = regexp.MustCompile(`₹|\brupees?\b|\brs\b\.?|\binr\b`)
	descCurrencyRe = regexp.MustCompile(`(?i)₹|\$|\brupees?\b|\brs\b\.?|\binr\b`)
	digitComma     = regexp.MustCompile(`(\d),(\d)`)
	punctRe        = regexp.MustCompile(`[^\pL\pN\s.]+`)
)

// stopWords are dropped before classification.
var stopWords = wordSet(
	"spent", "paid", "received", "income", "bill", "of",
	"today", "yesterday", "approx", "approximately",
)

// descriptionStopWords are dropped when building a description.
var descriptionStopWords = wordSet(
	"spent", "paid", "received", "income", "bill", "of",
	"on", "for", "at", "to", "buy", "bought", "purchase", "ordered",
)

var incomeMarkers = wordSet("received", "credited")

func wordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func has(set map[string]struct{}, w string) bool {
	_, ok := set[w]
	return ok
}

// stripDigitCommas turns "1,00,000" into "100000".
func stripDigitCommas(s string) string {
	for {
		next := digitComma.ReplaceAllString(s, "$1$2")
		if next == s {
			return s
		}
		s = next
	}
}

// prepare lowercases text, collapses currency words to "rs" and removes
// thousands separators and punctuation. Stop words are kept so number
// phrases stay intact.
func prepare(text string) []string {
	s := strings.ToLower(text)
	s = currencyRe.ReplaceAllString(s, " rs ")
	s = stripDigitCommas(s)
	s = punctRe.ReplaceAllString(s, " ")

	fields := strings.Fields(s)
	out := fields[:0]
	for _, f := range fields {
		if f = strings.Trim(f, "."); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Normalize returns the lowercase, stop-word-free form of an utterance that
// the classifier works on.
func Normalize(text string) string {
	var kept []string
	for _, tok := range prepare(text) {
		if !has(stopWords, tok) {
			kept = append(kept, tok)
		}
	}
	return strings.Join(kept, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
