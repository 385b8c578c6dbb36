package receipt

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// FallbackConfidence is the fixed confidence of text-only parses.
const FallbackConfidence = 0.5

var (
	totalLine = regexp.MustCompile(`(?i)total|amount|due|payable`)
	numberRe  = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)
)

// fallbackAmount reads the amount from plain text: the first number on the
// first total-like line, else the largest plausible number anywhere.
func fallbackAmount(text string, limit decimal.Decimal) decimal.Decimal {
	for _, line := range strings.Split(text, "\n") {
		if !totalLine.MatchString(line) {
			continue
		}
		if s := numberRe.FindString(line); s != "" {
			if v, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "")); err == nil && v.IsPositive() {
				return v
			}
		}
		break
	}

	best := decimal.Zero
	for _, s := range numberRe.FindAllString(text, -1) {
		s = strings.ReplaceAll(s, ",", "")
		v, err := decimal.NewFromString(s)
		if err != nil || v.GreaterThanOrEqual(limit) || isYear(s, v) {
			continue
		}
		if v.GreaterThan(best) {
			best = v
		}
	}
	return best
}
