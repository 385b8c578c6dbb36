// Package numwords folds spoken and written number phrases into a single
// value. It understands English number words, the k/million magnitudes and
// the South-Asian lakh/crore system.
package numwords

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var units = map[string]int64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
	"eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14, "fifteen": 15,
	"sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
}

const hundred = "hundred"

var magnitudes = map[string]int64{
	"thousand": 1_000,
	"k":        1_000,
	"lakh":     100_000,
	"lakhs":    100_000,
	"lac":      100_000,
	"million":  1_000_000,
	"crore":    10_000_000,
	"crores":   10_000_000,
}

var (
	// digitLetter splits "5k" and "2lakh" into separate tokens.
	digitLetter = regexp.MustCompile(`(\d)(\pL)`)
	rawNumber   = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)
)

var (
	oneHundred = decimal.NewFromInt(100)
	one        = decimal.NewFromInt(1)
)

// IsNumberWord reports whether w is a unit or magnitude word.
func IsNumberWord(w string) bool {
	w = strings.ToLower(w)
	if _, ok := units[w]; ok {
		return true
	}
	if _, ok := magnitudes[w]; ok {
		return true
	}
	return w == hundred
}

// Tokenize lowercases text and splits it on every rune that is not a letter,
// a digit or a decimal point.
func Tokenize(text string) []string {
	text = digitLetter.ReplaceAllString(strings.ToLower(text), "$1 $2")
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	})
}

// chain accumulates one run of adjacent numeric tokens.
type chain struct {
	total  decimal.Decimal
	group  decimal.Decimal
	open   bool
	values []decimal.Decimal
}

func (c *chain) commit() {
	if !c.open {
		return
	}
	c.values = append(c.values, c.total.Add(c.group))
	c.total, c.group = decimal.Zero, decimal.Zero
	c.open = false
}

func (c *chain) groupOrOne() decimal.Decimal {
	if c.group.IsZero() {
		return one
	}
	return c.group
}

func parseRaw(tok string) (decimal.Decimal, bool) {
	if !rawNumber.MatchString(tok) {
		return decimal.Zero, false
	}
	n, err := decimal.NewFromString(strings.TrimSuffix(tok, "."))
	if err != nil {
		return decimal.Zero, false
	}
	return n, true
}

// ResolveAll returns the value of every number chain in text, in order of
// appearance.
func ResolveAll(text string) []decimal.Decimal {
	var c chain
	for _, tok := range Tokenize(text) {
		if n, ok := parseRaw(tok); ok {
			// A raw number replaces the active group: "two thousand 500".
			c.total = c.total.Add(c.group)
			c.group = n
			c.open = true
			continue
		}
		if u, ok := units[tok]; ok {
			c.group = c.group.Add(decimal.NewFromInt(u))
			c.open = true
			continue
		}
		if tok == hundred {
			c.group = c.groupOrOne().Mul(oneHundred)
			c.open = true
			continue
		}
		if m, ok := magnitudes[tok]; ok {
			c.total = c.total.Add(c.groupOrOne().Mul(decimal.NewFromInt(m)))
			c.group = decimal.Zero
			c.open = true
			continue
		}
		c.commit()
	}
	c.commit()
	return c.values
}

// Resolve returns the largest number chain found in text, or zero when the
// text holds no number at all.
func Resolve(text string) decimal.Decimal {
	best := decimal.Zero
	for _, v := range ResolveAll(text) {
		if v.GreaterThan(best) {
			best = v
		}
	}
	return best
}
