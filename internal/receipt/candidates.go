package receipt

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txparse/internal/model"
)

// DefaultMaxAmount is the largest amount a receipt token may carry.
var DefaultMaxAmount = decimal.NewFromInt(200000)

var (
	currencyPrefix = regexp.MustCompile(`(?i)^(rs\.?|inr|₹|\$|€|£)\s*`)
	amountShape    = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)
	currencyMark   = regexp.MustCompile(`(?i)[₹$€£]|rs`)
	totalWord      = regexp.MustCompile(`(?i)total|grand|amount|payable`)
	prevTotalWord  = regexp.MustCompile(`(?i)total|grand|amount`)
	paidWord       = regexp.MustCompile(`(?i)received|paid`)
)

var (
	minYear = decimal.NewFromInt(2020)
	maxYear = decimal.NewFromInt(2030)
)

// Candidate is one OCR token that could be the receipt total.
type Candidate struct {
	Value      decimal.Decimal `json:"value"`
	Score      int             `json:"score"`
	Confidence float64         `json:"confidence"`
	Y          float64         `json:"y"`
	Text       string          `json:"text"`
}

// parseAmount returns the value of a token if it looks like a money amount
// within (0, limit]. Bare 4-digit numbers from 2020 to 2030 are years.
func parseAmount(text string, limit decimal.Decimal) (decimal.Decimal, bool) {
	s := strings.TrimSpace(text)
	s = currencyPrefix.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSuffix(s, "/-")
	if !amountShape.MatchString(s) {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(s)
	if err != nil || !v.IsPositive() || v.GreaterThan(limit) {
		return decimal.Zero, false
	}
	if isYear(s, v) {
		return decimal.Zero, false
	}
	return v, true
}

func isYear(s string, v decimal.Decimal) bool {
	return len(s) == 4 && !strings.Contains(s, ".") &&
		v.GreaterThanOrEqual(minYear) && v.LessThanOrEqual(maxYear)
}

type scorer struct {
	page      Page
	avgHeight float64
	limit     decimal.Decimal
}

// candidates scores every numeric annotation after the whole-page one.
func (s scorer) candidates(anns []model.Annotation) []Candidate {
	var out []Candidate
	for i := 1; i < len(anns); i++ {
		text := anns[i].Description
		v, ok := parseAmount(text, s.limit)
		if !ok {
			continue
		}
		prev := ""
		if i > 1 {
			prev = anns[i-1].Description
		}
		score := s.score(text, prev, anns[i].BoundingPoly)
		out = append(out, Candidate{
			Value:      v,
			Score:      score,
			Confidence: confidence(score),
			Y:          anns[i].BoundingPoly.Top(),
			Text:       text,
		})
	}
	return out
}

func (s scorer) score(text, prev string, box model.BoundingPoly) int {
	score := 0
	y := box.Top()
	if y > s.page.Height*0.6 {
		score += 2
	}
	if y > s.page.Height*0.8 {
		score += 2
	}
	if box.Height() > s.avgHeight*1.2 {
		score += 3
	}
	if strings.Contains(text, ".") {
		score += 2
	}
	if currencyMark.MatchString(text) {
		score += 2
	}
	switch {
	case totalWord.MatchString(text):
		score += 4
	case paidWord.MatchString(text):
		score += 3
	}
	switch {
	case prevTotalWord.MatchString(prev):
		score += 3
	case paidWord.MatchString(prev):
		score += 3
	}
	return score
}

func confidence(score int) float64 {
	return min(1, 0.8+0.05*float64(score))
}

// rank orders candidates best first: higher score, then lower on the page.
func rank(cs []Candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		if cs[i].Score != cs[j].Score {
			return cs[i].Score > cs[j].Score
		}
		return cs[i].Y > cs[j].Y
	})
}
