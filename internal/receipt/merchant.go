package receipt

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cleared-dev/txparse/internal/model"
	"github.com/cleared-dev/txparse/internal/taxonomy"
)

const (
	defaultHeaderTokens = 15
	defaultLineGap      = 20
)

var boilerplate = regexp.MustCompile(`(?i)invoice|tax|date|gstin|phone|total|bill`)

// MerchantSource says how a merchant was found.
type MerchantSource string

const (
	SourceTable   MerchantSource = "table"
	SourceLine    MerchantSource = "line"
	SourceLargest MerchantSource = "largest"
	SourceNone    MerchantSource = "none"
)

// Merchant is the store a receipt came from, as far as it can be told.
type Merchant struct {
	Name     string         `json:"name,omitempty"`
	Category string         `json:"category"`
	Source   MerchantSource `json:"source"`
}

type token struct {
	text   string
	x, y   float64
	height float64
}

// header returns the top-most tokens of the page, skipping the whole-page one.
func header(anns []model.Annotation, n int) []token {
	if len(anns) < 2 {
		return nil
	}
	toks := make([]token, 0, len(anns)-1)
	for _, a := range anns[1:] {
		toks = append(toks, token{
			text:   a.Description,
			x:      a.BoundingPoly.Left(),
			y:      a.BoundingPoly.Top(),
			height: a.BoundingPoly.Height(),
		})
	}
	sort.SliceStable(toks, func(i, j int) bool { return toks[i].y < toks[j].y })
	if len(toks) > n {
		toks = toks[:n]
	}
	return toks
}

// groupLines joins tokens into visual lines. Tokens must be sorted by y; a
// token starts a new line when it sits more than gap below the one before.
func groupLines(toks []token, gap float64) []string {
	var (
		lines []string
		cur   []token
	)
	flush := func() {
		if len(cur) == 0 {
			return
		}
		sort.SliceStable(cur, func(i, j int) bool { return cur[i].x < cur[j].x })
		words := make([]string, len(cur))
		for i, t := range cur {
			words[i] = t.text
		}
		lines = append(lines, strings.Join(words, " "))
		cur = cur[:0]
	}
	for i, t := range toks {
		if i > 0 && t.y-toks[i-1].y > gap {
			flush()
		}
		cur = append(cur, t)
	}
	flush()
	return lines
}

func isNameLike(s string, minLen int) bool {
	if len([]rune(s)) <= minLen || boilerplate.MatchString(s) {
		return false
	}
	return strings.IndexFunc(s, unicode.IsLetter) >= 0
}

func titleCase(s string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}

type merchantFinder struct {
	tax          *taxonomy.Taxonomy
	headerTokens int
	lineGap      float64
}

// find looks for the merchant in the receipt header. Known merchants win;
// otherwise the first plain header line, then the largest header glyph, name
// the store and the category comes from keywords in the full text.
func (f merchantFinder) find(anns []model.Annotation, fullText string) Merchant {
	toks := header(anns, f.headerTokens)
	lines := groupLines(toks, f.lineGap)

	for _, line := range lines {
		if m, ok := f.tax.FindMerchant(line); ok {
			return Merchant{Name: m.Name, Category: m.Category, Source: SourceTable}
		}
	}

	m := Merchant{Category: model.CategoryOther, Source: SourceNone}

	var largest token
	for _, t := range toks {
		if isNameLike(t.text, 2) && t.height > largest.height {
			largest = t
		}
	}
	if largest.text != "" {
		m.Name, m.Source = titleCase(largest.text), SourceLargest
	}
	for _, line := range lines {
		if isNameLike(line, 3) {
			m.Name, m.Source = titleCase(line), SourceLine
			break
		}
	}

	if cat, ok := f.tax.FallbackCategory(fullText); ok {
		m.Category = cat
	}
	return m
}
