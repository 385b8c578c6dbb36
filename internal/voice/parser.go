// Package voice turns a spoken or typed sentence such as "paid three hundred
// for mcdonalds burger" into a transaction record.
package voice

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txparse/internal/classifier"
	"github.com/cleared-dev/txparse/internal/model"
	"github.com/cleared-dev/txparse/internal/numwords"
)

// DefaultDescription is used when nothing describable is left in the text.
const DefaultDescription = "Voice Entry"

// Parser is stateless apart from its configuration and safe for concurrent use.
type Parser struct {
	classifier *classifier.Classifier
	now        func() time.Time
	log        zerolog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the source of "today".
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithLogger sets the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// NewParser creates a Parser that categorizes with c.
func NewParser(c *classifier.Classifier, opts ...Option) *Parser {
	p := &Parser{
		classifier: c,
		now:        time.Now,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts a transaction from text. It never fails; an utterance with
// no amount yields a zero amount and whatever category the words suggest.
func (p *Parser) Parse(text string) model.Transaction {
	tokens := prepare(text)

	// Resolve before stop words go, otherwise "2 of 500" folds into one chain.
	amount := numwords.Resolve(strings.Join(tokens, " "))

	normalized := Normalize(text)
	match := p.classifier.Classify(normalized)

	txType := model.TypeExpense
	if match.Category == model.CategoryIncome || containsAny(tokens, incomeMarkers) {
		txType = model.TypeIncome
	}

	desc := describe(text, amount)
	if desc == "" {
		desc = DefaultDescription
		if match.Matched() {
			desc = capitalize(match.Keyword)
		}
	}

	date := p.now()
	if containsAny(tokens, wordSet("yesterday")) {
		date = date.AddDate(0, 0, -1)
	}

	rec := model.Transaction{
		Type:        txType,
		Amount:      amount,
		Category:    match.Category,
		Description: desc,
		Date:        date.Format(model.DateFormat),
		Confidence:  match.Confidence(),
	}
	p.log.Debug().
		Str("normalized", normalized).
		Str("amount", amount.String()).
		Str("category", rec.Category).
		Float64("confidence", rec.Confidence).
		Msg("parsed voice entry")
	return rec
}

func containsAny(tokens []string, set map[string]struct{}) bool {
	for _, t := range tokens {
		if has(set, t) {
			return true
		}
	}
	return false
}

// describe strips the amount, currency and filler words from the original
// text, keeping the user's casing. Spelled-out numbers are always dropped, so a
// quantity like "two shirts" reads "Shirts"; digit quantities survive.
func describe(text string, amount decimal.Decimal) string {
	s := descCurrencyRe.ReplaceAllString(stripDigitCommas(text), " ")

	amountDropped := !amount.IsPositive()
	var kept []string
	for _, f := range strings.Fields(s) {
		word := strings.Trim(f, ".,!?;:\"'")
		lower := strings.ToLower(word)
		if lower == "" || has(descriptionStopWords, lower) || numwords.IsNumberWord(lower) {
			continue
		}
		if !amountDropped {
			if n, err := decimal.NewFromString(word); err == nil && n.Equal(amount) {
				amountDropped = true
				continue
			}
		}
		kept = append(kept, word)
	}
	return capitalize(strings.Join(kept, " "))
}
