// Package receipt extracts a transaction from receipt OCR output. With page
// geometry it scores every numeric token by position, size and neighbours;
// without it, it degrades to a text-only regex pass.
package receipt

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/txparse/internal/model"
	"github.com/cleared-dev/txparse/internal/taxonomy"
)

const (
	// FallbackDescription is used for text-only receipts.
	FallbackDescription = "Receipt Entry"
	// DefaultDescription is used when no merchant could be named.
	DefaultDescription = "Purchase"
)

// Parser is immutable after construction and safe for concurrent use.
type Parser struct {
	tax          *taxonomy.Taxonomy
	now          func() time.Time
	log          zerolog.Logger
	maxAmount    decimal.Decimal
	headerTokens int
	lineGap      float64
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock sets the source of "today" for receipts without a date.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// WithLogger sets the debug logger.
func WithLogger(l zerolog.Logger) Option {
	return func(p *Parser) { p.log = l }
}

// WithMaxAmount caps candidate amounts. Non-positive values keep the default.
func WithMaxAmount(v float64) Option {
	return func(p *Parser) {
		if v > 0 {
			p.maxAmount = decimal.NewFromFloat(v)
		}
	}
}

// WithHeader sets how many top-most tokens are searched for the merchant and
// the vertical gap that separates lines. Non-positive values keep the defaults.
func WithHeader(tokens int, lineGap float64) Option {
	return func(p *Parser) {
		if tokens > 0 {
			p.headerTokens = tokens
		}
		if lineGap > 0 {
			p.lineGap = lineGap
		}
	}
}

// NewParser creates a Parser that names merchants from tax.
func NewParser(tax *taxonomy.Taxonomy, opts ...Option) *Parser {
	p := &Parser{
		tax:          tax,
		now:          time.Now,
		log:          zerolog.Nop(),
		maxAmount:    DefaultMaxAmount,
		headerTokens: defaultHeaderTokens,
		lineGap:      defaultLineGap,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Analysis is everything the parser worked out about a receipt.
type Analysis struct {
	Fallback   bool        `json:"fallback"`
	Type       Type        `json:"type"`
	Page       Page        `json:"page"`
	AvgHeight  float64     `json:"avg_height"`
	Candidates []Candidate `json:"candidates"`
	Merchant   Merchant    `json:"merchant"`
	Date       string      `json:"date,omitempty"`
}

// Best returns the winning candidate, if any.
func (a Analysis) Best() (Candidate, bool) {
	if len(a.Candidates) == 0 {
		return Candidate{}, false
	}
	return a.Candidates[0], true
}

// Analyze runs extraction and returns the intermediate results. Candidates
// are ranked best first. Text-only input yields an Analysis with Fallback set
// and no candidates.
func (p *Parser) Analyze(in Input) Analysis {
	switch in := in.(type) {
	case WithGeometry:
		return p.analyzeGeometry(in)
	case TextOnly:
		return Analysis{Fallback: true, Type: DetectType(in.Text)}
	default:
		return Analysis{Fallback: true, Type: TypeGeneral}
	}
}

func (p *Parser) analyzeGeometry(in WithGeometry) Analysis {
	text := in.FullText()
	a := Analysis{
		Type:      DetectType(text),
		Page:      measurePage(in.Blocks),
		AvgHeight: averageWordHeight(in.Blocks),
	}

	s := scorer{page: a.Page, avgHeight: a.AvgHeight, limit: p.maxAmount}
	a.Candidates = s.candidates(in.Annotations)
	rank(a.Candidates)

	f := merchantFinder{tax: p.tax, headerTokens: p.headerTokens, lineGap: p.lineGap}
	a.Merchant = f.find(in.Annotations, text)
	a.Date, _ = extractDate(text)
	return a
}

// Parse extracts a transaction from a receipt. It never fails; a receipt with
// no readable amount gives a zero amount and zero confidence.
func (p *Parser) Parse(in Input) model.Transaction {
	switch in := in.(type) {
	case WithGeometry:
		return p.parseGeometry(in)
	case TextOnly:
		return p.parseText(in)
	default:
		return p.parseText(TextOnly{})
	}
}

func (p *Parser) parseGeometry(in WithGeometry) model.Transaction {
	a := p.analyzeGeometry(in)

	rec := model.Transaction{
		Type:        model.TypeExpense,
		Amount:      decimal.Zero,
		Category:    a.Merchant.Category,
		Description: DefaultDescription,
		Date:        a.Date,
	}
	if best, ok := a.Best(); ok {
		rec.Amount = best.Value
		rec.Confidence = best.Confidence
	}
	if a.Merchant.Name != "" {
		rec.Description = a.Merchant.Name + " - Order"
	}
	if rec.Date == "" {
		rec.Date = p.today()
	}

	p.log.Debug().
		Str("receipt_type", string(a.Type)).
		Int("candidates", len(a.Candidates)).
		Str("amount", rec.Amount.String()).
		Str("merchant", a.Merchant.Name).
		Str("merchant_source", string(a.Merchant.Source)).
		Str("category", rec.Category).
		Msg("parsed receipt")
	return rec
}

func (p *Parser) parseText(in TextOnly) model.Transaction {
	amount := fallbackAmount(in.Text, p.maxAmount)
	p.log.Debug().Str("amount", amount.String()).Msg("parsed receipt without geometry")
	return model.Transaction{
		Type:        model.TypeExpense,
		Amount:      amount,
		Category:    model.CategoryOther,
		Description: FallbackDescription,
		Date:        p.today(),
		Confidence:  FallbackConfidence,
	}
}

func (p *Parser) today() string {
	return p.now().Format(model.DateFormat)
}
