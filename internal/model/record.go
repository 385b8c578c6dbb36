package model

import (
	"github.com/shopspring/decimal"
)

// TransactionType says which way money moved.
type TransactionType string

const (
	TypeExpense TransactionType = "expense"
	TypeIncome  TransactionType = "income"
)

// CategoryOther is the category assigned when nothing better matched.
const CategoryOther = "Other"

// CategoryIncome marks the taxonomy category that flips a record to income.
const CategoryIncome = "Income"

// DateFormat is the layout used for Transaction.Date.
const DateFormat = "2006-01-02"

// Transaction is the normalized record produced by both the voice and the
// receipt parsers. Callers own it once returned.
type Transaction struct {
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`       // YYYY-MM-DD
	Confidence  float64         `json:"confidence"` // 0..1
}

// HasAmount reports whether an amount was recovered at all.
func (t Transaction) HasAmount() bool {
	return t.Amount.IsPositive()
}

// NeedsReview reports whether confidence falls below threshold.
func (t Transaction) NeedsReview(threshold float64) bool {
	return t.Confidence < threshold || !t.HasAmount()
}
