package domain

import "github.com/shopspring/decimal"

// LineType indicates whether a journal line is a Debit or a Credit.
type LineType string

const (
	Debit  LineType = "DEBIT"
	Credit LineType = "CREDIT"
)

// JournalLine represents a single line item within a Journal, affecting one
// account. Amount is always non-negative; the side is carried by LineType.
type JournalLine struct {
	LineID    string          `json:"lineID"`    // Primary key (UUID)
	JournalID string          `json:"journalID"` // FK -> Journal
	AccountID string          `json:"accountID"` // FK -> Account
	Amount    decimal.Decimal `json:"amount"`
	LineType  LineType        `json:"lineType"`
	Notes     string          `json:"notes,omitempty"`
	AuditFields
}

// LineSpec is the posting input: one prospective line of a new entry.
type LineSpec struct {
	AccountID string
	LineType  LineType
	Amount    decimal.Decimal
	Notes     string
}

// Opposite returns the other side, used when building reversal entries.
func (t LineType) Opposite() LineType {
	if t == Debit {
		return Credit
	}
	return Debit
}
