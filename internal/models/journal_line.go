package models

import "github.com/shopspring/decimal"

// LineType indicates whether a journal line is a Debit or a Credit.
type LineType string

const (
	Debit  LineType = "DEBIT"
	Credit LineType = "CREDIT"
)

// JournalLine represents a single line item within a Journal, affecting one account.
type JournalLine struct {
	LineID    string          `json:"lineID"`
	JournalID string          `json:"journalID"`
	AccountID string          `json:"accountID"`
	Amount    decimal.Decimal `json:"amount"`
	LineType  LineType        `json:"lineType"`
	Notes     string          `json:"notes"`
	AuditFields
}
