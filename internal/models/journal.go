package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal represents a single, balanced financial event as persisted.
type Journal struct {
	JournalID          string          `json:"journalID"`
	JournalDate        time.Time       `json:"journalDate"`
	Description        string          `json:"description"`
	Source             string          `json:"source"`
	SourceReference    string          `json:"sourceReference"`
	CycleID            *string         `json:"cycleID"`
	Status             JournalStatus   `json:"status"`
	OriginalJournalID  *string         `json:"originalJournalID"`
	ReversingJournalID *string         `json:"reversingJournalID"`
	Amount             decimal.Decimal `json:"amount"`
	AuditFields
}
