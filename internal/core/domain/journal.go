package domain

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

// JournalSource tags which workflow produced an entry. Workflows also use the
// tag together with SourceReference to enforce post-at-most-once rules.
type JournalSource string

const (
	SourceDeclarationFunding JournalSource = "DECLARATION_FUNDING"
	SourceDeposit            JournalSource = "DEPOSIT"
	SourcePenaltyAccrual     JournalSource = "PENALTY_ACCRUAL"
	SourceLoanDisbursement   JournalSource = "LOAN_DISBURSEMENT"
	SourceReversal           JournalSource = "REVERSAL"
	SourceManual             JournalSource = "MANUAL"
)

// Journal represents a single, balanced financial event composed of multiple
// lines. Entries are immutable once posted; corrections are reversal entries
// linked back to the original.
type Journal struct {
	JournalID          string          `json:"journalID"` // Primary key (UUID)
	JournalDate        time.Time       `json:"journalDate"`
	Description        string          `json:"description"`
	Source             JournalSource   `json:"source"`
	SourceReference    string          `json:"sourceReference,omitempty"`
	CycleID            *string         `json:"cycleID,omitempty"`
	Status             JournalStatus   `json:"status"`
	OriginalJournalID  *string         `json:"originalJournalID,omitempty"`  // Set on reversal entries
	ReversingJournalID *string         `json:"reversingJournalID,omitempty"` // Set on reversed originals
	Amount             decimal.Decimal `json:"amount"`                       // Sum of the debit side
	Lines              []JournalLine   `json:"lines,omitempty"`
	AuditFields
}
