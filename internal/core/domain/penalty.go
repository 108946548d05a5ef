package domain

import "github.com/shopspring/decimal"

// PenaltyStatus is the one-way lifecycle state of a penalty record.
type PenaltyStatus string

const (
	PenaltyPending  PenaltyStatus = "PENDING"
	PenaltyApproved PenaltyStatus = "APPROVED"
	PenaltyPaid     PenaltyStatus = "PAID"
)

// penaltyTransitions is the closed transition table: PENDING -> APPROVED -> PAID.
var penaltyTransitions = map[PenaltyStatus]PenaltyStatus{
	PenaltyPending:  PenaltyApproved,
	PenaltyApproved: PenaltyPaid,
}

// CanTransitionTo reports whether the status change is in the transition table.
func (s PenaltyStatus) CanTransitionTo(target PenaltyStatus) bool {
	return penaltyTransitions[s] == target
}

// PenaltyType is a configured fixed-fee penalty, referenced by phases that
// auto-apply penalties and by manually raised penalties.
type PenaltyType struct {
	PenaltyTypeID string          `json:"penaltyTypeID"` // Primary key (UUID)
	Name          string          `json:"name"`
	Fee           decimal.Decimal `json:"fee"`
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// PenaltyRecord is one penalty charged to a member. Auto-triggered penalties
// are created directly APPROVED (deterministic rule violation); manual ones
// start PENDING and require officer approval.
type PenaltyRecord struct {
	PenaltyID     string          `json:"penaltyID"` // Primary key (UUID)
	MemberID      string          `json:"memberID"`
	PenaltyTypeID string          `json:"penaltyTypeID"`
	Amount        decimal.Decimal `json:"amount"`
	Period        string          `json:"period"` // Effective period key, e.g. "2026-01"
	Reason        string          `json:"reason,omitempty"`
	Status        PenaltyStatus   `json:"status"`
	JournalID     *string         `json:"journalID,omitempty"` // Accrual entry posted on approval
	AuditFields
}
