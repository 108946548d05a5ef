package domain

import "github.com/shopspring/decimal"

// CycleStatus is the lifecycle state of an annual cycle.
type CycleStatus string

const (
	CycleDraft  CycleStatus = "DRAFT"
	CycleActive CycleStatus = "ACTIVE"
	CycleClosed CycleStatus = "CLOSED"
)

// cycleTransitions is the closed transition table. CLOSED -> ACTIVE is listed
// here but additionally gated to the current year's cycle at the service layer.
var cycleTransitions = map[CycleStatus][]CycleStatus{
	CycleDraft:  {CycleActive},
	CycleActive: {CycleClosed},
	CycleClosed: {CycleActive},
}

// CanTransitionTo reports whether the status change is in the transition table.
func (s CycleStatus) CanTransitionTo(target CycleStatus) bool {
	for _, allowed := range cycleTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Cycle is one annual operating period. At most one cycle is ACTIVE at a time;
// closing a cycle performs no postings, balances carry across cycles.
type Cycle struct {
	CycleID          string          `json:"cycleID"` // Primary key (UUID)
	Year             int             `json:"year"`
	Name             string          `json:"name"`
	Status           CycleStatus     `json:"status"`
	MaxLoanAmount    decimal.Decimal `json:"maxLoanAmount"` // Borrowing-limit policy cap
	SocialFundAnnual decimal.Decimal `json:"socialFundAnnual"`
	AdminFundAnnual  decimal.Decimal `json:"adminFundAnnual"`
	AuditFields
}
