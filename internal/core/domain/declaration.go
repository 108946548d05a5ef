package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeclarationStatus is the lifecycle state of a monthly declaration.
type DeclarationStatus string

const (
	DeclarationPending  DeclarationStatus = "PENDING"
	DeclarationProof    DeclarationStatus = "PROOF"
	DeclarationApproved DeclarationStatus = "APPROVED"
	DeclarationRejected DeclarationStatus = "REJECTED"
)

// DeclarationAmounts are the six amounts a member declares for a month.
type DeclarationAmounts struct {
	Savings       decimal.Decimal `json:"savings"`
	SocialFund    decimal.Decimal `json:"socialFund"`
	AdminFund     decimal.Decimal `json:"adminFund"`
	Penalties     decimal.Decimal `json:"penalties"`
	LoanInterest  decimal.Decimal `json:"loanInterest"`
	LoanRepayment decimal.Decimal `json:"loanRepayment"`
}

// Total sums all declared amounts.
func (a DeclarationAmounts) Total() decimal.Decimal {
	return a.Savings.
		Add(a.SocialFund).
		Add(a.AdminFund).
		Add(a.Penalties).
		Add(a.LoanInterest).
		Add(a.LoanRepayment)
}

// Declaration is a member's self-reported statement for one effective month of
// a cycle. One per (member, cycle, effective month); never deleted.
type Declaration struct {
	DeclarationID  string             `json:"declarationID"` // Primary key (UUID)
	MemberID       string             `json:"memberID"`
	CycleID        string             `json:"cycleID"`
	EffectiveMonth time.Time          `json:"effectiveMonth"` // First day of the month, UTC
	Amounts        DeclarationAmounts `json:"amounts"`
	Status         DeclarationStatus  `json:"status"`
	AuditFields
}

// FirstOfMonth normalizes a date to the first instant of its month in UTC.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// PeriodKey formats an effective month the way penalty duplicate checks and
// journal references expect, e.g. "2026-01".
func PeriodKey(effectiveMonth time.Time) string {
	return effectiveMonth.Format("2006-01")
}
