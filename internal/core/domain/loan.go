package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanApplicationStatus is the lifecycle state of a loan application.
type LoanApplicationStatus string

const (
	ApplicationPending   LoanApplicationStatus = "PENDING"
	ApplicationApproved  LoanApplicationStatus = "APPROVED"
	ApplicationRejected  LoanApplicationStatus = "REJECTED"
	ApplicationWithdrawn LoanApplicationStatus = "WITHDRAWN"
)

// LoanStatus is the lifecycle state of a disbursed loan.
type LoanStatus string

const (
	LoanOpen   LoanStatus = "OPEN"
	LoanClosed LoanStatus = "CLOSED"
)

// LoanApplication is a member's request to borrow. It becomes a Loan on
// disbursement. A member may hold at most one open Loan at a time.
type LoanApplication struct {
	ApplicationID string                `json:"applicationID"` // Primary key (UUID)
	MemberID      string                `json:"memberID"`
	CycleID       string                `json:"cycleID"`
	Amount        decimal.Decimal       `json:"amount"`
	TermMonths    int                   `json:"termMonths"`
	InterestRate  decimal.Decimal       `json:"interestRate"` // Chosen within the tier band
	Purpose       string                `json:"purpose,omitempty"`
	Status        LoanApplicationStatus `json:"status"`
	AuditFields
}

// Loan is a disbursed loan. Its outstanding principal is never stored; it is
// the derived balance of the member's loans-receivable account.
type Loan struct {
	LoanID        string          `json:"loanID"` // Primary key (UUID)
	ApplicationID string          `json:"applicationID"`
	MemberID      string          `json:"memberID"`
	CycleID       string          `json:"cycleID"`
	Principal     decimal.Decimal `json:"principal"`
	InterestRate  decimal.Decimal `json:"interestRate"`
	TermMonths    int             `json:"termMonths"`
	Status        LoanStatus      `json:"status"`
	DisbursedAt   time.Time       `json:"disbursedAt"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
	AuditFields
}

// LoanEligibility is the computed borrowing envelope for a member in a cycle.
type LoanEligibility struct {
	SavingsBalance decimal.Decimal `json:"savingsBalance"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	MaxAmount      decimal.Decimal `json:"maxAmount"` // min(savings*multiplier, cycle cap)
	Bands          []InterestBand  `json:"bands"`
}
