package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// ApplyLoanRequest opens a loan application in the active cycle.
type ApplyLoanRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	TermMonths   int             `json:"termMonths" binding:"required"`
	InterestRate decimal.Decimal `json:"interestRate" binding:"required"`
	Purpose      string          `json:"purpose"`
}

// UpdateLoanApplicationRequest edits a PENDING application.
type UpdateLoanApplicationRequest struct {
	Amount       *decimal.Decimal `json:"amount"`
	TermMonths   *int             `json:"termMonths"`
	InterestRate *decimal.Decimal `json:"interestRate"`
	Purpose      *string          `json:"purpose"`
}

// LoanEligibilityResponse is the computed borrowing envelope.
type LoanEligibilityResponse struct {
	SavingsBalance decimal.Decimal       `json:"savingsBalance"`
	Multiplier     decimal.Decimal       `json:"multiplier"`
	MaxAmount      decimal.Decimal       `json:"maxAmount"`
	Bands          []domain.InterestBand `json:"bands"`
}

// LoanApplicationResponse is a loan application as returned to callers.
type LoanApplicationResponse struct {
	ApplicationID string                       `json:"applicationID"`
	MemberID      string                       `json:"memberID"`
	CycleID       string                       `json:"cycleID"`
	Amount        decimal.Decimal              `json:"amount"`
	TermMonths    int                          `json:"termMonths"`
	InterestRate  decimal.Decimal              `json:"interestRate"`
	Purpose       string                       `json:"purpose,omitempty"`
	Status        domain.LoanApplicationStatus `json:"status"`
	CreatedAt     time.Time                    `json:"createdAt"`
}

// LoanResponse is a disbursed loan as returned to callers. Outstanding is the
// derived loans-receivable balance at response time.
type LoanResponse struct {
	LoanID       string            `json:"loanID"`
	MemberID     string            `json:"memberID"`
	CycleID      string            `json:"cycleID"`
	Principal    decimal.Decimal   `json:"principal"`
	InterestRate decimal.Decimal   `json:"interestRate"`
	TermMonths   int               `json:"termMonths"`
	Status       domain.LoanStatus `json:"status"`
	Outstanding  decimal.Decimal   `json:"outstanding"`
	DisbursedAt  time.Time         `json:"disbursedAt"`
	ClosedAt     *time.Time        `json:"closedAt,omitempty"`
}

// ToLoanApplicationResponse converts a domain application to its response form.
func ToLoanApplicationResponse(a *domain.LoanApplication) LoanApplicationResponse {
	return LoanApplicationResponse{
		ApplicationID: a.ApplicationID,
		MemberID:      a.MemberID,
		CycleID:       a.CycleID,
		Amount:        a.Amount,
		TermMonths:    a.TermMonths,
		InterestRate:  a.InterestRate,
		Purpose:       a.Purpose,
		Status:        a.Status,
		CreatedAt:     a.CreatedAt,
	}
}

// ToLoanResponse converts a domain loan plus its derived outstanding balance.
func ToLoanResponse(l *domain.Loan, outstanding decimal.Decimal) LoanResponse {
	return LoanResponse{
		LoanID:       l.LoanID,
		MemberID:     l.MemberID,
		CycleID:      l.CycleID,
		Principal:    l.Principal,
		InterestRate: l.InterestRate,
		TermMonths:   l.TermMonths,
		Status:       l.Status,
		Outstanding:  outstanding,
		DisbursedAt:  l.DisbursedAt,
		ClosedAt:     l.ClosedAt,
	}
}
