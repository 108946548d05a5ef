package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// DeclarationAmountsRequest carries the six declared amounts.
type DeclarationAmountsRequest struct {
	Savings       decimal.Decimal `json:"savings"`
	SocialFund    decimal.Decimal `json:"socialFund"`
	AdminFund     decimal.Decimal `json:"adminFund"`
	Penalties     decimal.Decimal `json:"penalties"`
	LoanInterest  decimal.Decimal `json:"loanInterest"`
	LoanRepayment decimal.Decimal `json:"loanRepayment"`
}

// ToDomain converts the request amounts to their domain form.
func (r DeclarationAmountsRequest) ToDomain() domain.DeclarationAmounts {
	return domain.DeclarationAmounts{
		Savings:       r.Savings,
		SocialFund:    r.SocialFund,
		AdminFund:     r.AdminFund,
		Penalties:     r.Penalties,
		LoanInterest:  r.LoanInterest,
		LoanRepayment: r.LoanRepayment,
	}
}

// CreateDeclarationRequest creates a monthly declaration. EffectiveMonth uses
// the "2006-01" form.
type CreateDeclarationRequest struct {
	EffectiveMonth string                    `json:"effectiveMonth" binding:"required"`
	Amounts        DeclarationAmountsRequest `json:"amounts" binding:"required"`
}

// UpdateDeclarationRequest edits a declaration's amounts. AllowApprovedEdit is
// honored for officers re-opening an APPROVED declaration of the current month.
type UpdateDeclarationRequest struct {
	Amounts           DeclarationAmountsRequest `json:"amounts" binding:"required"`
	AllowApprovedEdit bool                      `json:"allowApprovedEdit"`
}

// DeclarationResponse is a declaration as returned to callers.
type DeclarationResponse struct {
	DeclarationID  string                    `json:"declarationID"`
	MemberID       string                    `json:"memberID"`
	CycleID        string                    `json:"cycleID"`
	EffectiveMonth string                    `json:"effectiveMonth"`
	Amounts        domain.DeclarationAmounts `json:"amounts"`
	Total          decimal.Decimal           `json:"total"`
	Status         domain.DeclarationStatus  `json:"status"`
	CreatedAt      time.Time                 `json:"createdAt"`
	LastUpdatedAt  time.Time                 `json:"lastUpdatedAt"`
}

// ToDeclarationResponse converts a domain declaration to its response form.
func ToDeclarationResponse(d *domain.Declaration) DeclarationResponse {
	return DeclarationResponse{
		DeclarationID:  d.DeclarationID,
		MemberID:       d.MemberID,
		CycleID:        d.CycleID,
		EffectiveMonth: domain.PeriodKey(d.EffectiveMonth),
		Amounts:        d.Amounts,
		Total:          d.Amounts.Total(),
		Status:         d.Status,
		CreatedAt:      d.CreatedAt,
		LastUpdatedAt:  d.LastUpdatedAt,
	}
}
