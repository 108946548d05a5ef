package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// CreateCycleRequest creates a DRAFT cycle for a financial year.
type CreateCycleRequest struct {
	Year             int             `json:"year" binding:"required"`
	Name             string          `json:"name" binding:"required"`
	MaxLoanAmount    decimal.Decimal `json:"maxLoanAmount" binding:"required"`
	SocialFundAnnual decimal.Decimal `json:"socialFundAnnual"`
	AdminFundAnnual  decimal.Decimal `json:"adminFundAnnual"`
}

// CreatePhaseRequest configures a monthly activity window within a cycle.
type CreatePhaseRequest struct {
	PhaseType        domain.PhaseType `json:"phaseType" binding:"required"`
	MonthlyStartDay  int              `json:"monthlyStartDay" binding:"required,min=1,max=31"`
	MonthlyEndDay    int              `json:"monthlyEndDay" binding:"required,min=1,max=31"`
	PenaltyTypeID    *string          `json:"penaltyTypeID"`
	AutoApplyPenalty bool             `json:"autoApplyPenalty"`
}

// SetPhaseOpenRequest opens or closes a phase for member activity.
type SetPhaseOpenRequest struct {
	Open *bool `json:"open" binding:"required"`
}

// CycleResponse is a cycle as returned to callers.
type CycleResponse struct {
	CycleID          string             `json:"cycleID"`
	Year             int                `json:"year"`
	Name             string             `json:"name"`
	Status           domain.CycleStatus `json:"status"`
	MaxLoanAmount    decimal.Decimal    `json:"maxLoanAmount"`
	SocialFundAnnual decimal.Decimal    `json:"socialFundAnnual"`
	AdminFundAnnual  decimal.Decimal    `json:"adminFundAnnual"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// PhaseResponse is a phase as returned to callers.
type PhaseResponse struct {
	PhaseID          string           `json:"phaseID"`
	CycleID          string           `json:"cycleID"`
	PhaseType        domain.PhaseType `json:"phaseType"`
	MonthlyStartDay  int              `json:"monthlyStartDay"`
	MonthlyEndDay    int              `json:"monthlyEndDay"`
	IsOpen           bool             `json:"isOpen"`
	PenaltyTypeID    *string          `json:"penaltyTypeID,omitempty"`
	AutoApplyPenalty bool             `json:"autoApplyPenalty"`
}

// ToCycleResponse converts a domain cycle to its response form.
func ToCycleResponse(c *domain.Cycle) CycleResponse {
	return CycleResponse{
		CycleID:          c.CycleID,
		Year:             c.Year,
		Name:             c.Name,
		Status:           c.Status,
		MaxLoanAmount:    c.MaxLoanAmount,
		SocialFundAnnual: c.SocialFundAnnual,
		AdminFundAnnual:  c.AdminFundAnnual,
		CreatedAt:        c.CreatedAt,
	}
}

// ToPhaseResponse converts a domain phase to its response form.
func ToPhaseResponse(p *domain.Phase) PhaseResponse {
	return PhaseResponse{
		PhaseID:          p.PhaseID,
		CycleID:          p.CycleID,
		PhaseType:        p.PhaseType,
		MonthlyStartDay:  p.MonthlyStartDay,
		MonthlyEndDay:    p.MonthlyEndDay,
		IsOpen:           p.IsOpen,
		PenaltyTypeID:    p.PenaltyTypeID,
		AutoApplyPenalty: p.AutoApplyPenalty,
	}
}
