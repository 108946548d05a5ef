package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// CreatePenaltyRequest raises a manual penalty against a member.
type CreatePenaltyRequest struct {
	MemberID      string `json:"memberID" binding:"required"`
	PenaltyTypeID string `json:"penaltyTypeID" binding:"required"`
	Period        string `json:"period" binding:"required"`
	Reason        string `json:"reason"`
}

// CreatePenaltyTypeRequest configures a fixed-fee penalty type.
type CreatePenaltyTypeRequest struct {
	Name string          `json:"name" binding:"required"`
	Fee  decimal.Decimal `json:"fee" binding:"required"`
}

// PenaltyResponse is a penalty record as returned to callers.
type PenaltyResponse struct {
	PenaltyID     string               `json:"penaltyID"`
	MemberID      string               `json:"memberID"`
	PenaltyTypeID string               `json:"penaltyTypeID"`
	Amount        decimal.Decimal      `json:"amount"`
	Period        string               `json:"period"`
	Reason        string               `json:"reason,omitempty"`
	Status        domain.PenaltyStatus `json:"status"`
	JournalID     *string              `json:"journalID,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// ToPenaltyResponse converts a domain penalty to its response form.
func ToPenaltyResponse(p *domain.PenaltyRecord) PenaltyResponse {
	return PenaltyResponse{
		PenaltyID:     p.PenaltyID,
		MemberID:      p.MemberID,
		PenaltyTypeID: p.PenaltyTypeID,
		Amount:        p.Amount,
		Period:        p.Period,
		Reason:        p.Reason,
		Status:        p.Status,
		JournalID:     p.JournalID,
		CreatedAt:     p.CreatedAt,
	}
}
