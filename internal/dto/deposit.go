package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// SubmitProofRequest attaches deposit evidence to a declaration. FileRef is a
// reference already validated by the file-storage collaborator.
type SubmitProofRequest struct {
	DeclarationID string          `json:"declarationID" binding:"required"`
	FileRef       string          `json:"fileRef" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// RejectProofRequest rejects a proof with an officer comment.
type RejectProofRequest struct {
	Comment string `json:"comment" binding:"required"`
}

// DepositProofResponse is a deposit proof as returned to callers.
type DepositProofResponse struct {
	ProofID        string                    `json:"proofID"`
	DeclarationID  string                    `json:"declarationID"`
	MemberID       string                    `json:"memberID"`
	FileRef        string                    `json:"fileRef"`
	Amount         decimal.Decimal           `json:"amount"`
	Status         domain.DepositProofStatus `json:"status"`
	OfficerComment string                    `json:"officerComment,omitempty"`
	CreatedAt      time.Time                 `json:"createdAt"`
	LastUpdatedAt  time.Time                 `json:"lastUpdatedAt"`
}

// ToDepositProofResponse converts a domain proof to its response form.
func ToDepositProofResponse(p *domain.DepositProof) DepositProofResponse {
	return DepositProofResponse{
		ProofID:        p.ProofID,
		DeclarationID:  p.DeclarationID,
		MemberID:       p.MemberID,
		FileRef:        p.FileRef,
		Amount:         p.Amount,
		Status:         p.Status,
		OfficerComment: p.OfficerComment,
		CreatedAt:      p.CreatedAt,
		LastUpdatedAt:  p.LastUpdatedAt,
	}
}
