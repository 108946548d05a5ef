package services

import (
	"context"
	"time"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
)

// DepositReaderSvc defines read operations for deposit proofs.
type DepositReaderSvc interface {
	// GetProofByID retrieves a deposit proof.
	GetProofByID(ctx context.Context, proofID string) (*domain.DepositProof, error)

	// ListProofsByStatus retrieves proofs in a given status, oldest first.
	ListProofsByStatus(ctx context.Context, status domain.DepositProofStatus, limit int) ([]domain.DepositProof, error)
}

// DepositWriterSvc defines the deposit verification workflow.
type DepositWriterSvc interface {
	// SubmitProof attaches deposit evidence to the member's declaration and
	// moves the declaration to PROOF.
	SubmitProof(ctx context.Context, memberID string, req dto.SubmitProofRequest, now time.Time) (*domain.DepositProof, error)

	// ApproveProof verifies the proof against the declared total, posts the
	// deposit entry, settles the member's penalties oldest first, closes the
	// loan if its receivable reaches zero, and approves the declaration.
	ApproveProof(ctx context.Context, proofID string, approverID string, now time.Time) (*domain.DepositProof, error)

	// RejectProof rejects the proof with a comment and marks the declaration
	// REJECTED; the member can edit and resubmit.
	RejectProof(ctx context.Context, proofID string, req dto.RejectProofRequest, requestingUserID string, now time.Time) (*domain.DepositProof, error)
}

// DepositSvcFacade combines all deposit-related service interfaces.
type DepositSvcFacade interface {
	DepositReaderSvc
	DepositWriterSvc
}
