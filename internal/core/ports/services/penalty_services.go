package services

import (
	"context"
	"time"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
)

// PenaltyReaderSvc defines read operations for penalties and penalty types.
type PenaltyReaderSvc interface {
	// GetPenaltyByID retrieves a penalty record.
	GetPenaltyByID(ctx context.Context, penaltyID string) (*domain.PenaltyRecord, error)

	// ListPenaltiesByStatus retrieves penalties in a given status, oldest first.
	ListPenaltiesByStatus(ctx context.Context, status domain.PenaltyStatus, limit int) ([]domain.PenaltyRecord, error)

	// ListUnpaidPenalties retrieves a member's APPROVED penalties, oldest first.
	ListUnpaidPenalties(ctx context.Context, memberID string) ([]domain.PenaltyRecord, error)

	// ListPenaltyTypes retrieves the configured penalty types.
	ListPenaltyTypes(ctx context.Context) ([]domain.PenaltyType, error)
}

// PenaltyWriterSvc defines the penalty lifecycle operations.
type PenaltyWriterSvc interface {
	// CreatePenaltyType configures a fixed-fee penalty type.
	CreatePenaltyType(ctx context.Context, req dto.CreatePenaltyTypeRequest, creatorID string, now time.Time) (*domain.PenaltyType, error)

	// RaisePenalty creates a PENDING penalty against a member.
	RaisePenalty(ctx context.Context, req dto.CreatePenaltyRequest, creatorID string, now time.Time) (*domain.PenaltyRecord, error)

	// RaiseAutoPenalty creates an APPROVED penalty from a phase policy and posts
	// its accrual entry. At most one penalty exists per member, type and period.
	RaiseAutoPenalty(ctx context.Context, req domain.PenaltyRequest, creatorID string, now time.Time) (*domain.PenaltyRecord, error)

	// ApprovePenalty moves a PENDING penalty to APPROVED and posts its accrual entry.
	ApprovePenalty(ctx context.Context, penaltyID string, approverID string, now time.Time) (*domain.PenaltyRecord, error)

	// MarkPenaltyPaid moves an APPROVED penalty to PAID. Called by deposit settlement.
	MarkPenaltyPaid(ctx context.Context, penaltyID string, requestingUserID string, now time.Time) (*domain.PenaltyRecord, error)
}

// PenaltySvcFacade combines all penalty-related service interfaces.
type PenaltySvcFacade interface {
	PenaltyReaderSvc
	PenaltyWriterSvc
}
