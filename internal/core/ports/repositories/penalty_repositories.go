package repositories

import (
	"context"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// PenaltyReader defines read operations for penalty records.
type PenaltyReader interface {
	FindPenaltyByID(ctx context.Context, penaltyID string) (*domain.PenaltyRecord, error)

	// FindMatchingPenalty retrieves the penalty keyed on (member, penalty type,
	// period), if any. Used for duplicate prevention before auto-creation.
	FindMatchingPenalty(ctx context.Context, memberID, penaltyTypeID, period string) (*domain.PenaltyRecord, error)

	ListPenaltiesByStatus(ctx context.Context, status domain.PenaltyStatus) ([]domain.PenaltyRecord, error)

	// ListUnpaidPenaltiesByMember retrieves the member's PENDING and APPROVED
	// penalties, oldest first. PAID penalties are excluded.
	ListUnpaidPenaltiesByMember(ctx context.Context, memberID string) ([]domain.PenaltyRecord, error)
}

// PenaltyWriter defines write operations for penalty records.
type PenaltyWriter interface {
	SavePenalty(ctx context.Context, penalty domain.PenaltyRecord) error
	UpdatePenalty(ctx context.Context, penalty domain.PenaltyRecord) error
}

// PenaltyTypeReader defines read operations for penalty type configuration.
type PenaltyTypeReader interface {
	FindPenaltyTypeByID(ctx context.Context, penaltyTypeID string) (*domain.PenaltyType, error)
	ListPenaltyTypes(ctx context.Context) ([]domain.PenaltyType, error)
}

// PenaltyTypeWriter defines write operations for penalty type configuration.
type PenaltyTypeWriter interface {
	SavePenaltyType(ctx context.Context, penaltyType domain.PenaltyType) error
}

// PenaltyRepositoryFacade combines all penalty-related repository interfaces.
type PenaltyRepositoryFacade interface {
	PenaltyReader
	PenaltyWriter
	PenaltyTypeReader
	PenaltyTypeWriter
}
