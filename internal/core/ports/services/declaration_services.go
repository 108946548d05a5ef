package services

import (
	"context"
	"time"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
)

// DeclarationReaderSvc defines read operations for monthly declarations.
type DeclarationReaderSvc interface {
	// GetDeclarationByID retrieves a declaration.
	GetDeclarationByID(ctx context.Context, declarationID string) (*domain.Declaration, error)

	// ListMemberDeclarations retrieves a member's declarations in a cycle.
	ListMemberDeclarations(ctx context.Context, memberID string, cycleID string) ([]domain.Declaration, error)

	// ListDeclarationsByMonth retrieves all declarations for an effective month.
	ListDeclarationsByMonth(ctx context.Context, cycleID string, effectiveMonth time.Time) ([]domain.Declaration, error)

	// GetCurrentDeclaration retrieves the member's declaration for the current
	// month of the active cycle.
	GetCurrentDeclaration(ctx context.Context, memberID string, now time.Time) (*domain.Declaration, error)
}

// DeclarationWriterSvc defines the declaration workflow operations.
type DeclarationWriterSvc interface {
	// CreateDeclaration records a member's intended amounts for a month. The
	// member's first declaration in the cycle posts the funding entry; a late
	// declaration raises the phase's automatic penalty.
	CreateDeclaration(ctx context.Context, memberID string, req dto.CreateDeclarationRequest, now time.Time) (*domain.Declaration, error)

	// UpdateDeclaration edits a declaration's amounts. PENDING and PROOF
	// declarations are editable by the owner; APPROVED ones only by an officer
	// for the current month.
	UpdateDeclaration(ctx context.Context, declarationID string, req dto.UpdateDeclarationRequest, requestingUserID string, isOfficer bool, now time.Time) (*domain.Declaration, error)
}

// DeclarationSvcFacade combines all declaration-related service interfaces.
type DeclarationSvcFacade interface {
	DeclarationReaderSvc
	DeclarationWriterSvc
}
