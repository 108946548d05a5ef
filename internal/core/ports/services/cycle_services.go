package services

import (
	"context"
	"time"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
)

// CycleReaderSvc defines read operations for cycles and phases.
type CycleReaderSvc interface {
	// GetCycleByID retrieves a cycle by its ID.
	GetCycleByID(ctx context.Context, cycleID string) (*domain.Cycle, error)

	// GetActiveCycle retrieves the single ACTIVE cycle.
	GetActiveCycle(ctx context.Context) (*domain.Cycle, error)

	// ListCycles retrieves cycles newest year first.
	ListCycles(ctx context.Context, limit int) ([]domain.Cycle, error)

	// ListPhases retrieves the phases configured for a cycle.
	ListPhases(ctx context.Context, cycleID string) ([]domain.Phase, error)

	// GetOpenPhase retrieves the phase of the given type in the active cycle,
	// failing if the phase is not currently open.
	GetOpenPhase(ctx context.Context, phaseType domain.PhaseType) (*domain.Phase, *domain.Cycle, error)
}

// CycleWriterSvc defines lifecycle operations for cycles and phases.
type CycleWriterSvc interface {
	// CreateCycle creates a DRAFT cycle for a financial year.
	CreateCycle(ctx context.Context, req dto.CreateCycleRequest, creatorID string, now time.Time) (*domain.Cycle, error)

	// ActivateCycle moves a DRAFT cycle to ACTIVE. Only one cycle may be ACTIVE.
	ActivateCycle(ctx context.Context, cycleID string, requestingUserID string, now time.Time) (*domain.Cycle, error)

	// CloseCycle moves an ACTIVE cycle to CLOSED and closes all its phases.
	CloseCycle(ctx context.Context, cycleID string, requestingUserID string, now time.Time) (*domain.Cycle, error)

	// ReopenCycle moves a CLOSED cycle of the current year back to ACTIVE.
	ReopenCycle(ctx context.Context, cycleID string, requestingUserID string, now time.Time) (*domain.Cycle, error)

	// CreatePhase adds a monthly activity window to a DRAFT or ACTIVE cycle.
	CreatePhase(ctx context.Context, cycleID string, req dto.CreatePhaseRequest, creatorID string, now time.Time) (*domain.Phase, error)

	// UpdatePhase edits the window or penalty policy of a phase.
	UpdatePhase(ctx context.Context, phaseID string, req dto.CreatePhaseRequest, requestingUserID string, now time.Time) (*domain.Phase, error)

	// SetPhaseOpen opens or closes a phase for member activity.
	SetPhaseOpen(ctx context.Context, phaseID string, open bool, requestingUserID string, now time.Time) (*domain.Phase, error)
}

// CycleSvcFacade combines all cycle-related service interfaces.
type CycleSvcFacade interface {
	CycleReaderSvc
	CycleWriterSvc
}
