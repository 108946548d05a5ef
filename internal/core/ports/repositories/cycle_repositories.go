package repositories

import (
	"context"
	"time"

	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
)

// CycleReader defines read operations for cycle data.
type CycleReader interface {
	FindCycleByID(ctx context.Context, cycleID string) (*domain.Cycle, error)

	// FindActiveCycle retrieves the single ACTIVE cycle, or ErrNotFound.
	// The single-active invariant is enforced at activation time.
	FindActiveCycle(ctx context.Context) (*domain.Cycle, error)

	FindCycleByYear(ctx context.Context, year int) (*domain.Cycle, error)
	ListCycles(ctx context.Context) ([]domain.Cycle, error)
}

// CycleWriter defines write operations for cycle data.
type CycleWriter interface {
	SaveCycle(ctx context.Context, cycle domain.Cycle) error

	// UpdateCycleStatus transitions a cycle; the caller validates the transition.
	UpdateCycleStatus(ctx context.Context, cycleID string, status domain.CycleStatus, userID string, now time.Time) error
}

// PhaseReader defines read operations for phase data.
type PhaseReader interface {
	FindPhaseByID(ctx context.Context, phaseID string) (*domain.Phase, error)
	FindPhaseByType(ctx context.Context, cycleID string, phaseType domain.PhaseType) (*domain.Phase, error)
	ListPhasesByCycle(ctx context.Context, cycleID string) ([]domain.Phase, error)
}

// PhaseWriter defines write operations for phase data.
type PhaseWriter interface {
	SavePhase(ctx context.Context, phase domain.Phase) error
	UpdatePhase(ctx context.Context, phase domain.Phase) error

	// CloseAllPhases flips is_open off for every phase of a cycle.
	CloseAllPhases(ctx context.Context, cycleID string, userID string, now time.Time) error
}

// CycleRepositoryFacade combines all cycle- and phase-related repository interfaces.
type CycleRepositoryFacade interface {
	CycleReader
	CycleWriter
	PhaseReader
	PhaseWriter
}
