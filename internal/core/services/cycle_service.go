package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
	portssvc "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/services"
	"github.com/teddynyambe/luboss-vb-sub000/internal/dto"
	"github.com/teddynyambe/luboss-vb-sub000/internal/utils/accounting"
)

var (
	ErrCycleTransition   = fmt.Errorf("%w: cycle cannot make that transition", apperrors.ErrConflict)
	ErrActiveCycleExists = fmt.Errorf("%w: another cycle is already active", apperrors.ErrConflict)
	ErrCycleYearTaken    = fmt.Errorf("%w: a cycle already exists for that year", apperrors.ErrDuplicate)
	ErrReopenWrongYear   = fmt.Errorf("%w: only the current year's cycle can be reopened", apperrors.ErrConflict)
	ErrPhaseExists       = fmt.Errorf("%w: phase of that type already exists in the cycle", apperrors.ErrDuplicate)
	ErrPhaseWindowDays   = fmt.Errorf("%w: phase days must be between 1 and 31", apperrors.ErrValidation)
	ErrPhaseNotOpen      = fmt.Errorf("%w: phase is not open for activity", apperrors.ErrConflict)
	ErrCycleNotEditable  = fmt.Errorf("%w: closed cycles cannot be modified", apperrors.ErrConflict)
)

// cycleService manages the yearly cycle lifecycle and its phase windows.
type cycleService struct {
	BaseService
	cycleRepo   portsrepo.CycleRepositoryFacade
	penaltyRepo portsrepo.PenaltyTypeReader
}

// NewCycleService creates a new cycle service.
func NewCycleService(cycleRepo portsrepo.CycleRepositoryFacade, penaltyRepo portsrepo.PenaltyTypeReader) portssvc.CycleSvcFacade {
	return &cycleService{
		cycleRepo:   cycleRepo,
		penaltyRepo: penaltyRepo,
	}
}

var _ portssvc.CycleSvcFacade = (*cycleService)(nil)

func (s *cycleService) GetCycleByID(ctx context.Context, cycleID string) (*domain.Cycle, error) {
	return s.cycleRepo.FindCycleByID(ctx, cycleID)
}

func (s *cycleService) GetActiveCycle(ctx context.Context) (*domain.Cycle, error) {
	return s.cycleRepo.FindActiveCycle(ctx)
}

func (s *cycleService) ListCycles(ctx context.Context, limit int) ([]domain.Cycle, error) {
	cycles, err := s.cycleRepo.ListCycles(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(cycles) > limit {
		cycles = cycles[:limit]
	}
	return cycles, nil
}

func (s *cycleService) ListPhases(ctx context.Context, cycleID string) ([]domain.Phase, error) {
	if _, err := s.cycleRepo.FindCycleByID(ctx, cycleID); err != nil {
		return nil, err
	}
	return s.cycleRepo.ListPhasesByCycle(ctx, cycleID)
}

// GetOpenPhase resolves the currently open phase of the given type in the
// active cycle. Workflows call this as their activity gate.
func (s *cycleService) GetOpenPhase(ctx context.Context, phaseType domain.PhaseType) (*domain.Phase, *domain.Cycle, error) {
	cycle, err := s.cycleRepo.FindActiveCycle(ctx)
	if err != nil {
		return nil, nil, err
	}
	phase, err := s.cycleRepo.FindPhaseByType(ctx, cycle.CycleID, phaseType)
	if err != nil {
		return nil, nil, err
	}
	if !phase.IsOpen {
		return nil, nil, fmt.Errorf("%w (%s)", ErrPhaseNotOpen, phaseType)
	}
	return phase, cycle, nil
}

func (s *cycleService) CreateCycle(ctx context.Context, req dto.CreateCycleRequest, creatorID string, now time.Time) (*domain.Cycle, error) {
	existing, err := s.cycleRepo.FindCycleByYear(ctx, req.Year)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %d", ErrCycleYearTaken, req.Year)
	}

	if !accounting.IsMonetary(req.MaxLoanAmount) || !accounting.IsMonetary(req.SocialFundAnnual) || !accounting.IsMonetary(req.AdminFundAnnual) {
		return nil, fmt.Errorf("%w: cycle amounts must be non-negative with at most two decimal places", apperrors.ErrValidation)
	}

	cycle := domain.Cycle{
		CycleID:          uuid.NewString(),
		Year:             req.Year,
		Name:             req.Name,
		Status:           domain.CycleDraft,
		MaxLoanAmount:    req.MaxLoanAmount,
		SocialFundAnnual: req.SocialFundAnnual,
		AdminFundAnnual:  req.AdminFundAnnual,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.cycleRepo.SaveCycle(ctx, cycle); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Cycle created", slog.String("cycle_id", cycle.CycleID), slog.Int("year", cycle.Year))
	return &cycle, nil
}

func (s *cycleService) ActivateCycle(ctx context.Context, cycleID string, requestingUserID string, now time.Time) (*domain.Cycle, error) {
	cycle, err := s.cycleRepo.FindCycleByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if !cycle.Status.CanTransitionTo(domain.CycleActive) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCycleTransition, cycle.Status, domain.CycleActive)
	}
	// CLOSED -> ACTIVE is a reopen; only the current year's cycle may come back.
	if cycle.Status == domain.CycleClosed && cycle.Year != now.UTC().Year() {
		return nil, fmt.Errorf("%w: cycle year %d", ErrReopenWrongYear, cycle.Year)
	}

	// Single-active invariant: the incumbent is closed, phases included,
	// before the target activates.
	active, err := s.cycleRepo.FindActiveCycle(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if active != nil && active.CycleID != cycleID {
		if err := s.cycleRepo.UpdateCycleStatus(ctx, active.CycleID, domain.CycleClosed, requestingUserID, now); err != nil {
			return nil, err
		}
		if err := s.cycleRepo.CloseAllPhases(ctx, active.CycleID, requestingUserID, now); err != nil {
			return nil, err
		}
		s.LogInfo(ctx, "Cycle deactivated", slog.String("cycle_id", active.CycleID))
	}

	if err := s.cycleRepo.UpdateCycleStatus(ctx, cycleID, domain.CycleActive, requestingUserID, now); err != nil {
		return nil, err
	}

	cycle.Status = domain.CycleActive
	s.LogInfo(ctx, "Cycle activated", slog.String("cycle_id", cycleID))
	return cycle, nil
}

func (s *cycleService) CloseCycle(ctx context.Context, cycleID string, requestingUserID string, now time.Time) (*domain.Cycle, error) {
	cycle, err := s.cycleRepo.FindCycleByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if !cycle.Status.CanTransitionTo(domain.CycleClosed) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCycleTransition, cycle.Status, domain.CycleClosed)
	}

	if err := s.cycleRepo.UpdateCycleStatus(ctx, cycleID, domain.CycleClosed, requestingUserID, now); err != nil {
		return nil, err
	}
	if err := s.cycleRepo.CloseAllPhases(ctx, cycleID, requestingUserID, now); err != nil {
		return nil, err
	}

	cycle.Status = domain.CycleClosed
	s.LogInfo(ctx, "Cycle closed", slog.String("cycle_id", cycleID))
	return cycle, nil
}

func (s *cycleService) ReopenCycle(ctx context.Context, cycleID string, requestingUserID string, now time.Time) (*domain.Cycle, error) {
	cycle, err := s.cycleRepo.FindCycleByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.Status != domain.CycleClosed {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCycleTransition, cycle.Status, domain.CycleActive)
	}
	if cycle.Year != now.UTC().Year() {
		return nil, fmt.Errorf("%w: cycle year %d", ErrReopenWrongYear, cycle.Year)
	}

	active, err := s.cycleRepo.FindActiveCycle(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if active != nil {
		return nil, fmt.Errorf("%w: %s", ErrActiveCycleExists, active.CycleID)
	}

	if err := s.cycleRepo.UpdateCycleStatus(ctx, cycleID, domain.CycleActive, requestingUserID, now); err != nil {
		return nil, err
	}

	cycle.Status = domain.CycleActive
	s.LogInfo(ctx, "Cycle reopened", slog.String("cycle_id", cycleID))
	return cycle, nil
}

func (s *cycleService) validatePhaseRequest(ctx context.Context, req dto.CreatePhaseRequest) error {
	switch req.PhaseType {
	case domain.PhaseDeclaration, domain.PhaseLoanApplication, domain.PhaseDeposits, domain.PhasePayout, domain.PhaseShareout:
	default:
		return fmt.Errorf("%w: unknown phase type %q", apperrors.ErrValidation, req.PhaseType)
	}
	if req.MonthlyStartDay < 1 || req.MonthlyStartDay > 31 || req.MonthlyEndDay < 1 || req.MonthlyEndDay > 31 {
		return ErrPhaseWindowDays
	}
	if req.PenaltyTypeID != nil {
		if _, err := s.penaltyRepo.FindPenaltyTypeByID(ctx, *req.PenaltyTypeID); err != nil {
			return err
		}
	}
	if req.AutoApplyPenalty && req.PenaltyTypeID == nil {
		return fmt.Errorf("%w: auto-apply requires a penalty type", apperrors.ErrValidation)
	}
	return nil
}

func (s *cycleService) CreatePhase(ctx context.Context, cycleID string, req dto.CreatePhaseRequest, creatorID string, now time.Time) (*domain.Phase, error) {
	cycle, err := s.cycleRepo.FindCycleByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle.Status == domain.CycleClosed {
		return nil, ErrCycleNotEditable
	}

	if err := s.validatePhaseRequest(ctx, req); err != nil {
		return nil, err
	}

	existing, err := s.cycleRepo.FindPhaseByType(ctx, cycleID, req.PhaseType)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrPhaseExists, req.PhaseType)
	}

	phase := domain.Phase{
		PhaseID:          uuid.NewString(),
		CycleID:          cycleID,
		PhaseType:        req.PhaseType,
		MonthlyStartDay:  req.MonthlyStartDay,
		MonthlyEndDay:    req.MonthlyEndDay,
		IsOpen:           false,
		PenaltyTypeID:    req.PenaltyTypeID,
		AutoApplyPenalty: req.AutoApplyPenalty,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorID,
		},
	}
	if err := s.cycleRepo.SavePhase(ctx, phase); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Phase created", slog.String("cycle_id", cycleID), slog.String("phase_type", string(req.PhaseType)))
	return &phase, nil
}

func (s *cycleService) UpdatePhase(ctx context.Context, phaseID string, req dto.CreatePhaseRequest, requestingUserID string, now time.Time) (*domain.Phase, error) {
	phase, err := s.cycleRepo.FindPhaseByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}

	cycle, err := s.cycleRepo.FindCycleByID(ctx, phase.CycleID)
	if err != nil {
		return nil, err
	}
	if cycle.Status == domain.CycleClosed {
		return nil, ErrCycleNotEditable
	}

	if err := s.validatePhaseRequest(ctx, req); err != nil {
		return nil, err
	}

	phase.MonthlyStartDay = req.MonthlyStartDay
	phase.MonthlyEndDay = req.MonthlyEndDay
	phase.PenaltyTypeID = req.PenaltyTypeID
	phase.AutoApplyPenalty = req.AutoApplyPenalty
	phase.LastUpdatedAt = now
	phase.LastUpdatedBy = requestingUserID

	if err := s.cycleRepo.UpdatePhase(ctx, *phase); err != nil {
		return nil, err
	}
	return phase, nil
}

func (s *cycleService) SetPhaseOpen(ctx context.Context, phaseID string, open bool, requestingUserID string, now time.Time) (*domain.Phase, error) {
	phase, err := s.cycleRepo.FindPhaseByID(ctx, phaseID)
	if err != nil {
		return nil, err
	}

	cycle, err := s.cycleRepo.FindCycleByID(ctx, phase.CycleID)
	if err != nil {
		return nil, err
	}
	if open && cycle.Status != domain.CycleActive {
		return nil, fmt.Errorf("%w: phases open only in an active cycle", apperrors.ErrConflict)
	}

	phase.IsOpen = open
	phase.LastUpdatedAt = now
	phase.LastUpdatedBy = requestingUserID

	if err := s.cycleRepo.UpdatePhase(ctx, *phase); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Phase toggled", slog.String("phase_id", phaseID), slog.Bool("open", open))
	return phase, nil
}
