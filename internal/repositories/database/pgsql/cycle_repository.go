package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
)

const cycleColumns = `cycle_id, year, name, status, max_loan_amount, social_fund_annual, admin_fund_annual,
	created_at, created_by, last_updated_at, last_updated_by`

const phaseColumns = `phase_id, cycle_id, phase_type, monthly_start_day, monthly_end_day, is_open,
	penalty_type_id, auto_apply_penalty, created_at, created_by, last_updated_at, last_updated_by`

type PgxCycleRepository struct {
	BaseRepository
}

// newPgxCycleRepository creates a new repository for cycle and phase data.
func newPgxCycleRepository(pool *pgxpool.Pool) portsrepo.CycleRepositoryFacade {
	return &PgxCycleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CycleRepositoryFacade = (*PgxCycleRepository)(nil)

func scanCycle(row pgx.Row) (*domain.Cycle, error) {
	var c domain.Cycle
	err := row.Scan(
		&c.CycleID,
		&c.Year,
		&c.Name,
		&c.Status,
		&c.MaxLoanAmount,
		&c.SocialFundAnnual,
		&c.AdminFundAnnual,
		&c.CreatedAt,
		&c.CreatedBy,
		&c.LastUpdatedAt,
		&c.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanPhase(row pgx.Row) (*domain.Phase, error) {
	var p domain.Phase
	err := row.Scan(
		&p.PhaseID,
		&p.CycleID,
		&p.PhaseType,
		&p.MonthlyStartDay,
		&p.MonthlyEndDay,
		&p.IsOpen,
		&p.PenaltyTypeID,
		&p.AutoApplyPenalty,
		&p.CreatedAt,
		&p.CreatedBy,
		&p.LastUpdatedAt,
		&p.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PgxCycleRepository) FindCycleByID(ctx context.Context, cycleID string) (*domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles WHERE cycle_id = $1;`

	cycle, err := scanCycle(r.Pool.QueryRow(ctx, query, cycleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find cycle by ID "+cycleID, err)
	}
	return cycle, nil
}

func (r *PgxCycleRepository) FindActiveCycle(ctx context.Context) (*domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles WHERE status = 'ACTIVE' LIMIT 1;`

	cycle, err := scanCycle(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find active cycle", err)
	}
	return cycle, nil
}

func (r *PgxCycleRepository) FindCycleByYear(ctx context.Context, year int) (*domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles WHERE year = $1;`

	cycle, err := scanCycle(r.Pool.QueryRow(ctx, query, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find cycle by year", err)
	}
	return cycle, nil
}

func (r *PgxCycleRepository) ListCycles(ctx context.Context) ([]domain.Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM cycles ORDER BY year DESC;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query cycles", err)
	}
	defer rows.Close()

	var cycles []domain.Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan cycle row", err)
		}
		cycles = append(cycles, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating cycle rows", err)
	}
	return cycles, nil
}

func (r *PgxCycleRepository) SaveCycle(ctx context.Context, cycle domain.Cycle) error {
	query := `
		INSERT INTO cycles (cycle_id, year, name, status, max_loan_amount, social_fund_annual, admin_fund_annual,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		cycle.CycleID,
		cycle.Year,
		cycle.Name,
		cycle.Status,
		cycle.MaxLoanAmount,
		cycle.SocialFundAnnual,
		cycle.AdminFundAnnual,
		cycle.CreatedAt,
		cycle.CreatedBy,
		cycle.LastUpdatedAt,
		cycle.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "cycle already exists for year", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert cycle "+cycle.CycleID, err)
	}
	return nil
}

func (r *PgxCycleRepository) UpdateCycleStatus(ctx context.Context, cycleID string, status domain.CycleStatus, userID string, now time.Time) error {
	query := `
		UPDATE cycles
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE cycle_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, cycleID, status, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update cycle status "+cycleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCycleRepository) FindPhaseByID(ctx context.Context, phaseID string) (*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE phase_id = $1;`

	phase, err := scanPhase(r.Pool.QueryRow(ctx, query, phaseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find phase by ID "+phaseID, err)
	}
	return phase, nil
}

func (r *PgxCycleRepository) FindPhaseByType(ctx context.Context, cycleID string, phaseType domain.PhaseType) (*domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE cycle_id = $1 AND phase_type = $2;`

	phase, err := scanPhase(r.Pool.QueryRow(ctx, query, cycleID, phaseType))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find phase by type "+string(phaseType), err)
	}
	return phase, nil
}

func (r *PgxCycleRepository) ListPhasesByCycle(ctx context.Context, cycleID string) ([]domain.Phase, error) {
	query := `SELECT ` + phaseColumns + ` FROM phases WHERE cycle_id = $1 ORDER BY phase_type;`

	rows, err := r.Pool.Query(ctx, query, cycleID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query phases for cycle "+cycleID, err)
	}
	defer rows.Close()

	var phases []domain.Phase
	for rows.Next() {
		p, err := scanPhase(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan phase row", err)
		}
		phases = append(phases, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating phase rows", err)
	}
	return phases, nil
}

func (r *PgxCycleRepository) SavePhase(ctx context.Context, phase domain.Phase) error {
	query := `
		INSERT INTO phases (phase_id, cycle_id, phase_type, monthly_start_day, monthly_end_day, is_open,
			penalty_type_id, auto_apply_penalty, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		phase.PhaseID,
		phase.CycleID,
		phase.PhaseType,
		phase.MonthlyStartDay,
		phase.MonthlyEndDay,
		phase.IsOpen,
		phase.PenaltyTypeID,
		phase.AutoApplyPenalty,
		phase.CreatedAt,
		phase.CreatedBy,
		phase.LastUpdatedAt,
		phase.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "phase type already exists in cycle", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert phase "+phase.PhaseID, err)
	}
	return nil
}

func (r *PgxCycleRepository) UpdatePhase(ctx context.Context, phase domain.Phase) error {
	query := `
		UPDATE phases
		SET monthly_start_day = $2, monthly_end_day = $3, is_open = $4,
		    penalty_type_id = $5, auto_apply_penalty = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE phase_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		phase.PhaseID,
		phase.MonthlyStartDay,
		phase.MonthlyEndDay,
		phase.IsOpen,
		phase.PenaltyTypeID,
		phase.AutoApplyPenalty,
		phase.LastUpdatedAt,
		phase.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update phase "+phase.PhaseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxCycleRepository) CloseAllPhases(ctx context.Context, cycleID string, userID string, now time.Time) error {
	query := `
		UPDATE phases
		SET is_open = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE cycle_id = $1;
	`
	if _, err := r.Pool.Exec(ctx, query, cycleID, now, userID); err != nil {
		return apperrors.NewAppError(500, "failed to close phases for cycle "+cycleID, err)
	}
	return nil
}
