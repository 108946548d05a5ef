package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
)

const penaltyColumns = `penalty_id, member_id, penalty_type_id, amount, period, reason, status, journal_id,
	created_at, created_by, last_updated_at, last_updated_by`

const penaltyTypeColumns = `penalty_type_id, name, fee, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxPenaltyRepository struct {
	BaseRepository
}

// newPgxPenaltyRepository creates a new repository for penalty records and types.
func newPgxPenaltyRepository(pool *pgxpool.Pool) portsrepo.PenaltyRepositoryFacade {
	return &PgxPenaltyRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PenaltyRepositoryFacade = (*PgxPenaltyRepository)(nil)

func scanPenalty(row pgx.Row) (*domain.PenaltyRecord, error) {
	var p domain.PenaltyRecord
	err := row.Scan(
		&p.PenaltyID,
		&p.MemberID,
		&p.PenaltyTypeID,
		&p.Amount,
		&p.Period,
		&p.Reason,
		&p.Status,
		&p.JournalID,
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

func scanPenaltyType(row pgx.Row) (*domain.PenaltyType, error) {
	var t domain.PenaltyType
	err := row.Scan(
		&t.PenaltyTypeID,
		&t.Name,
		&t.Fee,
		&t.IsActive,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.LastUpdatedAt,
		&t.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgxPenaltyRepository) FindPenaltyByID(ctx context.Context, penaltyID string) (*domain.PenaltyRecord, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalties WHERE penalty_id = $1;`

	penalty, err := scanPenalty(r.Pool.QueryRow(ctx, query, penaltyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find penalty by ID "+penaltyID, err)
	}
	return penalty, nil
}

func (r *PgxPenaltyRepository) FindMatchingPenalty(ctx context.Context, memberID, penaltyTypeID, period string) (*domain.PenaltyRecord, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalties
		WHERE member_id = $1 AND penalty_type_id = $2 AND period = $3;`

	penalty, err := scanPenalty(r.Pool.QueryRow(ctx, query, memberID, penaltyTypeID, period))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find matching penalty for member "+memberID, err)
	}
	return penalty, nil
}

func (r *PgxPenaltyRepository) ListPenaltiesByStatus(ctx context.Context, status domain.PenaltyStatus) ([]domain.PenaltyRecord, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalties WHERE status = $1 ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, status)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query penalties by status", err)
	}
	return collectPenalties(rows)
}

func (r *PgxPenaltyRepository) ListUnpaidPenaltiesByMember(ctx context.Context, memberID string) ([]domain.PenaltyRecord, error) {
	query := `SELECT ` + penaltyColumns + ` FROM penalties
		WHERE member_id = $1 AND status IN ('PENDING', 'APPROVED') ORDER BY created_at;`

	rows, err := r.Pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query unpaid penalties for member "+memberID, err)
	}
	return collectPenalties(rows)
}

func collectPenalties(rows pgx.Rows) ([]domain.PenaltyRecord, error) {
	defer rows.Close()

	var penalties []domain.PenaltyRecord
	for rows.Next() {
		p, err := scanPenalty(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan penalty row", err)
		}
		penalties = append(penalties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating penalty rows", err)
	}
	return penalties, nil
}

func (r *PgxPenaltyRepository) SavePenalty(ctx context.Context, penalty domain.PenaltyRecord) error {
	query := `
		INSERT INTO penalties (penalty_id, member_id, penalty_type_id, amount, period, reason, status, journal_id,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		penalty.PenaltyID,
		penalty.MemberID,
		penalty.PenaltyTypeID,
		penalty.Amount,
		penalty.Period,
		penalty.Reason,
		penalty.Status,
		penalty.JournalID,
		penalty.CreatedAt,
		penalty.CreatedBy,
		penalty.LastUpdatedAt,
		penalty.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "penalty already exists for period", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert penalty "+penalty.PenaltyID, err)
	}
	return nil
}

func (r *PgxPenaltyRepository) UpdatePenalty(ctx context.Context, penalty domain.PenaltyRecord) error {
	query := `
		UPDATE penalties
		SET status = $2, journal_id = $3, reason = $4, last_updated_at = $5, last_updated_by = $6
		WHERE penalty_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		penalty.PenaltyID,
		penalty.Status,
		penalty.JournalID,
		penalty.Reason,
		penalty.LastUpdatedAt,
		penalty.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update penalty "+penalty.PenaltyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPenaltyRepository) FindPenaltyTypeByID(ctx context.Context, penaltyTypeID string) (*domain.PenaltyType, error) {
	query := `SELECT ` + penaltyTypeColumns + ` FROM penalty_types WHERE penalty_type_id = $1;`

	penaltyType, err := scanPenaltyType(r.Pool.QueryRow(ctx, query, penaltyTypeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find penalty type by ID "+penaltyTypeID, err)
	}
	return penaltyType, nil
}

func (r *PgxPenaltyRepository) ListPenaltyTypes(ctx context.Context) ([]domain.PenaltyType, error) {
	query := `SELECT ` + penaltyTypeColumns + ` FROM penalty_types ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query penalty types", err)
	}
	defer rows.Close()

	var types []domain.PenaltyType
	for rows.Next() {
		t, err := scanPenaltyType(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan penalty type row", err)
		}
		types = append(types, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating penalty type rows", err)
	}
	return types, nil
}

func (r *PgxPenaltyRepository) SavePenaltyType(ctx context.Context, penaltyType domain.PenaltyType) error {
	query := `
		INSERT INTO penalty_types (penalty_type_id, name, fee, is_active,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		penaltyType.PenaltyTypeID,
		penaltyType.Name,
		penaltyType.Fee,
		penaltyType.IsActive,
		penaltyType.CreatedAt,
		penaltyType.CreatedBy,
		penaltyType.LastUpdatedAt,
		penaltyType.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "penalty type name already exists", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert penalty type "+penaltyType.PenaltyTypeID, err)
	}
	return nil
}
