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

const declarationColumns = `declaration_id, member_id, cycle_id, effective_month,
	savings, social_fund, admin_fund, penalties, loan_interest, loan_repayment, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxDeclarationRepository struct {
	BaseRepository
}

// newPgxDeclarationRepository creates a new repository for declaration data.
func newPgxDeclarationRepository(pool *pgxpool.Pool) portsrepo.DeclarationRepositoryFacade {
	return &PgxDeclarationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DeclarationRepositoryFacade = (*PgxDeclarationRepository)(nil)

func scanDeclaration(row pgx.Row) (*domain.Declaration, error) {
	var d domain.Declaration
	err := row.Scan(
		&d.DeclarationID,
		&d.MemberID,
		&d.CycleID,
		&d.EffectiveMonth,
		&d.Amounts.Savings,
		&d.Amounts.SocialFund,
		&d.Amounts.AdminFund,
		&d.Amounts.Penalties,
		&d.Amounts.LoanInterest,
		&d.Amounts.LoanRepayment,
		&d.Status,
		&d.CreatedAt,
		&d.CreatedBy,
		&d.LastUpdatedAt,
		&d.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxDeclarationRepository) FindDeclarationByID(ctx context.Context, declarationID string) (*domain.Declaration, error) {
	query := `SELECT ` + declarationColumns + ` FROM declarations WHERE declaration_id = $1;`

	declaration, err := scanDeclaration(r.Pool.QueryRow(ctx, query, declarationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find declaration by ID "+declarationID, err)
	}
	return declaration, nil
}

func (r *PgxDeclarationRepository) FindDeclaration(ctx context.Context, memberID, cycleID string, effectiveMonth time.Time) (*domain.Declaration, error) {
	query := `SELECT ` + declarationColumns + ` FROM declarations
		WHERE member_id = $1 AND cycle_id = $2 AND effective_month = $3;`

	declaration, err := scanDeclaration(r.Pool.QueryRow(ctx, query, memberID, cycleID, effectiveMonth))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find declaration for member "+memberID, err)
	}
	return declaration, nil
}

func (r *PgxDeclarationRepository) ListDeclarationsByMember(ctx context.Context, memberID, cycleID string) ([]domain.Declaration, error) {
	query := `SELECT ` + declarationColumns + ` FROM declarations
		WHERE member_id = $1 AND cycle_id = $2 ORDER BY effective_month DESC;`

	return r.queryDeclarations(ctx, query, memberID, cycleID)
}

func (r *PgxDeclarationRepository) ListDeclarationsByMonth(ctx context.Context, cycleID string, effectiveMonth time.Time) ([]domain.Declaration, error) {
	query := `SELECT ` + declarationColumns + ` FROM declarations
		WHERE cycle_id = $1 AND effective_month = $2 ORDER BY created_at;`

	return r.queryDeclarations(ctx, query, cycleID, effectiveMonth)
}

func (r *PgxDeclarationRepository) queryDeclarations(ctx context.Context, query string, args ...any) ([]domain.Declaration, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query declarations", err)
	}
	defer rows.Close()

	var declarations []domain.Declaration
	for rows.Next() {
		d, err := scanDeclaration(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan declaration row", err)
		}
		declarations = append(declarations, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating declaration rows", err)
	}
	return declarations, nil
}

func (r *PgxDeclarationRepository) SaveDeclaration(ctx context.Context, declaration domain.Declaration) error {
	query := `
		INSERT INTO declarations (declaration_id, member_id, cycle_id, effective_month,
			savings, social_fund, admin_fund, penalties, loan_interest, loan_repayment, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
	`
	_, err := r.Pool.Exec(ctx, query,
		declaration.DeclarationID,
		declaration.MemberID,
		declaration.CycleID,
		declaration.EffectiveMonth,
		declaration.Amounts.Savings,
		declaration.Amounts.SocialFund,
		declaration.Amounts.AdminFund,
		declaration.Amounts.Penalties,
		declaration.Amounts.LoanInterest,
		declaration.Amounts.LoanRepayment,
		declaration.Status,
		declaration.CreatedAt,
		declaration.CreatedBy,
		declaration.LastUpdatedAt,
		declaration.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.NewAppError(409, "declaration already exists for month", apperrors.ErrDuplicate)
		}
		return apperrors.NewAppError(500, "failed to insert declaration "+declaration.DeclarationID, err)
	}
	return nil
}

func (r *PgxDeclarationRepository) UpdateDeclaration(ctx context.Context, declaration domain.Declaration) error {
	query := `
		UPDATE declarations
		SET savings = $2, social_fund = $3, admin_fund = $4, penalties = $5,
		    loan_interest = $6, loan_repayment = $7, status = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE declaration_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		declaration.DeclarationID,
		declaration.Amounts.Savings,
		declaration.Amounts.SocialFund,
		declaration.Amounts.AdminFund,
		declaration.Amounts.Penalties,
		declaration.Amounts.LoanInterest,
		declaration.Amounts.LoanRepayment,
		declaration.Status,
		declaration.LastUpdatedAt,
		declaration.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update declaration "+declaration.DeclarationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
