package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teddynyambe/luboss-vb-sub000/internal/apperrors"
	"github.com/teddynyambe/luboss-vb-sub000/internal/core/domain"
	portsrepo "github.com/teddynyambe/luboss-vb-sub000/internal/core/ports/repositories"
)

const applicationColumns = `application_id, member_id, cycle_id, amount, term_months, interest_rate, purpose, status,
	created_at, created_by, last_updated_at, last_updated_by`

const loanColumns = `loan_id, application_id, member_id, cycle_id, principal, interest_rate, term_months, status,
	disbursed_at, closed_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxLoanRepository struct {
	BaseRepository
}

// newPgxLoanRepository creates a new repository for loan application and loan data.
func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

func scanApplication(row pgx.Row) (*domain.LoanApplication, error) {
	var a domain.LoanApplication
	err := row.Scan(
		&a.ApplicationID,
		&a.MemberID,
		&a.CycleID,
		&a.Amount,
		&a.TermMonths,
		&a.InterestRate,
		&a.Purpose,
		&a.Status,
		&a.CreatedAt,
		&a.CreatedBy,
		&a.LastUpdatedAt,
		&a.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanLoan(row pgx.Row) (*domain.Loan, error) {
	var l domain.Loan
	err := row.Scan(
		&l.LoanID,
		&l.ApplicationID,
		&l.MemberID,
		&l.CycleID,
		&l.Principal,
		&l.InterestRate,
		&l.TermMonths,
		&l.Status,
		&l.DisbursedAt,
		&l.ClosedAt,
		&l.CreatedAt,
		&l.CreatedBy,
		&l.LastUpdatedAt,
		&l.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *PgxLoanRepository) FindApplicationByID(ctx context.Context, applicationID string) (*domain.LoanApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM loan_applications WHERE application_id = $1;`

	application, err := scanApplication(r.Pool.QueryRow(ctx, query, applicationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find application by ID "+applicationID, err)
	}
	return application, nil
}

func (r *PgxLoanRepository) FindPendingApplicationByMember(ctx context.Context, memberID, cycleID string) (*domain.LoanApplication, error) {
	query := `SELECT ` + applicationColumns + ` FROM loan_applications
		WHERE member_id = $1 AND cycle_id = $2 AND status = 'PENDING' LIMIT 1;`

	application, err := scanApplication(r.Pool.QueryRow(ctx, query, memberID, cycleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find pending application for member "+memberID, err)
	}
	return application, nil
}

func (r *PgxLoanRepository) ListApplicationsByCycle(ctx context.Context, cycleID string, status *domain.LoanApplicationStatus) ([]domain.LoanApplication, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == nil {
		query := `SELECT ` + applicationColumns + ` FROM loan_applications WHERE cycle_id = $1 ORDER BY created_at DESC;`
		rows, err = r.Pool.Query(ctx, query, cycleID)
	} else {
		query := `SELECT ` + applicationColumns + ` FROM loan_applications WHERE cycle_id = $1 AND status = $2 ORDER BY created_at DESC;`
		rows, err = r.Pool.Query(ctx, query, cycleID, *status)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query applications for cycle "+cycleID, err)
	}
	defer rows.Close()

	var applications []domain.LoanApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan application row", err)
		}
		applications = append(applications, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating application rows", err)
	}
	return applications, nil
}

func (r *PgxLoanRepository) SaveApplication(ctx context.Context, application domain.LoanApplication) error {
	query := `
		INSERT INTO loan_applications (application_id, member_id, cycle_id, amount, term_months, interest_rate, purpose, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		application.ApplicationID,
		application.MemberID,
		application.CycleID,
		application.Amount,
		application.TermMonths,
		application.InterestRate,
		application.Purpose,
		application.Status,
		application.CreatedAt,
		application.CreatedBy,
		application.LastUpdatedAt,
		application.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert application "+application.ApplicationID, err)
	}
	return nil
}

func (r *PgxLoanRepository) UpdateApplication(ctx context.Context, application domain.LoanApplication) error {
	query := `
		UPDATE loan_applications
		SET amount = $2, term_months = $3, interest_rate = $4, purpose = $5, status = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE application_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		application.ApplicationID,
		application.Amount,
		application.TermMonths,
		application.InterestRate,
		application.Purpose,
		application.Status,
		application.LastUpdatedAt,
		application.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update application "+application.ApplicationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE loan_id = $1;`

	loan, err := scanLoan(r.Pool.QueryRow(ctx, query, loanID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find loan by ID "+loanID, err)
	}
	return loan, nil
}

func (r *PgxLoanRepository) FindOpenLoanByMember(ctx context.Context, memberID string) (*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE member_id = $1 AND status = 'OPEN' LIMIT 1;`

	loan, err := scanLoan(r.Pool.QueryRow(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find open loan for member "+memberID, err)
	}
	return loan, nil
}

func (r *PgxLoanRepository) ListLoansByMember(ctx context.Context, memberID string) ([]domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE member_id = $1 ORDER BY disbursed_at DESC;`

	rows, err := r.Pool.Query(ctx, query, memberID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query loans for member "+memberID, err)
	}
	return collectLoans(rows)
}

func (r *PgxLoanRepository) ListLoansByCycle(ctx context.Context, cycleID string, status *domain.LoanStatus) ([]domain.Loan, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if status == nil {
		query := `SELECT ` + loanColumns + ` FROM loans WHERE cycle_id = $1 ORDER BY disbursed_at DESC;`
		rows, err = r.Pool.Query(ctx, query, cycleID)
	} else {
		query := `SELECT ` + loanColumns + ` FROM loans WHERE cycle_id = $1 AND status = $2 ORDER BY disbursed_at DESC;`
		rows, err = r.Pool.Query(ctx, query, cycleID, *status)
	}
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query loans for cycle "+cycleID, err)
	}
	return collectLoans(rows)
}

func collectLoans(rows pgx.Rows) ([]domain.Loan, error) {
	defer rows.Close()

	var loans []domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan loan row", err)
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating loan rows", err)
	}
	return loans, nil
}

func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	query := `
		INSERT INTO loans (loan_id, application_id, member_id, cycle_id, principal, interest_rate, term_months, status,
			disbursed_at, closed_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		loan.LoanID,
		loan.ApplicationID,
		loan.MemberID,
		loan.CycleID,
		loan.Principal,
		loan.InterestRate,
		loan.TermMonths,
		loan.Status,
		loan.DisbursedAt,
		loan.ClosedAt,
		loan.CreatedAt,
		loan.CreatedBy,
		loan.LastUpdatedAt,
		loan.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert loan "+loan.LoanID, err)
	}
	return nil
}

func (r *PgxLoanRepository) UpdateLoanStatus(ctx context.Context, loanID string, status domain.LoanStatus, closedAt *time.Time, userID string, now time.Time) error {
	query := `
		UPDATE loans
		SET status = $2, closed_at = $3, last_updated_at = $4, last_updated_by = $5
		WHERE loan_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, loanID, status, closedAt, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update loan status "+loanID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
